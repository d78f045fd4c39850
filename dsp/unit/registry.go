package unit

import (
	"fmt"
	"sort"
	"sync"
)

// Factory builds one AudioUnit instance for a component.
type Factory func(desc Description) (AudioUnit, error)

// Registry maps component codes to their factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[FourCC]Factory
	descs     map[FourCC]Description
}

// Default is the process-wide registry effect packages register into.
var Default = NewRegistry()

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[FourCC]Factory),
		descs:     make(map[FourCC]Description),
	}
}

// Register adds a factory for desc.Code.
func (r *Registry) Register(desc Description, factory Factory) error {
	if desc.Code.IsZero() {
		return fmt.Errorf("%w: empty component code", ErrInvalidFourCC)
	}

	if factory == nil {
		return fmt.Errorf("unit: nil factory for %s", desc.Code)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[desc.Code]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateComponent, desc.Code)
	}

	r.factories[desc.Code] = factory
	r.descs[desc.Code] = desc

	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(desc Description, factory Factory) {
	err := r.Register(desc, factory)
	if err != nil {
		panic(err.Error())
	}
}

// Lookup returns the description registered under code.
func (r *Registry) Lookup(code FourCC) (Description, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	desc, ok := r.descs[code]
	return desc, ok
}

// Components lists registered descriptions sorted by code.
func (r *Registry) Components() []Description {
	r.mu.RLock()
	out := make([]Description, 0, len(r.descs))
	for _, d := range r.descs {
		out = append(out, d)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].Code.Uint32() < out[j].Code.Uint32()
	})
	return out
}

// New builds a unit for code.
func (r *Registry) New(code FourCC) (AudioUnit, error) {
	r.mu.RLock()
	factory, ok := r.factories[code]
	desc := r.descs[code]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownComponent, code)
	}

	u, err := factory(desc)
	if err != nil {
		return nil, fmt.Errorf("unit: instantiate %s: %w", code, err)
	}
	return u, nil
}

// Instantiate builds a unit for code and hands the result to completion.
// completion runs before Instantiate returns.
func (r *Registry) Instantiate(code FourCC, completion func(AudioUnit, error)) {
	u, err := r.New(code)
	if completion != nil {
		completion(u, err)
	}
}
