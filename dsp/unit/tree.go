package unit

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Token identifies one observer registration. The zero Token identifies no
// one and is used as originator for changes that every observer must see.
type Token struct {
	id uuid.UUID
}

// IsZero reports whether t is the zero token.
func (t Token) IsZero() bool {
	return t.id == uuid.Nil
}

// String returns the token id.
func (t Token) String() string {
	return t.id.String()
}

// ObserverFunc receives parameter changes by address.
type ObserverFunc func(address uint64, value float32)

// ImplementorFunc is the unit-side sink for values written through the tree.
type ImplementorFunc func(p *Parameter, value float32)

type observer struct {
	token Token
	fn    ObserverFunc
}

// Tree maps parameter keys and addresses to parameters and fans value
// changes out to observers.
type Tree struct {
	params []*Parameter
	byKey  map[string]*Parameter
	byAddr map[uint64]*Parameter

	mu          sync.RWMutex
	observers   []observer
	implementor ImplementorFunc
}

// NewTree builds a tree from specs. Identifiers and addresses must be unique.
func NewTree(specs ...ParameterSpec) (*Tree, error) {
	t := &Tree{
		params: make([]*Parameter, 0, len(specs)),
		byKey:  make(map[string]*Parameter, len(specs)),
		byAddr: make(map[uint64]*Parameter, len(specs)),
	}

	for _, spec := range specs {
		if spec.Identifier == "" {
			return nil, fmt.Errorf("%w: empty identifier at address %d", ErrDuplicateParameter, spec.Address)
		}
		if _, ok := t.byKey[spec.Identifier]; ok {
			return nil, fmt.Errorf("%w: identifier %q", ErrDuplicateParameter, spec.Identifier)
		}
		if _, ok := t.byAddr[spec.Address]; ok {
			return nil, fmt.Errorf("%w: address %d", ErrDuplicateParameter, spec.Address)
		}

		p := newParameter(spec, t)
		t.params = append(t.params, p)
		t.byKey[spec.Identifier] = p
		t.byAddr[spec.Address] = p
	}

	return t, nil
}

// Get returns the parameter with the given identifier, or nil.
func (t *Tree) Get(key string) *Parameter {
	if t == nil {
		return nil
	}
	return t.byKey[key]
}

// ByAddress returns the parameter at addr, or nil.
func (t *Tree) ByAddress(addr uint64) *Parameter {
	if t == nil {
		return nil
	}
	return t.byAddr[addr]
}

// All returns the parameters in declaration order.
func (t *Tree) All() []*Parameter {
	if t == nil {
		return nil
	}
	out := make([]*Parameter, len(t.params))
	copy(out, t.params)
	return out
}

// AddObserver registers fn and returns the token that identifies it.
func (t *Tree) AddObserver(fn ObserverFunc) Token {
	tok := Token{id: uuid.New()}
	if fn == nil {
		return tok
	}

	t.mu.Lock()
	t.observers = append(t.observers, observer{token: tok, fn: fn})
	t.mu.Unlock()

	return tok
}

// RemoveObserver drops the registration for tok. Unknown tokens are ignored.
func (t *Tree) RemoveObserver(tok Token) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i, o := range t.observers {
		if o.token == tok {
			t.observers = append(t.observers[:i], t.observers[i+1:]...)
			return
		}
	}
}

// SetImplementor installs the unit-side sink for tree writes.
func (t *Tree) SetImplementor(fn ImplementorFunc) {
	t.mu.Lock()
	t.implementor = fn
	t.mu.Unlock()
}

// dispatch runs outside the lock so observers may write back into the tree.
func (t *Tree) dispatch(p *Parameter, v float32, originator Token) {
	t.mu.RLock()
	impl := t.implementor
	targets := make([]ObserverFunc, 0, len(t.observers))
	for _, o := range t.observers {
		if !originator.IsZero() && o.token == originator {
			continue
		}
		targets = append(targets, o.fn)
	}
	t.mu.RUnlock()

	if impl != nil {
		impl(p, v)
	}
	for _, fn := range targets {
		fn(p.Address, v)
	}
}
