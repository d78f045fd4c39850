// Package ui provides the Bubbletea parameter editor for the guitar
// processor.
package ui

import (
	"math"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cwbudde/algo-rhino/dsp/core"
	"github.com/cwbudde/algo-rhino/dsp/unit"
)

// Processor is the part of the node the editor drives.
type Processor interface {
	Value(key string) (float64, bool)
	SetValue(key string, v float64) bool
	Start()
	Stop()
	IsStarted() bool
}

// steps per full parameter range
const (
	fineSteps   = 50
	coarseSteps = 10
)

// Row is one editable parameter.
type Row struct {
	Key  string
	Name string
	Unit string
	Min  float64
	Max  float64
}

func (r Row) step(coarse bool) float64 {
	n := fineSteps
	if coarse {
		n = coarseSteps
	}
	return (r.Max - r.Min) / float64(n)
}

// Model is the Bubbletea model for the editor.
type Model struct {
	Proc   Processor
	Rows   []Row
	Cursor int

	Title string
	Peak  float64
	Err   error

	// Levels carries LevelMsg and ErrorMsg from the render loop.
	Levels <-chan tea.Msg

	Width  int
	Height int
}

// NewModel builds an editor with one row per spec that p binds. Specs the
// processor does not expose, such as read-only or construction-time
// parameters, are skipped.
func NewModel(p Processor, specs []unit.ParameterSpec, levels <-chan tea.Msg) Model {
	rows := make([]Row, 0, len(specs))
	for _, s := range specs {
		if _, ok := p.Value(s.Identifier); !ok {
			continue
		}
		rows = append(rows, Row{
			Key:  s.Identifier,
			Name: s.Name,
			Unit: s.Unit,
			Min:  float64(s.Min),
			Max:  float64(s.Max),
		})
	}

	return Model{
		Proc:   p,
		Rows:   rows,
		Title:  "Rhino Guitar Processor",
		Levels: levels,
	}
}

// Init starts listening for render updates.
func (m Model) Init() tea.Cmd {
	return waitForLevel(m.Levels)
}

// Update handles key presses and render updates.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Rows)-1 {
				m.Cursor++
			}
		case "left", "h":
			m.nudge(-1, false)
		case "right", "l":
			m.nudge(1, false)
		case "shift+left", "H":
			m.nudge(-1, true)
		case "shift+right", "L":
			m.nudge(1, true)
		case "s", " ":
			if m.Proc.IsStarted() {
				m.Proc.Stop()
			} else {
				m.Proc.Start()
			}
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height

	case LevelMsg:
		m.Peak = msg.Peak
		return m, waitForLevel(m.Levels)

	case ErrorMsg:
		m.Err = msg.Err
		return m, waitForLevel(m.Levels)
	}

	return m, nil
}

func (m *Model) nudge(dir float64, coarse bool) {
	if m.Cursor < 0 || m.Cursor >= len(m.Rows) {
		return
	}
	row := m.Rows[m.Cursor]
	cur, ok := m.Proc.Value(row.Key)
	if !ok {
		return
	}

	next := core.Clamp(cur+dir*row.step(coarse), row.Min, row.Max)
	// keep values on a readable grid
	next = math.Round(next*1e4) / 1e4
	if core.NearlyEqual(next, cur, 1e-9) {
		return
	}
	m.Proc.SetValue(row.Key, next)
}

// View renders the editor.
func (m Model) View() string {
	return renderEditor(m)
}
