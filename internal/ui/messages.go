package ui

import tea "github.com/charmbracelet/bubbletea"

// LevelMsg reports the output peak of the last rendered block.
type LevelMsg struct {
	Peak float64 // linear, 1.0 is full scale
}

// ErrorMsg reports a render failure. The model shows it and keeps running.
type ErrorMsg struct {
	Err error
}

// waitForLevel blocks on ch for the next render update.
func waitForLevel(ch <-chan tea.Msg) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		return msg
	}
}
