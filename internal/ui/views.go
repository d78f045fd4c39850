package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	barWidth   = 24
	meterWidth = 32
)

var (
	accent = lipgloss.Color("#A40000")
	muted  = lipgloss.Color("#888888")
	dim    = lipgloss.Color("#444444")
)

func renderEditor(m Model) string {
	var b strings.Builder

	b.WriteString(renderHeader(m))
	b.WriteString("\n\n")
	b.WriteString(renderRows(m))
	b.WriteString("\n")
	b.WriteString(renderMeter(m.Peak))
	b.WriteString("\n\n")

	if m.Err != nil {
		b.WriteString(lipgloss.NewStyle().Foreground(accent).Render("error: " + m.Err.Error()))
		b.WriteString("\n\n")
	}

	b.WriteString(lipgloss.NewStyle().Foreground(muted).Render(
		"↑/↓ select  ←/→ adjust  shift+←/→ coarse  s start/stop  q quit"))

	return b.String()
}

func renderHeader(m Model) string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(accent).
		Render(m.Title)

	state := "bypassed"
	color := muted
	if m.Proc.IsStarted() {
		state = "processing"
		color = lipgloss.Color("#00AA00")
	}
	status := lipgloss.NewStyle().Foreground(color).Italic(true).Render(state)

	return title + "  " + status
}

func renderRows(m Model) string {
	var b strings.Builder

	nameWidth := 0
	for _, r := range m.Rows {
		nameWidth = max(nameWidth, len(r.Name))
	}

	for i, r := range m.Rows {
		v, _ := m.Proc.Value(r.Key)

		cursor := "  "
		nameStyle := lipgloss.NewStyle()
		if i == m.Cursor {
			cursor = lipgloss.NewStyle().Foreground(accent).Render("▸ ")
			nameStyle = nameStyle.Bold(true)
		}

		name := nameStyle.Render(fmt.Sprintf("%-*s", nameWidth, r.Name))
		b.WriteString(fmt.Sprintf("%s%s  %s %8.3f\n", cursor, name, renderBar(v, r.Min, r.Max), v))
	}

	return b.String()
}

// renderBar draws v's position within [lo, hi].
func renderBar(v, lo, hi float64) string {
	frac := 0.0
	if hi > lo {
		frac = (v - lo) / (hi - lo)
	}
	frac = math.Max(0, math.Min(1, frac))
	filled := int(math.Round(frac * barWidth))

	return lipgloss.NewStyle().Foreground(accent).Render(strings.Repeat("━", filled)) +
		lipgloss.NewStyle().Foreground(dim).Render(strings.Repeat("━", barWidth-filled))
}

func renderMeter(peak float64) string {
	db := -math.Inf(1)
	if peak > 0 {
		db = 20 * math.Log10(peak)
	}

	// -60 dBFS .. 0 dBFS
	frac := 0.0
	if !math.IsInf(db, -1) {
		frac = math.Max(0, math.Min(1, (db+60)/60))
	}
	filled := int(math.Round(frac * meterWidth))

	color := lipgloss.Color("#00AA00")
	if db > -1 {
		color = accent
	}

	bar := lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", filled)) +
		lipgloss.NewStyle().Foreground(dim).Render(strings.Repeat("░", meterWidth-filled))

	label := "  -inf dB"
	if !math.IsInf(db, -1) {
		label = fmt.Sprintf("%6.1f dB", db)
	}
	return "Output " + bar + " " + label
}
