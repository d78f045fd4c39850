package main

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/cwbudde/algo-rhino/dsp/unit"
)

// ParamsCmd prints the parameter tree of a registered processing unit.
type ParamsCmd struct {
	Component string `short:"c" default:"dlrh" help:"Four-character component code"`
	List      bool   `short:"l" help:"List registered components instead"`
}

func (c *ParamsCmd) Run(g *Globals) error {
	if c.List {
		fmt.Println(componentTable(unit.Default.Components()))
		return nil
	}

	code, err := unit.ParseFourCC(c.Component)
	if err != nil {
		return err
	}
	u, err := unit.Default.New(code)
	if err != nil {
		return err
	}
	tree := u.Tree()
	if tree == nil {
		return fmt.Errorf("%s: no parameter tree", code)
	}

	desc := u.Description()
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#A40000")).
		Render(fmt.Sprintf("%s (%s, %s)", desc.Name, desc.Code, desc.Manufacturer))

	header := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))).
		Headers("Address", "Key", "Name", "Unit", "Min", "Max", "Default", "Ramp").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})

	for _, p := range tree.All() {
		ramp := "no"
		if p.CanRamp() {
			ramp = "yes"
		}
		t.Row(
			strconv.FormatUint(p.Address, 10),
			p.Identifier,
			p.Name,
			p.Unit,
			formatFloat(p.Min),
			formatFloat(p.Max),
			formatFloat(p.Default),
			ramp,
		)
	}

	fmt.Println(title)
	fmt.Println(t.Render())
	return nil
}

func componentTable(descs []unit.Description) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))).
		Headers("Code", "Name", "Manufacturer")
	for _, d := range descs {
		t.Row(d.Code.String(), d.Name, d.Manufacturer)
	}
	return t.Render()
}

func formatFloat(v float32) string {
	return strconv.FormatFloat(float64(v), 'g', -1, 32)
}
