package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-orrery/internal/keymap"
)

// renderHelp lists every binding of the active layout.
func renderHelp(km keymap.Keymap) string {
	titleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#9D4EDD")).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Width(16)
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("252"))

	var b strings.Builder
	b.WriteString(titleStyle.Render("Keys ("+string(km.Layout())+")") + "\n\n")
	for _, bind := range km.Bindings() {
		if bind.Action == keymap.ActionNone {
			continue
		}
		labels := make([]string, len(bind.Keys))
		for i, k := range bind.Keys {
			labels[i] = keymap.KeyLabel(k)
		}
		b.WriteString(keyStyle.Render(strings.Join(labels, " ")))
		b.WriteString(descStyle.Render(bind.Action.String()))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(keyStyle.Render("drag"))
	b.WriteString(descStyle.Render("look around") + "\n")
	b.WriteString(keyStyle.Render("wheel"))
	b.WriteString(descStyle.Render("zoom / fly") + "\n")
	b.WriteString(keyStyle.Render("right click"))
	b.WriteString(descStyle.Render("select body") + "\n")
	b.WriteString(keyStyle.Render("SHIFT"))
	b.WriteString(descStyle.Render("move faster") + "\n\n")
	b.WriteString(dimStyle.Render("? or esc to close"))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#7B2CBF")).
		Padding(1, 2).
		Render(b.String())
}
