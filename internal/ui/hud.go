package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-orrery/internal/version"
)

var (
	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7B2CBF")).Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

// renderHeader renders the title bar.
func (m Model) renderHeader() string {
	parts := []string{
		accentStyle.Render("ls-orrery"),
		dimStyle.Render("v" + version.Version),
	}
	if m.dataset != "" {
		parts = append(parts, labelStyle.Render("data ")+valueStyle.Render(m.dataset))
	}
	parts = append(parts,
		labelStyle.Render("mode ")+valueStyle.Render(m.engine.Mode().String()),
		labelStyle.Render("speed ")+valueStyle.Render(fmt.Sprintf("%.3g d/s", m.engine.Speed())),
		labelStyle.Render("t ")+valueStyle.Render(fmt.Sprintf("%.1f d", m.engine.SimTime())),
	)
	if !m.engine.Running() {
		parts = append(parts, warnStyle.Render("PAUSED"))
	}
	return truncateStyled(strings.Join(parts, dimStyle.Render(" │ ")), m.width)
}

// renderHUD renders the two status lines under the view.
func (m Model) renderHUD() string {
	var first []string
	if f, ok := m.engine.Focused(); ok {
		first = append(first, accentStyle.Render(f.Name), valueStyle.Render(f.Kind.String()))
		if f.OrbitPeriod > 0 && f.Parent != "" {
			rev := f.OrbitPeriod / m.engine.Speed()
			first = append(first,
				labelStyle.Render("orbits ")+valueStyle.Render(f.Parent),
				labelStyle.Render("period ")+valueStyle.Render(FormatPeriod(f.OrbitPeriod)),
				labelStyle.Render("rev ")+valueStyle.Render(formatSeconds(rev)),
			)
		}
	} else {
		first = append(first, dimStyle.Render("free flight"))
	}
	if m.status != "" {
		first = append(first, warnStyle.Render(m.status))
	}

	snap := m.engine.Snapshot()
	var second []string
	second = append(second, labelStyle.Render("fps ")+valueStyle.Render(fmt.Sprintf("%.0f", snap.FPS)))
	rs := m.engine.RingStats()
	second = append(second, labelStyle.Render("rings ")+valueStyle.Render(fmt.Sprintf("%d/%d", rs.Visible, rs.Considered)))
	if n := len(snap.Events); n > 0 {
		e := snap.Events[n-1]
		ev := string(e.Type)
		if e.Body != "" {
			ev += " " + e.Body
		}
		second = append(second, labelStyle.Render("last ")+valueStyle.Render(ev))
	}
	second = append(second, dimStyle.Render("? help  i info  / search  ctrl+c quit"))

	sep := dimStyle.Render(" │ ")
	return truncateStyled(strings.Join(first, sep), m.width) + "\n" +
		truncateStyled(strings.Join(second, sep), m.width)
}

func formatSeconds(s float64) string {
	switch {
	case math.IsInf(s, 1) || math.IsNaN(s):
		return "-"
	case s >= 3600:
		return fmt.Sprintf("%.1f h", s/3600)
	case s >= 60:
		return fmt.Sprintf("%.1f min", s/60)
	default:
		return fmt.Sprintf("%.1f s", s)
	}
}

// truncateStyled cuts a styled line to the terminal width.
func truncateStyled(s string, width int) string {
	if width <= 0 {
		return s
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(s)
}
