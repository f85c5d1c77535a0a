package sim

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/litescript/ls-orrery/internal/state"
)

// SnapshotExport is the JSON-serializable representation of the engine.
type SnapshotExport struct {
	GeneratedAt time.Time     `json:"generated_at"`
	Generation  string        `json:"generation"`
	SimTimeDays float64       `json:"sim_time_days"`
	Speed       float64       `json:"speed"`
	Running     bool          `json:"running"`
	Mode        string        `json:"mode"`
	Focus       string        `json:"focus,omitempty"`
	Bodies      []BodyExport  `json:"bodies"`
	Events      []state.Event `json:"events,omitempty"`
}

// BodyExport is a JSON-friendly body with its derived scene values.
type BodyExport struct {
	Name          string     `json:"name"`
	Kind          string     `json:"kind"`
	Parent        string     `json:"parent,omitempty"`
	Depth         int        `json:"depth"`
	RadiusKm      float64    `json:"radius_km"`
	OrbitKm       float64    `json:"orbit_km,omitempty"`
	PeriodDays    float64    `json:"period_days,omitempty"`
	SceneRadius   float64    `json:"scene_radius"`
	Position      [3]float64 `json:"position"`
	RingVisible   bool       `json:"ring_visible"`
	RingOpacity   float64    `json:"ring_opacity"`
	SystemRing    bool       `json:"system_ring,omitempty"`
	Highlight     bool       `json:"highlight,omitempty"`
	RevolutionSec float64    `json:"revolution_seconds,omitempty"`
}

// ExportSnapshot captures the current engine state.
func ExportSnapshot(e *Engine, now time.Time) *SnapshotExport {
	out := &SnapshotExport{
		GeneratedAt: now,
		Generation:  e.reg.Generation().String(),
		SimTimeDays: e.integ.SimTime(),
		Speed:       e.integ.Speed(),
		Running:     e.integ.Running(),
		Mode:        e.ctrl.Mode().String(),
		Events:      e.state.RecentEvents(10),
	}
	if f, ok := e.Focused(); ok {
		out.Focus = f.Name
	}
	for _, b := range e.reg.Bodies() {
		be := BodyExport{
			Name:        b.Name,
			Kind:        b.Kind.String(),
			Depth:       b.Depth,
			RadiusKm:    b.PhysicalRadius,
			OrbitKm:     b.OrbitDistance,
			PeriodDays:  b.OrbitPeriod,
			SceneRadius: b.SceneRadius,
			Position:    [3]float64(b.Position),
			RingVisible: b.Ring.Visible,
			RingOpacity: b.Ring.Opacity,
			SystemRing:  b.SystemRing != nil && b.SystemRing.Ring.Visible,
			Highlight:   b.Highlight,
		}
		if p := e.reg.Body(b.Parent); p != nil {
			be.Parent = p.Name
		}
		if b.Orbiting() {
			be.RevolutionSec = e.integ.RevolutionSeconds(b)
		}
		out.Bodies = append(out.Bodies, be)
	}
	return out
}

// WriteJSON writes the snapshot as JSON to the given writer.
func (s *SnapshotExport) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// WriteSummaryTable writes a human-readable body table.
func WriteSummaryTable(w io.Writer, s *SnapshotExport) {
	fmt.Fprintf(w, "Orrery @ %s  t=%.2f d  speed=%.3g d/s  mode=%s\n",
		s.GeneratedAt.Format(time.RFC3339), s.SimTimeDays, s.Speed, s.Mode)
	fmt.Fprintln(w, strings.Repeat("─", 86))

	if len(s.Bodies) == 0 {
		fmt.Fprintln(w, "No bodies")
		return
	}

	fmt.Fprintf(w, "%-20s %-8s %-12s %-12s %-14s %-9s %-5s\n",
		"Body", "Kind", "Parent", "Radius km", "Orbit km", "Period d", "Ring")
	fmt.Fprintln(w, strings.Repeat("─", 86))

	for _, b := range s.Bodies {
		name := strings.Repeat(" ", b.Depth) + b.Name
		if b.Name == s.Focus {
			name = "*" + name
		}
		ring := "-"
		switch {
		case b.SystemRing:
			ring = "sys"
		case b.RingVisible:
			ring = fmt.Sprintf("%.0f%%", b.RingOpacity*100)
		}
		fmt.Fprintf(w, "%-20s %-8s %-12s %-12.1f %-14s %-9s %-5s\n",
			truncateStr(name, 20),
			b.Kind,
			truncateStr(b.Parent, 12),
			b.RadiusKm,
			orDash(b.OrbitKm, "%.4g"),
			orDash(b.PeriodDays, "%.2f"),
			ring,
		)
	}

	fmt.Fprintf(w, "\nTotal: %d bodies\n", len(s.Bodies))
}

// WriteEvents writes the last n events, oldest first.
func WriteEvents(w io.Writer, events []state.Event, n int) {
	fmt.Fprintln(w, "Recent Events")
	fmt.Fprintln(w, strings.Repeat("─", 40))
	if len(events) == 0 {
		fmt.Fprintln(w, "No events")
		return
	}
	if n > 0 && len(events) > n {
		events = events[len(events)-n:]
	}
	for _, e := range events {
		line := fmt.Sprintf("%s %-13s", e.Timestamp.Format("15:04:05"), e.Type)
		if e.Body != "" {
			line += " " + e.Body
		}
		if e.Detail != "" {
			line += " (" + e.Detail + ")"
		}
		fmt.Fprintln(w, line)
	}
}

func orDash(v float64, format string) string {
	if v <= 0 {
		return "-"
	}
	return fmt.Sprintf(format, v)
}

func truncateStr(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-2]) + ".."
}
