package ui

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-orrery/internal/sim"
)

// SidebarModel lists every body with incremental search and bookmarks.
type SidebarModel struct {
	width  int
	height int

	bodies    []sim.BodyInfo
	cursor    int
	query     string
	searching bool
	bookmarks map[string]bool
}

// NewSidebarModel creates an empty sidebar.
func NewSidebarModel() SidebarModel {
	return SidebarModel{bookmarks: make(map[string]bool)}
}

// SetSize updates the sidebar size.
func (m SidebarModel) SetSize(width, height int) SidebarModel {
	m.width = width
	m.height = height
	return m
}

// SetBodies replaces the body list.
func (m SidebarModel) SetBodies(bodies []sim.BodyInfo) SidebarModel {
	m.bodies = bodies
	m.cursor = clampCursor(m.cursor, len(m.filtered()))
	return m
}

// StartSearch begins a new incremental search.
func (m SidebarModel) StartSearch() SidebarModel {
	m.searching = true
	m.query = ""
	m.cursor = 0
	return m
}

// Searching reports whether keystrokes go to the search query.
func (m SidebarModel) Searching() bool {
	return m.searching
}

// Query returns the current search text.
func (m SidebarModel) Query() string {
	return m.query
}

// ToggleBookmark flips the bookmark on a body.
func (m SidebarModel) ToggleBookmark(name string) SidebarModel {
	if m.bookmarks[name] {
		delete(m.bookmarks, name)
	} else {
		m.bookmarks[name] = true
	}
	return m
}

// Bookmarked reports whether a body is bookmarked.
func (m SidebarModel) Bookmarked(name string) bool {
	return m.bookmarks[name]
}

// Captures reports whether the sidebar handles key instead of the camera.
func (m SidebarModel) Captures(key string) bool {
	if m.searching {
		return true
	}
	switch key {
	case "up", "down", "pgup", "pgdown", "home", "end", "enter", "b":
		return true
	}
	return false
}

// Cursor returns the highlighted body, if any.
func (m SidebarModel) Cursor() (sim.BodyInfo, bool) {
	list := m.filtered()
	if m.cursor < 0 || m.cursor >= len(list) {
		return sim.BodyInfo{}, false
	}
	return list[m.cursor], true
}

// filtered returns bookmarked bodies first, then the rest, each in arena
// order, keeping only names containing the query.
func (m SidebarModel) filtered() []sim.BodyInfo {
	q := strings.ToLower(m.query)
	var marked, rest []sim.BodyInfo
	for _, b := range m.bodies {
		if q != "" && !strings.Contains(strings.ToLower(b.Name), q) {
			continue
		}
		if m.bookmarks[b.Name] {
			marked = append(marked, b)
		} else {
			rest = append(rest, b)
		}
	}
	return append(marked, rest...)
}

// Update handles input messages.
func (m SidebarModel) Update(msg tea.Msg) (SidebarModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	n := len(m.filtered())

	if m.searching {
		switch key.Type {
		case tea.KeyEsc:
			m.searching = false
			m.query = ""
		case tea.KeyEnter:
			m.searching = false
			return m, m.selectCursor()
		case tea.KeyBackspace:
			if r := []rune(m.query); len(r) > 0 {
				m.query = string(r[:len(r)-1])
			}
		case tea.KeyUp:
			m.cursor--
		case tea.KeyDown:
			m.cursor++
		case tea.KeyRunes, tea.KeySpace:
			m.query += string(key.Runes)
			m.cursor = 0
		}
		m.cursor = clampCursor(m.cursor, len(m.filtered()))
		return m, nil
	}

	switch key.String() {
	case "up":
		m.cursor--
	case "down":
		m.cursor++
	case "pgup":
		m.cursor -= max(1, m.listHeight())
	case "pgdown":
		m.cursor += max(1, m.listHeight())
	case "home":
		m.cursor = 0
	case "end":
		m.cursor = n - 1
	case "enter":
		return m, m.selectCursor()
	case "b":
		if b, ok := m.Cursor(); ok {
			m = m.ToggleBookmark(b.Name)
		}
	}
	m.cursor = clampCursor(m.cursor, len(m.filtered()))
	return m, nil
}

func (m SidebarModel) selectCursor() tea.Cmd {
	b, ok := m.Cursor()
	if !ok {
		return nil
	}
	return func() tea.Msg {
		return SelectBodyMsg{Name: b.Name}
	}
}

func clampCursor(c, n int) int {
	if n == 0 || c < 0 {
		return 0
	}
	if c >= n {
		return n - 1
	}
	return c
}

// listHeight is the number of body rows that fit: border, title, search
// line and detail block take the rest.
func (m SidebarModel) listHeight() int {
	return max(0, m.height-10)
}

// View renders the sidebar.
func (m SidebarModel) View() string {
	titleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#9D4EDD")).Bold(true)
	selStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Bold(true)
	markStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	inner := max(0, m.width-4)

	var b strings.Builder
	b.WriteString(titleStyle.Render("Bodies"))
	b.WriteString("\n")
	switch {
	case m.searching:
		b.WriteString(selStyle.Render("/" + m.query + "▏"))
	case m.query != "":
		b.WriteString(dimStyle.Render("/" + m.query))
	default:
		b.WriteString(dimStyle.Render("/ search  b bookmark"))
	}
	b.WriteString("\n")

	list := m.filtered()
	rows := m.listHeight()
	start := 0
	if m.cursor >= rows && rows > 0 {
		start = m.cursor - rows + 1
	}
	for i := start; i < len(list) && i < start+rows; i++ {
		body := list[i]
		mark := "  "
		if m.bookmarks[body.Name] {
			mark = markStyle.Render("★ ")
		}
		line := truncate(strings.Repeat(" ", body.Depth)+body.Name, inner-2)
		if i == m.cursor {
			line = selStyle.Render("▶" + line)
		} else {
			line = " " + line
		}
		b.WriteString(mark + line + "\n")
	}
	if len(list) == 0 {
		b.WriteString(dimStyle.Render("no match") + "\n")
	}

	if body, ok := m.Cursor(); ok {
		b.WriteString("\n")
		b.WriteString(renderDetails(body, inner))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("60")).
		Width(inner).
		Height(max(0, m.height-2)).
		Padding(0, 1).
		Render(strings.TrimRight(b.String(), "\n"))
}

func renderDetails(b sim.BodyInfo, width int) string {
	fieldStyle := labelStyle.Width(8)

	rows := [][2]string{
		{"kind", b.Kind.String()},
		{"radius", FormatKm(b.PhysicalRadius)},
	}
	if b.Parent != "" {
		rows = append(rows,
			[2]string{"orbits", b.Parent},
			[2]string{"dist", FormatKm(b.OrbitDistance)},
			[2]string{"period", FormatPeriod(b.OrbitPeriod)},
		)
	}
	var out []string
	for _, r := range rows {
		out = append(out, fieldStyle.Render(r[0])+valueStyle.Render(truncate(r[1], width-8)))
	}
	return strings.Join(out, "\n")
}

// FormatKm formats a length in kilometres.
func FormatKm(km float64) string {
	switch {
	case km <= 0:
		return "-"
	case km >= 1e7:
		return fmt.Sprintf("%.3g km", km)
	case km >= 1000:
		return fmt.Sprintf("%s km", groupThousands(int64(math.Round(km))))
	default:
		return fmt.Sprintf("%.4g km", km)
	}
}

// FormatPeriod formats an orbit period given in days.
func FormatPeriod(days float64) string {
	switch {
	case days <= 0:
		return "-"
	case days >= 3652.5:
		return fmt.Sprintf("%.1f yr", days/365.25)
	case days < 1:
		return fmt.Sprintf("%.1f h", days*24)
	default:
		return fmt.Sprintf("%.2f d", days)
	}
}

func groupThousands(v int64) string {
	s := fmt.Sprintf("%d", v)
	var out []byte
	for i := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, s[i])
	}
	return string(out)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 {
		return ""
	}
	if len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}
