// Package ui provides the terminal user interface using Bubble Tea.
package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-orrery/internal/keymap"
	"github.com/litescript/ls-orrery/internal/render"
	"github.com/litescript/ls-orrery/internal/sim"
)

// DefaultFrameInterval drives the frame loop at about 60 Hz.
const DefaultFrameInterval = 16 * time.Millisecond

const (
	sidebarWidth = 34
	headerLines  = 1
	hudLines     = 2
)

// Msg types for Bubble Tea
type (
	// FrameMsg triggers one engine tick.
	FrameMsg time.Time

	// SelectBodyMsg asks the root model to focus a body by name.
	SelectBodyMsg struct {
		Name string
	}
)

// Options configures the root model.
type Options struct {
	Layout        keymap.Layout
	FrameInterval time.Duration
	Dataset       string // shown in the header
	Render        render.Options
}

// Model is the root Bubble Tea model.
type Model struct {
	// Dependencies
	engine   *sim.Engine
	renderer *render.Renderer
	keys     keymap.Keymap

	// UI state
	width       int
	height      int
	ready       bool
	interval    time.Duration
	dataset     string
	showSidebar bool
	showHelp    bool
	expanded    bool
	status      string

	// Sub-models
	sidebar SidebarModel
}

// New creates a new root UI model over a loaded engine.
func New(engine *sim.Engine, opts Options) Model {
	interval := opts.FrameInterval
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	m := Model{
		engine:   engine,
		renderer: render.New(opts.Render),
		keys:     keymap.New(opts.Layout),
		interval: interval,
		dataset:  opts.Dataset,
		sidebar:  NewSidebarModel(),
	}
	m.sidebar = m.sidebar.SetBodies(engine.Bodies())
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return frameCmd(m.interval)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.layout()

	case FrameMsg:
		cmds = append(cmds, frameCmd(m.interval))
		m.engine.Tick(time.Time(msg))

	case SelectBodyMsg:
		if m.engine.Select(msg.Name, sim.SourceSidebar) {
			m.status = ""
		} else {
			m.status = "no body named " + msg.Name
		}

	case tea.MouseMsg:
		m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return m, tea.Quit
	}

	if m.showHelp {
		// The help modal swallows everything but its own toggles.
		if a, _ := m.keys.Resolve(key); a == keymap.ActionToggleHelp || a == keymap.ActionExitExpanded {
			m.showHelp = false
		}
		return m, nil
	}

	if m.showSidebar && m.sidebar.Captures(key) {
		var cmd tea.Cmd
		m.sidebar, cmd = m.sidebar.Update(msg)
		return m, cmd
	}

	a, fast := m.keys.Resolve(key)
	now := time.Now()
	switch a {
	case keymap.ActionNone:
	case keymap.ActionQuit:
		return m, tea.Quit
	case keymap.ActionToggleHelp:
		m.showHelp = true
	case keymap.ActionToggleSidebar:
		m.showSidebar = !m.showSidebar
		m.layout()
	case keymap.ActionToggleExpanded:
		m.expanded = !m.expanded
		m.layout()
	case keymap.ActionExitExpanded:
		if m.expanded {
			m.expanded = false
			m.layout()
		}
	case keymap.ActionSearch:
		m.showSidebar = true
		m.expanded = false
		m.layout()
		m.sidebar = m.sidebar.StartSearch()
	case keymap.ActionBookmark:
		if f, ok := m.engine.Focused(); ok {
			m.sidebar = m.sidebar.ToggleBookmark(f.Name)
		}
	default:
		m.engine.Apply(a, fast, now)
	}
	return m, nil
}

// handleMouse maps terminal cells to camera pixels: the viewport starts
// below the header and each cell is CellAspect pixels tall.
func (m *Model) handleMouse(msg tea.MouseMsg) {
	top := m.viewportTop()
	px := float64(msg.X) + 0.5
	py := float64((msg.Y-top)*render.CellAspect) + 1
	cols, rows := m.viewportSize()
	inside := msg.X >= 0 && msg.X < cols && msg.Y >= top && msg.Y < top+rows

	in := m.engine.Input()
	switch {
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonWheelUp:
		if inside {
			in.Scroll(1)
		}
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonWheelDown:
		if inside {
			in.Scroll(-1)
		}
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		if inside {
			in.DragStart(msg.X, msg.Y)
		}
	case msg.Action == tea.MouseActionMotion && msg.Button == tea.MouseButtonLeft:
		if in.Dragging() {
			in.DragTo(msg.X, msg.Y, render.CellAspect)
		}
	case msg.Action == tea.MouseActionRelease:
		in.DragEnd()
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonRight:
		if !inside {
			return
		}
		if name, ok := m.engine.Pick(px, py); ok {
			m.status = "selected " + name
		}
	}
}

// viewportTop is the first terminal row of the 3D view.
func (m Model) viewportTop() int {
	if m.expanded {
		return 0
	}
	return headerLines
}

// viewportSize returns the 3D view size in cells.
func (m Model) viewportSize() (cols, rows int) {
	cols, rows = m.width, m.height
	if !m.expanded {
		rows -= headerLines + hudLines
		if m.showSidebar {
			cols -= sidebarWidth
		}
	}
	return max(cols, 0), max(rows, 0)
}

// layout pushes the viewport size to the engine and the sidebar.
func (m *Model) layout() {
	if !m.ready {
		return
	}
	cols, rows := m.viewportSize()
	m.engine.Resize(cols, rows*render.CellAspect)
	m.sidebar = m.sidebar.SetSize(sidebarWidth, rows)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}
	cols, rows := m.viewportSize()
	if cols == 0 || rows == 0 {
		return "Terminal too small"
	}

	var view string
	if m.showHelp {
		view = lipgloss.Place(cols, rows, lipgloss.Center, lipgloss.Center, renderHelp(m.keys))
	} else {
		canvas := m.renderer.Draw(m.engine.Camera(), m.engine.Registry(), m.engine.Controller().Focus(), cols, rows)
		view = canvas.String()
	}

	if m.expanded {
		return view
	}
	if m.showSidebar {
		m.sidebar = m.sidebar.SetBodies(m.engine.Bodies())
		view = lipgloss.JoinHorizontal(lipgloss.Top, view, m.sidebar.View())
	}
	return m.renderHeader() + "\n" + view + "\n" + m.renderHUD()
}

// Expanded reports whether the chrome is hidden.
func (m Model) Expanded() bool {
	return m.expanded
}

// ShowSidebar reports whether the info sidebar is open.
func (m Model) ShowSidebar() bool {
	return m.showSidebar
}

// ShowHelp reports whether the help modal is open.
func (m Model) ShowHelp() bool {
	return m.showHelp
}

func frameCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return FrameMsg(t)
	})
}
