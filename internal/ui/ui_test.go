package ui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/litescript/ls-orrery/internal/camera"
	"github.com/litescript/ls-orrery/internal/catalog"
	"github.com/litescript/ls-orrery/internal/keymap"
	"github.com/litescript/ls-orrery/internal/render"
	"github.com/litescript/ls-orrery/internal/sim"
	"github.com/litescript/ls-orrery/internal/texture"
)

func starPlanet() []catalog.Descriptor {
	return []catalog.Descriptor{
		{Name: "S", Kind: catalog.KindStar, PhysicalRadius: 700000},
		{Name: "P", Kind: catalog.KindPlanet, PhysicalRadius: 6371, OrbitDistance: 149600000, OrbitPeriod: 365, ParentName: "S"},
	}
}

func newModel(t *testing.T, layout keymap.Layout) (Model, *sim.Engine) {
	t.Helper()
	opts := sim.DefaultOptions()
	opts.Loader = texture.NewLoader(nil, texture.WithoutProcedural())
	e := sim.New(opts)
	e.Load(starPlanet(), "")
	m := New(e, Options{Layout: layout, Dataset: "test", Render: render.DefaultOptions()})
	return m, e
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	mm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return mm, cmd
}

func TestModelInitialView(t *testing.T) {
	m, _ := newModel(t, keymap.QWERTY)
	if got := m.View(); got != "Initializing..." {
		t.Errorf("View before size = %q", got)
	}
	if m.Init() == nil {
		t.Error("Init should schedule the first frame")
	}
}

func TestModelWindowSize(t *testing.T) {
	m, e := newModel(t, keymap.QWERTY)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 51})

	cam := e.Camera()
	if cam.Width != 120 || cam.Height != 96 {
		t.Errorf("camera = %vx%v, want 120x96", cam.Width, cam.Height)
	}

	m, _ = update(t, m, runes("i"))
	if !m.ShowSidebar() {
		t.Fatal("i should open the sidebar")
	}
	if cam.Width != 120-sidebarWidth {
		t.Errorf("camera width with sidebar = %v, want %d", cam.Width, 120-sidebarWidth)
	}

	m, _ = update(t, m, runes("x"))
	if !m.Expanded() || cam.Width != 120 || cam.Height != 102 {
		t.Errorf("expanded camera = %vx%v, want 120x102", cam.Width, cam.Height)
	}
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.Expanded() {
		t.Error("esc should leave the expanded view")
	}
}

func TestModelTooSmall(t *testing.T) {
	m, e := newModel(t, keymap.QWERTY)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 40, Height: 2})
	if got := m.View(); got != "Terminal too small" {
		t.Errorf("View = %q", got)
	}
	if e.Ready() {
		t.Error("engine should be idle without a viewport")
	}
}

func TestModelHelp(t *testing.T) {
	m, e := newModel(t, keymap.QWERTY)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 51})

	m, _ = update(t, m, runes("?"))
	if !m.ShowHelp() {
		t.Fatal("? should open help")
	}
	if !strings.Contains(m.View(), "toggle help") {
		t.Error("help view should list bindings")
	}

	// Keys other than the help toggles are swallowed.
	running := e.Running()
	m, _ = update(t, m, runes(" "))
	if e.Running() != running {
		t.Error("space should not reach the engine while help is open")
	}
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.ShowHelp() {
		t.Error("esc should close help")
	}
}

func TestModelQuit(t *testing.T) {
	tests := []struct {
		layout keymap.Layout
		key    tea.KeyMsg
		quit   bool
	}{
		{keymap.QWERTY, runes("q"), true},
		{keymap.QWERTZ, runes("q"), true},
		{keymap.AZERTY, runes("q"), false},
		{keymap.AZERTY, tea.KeyMsg{Type: tea.KeyCtrlC}, true},
	}
	for _, tt := range tests {
		m, _ := newModel(t, tt.layout)
		_, cmd := update(t, m, tt.key)
		got := cmd != nil
		if got {
			_, got = cmd().(tea.QuitMsg)
		}
		if got != tt.quit {
			t.Errorf("%s %q: quit = %v, want %v", tt.layout, tt.key.String(), got, tt.quit)
		}
	}
}

func TestModelLayoutMovement(t *testing.T) {
	m, e := newModel(t, keymap.AZERTY)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 51})

	update(t, m, runes("z"))
	if held, _ := e.Input().Held(keymap.ActionForward, time.Now()); !held {
		t.Error("z should move forward on AZERTY")
	}
	update(t, m, runes("Q"))
	if held, fast := e.Input().Held(keymap.ActionLeft, time.Now()); !held || !fast {
		t.Errorf("Q on AZERTY: held %v fast %v, want fast strafe left", held, fast)
	}
}

func TestModelSpeedKeys(t *testing.T) {
	m, e := newModel(t, keymap.QWERTY)
	before := e.Speed()
	m, _ = update(t, m, runes("]"))
	if e.Speed() != before*sim.SpeedStep {
		t.Errorf("speed = %v, want %v", e.Speed(), before*sim.SpeedStep)
	}
	update(t, m, runes(" "))
	if e.Running() {
		t.Error("space should pause")
	}
	if !strings.Contains(m.renderHeader(), "PAUSED") {
		t.Error("header should show PAUSED")
	}
}

func TestModelRightClickPicks(t *testing.T) {
	m, e := newModel(t, keymap.QWERTY)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 51})
	e.Select("P", sim.SourceCommand)
	e.Controller().Settle()
	e.Tick(time.Now())
	e.Unfocus()

	m, _ = update(t, m, tea.MouseMsg{X: 60, Y: 25, Action: tea.MouseActionPress, Button: tea.MouseButtonRight})
	if e.Mode() != camera.Focused {
		t.Fatal("right click on a body should focus it")
	}
	if f, _ := e.Focused(); f.Name != "P" {
		t.Errorf("focused %q, want P", f.Name)
	}
	if m.status != "selected P" {
		t.Errorf("status = %q", m.status)
	}

	// Clicks on the header are outside the view.
	e.Unfocus()
	update(t, m, tea.MouseMsg{X: 60, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonRight})
	if e.Mode() != camera.FreeFly {
		t.Error("click on the header should not pick")
	}
}

func TestModelDrag(t *testing.T) {
	m, e := newModel(t, keymap.QWERTY)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 51})

	m, _ = update(t, m, tea.MouseMsg{X: 10, Y: 10, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if !e.Input().Dragging() {
		t.Fatal("left press should start a drag")
	}
	m, _ = update(t, m, tea.MouseMsg{X: 14, Y: 10, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	update(t, m, tea.MouseMsg{X: 14, Y: 10, Action: tea.MouseActionRelease})
	if e.Input().Dragging() {
		t.Error("release should end the drag")
	}
	if dx, _, _ := e.Input().Drain(); dx != 4 {
		t.Errorf("drag dx = %v, want 4", dx)
	}
}

func TestModelSidebarSearch(t *testing.T) {
	m, e := newModel(t, keymap.QWERTY)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 51})

	m, _ = update(t, m, runes("/"))
	if !m.ShowSidebar() || !m.sidebar.Searching() {
		t.Fatal("/ should open the sidebar in search mode")
	}
	// While searching, letters go to the query, not the camera.
	m, _ = update(t, m, runes("p"))
	if m.sidebar.Query() != "p" {
		t.Errorf("query = %q, want p", m.sidebar.Query())
	}
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter should select the match")
	}
	msg := cmd()
	sel, ok := msg.(SelectBodyMsg)
	if !ok || sel.Name != "P" {
		t.Fatalf("enter produced %#v, want SelectBodyMsg{P}", msg)
	}
	update(t, m, msg)
	if f, ok := e.Focused(); !ok || f.Name != "P" {
		t.Errorf("focused %q, want P", f.Name)
	}
}

func TestModelSelectUnknown(t *testing.T) {
	m, _ := newModel(t, keymap.QWERTY)
	m, _ = update(t, m, SelectBodyMsg{Name: "Vulcan"})
	if m.status != "no body named Vulcan" {
		t.Errorf("status = %q", m.status)
	}
}

func TestModelFrameTicks(t *testing.T) {
	m, e := newModel(t, keymap.QWERTY)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 51})

	now := time.Now()
	m, cmd := update(t, m, FrameMsg(now))
	update(t, m, FrameMsg(now.Add(100*time.Millisecond)))
	if cmd == nil {
		t.Error("a frame should schedule the next one")
	}
	if e.SimTime() <= 0 {
		t.Errorf("SimTime = %v after two frames, want > 0", e.SimTime())
	}
	if view := m.View(); !strings.Contains(view, "ls-orrery") {
		t.Error("view should carry the header")
	}
}

func TestSidebarBookmarks(t *testing.T) {
	s := NewSidebarModel().SetSize(sidebarWidth, 30)
	s = s.SetBodies([]sim.BodyInfo{{Name: "S"}, {Name: "P", Parent: "S", Depth: 1}, {Name: "Q", Parent: "S", Depth: 1}})

	s, _ = s.Update(tea.KeyMsg{Type: tea.KeyDown})
	s, _ = s.Update(tea.KeyMsg{Type: tea.KeyDown})
	s, _ = s.Update(runes("b"))
	if !s.Bookmarked("Q") {
		t.Fatal("b should bookmark the body under the cursor")
	}
	// Bookmarks sort first.
	if got := s.filtered()[0].Name; got != "Q" {
		t.Errorf("first entry = %q, want bookmarked Q", got)
	}
	if !strings.Contains(s.View(), "★") {
		t.Error("bookmark mark missing from view")
	}
	s = s.ToggleBookmark("Q")
	if s.Bookmarked("Q") {
		t.Error("ToggleBookmark should clear the bookmark")
	}
}

func TestSidebarSearchEsc(t *testing.T) {
	s := NewSidebarModel().SetBodies([]sim.BodyInfo{{Name: "Sun"}, {Name: "Saturn"}, {Name: "Moon"}})
	s = s.StartSearch()
	s, _ = s.Update(runes("SA"))
	if n := len(s.filtered()); n != 1 {
		t.Errorf("case-insensitive match count = %d, want 1", n)
	}
	s, _ = s.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	if n := len(s.filtered()); n != 2 {
		t.Errorf("after backspace %d matches, want 2", n)
	}
	s, _ = s.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if s.Searching() || s.Query() != "" || len(s.filtered()) != 3 {
		t.Error("esc should cancel the search")
	}
	if s.Captures("w") {
		t.Error("movement keys should pass through when not searching")
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{FormatKm(6371), "6,371 km"},
		{FormatKm(149600000), "1.5e+08 km"},
		{FormatKm(0.1), "0.1 km"},
		{FormatKm(0), "-"},
		{FormatPeriod(365.25), "365.25 d"},
		{FormatPeriod(0.5), "12.0 h"},
		{FormatPeriod(10759.22), "29.5 yr"},
		{formatSeconds(45.6), "45.6 s"},
		{formatSeconds(90), "1.5 min"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}
}
