package camera

import (
	"time"

	"github.com/litescript/ls-orrery/internal/keymap"
)

// DefaultHoldWindow is how long a key counts as held after its last press.
// Terminals send repeats while a key is down but never a release.
const DefaultHoldWindow = 180 * time.Millisecond

type press struct {
	at   time.Time
	fast bool
}

// Input collects keyboard and mouse state written by event handlers and
// drained by the frame loop once per tick. Both run on the program's
// update goroutine.
type Input struct {
	hold time.Duration
	held map[keymap.Action]press

	dragging       bool
	lastX, lastY   int
	dragDX, dragDY float64
	scroll         int
}

// NewInput creates an input collector. A non-positive hold uses
// DefaultHoldWindow.
func NewInput(hold time.Duration) *Input {
	if hold <= 0 {
		hold = DefaultHoldWindow
	}
	return &Input{hold: hold, held: make(map[keymap.Action]press)}
}

// Press records a continuous action key press.
func (in *Input) Press(a keymap.Action, fast bool, now time.Time) {
	in.held[a] = press{at: now, fast: fast}
}

// Held reports whether a is still held at now, and whether it was pressed
// with the fast modifier.
func (in *Input) Held(a keymap.Action, now time.Time) (held, fast bool) {
	p, ok := in.held[a]
	if !ok {
		return false, false
	}
	if now.Sub(p.at) > in.hold {
		delete(in.held, a)
		return false, false
	}
	return true, p.fast
}

// Release forgets every held key.
func (in *Input) Release() {
	for a := range in.held {
		delete(in.held, a)
	}
}

// DragStart begins a drag at cell (x, y).
func (in *Input) DragStart(x, y int) {
	in.dragging = true
	in.lastX, in.lastY = x, y
}

// DragTo accumulates motion while dragging. Cells are converted to pixels
// with cellAspect pixels per row.
func (in *Input) DragTo(x, y int, cellAspect float64) {
	if !in.dragging {
		return
	}
	in.dragDX += float64(x - in.lastX)
	in.dragDY += float64(y-in.lastY) * cellAspect
	in.lastX, in.lastY = x, y
}

// DragEnd stops the drag.
func (in *Input) DragEnd() {
	in.dragging = false
}

// Dragging reports whether a drag is in progress.
func (in *Input) Dragging() bool {
	return in.dragging
}

// Scroll adds wheel steps: positive zooms in.
func (in *Input) Scroll(steps int) {
	in.scroll += steps
}

// Drain returns and clears the accumulated drag and scroll.
func (in *Input) Drain() (dx, dy float64, scroll int) {
	dx, dy, scroll = in.dragDX, in.dragDY, in.scroll
	in.dragDX, in.dragDY, in.scroll = 0, 0, 0
	return dx, dy, scroll
}
