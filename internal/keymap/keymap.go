// Package keymap maps physical keys to logical actions for the supported
// keyboard layouts.
package keymap

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
)

// Action is a logical input action.
type Action int

const (
	ActionNone Action = iota
	ActionForward
	ActionBack
	ActionLeft
	ActionRight
	ActionUp
	ActionDown
	ActionYawLeft
	ActionYawRight
	ActionPitchUp
	ActionPitchDown
	ActionToggleSidebar
	ActionToggleHelp
	ActionUnfocus
	ActionTeleportNearest
	ActionExitExpanded
	ActionToggleExpanded
	ActionPause
	ActionFaster
	ActionSlower
	ActionSearch
	ActionBookmark
	ActionQuit
)

var actionNames = map[Action]string{
	ActionForward:         "forward",
	ActionBack:            "back",
	ActionLeft:            "strafe left",
	ActionRight:           "strafe right",
	ActionUp:              "up",
	ActionDown:            "down",
	ActionYawLeft:         "turn left",
	ActionYawRight:        "turn right",
	ActionPitchUp:         "look up",
	ActionPitchDown:       "look down",
	ActionToggleSidebar:   "toggle info sidebar",
	ActionToggleHelp:      "toggle help",
	ActionUnfocus:         "unfocus",
	ActionTeleportNearest: "go to nearest body",
	ActionExitExpanded:    "exit expanded view",
	ActionToggleExpanded:  "toggle expanded view",
	ActionPause:           "pause / resume",
	ActionFaster:          "faster",
	ActionSlower:          "slower",
	ActionSearch:          "search bodies",
	ActionBookmark:        "bookmark body",
	ActionQuit:            "quit",
}

func (a Action) String() string {
	if s, ok := actionNames[a]; ok {
		return s
	}
	return "none"
}

// Movement reports whether a translates the camera.
func (a Action) Movement() bool {
	return a >= ActionForward && a <= ActionDown
}

// Rotation reports whether a turns the camera.
func (a Action) Rotation() bool {
	return a >= ActionYawLeft && a <= ActionPitchDown
}

// Continuous reports whether a is held rather than triggered once.
func (a Action) Continuous() bool {
	return a.Movement() || a.Rotation()
}

// Layout names a keyboard layout.
type Layout string

const (
	QWERTY Layout = "qwerty"
	AZERTY Layout = "azerty"
	QWERTZ Layout = "qwertz"
)

// ParseLayout parses a layout name.
func ParseLayout(s string) (Layout, error) {
	switch l := Layout(strings.ToLower(strings.TrimSpace(s))); l {
	case QWERTY, AZERTY, QWERTZ:
		return l, nil
	case "":
		return QWERTY, nil
	default:
		return "", fmt.Errorf("unknown keyboard layout %q", s)
	}
}

// Layouts lists the supported layouts.
func Layouts() []Layout {
	return []Layout{QWERTY, AZERTY, QWERTZ}
}

// shared bindings that do not depend on letter positions
var common = map[string]Action{
	"left":   ActionYawLeft,
	"right":  ActionYawRight,
	"up":     ActionPitchUp,
	"down":   ActionPitchDown,
	"i":      ActionToggleSidebar,
	"?":      ActionToggleHelp,
	"u":      ActionUnfocus,
	"n":      ActionTeleportNearest,
	"esc":    ActionExitExpanded,
	"x":      ActionToggleExpanded,
	" ":      ActionPause,
	"]":      ActionFaster,
	"[":      ActionSlower,
	"/":      ActionSearch,
	"b":      ActionBookmark,
	"ctrl+c": ActionQuit,
}

// movement letters per layout, by physical position
var movement = map[Layout]map[string]Action{
	QWERTY: {"w": ActionForward, "s": ActionBack, "a": ActionLeft, "d": ActionRight, "r": ActionUp, "f": ActionDown, "q": ActionQuit},
	// AZERTY swaps A/Q and W/Z; quit stays on ctrl+c so q can strafe.
	AZERTY: {"z": ActionForward, "s": ActionBack, "q": ActionLeft, "d": ActionRight, "r": ActionUp, "f": ActionDown},
	// QWERTZ only moves Y and Z, which are unbound.
	QWERTZ: {"w": ActionForward, "s": ActionBack, "a": ActionLeft, "d": ActionRight, "r": ActionUp, "f": ActionDown, "q": ActionQuit},
}

// Keymap resolves key strings, as produced by tea.KeyMsg.String(), to
// actions.
type Keymap struct {
	layout   Layout
	bindings map[string]Action
}

// New builds the keymap for a layout. Unknown layouts fall back to QWERTY.
func New(layout Layout) Keymap {
	mv, ok := movement[layout]
	if !ok {
		layout = QWERTY
		mv = movement[QWERTY]
	}
	b := make(map[string]Action, len(common)+len(mv))
	for k, a := range common {
		b[k] = a
	}
	for k, a := range mv {
		b[k] = a
	}
	return Keymap{layout: layout, bindings: b}
}

// Layout returns the keymap's layout.
func (k Keymap) Layout() Layout {
	return k.layout
}

// Resolve returns the action for key and whether the fast modifier applies.
// Terminals do not report shift on its own, so an uppercase movement letter
// means fast movement.
func (k Keymap) Resolve(key string) (Action, bool) {
	if a, ok := k.bindings[key]; ok {
		return a, false
	}
	if r := []rune(key); len(r) == 1 && unicode.IsUpper(r[0]) {
		if a, ok := k.bindings[string(unicode.ToLower(r[0]))]; ok && a.Movement() {
			return a, true
		}
	}
	switch key {
	case "shift+left":
		return ActionYawLeft, true
	case "shift+right":
		return ActionYawRight, true
	case "shift+up":
		return ActionPitchUp, true
	case "shift+down":
		return ActionPitchDown, true
	}
	return ActionNone, false
}

// Binding is one row of the help listing.
type Binding struct {
	Keys   []string
	Action Action
}

// Bindings lists keys grouped by action, in action order.
func (k Keymap) Bindings() []Binding {
	byAction := make(map[Action][]string)
	for key, a := range k.bindings {
		byAction[a] = append(byAction[a], key)
	}
	out := make([]Binding, 0, len(byAction))
	for a, keys := range byAction {
		sort.Strings(keys)
		out = append(out, Binding{Keys: keys, Action: a})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Action < out[j].Action })
	return out
}

// KeyLabel renders a key for display.
func KeyLabel(key string) string {
	switch key {
	case " ":
		return "space"
	case "left":
		return "←"
	case "right":
		return "→"
	case "up":
		return "↑"
	case "down":
		return "↓"
	default:
		return key
	}
}
