package keymap

import "testing"

func TestResolve(t *testing.T) {
	tests := []struct {
		layout   Layout
		key      string
		want     Action
		wantFast bool
	}{
		{QWERTY, "w", ActionForward, false},
		{QWERTY, "W", ActionForward, true},
		{QWERTY, "a", ActionLeft, false},
		{QWERTY, "q", ActionQuit, false},
		{QWERTY, "Q", ActionNone, false},
		{QWERTY, "r", ActionUp, false},
		{QWERTY, "F", ActionDown, true},
		{QWERTY, "left", ActionYawLeft, false},
		{QWERTY, "shift+up", ActionPitchUp, true},
		{QWERTY, "u", ActionUnfocus, false},
		{QWERTY, "U", ActionNone, false},
		{QWERTY, " ", ActionPause, false},
		{QWERTY, "esc", ActionExitExpanded, false},
		{AZERTY, "z", ActionForward, false},
		{AZERTY, "q", ActionLeft, false},
		{AZERTY, "Q", ActionLeft, true},
		{AZERTY, "w", ActionNone, false},
		{AZERTY, "ctrl+c", ActionQuit, false},
		{QWERTZ, "w", ActionForward, false},
		{QWERTZ, "z", ActionNone, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.layout)+"/"+tt.key, func(t *testing.T) {
			got, fast := New(tt.layout).Resolve(tt.key)
			if got != tt.want || fast != tt.wantFast {
				t.Errorf("Resolve(%q) = %v, %v; want %v, %v", tt.key, got, fast, tt.want, tt.wantFast)
			}
		})
	}
}

func TestParseLayout(t *testing.T) {
	for _, in := range []string{"qwerty", "AZERTY", " qwertz ", ""} {
		if _, err := ParseLayout(in); err != nil {
			t.Errorf("ParseLayout(%q) error: %v", in, err)
		}
	}
	if _, err := ParseLayout("dvorak"); err == nil {
		t.Error("expected error for unknown layout")
	}
	if New("dvorak").Layout() != QWERTY {
		t.Error("unknown layout should fall back to qwerty")
	}
}

func TestActionClasses(t *testing.T) {
	if !ActionForward.Movement() || ActionForward.Rotation() {
		t.Error("forward is movement")
	}
	if !ActionPitchDown.Rotation() || !ActionPitchDown.Continuous() {
		t.Error("pitch down is a continuous rotation")
	}
	if ActionUnfocus.Continuous() {
		t.Error("unfocus is a one-shot action")
	}
}

func TestBindingsCoverEveryAction(t *testing.T) {
	for _, layout := range Layouts() {
		seen := make(map[Action]bool)
		for _, b := range New(layout).Bindings() {
			if len(b.Keys) == 0 {
				t.Errorf("%s: %v has no keys", layout, b.Action)
			}
			seen[b.Action] = true
		}
		for a := ActionForward; a <= ActionQuit; a++ {
			if !seen[a] {
				t.Errorf("%s: %v is unbound", layout, a)
			}
		}
	}
}
