package state

import (
	"sync"
	"testing"
	"time"
)

func TestNewManager(t *testing.T) {
	m := NewManager(DefaultConfig())

	if m == nil {
		t.Fatal("NewManager returned nil")
	}

	if m.HasData() {
		t.Error("HasData should be false initially")
	}

	snap := m.Snapshot()
	if snap.HasFrame {
		t.Error("Snapshot should have no frame before the first Update")
	}
	if len(snap.Events) != 0 {
		t.Errorf("Events = %d, want 0", len(snap.Events))
	}
}

func TestManager_Update(t *testing.T) {
	m := NewManager(DefaultConfig())
	now := time.Now()

	m.Update(Frame{Number: 1, Generation: "g1", Bodies: 9, Running: true, TickDuration: 2 * time.Millisecond}, now)

	if !m.HasData() {
		t.Error("HasData should be true after Update")
	}

	snap := m.Snapshot()
	if !snap.HasFrame || snap.Frame.Number != 1 || snap.Frame.Bodies != 9 {
		t.Errorf("Frame = %+v, want number 1 with 9 bodies", snap.Frame)
	}
	if !snap.LastUpdate.Equal(now) {
		t.Errorf("LastUpdate = %v, want %v", snap.LastUpdate, now)
	}
	if snap.TickAvg != 2*time.Millisecond {
		t.Errorf("TickAvg = %v, want 2ms", snap.TickAvg)
	}
}

func TestManager_DetectEvents(t *testing.T) {
	m := NewManager(DefaultConfig())
	now := time.Now()

	base := Frame{Generation: "g1", Subject: "Earth", Selected: "Earth", Running: true}
	m.Update(base, now)

	f := base
	f.Selected = "Mars"
	m.Update(f, now.Add(time.Second))

	f.Selected = ""
	m.Update(f, now.Add(2*time.Second))

	f.Running = false
	m.Update(f, now.Add(3*time.Second))

	f.Running = true
	m.Update(f, now.Add(4*time.Second))

	// Unchanged frame adds nothing.
	m.Update(f, now.Add(5*time.Second))

	want := []struct {
		typ  EventType
		body string
	}{
		{EventRebuilt, "Earth"},
		{EventSelected, "Earth"},
		{EventSelected, "Mars"},
		{EventUnfocused, "Mars"},
		{EventPaused, ""},
		{EventResumed, ""},
	}

	events := m.Snapshot().Events
	if len(events) != len(want) {
		t.Fatalf("got %d events, want %d: %+v", len(events), len(want), events)
	}
	for i, w := range want {
		if events[i].Type != w.typ || events[i].Body != w.body {
			t.Errorf("event %d = %s/%q, want %s/%q", i, events[i].Type, events[i].Body, w.typ, w.body)
		}
	}
}

func TestManager_RebuildResetsComparison(t *testing.T) {
	m := NewManager(DefaultConfig())
	now := time.Now()

	m.Update(Frame{Generation: "g1", Selected: "Earth", Running: true}, now)
	// A rebuild that happens to pause reports the rebuild, not a pause.
	m.Update(Frame{Generation: "g2", Selected: "Kepler-22b", Running: false}, now)

	events := m.RecentEvents(2)
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[0].Type != EventRebuilt || events[0].Detail != "g2" {
		t.Errorf("event 0 = %+v, want rebuild g2", events[0])
	}
	if events[1].Type != EventSelected || events[1].Body != "Kepler-22b" {
		t.Errorf("event 1 = %+v, want Kepler-22b selected", events[1])
	}
}

func TestManager_AddEvent(t *testing.T) {
	m := NewManager(DefaultConfig())
	m.AddEvent(Event{Type: EventSpeedClamped, Body: "Moon", Detail: "3.41"})

	events := m.RecentEvents(10)
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if events[0].Timestamp.IsZero() {
		t.Error("AddEvent should stamp events without a timestamp")
	}
	if events[0].Type != EventSpeedClamped || events[0].Body != "Moon" {
		t.Errorf("event = %+v", events[0])
	}
}

func TestManager_FPS(t *testing.T) {
	m := NewManager(Config{MaxHistoryLen: 4, MaxEvents: 5})
	start := time.Now()
	for i := 0; i < 10; i++ {
		m.Update(Frame{Number: uint64(i)}, start.Add(time.Duration(i)*100*time.Millisecond))
	}

	snap := m.Snapshot()
	// Four samples 100ms apart span 300ms.
	if snap.FPS < 9.99 || snap.FPS > 10.01 {
		t.Errorf("FPS = %v, want 10", snap.FPS)
	}
	if snap.Frame.Number != 9 {
		t.Errorf("Frame.Number = %d, want 9", snap.Frame.Number)
	}
}

func TestManager_Snapshot_IsCopy(t *testing.T) {
	m := NewManager(DefaultConfig())
	m.Update(Frame{Generation: "g1", Selected: "Earth"}, time.Now())

	snap := m.Snapshot()
	snap.Frame.Selected = "changed"
	snap.Events[0].Body = "changed"

	again := m.Snapshot()
	if again.Frame.Selected != "Earth" {
		t.Error("modifying the snapshot frame affected the manager")
	}
	if again.Events[0].Body == "changed" {
		t.Error("modifying snapshot events affected the manager")
	}
}

func TestManager_ConcurrentAccess(t *testing.T) {
	m := NewManager(DefaultConfig())

	var wg sync.WaitGroup
	done := make(chan struct{})

	// Writer
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			m.Update(Frame{Number: uint64(i), Generation: "g", Running: i%2 == 0}, time.Now())
			if i%10 == 0 {
				m.AddEvent(Event{Type: EventSpeedClamped})
			}
		}
		close(done)
	}()

	// Readers
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
					_ = m.Snapshot()
					_ = m.HasData()
					_ = m.RecentEvents(5)
				}
			}
		}()
	}

	wg.Wait()
}

func TestManager_EventRingBuffer(t *testing.T) {
	m := NewManager(Config{MaxEvents: 5})

	for i := 0; i < 10; i++ {
		m.AddEvent(Event{
			Type:      EventSelected,
			Timestamp: time.Now().Add(time.Duration(i) * time.Second),
			Body:      string(rune('A' + i)),
		})
	}

	events := m.RecentEvents(10)
	if len(events) != 5 {
		t.Fatalf("RecentEvents returned %d events, want 5", len(events))
	}

	// Oldest to newest: F, G, H, I, J
	for i, e := range events {
		want := string(rune('F' + i))
		if e.Body != want {
			t.Errorf("events[%d].Body = %s, want %s", i, e.Body, want)
		}
	}

	recent := m.RecentEvents(2)
	if len(recent) != 2 || recent[1].Body != "J" {
		t.Errorf("RecentEvents(2) = %+v, want I, J", recent)
	}
}
