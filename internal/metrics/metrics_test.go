package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorder(t *testing.T) {
	r := New()

	r.Frame(4*time.Millisecond, 7, 2, 10)
	r.Frame(6*time.Millisecond, 5, 1, 20)
	r.Rebuild(15)
	r.Pick(true)
	r.Pick(false)
	r.Pick(false)
	r.Select("pick", false)
	r.Select("sidebar", true)

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"frames", testutil.ToFloat64(r.frames), 2},
		{"rebuilds", testutil.ToFloat64(r.rebuilds), 1},
		{"bodies", testutil.ToFloat64(r.bodies), 15},
		{"visible rings", testutil.ToFloat64(r.visibleRings), 5},
		{"promoted rings", testutil.ToFloat64(r.promotedRings), 1},
		{"speed", testutil.ToFloat64(r.speed), 20},
		{"pick hits", testutil.ToFloat64(r.picks.WithLabelValues(PickHit)), 1},
		{"pick misses", testutil.ToFloat64(r.picks.WithLabelValues(PickMiss)), 2},
		{"sidebar selections", testutil.ToFloat64(r.selections.WithLabelValues("sidebar")), 1},
		{"speed clamps", testutil.ToFloat64(r.speedClamps), 1},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestNilRecorder(t *testing.T) {
	var r *Recorder
	// None of these may panic.
	r.Frame(time.Millisecond, 1, 0, 1)
	r.Rebuild(1)
	r.Pick(true)
	r.Select("pick", true)
}

func TestHandler(t *testing.T) {
	r := New()
	r.Rebuild(3)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body := rec.Body.String()
	if !strings.Contains(body, "orrery_bodies 3") {
		t.Errorf("metrics output missing orrery_bodies:\n%s", body)
	}
	if !strings.Contains(body, "orrery_rebuilds_total 1") {
		t.Errorf("metrics output missing orrery_rebuilds_total:\n%s", body)
	}
}
