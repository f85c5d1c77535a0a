// Package metrics exposes engine counters for Prometheus.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Pick results used as label values.
const (
	PickHit  = "hit"
	PickMiss = "miss"
)

// Recorder holds the engine metrics. A nil *Recorder records nothing.
type Recorder struct {
	reg *prometheus.Registry

	frames        prometheus.Counter
	frameDuration prometheus.Histogram
	rebuilds      prometheus.Counter
	picks         *prometheus.CounterVec
	selections    *prometheus.CounterVec
	speedClamps   prometheus.Counter
	bodies        prometheus.Gauge
	visibleRings  prometheus.Gauge
	promotedRings prometheus.Gauge
	speed         prometheus.Gauge
}

// New creates a recorder with its own registry.
func New() *Recorder {
	r := &Recorder{
		reg: prometheus.NewRegistry(),
		frames: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "orrery_frames_total",
			Help: "Total number of simulated frames.",
		}),
		frameDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "orrery_frame_duration_seconds",
			Help:    "Time spent in one engine tick.",
			Buckets: []float64{0.0005, 0.001, 0.002, 0.004, 0.008, 0.016, 0.032, 0.064},
		}),
		rebuilds: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "orrery_rebuilds_total",
			Help: "Total number of scene rebuilds.",
		}),
		picks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "orrery_picks_total",
			Help: "Pick requests by result.",
		}, []string{"result"}),
		selections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "orrery_selections_total",
			Help: "Body selections by source.",
		}, []string{"source"}),
		speedClamps: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "orrery_speed_clamps_total",
			Help: "Selections that lowered the simulation speed.",
		}),
		bodies: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "orrery_bodies",
			Help: "Bodies in the current scene.",
		}),
		visibleRings: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "orrery_visible_rings",
			Help: "Indicator rings visible after the last resolver pass.",
		}),
		promotedRings: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "orrery_promoted_rings",
			Help: "System rings shown after the last resolver pass.",
		}),
		speed: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "orrery_speed",
			Help: "Simulation time units per wall second.",
		}),
	}
	r.reg.MustRegister(r.frames, r.frameDuration, r.rebuilds, r.picks, r.selections,
		r.speedClamps, r.bodies, r.visibleRings, r.promotedRings, r.speed)
	return r
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.reg
}

// Handler returns the Prometheus metrics HTTP handler.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

// Frame records one tick.
func (r *Recorder) Frame(d time.Duration, visible, promoted int, speed float64) {
	if r == nil {
		return
	}
	r.frames.Inc()
	r.frameDuration.Observe(d.Seconds())
	r.visibleRings.Set(float64(visible))
	r.promotedRings.Set(float64(promoted))
	r.speed.Set(speed)
}

// Rebuild records a scene rebuild.
func (r *Recorder) Rebuild(bodies int) {
	if r == nil {
		return
	}
	r.rebuilds.Inc()
	r.bodies.Set(float64(bodies))
}

// Pick records a pick request.
func (r *Recorder) Pick(hit bool) {
	if r == nil {
		return
	}
	result := PickMiss
	if hit {
		result = PickHit
	}
	r.picks.WithLabelValues(result).Inc()
}

// Select records a selection and whether it clamped the speed.
func (r *Recorder) Select(source string, clamped bool) {
	if r == nil {
		return
	}
	r.selections.WithLabelValues(source).Inc()
	if clamped {
		r.speedClamps.Inc()
	}
}

// Serve runs the metrics endpoint on addr until ctx is done.
func Serve(ctx context.Context, addr string, h http.Handler) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", h)
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown metrics server: %w", err)
		}
		return nil
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("metrics server: %w", err)
	}
}
