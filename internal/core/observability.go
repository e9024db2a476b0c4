package core

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Clock supplies timestamps for pass timing and trace spans.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock. A nil ClockFunc reports the current UTC time.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time {
	if f == nil {
		return time.Now().UTC()
	}
	return f()
}

// MetricsRecorder receives per-volume outcomes and per-pass timings.
type MetricsRecorder interface {
	ObserveVolume(ctx context.Context, pass string, outcome Outcome)
	ObservePass(ctx context.Context, pass string, success bool, duration time.Duration)
}

// Tracer starts spans around build passes.
type Tracer interface {
	Start(ctx context.Context, operation string) (context.Context, TraceSpan)
}

// TraceSpan is ended exactly once with the error that closed the operation, if any.
type TraceSpan interface {
	End(err error)
}

type noopMetrics struct{}

func (noopMetrics) ObserveVolume(context.Context, string, Outcome)           {}
func (noopMetrics) ObservePass(context.Context, string, bool, time.Duration) {}

type noopTracer struct{}

func (noopTracer) Start(ctx context.Context, _ string) (context.Context, TraceSpan) {
	return ctx, noopSpan{}
}

type noopSpan struct{}

func (noopSpan) End(error) {}

// PrometheusRecorder exports build metrics through client_golang collectors.
type PrometheusRecorder struct {
	volumes  *prometheus.CounterVec
	duration *prometheus.HistogramVec
	failures *prometheus.CounterVec
}

// NewPrometheusRecorder creates the collectors and registers them with reg.
func NewPrometheusRecorder(reg prometheus.Registerer) (*PrometheusRecorder, error) {
	r := &PrometheusRecorder{
		volumes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "detgeo_volumes_total",
			Help: "Volumes processed per build pass, by outcome.",
		}, []string{"pass", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "detgeo_pass_duration_seconds",
			Help:    "Wall time of each build pass.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
		}, []string{"pass"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "detgeo_pass_failures_total",
			Help: "Build passes aborted by a fatal error.",
		}, []string{"pass"}),
	}
	for _, c := range []prometheus.Collector{r.volumes, r.duration, r.failures} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// ObserveVolume implements MetricsRecorder.
func (r *PrometheusRecorder) ObserveVolume(_ context.Context, pass string, outcome Outcome) {
	r.volumes.WithLabelValues(pass, outcome.String()).Inc()
}

// ObservePass implements MetricsRecorder.
func (r *PrometheusRecorder) ObservePass(_ context.Context, pass string, success bool, duration time.Duration) {
	r.duration.WithLabelValues(pass).Observe(duration.Seconds())
	if !success {
		r.failures.WithLabelValues(pass).Inc()
	}
}

type runIDKey struct{}

// ContextWithRunID tags ctx with a build run id picked up by tracers.
func ContextWithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey{}, id)
}

// RunIDFromContext returns the run id stored by ContextWithRunID.
func RunIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(runIDKey{}).(string)
	return id
}

// JSONTraceEntry is one span written by JSONTraceTracer.
type JSONTraceEntry struct {
	RunID      string    `json:"run_id,omitempty"`
	Operation  string    `json:"operation"`
	Status     string    `json:"status"`
	DurationMS float64   `json:"duration_ms"`
	Error      string    `json:"error,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	EndedAt    time.Time `json:"ended_at"`
}

// JSONTraceTracer writes spans as JSON lines and keeps them for inspection.
type JSONTraceTracer struct {
	mu      sync.Mutex
	entries []JSONTraceEntry
	enc     *json.Encoder
	clock   Clock
}

// NewJSONTracer returns a tracer writing to w; a nil writer only retains entries.
func NewJSONTracer(w io.Writer) *JSONTraceTracer {
	t := &JSONTraceTracer{clock: ClockFunc(nil)}
	if w != nil {
		t.enc = json.NewEncoder(w)
	}
	return t
}

// WithClock replaces the tracer's time source.
func (t *JSONTraceTracer) WithClock(c Clock) *JSONTraceTracer {
	if c != nil {
		t.clock = c
	}
	return t
}

// Entries returns a copy of the recorded spans.
func (t *JSONTraceTracer) Entries() []JSONTraceEntry {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]JSONTraceEntry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Start implements Tracer.
func (t *JSONTraceTracer) Start(ctx context.Context, operation string) (context.Context, TraceSpan) {
	return ctx, &jsonTraceSpan{
		tracer:    t,
		runID:     RunIDFromContext(ctx),
		operation: operation,
		started:   t.clock.Now(),
	}
}

type jsonTraceSpan struct {
	tracer    *JSONTraceTracer
	runID     string
	operation string
	started   time.Time
}

func (s *jsonTraceSpan) End(err error) {
	entry := JSONTraceEntry{
		RunID:     s.runID,
		Operation: s.operation,
		Status:    "success",
		StartedAt: s.started,
		EndedAt:   s.tracer.clock.Now(),
	}
	if err != nil {
		entry.Status = "error"
		entry.Error = err.Error()
	}
	entry.DurationMS = float64(entry.EndedAt.Sub(entry.StartedAt)) / float64(time.Millisecond)

	s.tracer.mu.Lock()
	s.tracer.entries = append(s.tracer.entries, entry)
	if s.tracer.enc != nil {
		_ = s.tracer.enc.Encode(entry)
	}
	s.tracer.mu.Unlock()
}
