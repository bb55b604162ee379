package observability

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// EngineCollector bundles Prometheus metrics for the per-frame propagation
// pipeline and exposes a ready-to-mount /metrics handler.
type EngineCollector struct {
	gatherer prometheus.Gatherer

	FramesTotal   prometheus.Counter
	FrameDuration prometheus.Histogram

	FleetSize     prometheus.Gauge
	ActiveTLEFile prometheus.Gauge

	PropagationFailures *prometheus.CounterVec
}

// NewEngineCollector registers engine Prometheus metrics against the
// provided registerer, defaulting to the global Prometheus registry when
// nil.
func NewEngineCollector(reg prometheus.Registerer) (*EngineCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	frames, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "engine_frames_total",
		Help: "Total number of completed per-frame pipeline updates.",
	}), "engine_frames_total")
	if err != nil {
		return nil, err
	}

	duration, err := registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "engine_frame_duration_seconds",
		Help:    "Wall time spent in one per-frame pipeline update.",
		Buckets: []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1},
	}), "engine_frame_duration_seconds")
	if err != nil {
		return nil, err
	}

	fleet, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "engine_fleet_size",
		Help: "Number of satellites in the active roster.",
	}), "engine_fleet_size")
	if err != nil {
		return nil, err
	}

	activeFile, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "engine_active_tle_file",
		Help: "Index of the active file in the time-sliced TLE set.",
	}), "engine_active_tle_file")
	if err != nil {
		return nil, err
	}

	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "engine_propagation_failures_total",
		Help: "Per-satellite propagation failures swallowed by the fleet batch, labeled by reason.",
	}, []string{"reason"})
	failures, err = registerCounterVec(reg, failures, "engine_propagation_failures_total")
	if err != nil {
		return nil, err
	}

	return &EngineCollector{
		gatherer:            gatherer,
		FramesTotal:         frames,
		FrameDuration:       duration,
		FleetSize:           fleet,
		ActiveTLEFile:       activeFile,
		PropagationFailures: failures,
	}, nil
}

// ObserveFrame records one completed frame update.
func (c *EngineCollector) ObserveFrame(seconds float64) {
	if c == nil {
		return
	}
	if c.FramesTotal != nil {
		c.FramesTotal.Inc()
	}
	if c.FrameDuration != nil {
		c.FrameDuration.Observe(seconds)
	}
}

// RecordFailure counts one swallowed per-satellite failure.
func (c *EngineCollector) RecordFailure(reason string) {
	if c == nil || c.PropagationFailures == nil {
		return
	}
	c.PropagationFailures.WithLabelValues(reason).Inc()
}

// SetFleetSize updates the roster-size gauge.
func (c *EngineCollector) SetFleetSize(n int) {
	if c == nil || c.FleetSize == nil {
		return
	}
	c.FleetSize.Set(float64(n))
}

// SetActiveFile updates the active TLE file gauge.
func (c *EngineCollector) SetActiveFile(idx int) {
	if c == nil || c.ActiveTLEFile == nil {
		return
	}
	c.ActiveTLEFile.Set(float64(idx))
}

// Handler exposes a ready-to-use /metrics handler.
func (c *EngineCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogram(reg prometheus.Registerer, hist prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(hist); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return hist, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
