package reseq

import (
	"iter"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusConfig is a config of the Prometheus metrics provided by an
// instrumented sequence.
//
// An instance can be created only by the [Prometheus] function. The zero
// value is invalid.
type PrometheusConfig struct {
	// Namespace of the metrics.
	Namespace string
	// Subsystem of the metrics.
	Subsystem string
	// Options for the appends counter.
	Appends prometheus.CounterOpts
	// Options for the reuse hits counter.
	ReuseHits prometheus.CounterOpts
	// Options for the reuse misses counter.
	ReuseMisses prometheus.CounterOpts
	// Options for the resets counter.
	Resets prometheus.CounterOpts
	// Options for the live elements gauge.
	LiveElements prometheus.GaugeOpts

	registerer prometheus.Registerer
}

// Prometheus returns a [PrometheusConfig] with the provided registerer. If
// registerer is nil, metrics will not be registered. Many default parameters
// can be configured by passing configuration functions.
func Prometheus(
	registerer prometheus.Registerer,
	configFuncs ...func(c *PrometheusConfig),
) *PrometheusConfig {
	const (
		namespace = "reseq"
		subsystem = ""
	)

	c := PrometheusConfig{
		registerer: registerer,
		Namespace:  namespace,
		Subsystem:  subsystem,
		Appends: prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "appends",
			Help:      "Number of elements appended to the sequence",
		},
		ReuseHits: prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "reuse_hits",
			Help:      "Number of reuse attempts that revived a reservoir slot",
		},
		ReuseMisses: prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "reuse_misses",
			Help:      "Number of reuse attempts that found no reservoir slot",
		},
		Resets: prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "resets",
			Help:      "Number of times the sequence was emptied",
		},
		LiveElements: prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "live_elements",
			Help:      "Number of live elements in the sequence",
		},
	}

	for _, cf := range configFuncs {
		if cf != nil {
			cf(&c)
		}
	}

	return &c
}

func (c *PrometheusConfig) metrics() *metrics {
	m := metrics{
		appends:      prometheus.NewCounter(c.Appends),
		reuseHits:    prometheus.NewCounter(c.ReuseHits),
		reuseMisses:  prometheus.NewCounter(c.ReuseMisses),
		resets:       prometheus.NewCounterVec(c.Resets, []string{"type"}),
		liveElements: prometheus.NewGauge(c.LiveElements),
	}

	if c.registerer != nil {
		c.registerer.MustRegister(
			m.appends,
			m.reuseHits,
			m.reuseMisses,
			m.resets,
			m.liveElements,
		)
	}

	return &m
}

type metrics struct {
	appends      prometheus.Counter
	reuseHits    prometheus.Counter
	reuseMisses  prometheus.Counter
	resets       *prometheus.CounterVec
	liveElements prometheus.Gauge
}

// Instrumented wraps a [Seq] and maintains Prometheus metrics over its
// operations, most importantly the reuse hit rate: the share of slot
// requests served from the reservoir instead of a fresh allocation.
//
// Like the sequence it wraps, an instrumented sequence is not thread-safe.
type Instrumented[Item any] struct {
	seq *Seq[Item]
	m   *metrics
}

// Instrument wraps seq with the metrics described by config.
func Instrument[Item any](seq *Seq[Item], config *PrometheusConfig) *Instrumented[Item] {
	if seq == nil {
		panic("seq can't be nil")
	}
	if config == nil {
		panic("config can't be nil")
	}
	return &Instrumented[Item]{
		seq: seq,
		m:   config.metrics(),
	}
}

// Seq returns the wrapped sequence. Operations made directly on it are not
// reflected in the metrics.
func (s *Instrumented[Item]) Seq() *Seq[Item] {
	return s.seq
}

func (s *Instrumented[Item]) ReuseNext() *Item {
	slot := s.seq.ReuseNext()
	if slot == nil {
		s.m.reuseMisses.Inc()
		return nil
	}
	s.m.reuseHits.Inc()
	s.m.liveElements.Set(float64(s.seq.Len()))
	return slot
}

func (s *Instrumented[Item]) Append(value Item) {
	s.seq.Append(value)
	s.m.appends.Inc()
	s.m.liveElements.Set(float64(s.seq.Len()))
}

func (s *Instrumented[Item]) Len() int {
	return s.seq.Len()
}

func (s *Instrumented[Item]) Slice() []Item {
	return s.seq.Slice()
}

func (s *Instrumented[Item]) Take() []Item {
	s.m.liveElements.Set(0)
	return s.seq.Take()
}

func (s *Instrumented[Item]) Reset() {
	s.seq.Reset()
	s.m.resets.WithLabelValues("reuse").Inc()
	s.m.liveElements.Set(0)
}

func (s *Instrumented[Item]) Clear() {
	s.seq.Clear()
	s.m.resets.WithLabelValues("drop").Inc()
	s.m.liveElements.Set(0)
}

func (s *Instrumented[Item]) Iter() iter.Seq[Item] {
	return s.seq.Iter()
}

func (s *Instrumented[Item]) IterMut() iter.Seq[*Item] {
	return s.seq.IterMut()
}
