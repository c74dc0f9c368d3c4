// Package metrics exposes prometheus instrumentation for map generation.
// The collector registers against an injected Registerer so the pipeline
// stays free of ambient singletons.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// GenerationCollector tracks pipeline timing and output counts.
type GenerationCollector struct {
	mapsGenerated  prometheus.Counter
	failures       prometheus.Counter
	layerDuration  *prometheus.HistogramVec
	totalDuration  prometheus.Histogram
}

// NewGenerationCollector creates and registers the collector. Pass
// prometheus.DefaultRegisterer for standard exposure.
func NewGenerationCollector(reg prometheus.Registerer) *GenerationCollector {
	c := &GenerationCollector{
		mapsGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "battlemap_maps_generated_total",
			Help: "Number of maps generated successfully",
		}),
		failures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "battlemap_generation_failures_total",
			Help: "Number of generation runs that returned an error",
		}),
		layerDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "battlemap_layer_duration_seconds",
			Help:    "Time spent inside each pipeline layer",
			Buckets: prometheus.DefBuckets,
		}, []string{"layer"}),
		totalDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "battlemap_generation_duration_seconds",
			Help:    "End to end generation time",
			Buckets: prometheus.DefBuckets,
		}),
	}

	if reg != nil {
		reg.MustRegister(c.mapsGenerated, c.failures, c.layerDuration, c.totalDuration)
	}
	return c
}

// ObserveLayer records the duration of one layer run. Nil-safe.
func (c *GenerationCollector) ObserveLayer(layer string, seconds float64) {
	if c == nil {
		return
	}
	c.layerDuration.WithLabelValues(layer).Observe(seconds)
}

// ObserveGeneration records a completed run. Nil-safe.
func (c *GenerationCollector) ObserveGeneration(seconds float64, err error) {
	if c == nil {
		return
	}
	c.totalDuration.Observe(seconds)
	if err != nil {
		c.failures.Inc()
		return
	}
	c.mapsGenerated.Inc()
}
