package metrics

import (
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorRegistersAndCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewGenerationCollector(reg)

	c.ObserveGeneration(0.12, nil)
	c.ObserveGeneration(0.05, nil)
	c.ObserveGeneration(0.01, fmt.Errorf("boom"))
	c.ObserveLayer("geology", 0.01)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.mapsGenerated))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.failures))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["battlemap_layer_duration_seconds"])
	assert.True(t, names["battlemap_generation_duration_seconds"])
}

func TestCollectorNilSafe(t *testing.T) {
	var c *GenerationCollector
	assert.NotPanics(t, func() {
		c.ObserveLayer("geology", 0.1)
		c.ObserveGeneration(0.1, nil)
	})
}
