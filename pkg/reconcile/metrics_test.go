package reconcile

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/spatialnotes/pkg/core"
	"github.com/aretw0/spatialnotes/pkg/scene"
	"github.com/aretw0/spatialnotes/pkg/spatial"
)

func TestMetrics_CountMutations(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	svc := core.NewService(nil, nil)
	n := core.NewNote("measured")
	n.Position = spatial.V(0, 1, -1)
	require.NoError(t, svc.AddNote(n))
	require.NoError(t, svc.AddNote(core.NewNote("spawned")))

	rec := New(svc, scene.NewMemory(), nil, nil, Config{Metrics: m})
	rec.Tick()
	rec.Focus(n.ID, DefaultFocusDistance)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.mutations.WithLabelValues("create")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.mutations.WithLabelValues("focus")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.anchors))
	assert.Equal(t, 1, testutil.CollectAndCount(m.tickDuration))
}

func TestMetrics_NilIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.observe(Report{Created: 1}, 1, time.Millisecond)
		m.interaction("drag")
	})
}
