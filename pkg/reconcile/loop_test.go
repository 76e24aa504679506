package reconcile_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/spatialnotes/pkg/core"
	"github.com/aretw0/spatialnotes/pkg/reconcile"
	"github.com/aretw0/spatialnotes/pkg/scene"
	"github.com/aretw0/spatialnotes/pkg/spatial"
)

func TestLoop_RunsInteractionsBetweenTicks(t *testing.T) {
	svc := core.NewService(nil, nil)
	host := scene.NewMemory()
	first := core.NewNote("first")
	first.Position = spatial.V(0, 1, -1)
	require.NoError(t, svc.AddNote(first))

	rec := reconcile.New(svc, host, nil, nil, reconcile.Config{})
	var ticks atomic.Int64
	loop := reconcile.NewLoop(rec, time.Millisecond, func(reconcile.Report) { ticks.Add(1) })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, loop.Start(ctx))
	assert.Error(t, loop.Start(ctx), "second start is rejected")

	var (
		anchor reconcile.Anchor
		found  bool
	)
	require.NoError(t, loop.Do(ctx, func(r *reconcile.Reconciler) {
		anchor, found = r.AnchorFor(first.ID)
	}))
	require.True(t, found, "the first tick runs before any interaction")
	assert.True(t, anchor.Pose.Position.Near(first.Position, 1e-9))

	second := core.NewNote("second")
	require.NoError(t, svc.AddNote(second))
	require.Eventually(t, func() bool {
		n := 0
		_ = loop.Do(ctx, func(r *reconcile.Reconciler) { n = r.Len() })
		return n == 2
	}, time.Second, 5*time.Millisecond)
	assert.Greater(t, ticks.Load(), int64(1))

	cancel()
	select {
	case <-loop.Done():
	case <-time.After(time.Second):
		t.Fatal("loop did not stop")
	}
	assert.Equal(t, 0, host.Len(), "stopping tears the scene down")
	assert.ErrorIs(t, loop.Do(context.Background(), func(*reconcile.Reconciler) {}), reconcile.ErrStopped)
}

func TestLoop_DoHonorsContext(t *testing.T) {
	rec := reconcile.New(core.NewService(nil, nil), scene.NewMemory(), nil, nil, reconcile.Config{})
	loop := reconcile.NewLoop(rec, 0, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := loop.Do(ctx, func(*reconcile.Reconciler) {})
	assert.ErrorIs(t, err, context.Canceled, "a loop that never started cannot accept work")
}
