package reconcile_test

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/aretw0/spatialnotes/pkg/core"
	"github.com/aretw0/spatialnotes/pkg/reconcile"
	"github.com/aretw0/spatialnotes/pkg/scene"
	"github.com/aretw0/spatialnotes/pkg/spatial"
)

// notePositions turns generated offsets into note positions. Offsets close to
// zero stand for notes that were never placed.
func notePositions(xs []float64) []spatial.Vec3 {
	out := make([]spatial.Vec3, len(xs))
	for i, x := range xs {
		if math.Abs(x) < 0.5 {
			out[i] = spatial.Zero
			continue
		}
		out[i] = spatial.V(x, 1.2, -1.5)
	}
	return out
}

func TestProperty_PlacementAndIdempotence(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("anchors match stored or spawned poses and a second tick is silent", prop.ForAll(
		func(xs []float64, yaw float64) bool {
			svc := core.NewService(nil, nil)
			host := scene.NewMemory()
			host.SetCamera(spatial.Pose{
				Position:    spatial.V(0, 1.6, 0),
				Orientation: spatial.AxisAngle(spatial.V(0, 1, 0), yaw),
			})

			positions := notePositions(xs)
			var ids []core.Note
			for _, p := range positions {
				n := core.NewNote("generated")
				n.Position = p
				if err := svc.AddNote(n); err != nil {
					return false
				}
				ids = append(ids, n)
			}

			rec := reconcile.New(svc, host, nil, nil, reconcile.Config{RefreshInterval: 1})
			if rec.Tick().Created != len(ids) {
				return false
			}
			spawn, ok := rec.Camera().ForwardPoint(reconcile.SpawnDistance)
			if !ok {
				return false
			}

			for i, n := range ids {
				a, ok := rec.AnchorFor(n.ID)
				if !ok {
					return false
				}
				want := positions[i]
				if want.IsZero() {
					want = spawn
				}
				if !a.Pose.Position.Near(want, 1e-9) {
					return false
				}
				stored, _ := svc.GetNote(n.ID)
				if !stored.Position.Near(want, 1e-9) {
					return false
				}
			}

			host.Drain()
			return rec.Tick().Mutations() == 0 && len(host.Drain()) == 0
		},
		gen.SliceOf(gen.Float64Range(-2, 2)),
		gen.Float64Range(-math.Pi, math.Pi),
	))

	properties.TestingRun(t)
}
