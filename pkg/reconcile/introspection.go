package reconcile

import (
	"time"

	"github.com/aretw0/introspection"
)

// ReconcilerState exposes internal state for observability.
type ReconcilerState struct {
	Anchors         int        `json:"anchors"`
	Dragging        int        `json:"dragging"`
	Ticks           uint64     `json:"ticks"`
	LightInstalled  bool       `json:"light_installed"`
	RefreshInterval int        `json:"refresh_interval"`
	RenderBudget    int        `json:"render_budget"`
	LastTick        *time.Time `json:"last_tick,omitempty"`
}

// State implements introspection.Introspectable. Like every other method it must
// be called from the goroutine that owns the Reconciler (see Loop.Do).
func (r *Reconciler) State() any {
	dragging := 0
	for _, a := range r.anchors {
		if a.Dragging {
			dragging++
		}
	}
	var last *time.Time
	if !r.lastTick.IsZero() {
		t := r.lastTick
		last = &t
	}
	return ReconcilerState{
		Anchors:         len(r.anchors),
		Dragging:        dragging,
		Ticks:           r.ticks,
		LightInstalled:  r.light != 0,
		RefreshInterval: r.cfg.RefreshInterval,
		RenderBudget:    r.cfg.RenderBudget,
		LastTick:        last,
	}
}

// ComponentType implements introspection.Component.
func (r *Reconciler) ComponentType() string {
	return "reconciler"
}

var _ introspection.Introspectable = (*Reconciler)(nil)
var _ introspection.Component = (*Reconciler)(nil)
