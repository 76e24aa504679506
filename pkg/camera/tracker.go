// Package camera keeps the latest known observer pose and derives placement points from it.
package camera

import (
	"log/slog"
	"sync"

	"github.com/aretw0/spatialnotes/pkg/spatial"
)

// degenerateForward is the length below which a derived forward vector is
// considered missing and replaced by spatial.Forward.
const degenerateForward = 0.01

// Tracker holds the observer transform. The zero value is not usable; call New.
type Tracker struct {
	logger *slog.Logger

	mu        sync.RWMutex
	transform spatial.Mat4
	known     bool
	fallback  bool // true while running on the identity default
	lostLog   bool // a "tracking lost" line was already emitted
}

// New creates a Tracker with no pose. A nil logger uses slog.Default().
func New(logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracker{logger: logger}
}

// UpdatePose records the latest observer pose from the host. When ok is false the
// host has no tracking: the first such call initializes the identity transform, later
// ones keep the last known pose. Feeding the same pose again changes nothing.
func (t *Tracker) UpdatePose(raw spatial.Pose, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !ok {
		switch {
		case !t.known:
			t.transform = spatial.Identity
			t.known = true
			t.fallback = true
			t.logger.Info("camera tracking unavailable, using default transform at origin")
		case !t.fallback && !t.lostLog:
			t.lostLog = true
			t.logger.Warn("camera tracking lost, keeping last known pose",
				"position", t.transform.Translation())
		}
		return
	}

	m := raw.Matrix()
	if t.known && m == t.transform {
		return
	}
	if t.fallback || t.lostLog {
		t.logger.Info("camera tracking available", "position", raw.Position)
	}
	t.transform = m
	t.known = true
	t.fallback = false
	t.lostLog = false
}

// UpdateTransform is UpdatePose for hosts that report a 4x4 transform.
func (t *Tracker) UpdateTransform(m spatial.Mat4) {
	t.UpdatePose(spatial.PoseFromMatrix(m), true)
}

// Transform returns the current observer transform and whether one was ever set.
func (t *Tracker) Transform() (spatial.Mat4, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.transform, t.known
}

// Pose returns the current observer pose and whether one was ever set.
func (t *Tracker) Pose() (spatial.Pose, bool) {
	m, ok := t.Transform()
	if !ok {
		return spatial.Pose{}, false
	}
	return spatial.PoseFromMatrix(m), true
}

// ForwardPoint returns the point distance meters straight ahead of the observer:
// the camera position plus the normalized, negated third column of its transform.
// An identity transform (or a degenerate column) looks down -Z.
// ok is false only before any pose was ever set.
func (t *Tracker) ForwardPoint(distance float64) (spatial.Vec3, bool) {
	m, ok := t.Transform()
	if !ok {
		t.logger.Warn("cannot get camera forward: transform unavailable")
		return spatial.Vec3{}, false
	}

	forward := spatial.Forward
	if !m.IsIdentity() {
		col := m.Column(2).Neg()
		if col.Length() > degenerateForward {
			forward = col.Normalize()
		}
	}

	position := m.Translation()
	target := position.Add(forward.Scale(distance))
	t.logger.Debug("camera forward", "camera", position, "forward", forward, "target", target)
	return target, true
}
