// Package scene describes what the reconciler needs from the 3D engine that renders
// the notes, and ships an in-memory engine that records every mutation.
package scene

import (
	"errors"
	"image"
	"time"

	"github.com/aretw0/spatialnotes/pkg/spatial"
)

// ErrUnknownHandle is returned for operations on a destroyed or never created object.
var ErrUnknownHandle = errors.New("unknown scene handle")

// Handle identifies an anchored object owned by the host.
type Handle uint64

// Mesh is the footprint of the flat panel that shows a note, in meters.
type Mesh struct {
	Width  float64
	Height float64
}

// Host is the scene engine capability. Implementations own meshes, lighting and
// input; the reconciler only drives anchored objects through this interface and
// calls it from a single goroutine.
type Host interface {
	// CreateAnchor places a new world-anchored object at pose.
	CreateAnchor(name string, pose spatial.Pose) (Handle, error)

	// MoveAnchor moves an object to pose. A zero duration moves instantly.
	MoveAnchor(h Handle, pose spatial.Pose, duration time.Duration, easing spatial.Easing) error

	// DestroyAnchor removes an object and its visual from the scene.
	DestroyAnchor(h Handle) error

	// AttachVisual (re)builds the visual panel of an object with the given mesh,
	// replacing any previous one.
	AttachVisual(h Handle, mesh Mesh) error

	// SetVisualContent swaps the texture shown on the object's panel.
	SetVisualContent(h Handle, img image.Image) error

	// CameraPose reports the observer pose, ok is false while tracking is unavailable.
	CameraPose() (pose spatial.Pose, ok bool)
}
