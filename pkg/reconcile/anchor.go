package reconcile

import (
	"github.com/google/uuid"

	"github.com/aretw0/spatialnotes/pkg/core"
	"github.com/aretw0/spatialnotes/pkg/scene"
	"github.com/aretw0/spatialnotes/pkg/spatial"
)

// Anchor binds a note id to a scene object. It refers to its note by id only and
// never holds note data beyond what was last rendered.
type Anchor struct {
	NoteID uuid.UUID
	Handle scene.Handle
	Pose   spatial.Pose

	// Size is the footprint the visual mesh was built with.
	Size core.Size
	// Fingerprint of the content and size last rendered.
	Fingerprint uint64
	// Category last rendered.
	Category core.Category
	// Dragging is set between ApplyDrag and EndDrag.
	Dragging bool
}

func anchorName(id uuid.UUID) string {
	return "NoteAnchor_" + id.String()
}
