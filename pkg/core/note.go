package core

import (
	"time"

	"github.com/google/uuid"

	"github.com/aretw0/spatialnotes/pkg/spatial"
)

// Note is the central entity of the domain: a short text pinned at a pose in the
// space around the user. Identity is the ID alone; two notes with equal content
// are still different notes.
type Note struct {
	ID          uuid.UUID
	Content     string
	Position    spatial.Vec3
	Orientation spatial.Quat
	Category    Category
	Size        Size
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewNote creates an unplaced note (zero position) with a fresh ID.
// The reconciler places unplaced notes in front of the observer.
func NewNote(content string) Note {
	now := time.Now()
	return Note{
		ID:          uuid.New(),
		Content:     content,
		Orientation: spatial.IdentityQuat,
		Category:    CategoryNone,
		Size:        SizeMedium,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Touch bumps UpdatedAt. Called by every successful update, never on create or read.
func (n *Note) Touch() {
	n.UpdatedAt = time.Now()
}

// Placed reports whether the note has ever been given a position.
func (n Note) Placed() bool {
	return !n.Position.IsZero()
}

// Pose returns the stored position and orientation.
func (n Note) Pose() spatial.Pose {
	return spatial.Pose{Position: n.Position, Orientation: n.Orientation}
}

// Transform returns the stored pose as a 4x4 transform.
func (n Note) Transform() spatial.Mat4 {
	return n.Pose().Matrix()
}

// NoteFromTransform creates a new note whose pose is taken from m.
func NoteFromTransform(m spatial.Mat4) Note {
	n := NewNote("")
	pose := spatial.PoseFromMatrix(m)
	n.Position = pose.Position
	n.Orientation = pose.Orientation
	return n
}

// ShortID is the id prefix used in logs and CLI output.
func ShortID(id uuid.UUID) string {
	return id.String()[:8]
}
