package core

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/aretw0/spatialnotes/pkg/spatial"
)

// appleEpoch is the reference date of numeric timestamps written by Apple's JSON encoder.
var appleEpoch = time.Date(2001, time.January, 1, 0, 0, 0, 0, time.UTC)

// noteRecord is the on-disk shape. Fields are declared in key order so the
// encoder emits sorted keys.
type noteRecord struct {
	Category    string          `json:"category"`
	Content     string          `json:"content"`
	CreatedAt   json.RawMessage `json:"createdAt,omitempty"`
	ID          string          `json:"id"`
	Orientation []float64       `json:"orientation"`
	Position    []float64       `json:"position"`
	Size        string          `json:"size"`
	UpdatedAt   json.RawMessage `json:"updatedAt,omitempty"`
}

// MarshalJSON encodes position as [x,y,z], orientation as [x,y,z,w] and
// timestamps as RFC 3339.
func (n Note) MarshalJSON() ([]byte, error) {
	pos := n.Position.Array()
	rot := n.Orientation.Array()
	created, err := json.Marshal(n.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return nil, err
	}
	updated, err := json.Marshal(n.UpdatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return nil, err
	}
	return json.Marshal(noteRecord{
		Category:    string(n.Category.orNone()),
		Content:     n.Content,
		CreatedAt:   created,
		ID:          n.ID.String(),
		Orientation: rot[:],
		Position:    pos[:],
		Size:        string(n.Size.orMedium()),
		UpdatedAt:   updated,
	})
}

// UnmarshalJSON decodes a record leniently: unknown category and size fall back to
// None and Medium, missing timestamps to now, a missing position to the unplaced
// sentinel and a missing orientation to the identity. A bad id or an array of the
// wrong length is ErrMalformed.
func (n *Note) UnmarshalJSON(data []byte) error {
	var rec noteRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	id, err := uuid.Parse(rec.ID)
	if err != nil {
		return fmt.Errorf("%w: id %q: %v", ErrMalformed, rec.ID, err)
	}

	pos := spatial.Zero
	if rec.Position != nil {
		if len(rec.Position) != 3 {
			return fmt.Errorf("%w: position must have 3 elements, got %d", ErrMalformed, len(rec.Position))
		}
		pos = spatial.V(rec.Position[0], rec.Position[1], rec.Position[2])
	}

	rot := spatial.IdentityQuat
	if rec.Orientation != nil {
		if len(rec.Orientation) != 4 {
			return fmt.Errorf("%w: orientation must have 4 elements, got %d", ErrMalformed, len(rec.Orientation))
		}
		rot = spatial.Quat{
			X: rec.Orientation[0],
			Y: rec.Orientation[1],
			Z: rec.Orientation[2],
			W: rec.Orientation[3],
		}
	}

	now := time.Now()
	*n = Note{
		ID:          id,
		Content:     rec.Content,
		Position:    pos,
		Orientation: rot.Normalize(),
		Category:    ParseCategory(rec.Category),
		Size:        ParseSize(rec.Size),
		CreatedAt:   decodeTime(rec.CreatedAt, now),
		UpdatedAt:   decodeTime(rec.UpdatedAt, now),
	}
	return nil
}

// decodeTime accepts RFC 3339 strings and numeric seconds since the Apple epoch.
// Anything else yields fallback.
func decodeTime(raw json.RawMessage, fallback time.Time) time.Time {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return fallback
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
			return t
		}
		return fallback
	}

	var secs float64
	if err := json.Unmarshal(raw, &secs); err == nil && !math.IsNaN(secs) && !math.IsInf(secs, 0) {
		whole, frac := math.Modf(secs)
		return appleEpoch.Add(time.Duration(whole)*time.Second + time.Duration(frac*float64(time.Second)))
	}
	return fallback
}

// EncodeNotes renders the collection as the pretty-printed JSON array stored on disk.
func EncodeNotes(notes []Note) ([]byte, error) {
	if notes == nil {
		notes = []Note{}
	}
	data, err := json.MarshalIndent(notes, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// DecodeNotes parses a notes file. Any malformed record fails the whole document.
func DecodeNotes(data []byte) ([]Note, error) {
	var notes []Note
	if err := json.Unmarshal(data, &notes); err != nil {
		if errors.Is(err, ErrMalformed) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if notes == nil {
		notes = []Note{}
	}
	return notes, nil
}
