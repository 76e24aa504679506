package scene

import (
	"fmt"
	"image"
	"slices"
	"sync"
	"time"

	"github.com/aretw0/spatialnotes/pkg/spatial"
)

// Op names a scene mutation recorded by Memory.
type Op string

const (
	OpCreate  Op = "create"
	OpMove    Op = "move"
	OpDestroy Op = "destroy"
	OpAttach  Op = "attach"
	OpTexture Op = "texture"
)

// Mutation is one recorded call into the host.
type Mutation struct {
	Op       Op
	Handle   Handle
	Name     string
	Pose     spatial.Pose
	Duration time.Duration
	Easing   spatial.Easing
	Mesh     Mesh
	Bounds   image.Rectangle
}

func (m Mutation) String() string {
	switch m.Op {
	case OpCreate:
		return fmt.Sprintf("%s #%d %s at %s", m.Op, m.Handle, m.Name, m.Pose.Position)
	case OpMove:
		return fmt.Sprintf("%s #%d to %s over %s (%s)", m.Op, m.Handle, m.Pose.Position, m.Duration, m.Easing)
	case OpAttach:
		return fmt.Sprintf("%s #%d mesh %.3fx%.3f", m.Op, m.Handle, m.Mesh.Width, m.Mesh.Height)
	case OpTexture:
		return fmt.Sprintf("%s #%d %dx%d", m.Op, m.Handle, m.Bounds.Dx(), m.Bounds.Dy())
	default:
		return fmt.Sprintf("%s #%d", m.Op, m.Handle)
	}
}

// Object is the recorded state of one anchored object.
type Object struct {
	Handle   Handle
	Name     string
	Pose     spatial.Pose
	Mesh     *Mesh
	Texture  image.Image
	Rebuilds int
	Textures int
}

// Memory is a Host that keeps objects in a map and logs every mutation.
// Moves apply their target pose immediately; the recorded duration and easing
// tell callers what animation a real engine would play.
type Memory struct {
	mu       sync.Mutex
	next     Handle
	objects  map[Handle]*Object
	log      []Mutation
	camera   spatial.Pose
	tracking bool
}

// NewMemory creates an empty scene with tracking unavailable.
func NewMemory() *Memory {
	return &Memory{objects: make(map[Handle]*Object)}
}

// SetCamera makes tracking available at pose.
func (m *Memory) SetCamera(pose spatial.Pose) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.camera = pose
	m.tracking = true
}

// LoseTracking makes CameraPose report no pose.
func (m *Memory) LoseTracking() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tracking = false
}

func (m *Memory) CameraPose() (spatial.Pose, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.camera, m.tracking
}

func (m *Memory) CreateAnchor(name string, pose spatial.Pose) (Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	h := m.next
	m.objects[h] = &Object{Handle: h, Name: name, Pose: pose}
	m.log = append(m.log, Mutation{Op: OpCreate, Handle: h, Name: name, Pose: pose})
	return h, nil
}

func (m *Memory) MoveAnchor(h Handle, pose spatial.Pose, duration time.Duration, easing spatial.Easing) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	obj, ok := m.objects[h]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownHandle, h)
	}
	obj.Pose = pose
	m.log = append(m.log, Mutation{Op: OpMove, Handle: h, Name: obj.Name, Pose: pose, Duration: duration, Easing: easing})
	return nil
}

func (m *Memory) DestroyAnchor(h Handle) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	obj, ok := m.objects[h]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownHandle, h)
	}
	delete(m.objects, h)
	m.log = append(m.log, Mutation{Op: OpDestroy, Handle: h, Name: obj.Name})
	return nil
}

func (m *Memory) AttachVisual(h Handle, mesh Mesh) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	obj, ok := m.objects[h]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownHandle, h)
	}
	obj.Mesh = &mesh
	obj.Texture = nil
	obj.Rebuilds++
	m.log = append(m.log, Mutation{Op: OpAttach, Handle: h, Name: obj.Name, Mesh: mesh})
	return nil
}

func (m *Memory) SetVisualContent(h Handle, img image.Image) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	obj, ok := m.objects[h]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownHandle, h)
	}
	if obj.Mesh == nil {
		return fmt.Errorf("object %d has no visual to texture", h)
	}
	obj.Texture = img
	obj.Textures++
	var bounds image.Rectangle
	if img != nil {
		bounds = img.Bounds()
	}
	m.log = append(m.log, Mutation{Op: OpTexture, Handle: h, Name: obj.Name, Bounds: bounds})
	return nil
}

// Object returns a copy of the object behind h.
func (m *Memory) Object(h Handle) (Object, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	obj, ok := m.objects[h]
	if !ok {
		return Object{}, false
	}
	return *obj, true
}

// Objects returns copies of all live objects ordered by handle.
func (m *Memory) Objects() []Object {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Object, 0, len(m.objects))
	for _, obj := range m.objects {
		out = append(out, *obj)
	}
	slices.SortFunc(out, func(a, b Object) int { return int(a.Handle) - int(b.Handle) })
	return out
}

// Len is the number of live objects.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}

// Mutations returns the recorded log.
func (m *Memory) Mutations() []Mutation {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.log)
}

// Drain returns the recorded log and clears it.
func (m *Memory) Drain() []Mutation {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.log
	m.log = nil
	return out
}

// Count returns how many recorded mutations have op, optionally for handle h only (h != 0).
func (m *Memory) Count(op Op, h Handle) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, mut := range m.log {
		if mut.Op == op && (h == 0 || mut.Handle == h) {
			n++
		}
	}
	return n
}

var _ Host = (*Memory)(nil)
