package reconcile

import (
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aretw0/spatialnotes/pkg/camera"
	"github.com/aretw0/spatialnotes/pkg/core"
	"github.com/aretw0/spatialnotes/pkg/render"
	"github.com/aretw0/spatialnotes/pkg/scene"
	"github.com/aretw0/spatialnotes/pkg/spatial"
)

const (
	// PositionTolerance is the per-axis distance, in meters, below which a stored
	// position and an anchor position are considered equal.
	PositionTolerance = 0.01

	// orientationTolerance is the per-component quaternion tolerance.
	orientationTolerance = 0.001

	// SpawnDistance is how far ahead of the observer unplaced notes appear.
	SpawnDistance = 1.0

	// DefaultFocusDistance is where Focus brings a note.
	DefaultFocusDistance = 0.8

	// FocusDuration is the length of the focus animation.
	FocusDuration = 500 * time.Millisecond

	// DefaultRefreshInterval is the number of ticks between periodic refreshes.
	DefaultRefreshInterval = 10
)

// FallbackSpawn is used for unplaced notes while the camera pose is unknown.
var FallbackSpawn = spatial.V(0, 0, -1)

// lightPosition is where Setup hangs the scene light.
var lightPosition = spatial.V(0, 2, 0)

// Notes is the view of the note collection the reconciler consumes.
// *core.Service satisfies it.
type Notes interface {
	ListNotes() []core.Note
	UpdatePosition(id uuid.UUID, pos spatial.Vec3) (core.Note, error)
}

// Config tunes a Reconciler.
type Config struct {
	// RefreshInterval is the number of ticks between periodic refreshes. On a
	// refresh tick every anchor whose note no longer matches what was last
	// rendered is re-rendered, including changes the fingerprint does not cover
	// such as the category. Zero disables it.
	RefreshInterval int

	// RenderBudget caps content re-renders per tick; the rest wait for the
	// next tick. Creations are never deferred. Zero means no cap.
	RenderBudget int

	Logger  *slog.Logger
	Metrics *Metrics
}

// Report summarizes the scene mutations of one tick.
type Report struct {
	Tick     uint64
	Created  int
	Moved    int
	Removed  int
	Rendered int // texture swaps on an existing mesh
	Rebuilt  int // mesh rebuilds after a size change
	Deferred int // renders pushed to a later tick by the budget
	// CountChanged is set when the number of notes differs from the previous tick.
	CountChanged bool
}

// Mutations is the number of scene mutations the tick issued.
func (r Report) Mutations() int {
	return r.Created + r.Moved + r.Removed + r.Rendered + r.Rebuilt
}

// Reconciler owns the note id → anchor map of one scene.
type Reconciler struct {
	notes    Notes
	host     scene.Host
	camera   *camera.Tracker
	renderer render.Renderer
	logger   *slog.Logger
	metrics  *Metrics
	cfg      Config

	anchors   map[uuid.UUID]*Anchor
	light     scene.Handle
	ticks     uint64
	lastCount int
	lastTick  time.Time
}

// New creates a Reconciler. A nil tracker or renderer gets a default one.
func New(notes Notes, host scene.Host, tracker *camera.Tracker, renderer render.Renderer, cfg Config) *Reconciler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if tracker == nil {
		tracker = camera.New(cfg.Logger)
	}
	if renderer == nil {
		renderer = render.Card{}
	}
	return &Reconciler{
		notes:    notes,
		host:     host,
		camera:   tracker,
		renderer: renderer,
		logger:   cfg.Logger,
		metrics:  cfg.Metrics,
		cfg:      cfg,
		anchors:  make(map[uuid.UUID]*Anchor),
	}
}

// Camera returns the tracker fed by every tick.
func (r *Reconciler) Camera() *camera.Tracker {
	return r.camera
}

// Setup prepares the scene: it hangs a light so panels are visible.
// Calling it again is a no-op until Teardown.
func (r *Reconciler) Setup() {
	if r.light != 0 {
		return
	}
	h, err := r.host.CreateAnchor("SceneLight", spatial.At(lightPosition))
	if err != nil {
		r.logger.Warn("failed to add scene light", "error", err)
		return
	}
	r.light = h
	r.logger.Debug("scene setup complete")
}

// Tick runs one reconciliation pass: refresh the camera pose, remove anchors of
// deleted notes, create anchors for new notes, then move and re-render the rest.
func (r *Reconciler) Tick() Report {
	start := time.Now()
	r.ticks++
	rep := Report{Tick: r.ticks}

	pose, ok := r.host.CameraPose()
	r.camera.UpdatePose(pose, ok)

	notes := r.notes.ListNotes()
	if len(notes) != r.lastCount {
		r.logger.Debug("note count changed, syncing anchors immediately",
			"from", r.lastCount, "to", len(notes))
		rep.CountChanged = true
		r.lastCount = len(notes)
	}

	present := make(map[uuid.UUID]struct{}, len(notes))
	for _, n := range notes {
		present[n.ID] = struct{}{}
	}

	// Removals first so that no update runs against an anchor of a deleted note.
	var gone []uuid.UUID
	for id := range r.anchors {
		if _, ok := present[id]; !ok {
			gone = append(gone, id)
		}
	}
	slices.SortFunc(gone, func(a, b uuid.UUID) int { return strings.Compare(a.String(), b.String()) })
	for _, id := range gone {
		if r.RemoveAnchor(id) {
			rep.Removed++
		}
	}

	created := make(map[uuid.UUID]bool)
	for _, n := range notes {
		if _, ok := r.anchors[n.ID]; ok {
			continue
		}
		if r.create(n) {
			created[n.ID] = true
			rep.Created++
		}
	}

	refresh := r.cfg.RefreshInterval > 0 && r.ticks%uint64(r.cfg.RefreshInterval) == 0
	renders := 0
	for _, n := range notes {
		a, ok := r.anchors[n.ID]
		if !ok || created[n.ID] {
			continue
		}
		if r.syncPose(a, n) {
			rep.Moved++
		}

		if !r.stale(a, n, refresh) {
			continue
		}
		if r.cfg.RenderBudget > 0 && renders >= r.cfg.RenderBudget {
			rep.Deferred++
			continue
		}
		renders++
		if n.Size != a.Size {
			r.logger.Debug("note size changed, rebuilding visual",
				"id", core.ShortID(n.ID), "from", a.Size, "to", n.Size)
			r.buildVisual(a, n)
			rep.Rebuilt++
		} else {
			r.texture(a, n)
			rep.Rendered++
		}
	}

	r.lastTick = time.Now()
	r.metrics.observe(rep, len(r.anchors), r.lastTick.Sub(start))
	if rep.Mutations() > 0 {
		r.logger.Debug("tick applied", "tick", rep.Tick,
			"created", rep.Created, "moved", rep.Moved, "removed", rep.Removed,
			"rendered", rep.Rendered, "rebuilt", rep.Rebuilt, "deferred", rep.Deferred)
	}
	return rep
}

// Ticks is the number of completed ticks.
func (r *Reconciler) Ticks() uint64 {
	return r.ticks
}

// create places an anchor for n. Unplaced notes go SpawnDistance ahead of the
// observer and the chosen position is written back so it survives reloads.
func (r *Reconciler) create(n core.Note) bool {
	pose := n.Pose()
	placed := n.Placed()
	if !placed {
		p, ok := r.camera.ForwardPoint(SpawnDistance)
		if !ok {
			r.logger.Warn("camera unavailable, spawning at fallback point", "id", core.ShortID(n.ID))
			p = FallbackSpawn
		}
		pose.Position = p
	}

	h, err := r.host.CreateAnchor(anchorName(n.ID), pose)
	if err != nil {
		r.logger.Warn("failed to create anchor", "id", core.ShortID(n.ID), "error", err)
		return false
	}
	a := &Anchor{NoteID: n.ID, Handle: h, Pose: pose}
	r.anchors[n.ID] = a
	r.buildVisual(a, n)

	if !placed {
		r.writeBack(n.ID, pose.Position)
	}
	r.logger.Debug("created anchor", "id", core.ShortID(n.ID), "position", pose.Position)
	return true
}

// syncPose moves a to the stored pose of n when they diverge. Anchors being
// dragged keep their live pose.
func (r *Reconciler) syncPose(a *Anchor, n core.Note) bool {
	if a.Dragging {
		return false
	}
	target := n.Pose()
	if target.Near(a.Pose, PositionTolerance, orientationTolerance) {
		return false
	}
	if err := r.host.MoveAnchor(a.Handle, target, 0, spatial.Linear); err != nil {
		r.logger.Warn("failed to move anchor", "id", core.ShortID(n.ID), "error", err)
		return false
	}
	a.Pose = target
	r.logger.Debug("updated anchor pose", "id", core.ShortID(n.ID), "position", target.Position)
	return true
}

// stale reports whether the visual of a no longer matches n.
func (r *Reconciler) stale(a *Anchor, n core.Note, refresh bool) bool {
	if n.Size != a.Size || render.Fingerprint(n.Content, n.Size) != a.Fingerprint {
		return true
	}
	return refresh && n.Category != a.Category
}

// buildVisual (re)creates the panel mesh for the note's size and textures it.
func (r *Reconciler) buildVisual(a *Anchor, n core.Note) {
	w, h := n.Size.Dimensions()
	if err := r.host.AttachVisual(a.Handle, scene.Mesh{Width: w, Height: h}); err != nil {
		r.logger.Warn("failed to attach visual", "id", core.ShortID(n.ID), "error", err)
		return
	}
	a.Size = n.Size
	r.texture(a, n)
}

// texture renders n onto the existing panel, falling back to a placeholder.
func (r *Reconciler) texture(a *Anchor, n core.Note) {
	img, err := r.renderer.Render(n.Content, n.Category, n.Size)
	if err != nil || img == nil {
		r.logger.Warn("failed to render note, using placeholder", "id", core.ShortID(n.ID), "error", err)
		img = render.Placeholder(n.Size)
	}
	if err := r.host.SetVisualContent(a.Handle, img); err != nil {
		r.logger.Warn("failed to set visual content", "id", core.ShortID(n.ID), "error", err)
		return
	}
	a.Fingerprint = render.Fingerprint(n.Content, n.Size)
	a.Category = n.Category
}

// writeBack stores pos as the position of note id. Only the position changes, so
// edits that landed since the note was read are kept.
func (r *Reconciler) writeBack(id uuid.UUID, pos spatial.Vec3) bool {
	if _, err := r.notes.UpdatePosition(id, pos); err != nil {
		r.logger.Warn("failed to write back note position", "id", core.ShortID(id), "error", err)
		return false
	}
	return true
}

// Focus animates the anchor of id to distance meters in front of the observer,
// keeping its orientation, and stores the new position. It logs and does nothing
// when the anchor or the camera pose is unavailable.
func (r *Reconciler) Focus(id uuid.UUID, distance float64) bool {
	target, ok := r.camera.ForwardPoint(distance)
	if !ok {
		r.logger.Warn("cannot focus: camera transform unavailable", "id", core.ShortID(id))
		return false
	}
	a, ok := r.anchors[id]
	if !ok {
		r.logger.Warn("cannot focus: anchor not found", "id", core.ShortID(id))
		return false
	}

	pose := a.Pose.WithPosition(target)
	if err := r.host.MoveAnchor(a.Handle, pose, FocusDuration, spatial.EaseInOut); err != nil {
		r.logger.Warn("cannot focus: move failed", "id", core.ShortID(id), "error", err)
		return false
	}
	a.Pose = pose
	r.metrics.interaction("focus")

	r.writeBack(id, target)
	r.logger.Info("focused on note", "id", core.ShortID(id), "position", target)
	return true
}

// ApplyDrag moves the anchor of id to pos for live feedback. The note collection
// is not touched until EndDrag.
func (r *Reconciler) ApplyDrag(id uuid.UUID, pos spatial.Vec3) bool {
	a, ok := r.anchors[id]
	if !ok {
		r.logger.Warn("cannot drag: anchor not found", "id", core.ShortID(id))
		return false
	}
	pose := a.Pose.WithPosition(pos)
	if err := r.host.MoveAnchor(a.Handle, pose, 0, spatial.Linear); err != nil {
		r.logger.Warn("cannot drag: move failed", "id", core.ShortID(id), "error", err)
		return false
	}
	a.Pose = pose
	a.Dragging = true
	r.metrics.interaction("drag")
	return true
}

// EndDrag finishes a drag and writes the final position to the note once.
func (r *Reconciler) EndDrag(id uuid.UUID) bool {
	a, ok := r.anchors[id]
	if !ok || !a.Dragging {
		r.logger.Warn("cannot end drag: no drag in progress", "id", core.ShortID(id))
		return false
	}
	a.Dragging = false

	if !r.writeBack(id, a.Pose.Position) {
		return false
	}
	r.logger.Debug("drag ended", "id", core.ShortID(id), "position", a.Pose.Position)
	return true
}

// RemoveAnchor destroys the anchor of id and its visual.
func (r *Reconciler) RemoveAnchor(id uuid.UUID) bool {
	a, ok := r.anchors[id]
	if !ok {
		return false
	}
	if err := r.host.DestroyAnchor(a.Handle); err != nil {
		r.logger.Warn("failed to destroy anchor", "id", core.ShortID(id), "error", err)
	}
	delete(r.anchors, id)
	r.logger.Debug("removed anchor", "id", core.ShortID(id))
	return true
}

// AnchorFor returns a copy of the anchor of id.
func (r *Reconciler) AnchorFor(id uuid.UUID) (Anchor, bool) {
	a, ok := r.anchors[id]
	if !ok {
		return Anchor{}, false
	}
	return *a, true
}

// Len is the number of note anchors.
func (r *Reconciler) Len() int {
	return len(r.anchors)
}

// Teardown destroys every anchor and the scene light. The next Tick rebuilds
// the scene from scratch.
func (r *Reconciler) Teardown() {
	for id := range r.anchors {
		r.RemoveAnchor(id)
	}
	if r.light != 0 {
		if err := r.host.DestroyAnchor(r.light); err != nil {
			r.logger.Warn("failed to remove scene light", "error", err)
		}
		r.light = 0
	}
	r.lastCount = 0
	r.logger.Info("scene cleaned up")
}
