package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/relgraph/relgraph/internal/animation"
	"github.com/relgraph/relgraph/internal/geom"
	"github.com/relgraph/relgraph/internal/highlight"
	"github.com/relgraph/relgraph/internal/scene"
	"github.com/relgraph/relgraph/internal/segment"
	"github.com/relgraph/relgraph/internal/snapshot"
)

var (
	ErrNoScene        = errors.New("no scene loaded")
	ErrUnknownElement = errors.New("unknown element")
	ErrNotRelation    = errors.New("element is not a relation")
)

// Options configures an Engine.
type Options struct {
	Animation animation.Options
	Logger    *slog.Logger
}

// Engine owns the displayed scene tree and reconciles every incoming
// snapshot against it. It is driven by the host: snapshots, pointer events
// and per-frame ticks all arrive on one goroutine.
type Engine struct {
	root      *scene.Root
	update    *animation.Update
	scheduler *animation.FrameScheduler
	composer  *animation.Composer
	tracker   highlight.Tracker
	logger    *slog.Logger

	// Camera applied to the first tree; later trees inherit it.
	scroll geom.Point
	zoom   float64
	canvas geom.Bounds
}

// NewEngine creates a new engine instance.
func NewEngine(opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	animOpts := opts.Animation
	if animOpts.Logger == nil {
		animOpts.Logger = logger
	}
	s := animation.NewFrameScheduler()
	return &Engine{
		scheduler: s,
		composer:  animation.NewComposer(s, animOpts),
		logger:    logger,
		zoom:      1,
	}
}

// --- Commands (host → engine) ---

// ApplySnapshot parses a snapshot and reconciles it with the displayed tree.
func (e *Engine) ApplySnapshot(data []byte) (*animation.Update, error) {
	s, err := snapshot.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("apply snapshot: %w", err)
	}
	root, err := scene.Build(s)
	if err != nil {
		return nil, fmt.Errorf("apply snapshot: %w", err)
	}
	return e.ApplyRoot(root), nil
}

// ApplyRoot reconciles a freshly built tree with the displayed one and
// starts the transition. A transition still running is preempted.
func (e *Engine) ApplyRoot(next *scene.Root) *animation.Update {
	if e.root == nil {
		next.Scroll = e.scroll
		next.Zoom = e.zoom
		next.CanvasBounds = e.canvas
		next.UpdateView()
	}

	u := e.composer.Compose(e.root, next)
	e.root = next
	e.update = u
	e.composer.Run(u, nil, func() {
		if e.update == u {
			e.update = nil
		}
	})

	e.logger.Debug("scene updated",
		"revision", next.ChangeRevision,
		"elements", next.Len(),
		"animated", u.Animation != nil,
	)
	return u
}

// Tick advances the running transition to now and returns draw commands.
// This is called once per animation frame from the host.
func (e *Engine) Tick(now time.Time) string {
	e.scheduler.Advance(now)
	return e.RenderJSON()
}

// SetCamera sets the scroll offset and zoom of the viewport.
func (e *Engine) SetCamera(scroll geom.Point, zoom float64) {
	e.scroll = scroll
	e.zoom = zoom
	if e.root != nil {
		e.root.Scroll = scroll
		e.root.Zoom = zoom
		e.root.UpdateView()
		e.zoom = e.root.Zoom
	}
}

// SetCanvasBounds sets the viewport size in screen pixels.
func (e *Engine) SetCanvasBounds(width, height float64) {
	e.canvas = geom.Bounds{Width: width, Height: height}
	if e.root != nil {
		e.root.CanvasBounds = e.canvas
		e.root.UpdateView()
	}
}

// SetSelection selects exactly the given ids. Ids that are unknown or not
// selectable are reported in the error; the others are still applied.
func (e *Engine) SetSelection(ids []string) error {
	if e.root == nil {
		return ErrNoScene
	}
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	scene.Walk(e.root, func(el scene.Element) bool {
		if s, ok := scene.AsSelectable(el); ok {
			s.SetSelected(want[el.ID()])
		}
		return true
	})

	var errs []error
	for _, id := range ids {
		el, ok := e.root.Lookup(id)
		if !ok {
			errs = append(errs, fmt.Errorf("select %q: %w", id, ErrUnknownElement))
			continue
		}
		if _, ok := scene.AsSelectable(el); !ok {
			errs = append(errs, fmt.Errorf("select %q: not selectable", id))
		}
	}
	return errors.Join(errs...)
}

// PointerMove updates hover highlighting for a pointer at viewport
// coordinates with the given button mask.
func (e *Engine) PointerMove(viewX, viewY float64, buttons int) (highlight.Action, bool) {
	if e.root == nil {
		return highlight.Action{}, false
	}
	target := scene.HitTest(e.root, e.root.ToCanvas(geom.Pt(viewX, viewY)))
	a, ok := e.tracker.PointerMove(target, buttons, e.root)
	if ok {
		highlight.Apply(e.root, a)
	}
	return a, ok
}

// --- Queries (host ← engine) ---

// Root returns the displayed tree, or nil before the first snapshot.
func (e *Engine) Root() *scene.Root { return e.root }

// Revision returns the change revision of the displayed tree.
func (e *Engine) Revision() int {
	if e.root == nil {
		return 0
	}
	return e.root.ChangeRevision
}

// Animating reports whether a transition is running.
func (e *Engine) Animating() bool { return e.scheduler.Active() }

// Render compiles the displayed tree, and any elements still fading out,
// into draw commands.
func (e *Engine) Render() []DrawCommand {
	var ghosts []scene.Element
	if e.update != nil {
		ghosts = e.update.Ghosts
	}
	return CompileDrawCommands(e.root, ghosts)
}

// RenderJSON returns Render as JSON.
func (e *Engine) RenderJSON() string {
	result, err := DrawCommandsToJSON(e.Render())
	if err != nil {
		e.logger.Error("failed to encode draw commands", "error", err)
	}
	return result
}

// HitTest performs a hit test at the given viewport coordinates.
// Returns the id of the topmost hit, or empty string.
func (e *Engine) HitTest(viewX, viewY float64) string {
	if e.root == nil {
		return ""
	}
	hit := scene.HitTest(e.root, e.root.ToCanvas(geom.Pt(viewX, viewY)))
	if hit == nil {
		return ""
	}
	return hit.ID()
}

// Project finds the point on a relation's path closest to the canvas point
// p, or the orthogonal foot point when orthogonal is set.
func (e *Engine) Project(relationID string, p geom.Point, orthogonal bool) (segment.PathHit, error) {
	if e.root == nil {
		return segment.PathHit{}, ErrNoScene
	}
	el, ok := e.root.Lookup(relationID)
	if !ok {
		return segment.PathHit{}, fmt.Errorf("project %q: %w", relationID, ErrUnknownElement)
	}
	rel, ok := el.(*scene.Relation)
	if !ok {
		return segment.PathHit{}, fmt.Errorf("project %q: %w", relationID, ErrNotRelation)
	}

	var hit segment.PathHit
	if orthogonal {
		hit, ok = rel.Path.ProjectPointOrthogonal(p)
	} else {
		hit, ok = rel.Path.ProjectPoint(p)
	}
	if !ok {
		return segment.PathHit{}, fmt.Errorf("project %q: empty path", relationID)
	}
	return hit, nil
}

// GetSelection returns the selected ids in tree order.
func (e *Engine) GetSelection() []string {
	if e.root == nil {
		return nil
	}
	var ids []string
	scene.Walk(e.root, func(el scene.Element) bool {
		if s, ok := scene.AsSelectable(el); ok && s.Selected() {
			ids = append(ids, el.ID())
		}
		return true
	})
	return ids
}

// GetSelectionBounds returns the bounding box of the current selection as JSON.
func (e *Engine) GetSelectionBounds() string {
	if e.root == nil {
		return RectToJSON(geom.Bounds{})
	}
	return RectToJSON(GetSelectionBounds(e.root, e.GetSelection()))
}

// GetViewState returns the camera and revision as JSON.
func (e *Engine) GetViewState() string {
	state := map[string]any{
		"revision":  e.Revision(),
		"animating": e.Animating(),
		"scroll":    e.scroll,
		"zoom":      e.zoom,
	}
	if e.root != nil {
		state["scroll"] = e.root.Scroll
		state["zoom"] = e.root.Zoom
		state["visible"] = e.root.VisibleRegion()
	}
	data, _ := json.Marshal(state)
	return string(data)
}
