package animation

import (
	"log/slog"
	"math"
	"time"

	"github.com/relgraph/relgraph/internal/geom"
	"github.com/relgraph/relgraph/internal/match"
	"github.com/relgraph/relgraph/internal/scene"
)

const (
	DefaultDuration     = 300 * time.Millisecond
	DefaultFadeDuration = 200 * time.Millisecond
)

// Options configures a Composer. Zero values select the defaults.
type Options struct {
	Duration     time.Duration
	FadeDuration time.Duration
	Easing       Easing
	Logger       *slog.Logger
}

// Update is the outcome of reconciling a new tree against the displayed one.
type Update struct {
	Old  *scene.Root
	Root *scene.Root

	Match          *match.Result
	Interpolations []Interpolation
	Fades          []Fade

	// Ghosts are detached old elements that stay visible while they fade
	// out. They keep their old parents so positions still resolve.
	Ghosts []scene.Element

	// Animation is nil when the new tree can be swapped in directly.
	Animation Animation
}

// Composer reconciles successive scene trees and runs the resulting
// animations, one at a time.
type Composer struct {
	duration     time.Duration
	fadeDuration time.Duration
	easing       Easing
	scheduler    Scheduler
	logger       *slog.Logger

	active *Update
}

func NewComposer(s Scheduler, opts Options) *Composer {
	c := &Composer{
		duration:     opts.Duration,
		fadeDuration: opts.FadeDuration,
		easing:       opts.Easing,
		scheduler:    s,
		logger:       opts.Logger,
	}
	if c.duration <= 0 {
		c.duration = DefaultDuration
	}
	if c.fadeDuration <= 0 {
		c.fadeDuration = DefaultFadeDuration
	}
	if c.easing == "" {
		c.easing = Linear
	}
	if c.scheduler == nil {
		c.scheduler = ImmediateScheduler{}
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// Active returns the update whose animation is running, if any.
func (c *Composer) Active() *Update {
	return c.active
}

// Compose matches next against old and carries interaction and camera
// state forward into next. It bumps the change revision by one whether or
// not anything changed. old may be nil for the first tree, which is then
// shown without animation.
func (c *Composer) Compose(old, next *scene.Root) *Update {
	u := &Update{Old: old, Root: next}
	if old == nil {
		u.Match = match.Match(nil, next)
		next.ChangeRevision = 1
		return u
	}

	u.Match = match.Match(old, next)
	for _, e := range u.Match.Entries() {
		switch e.Status {
		case match.Added:
			if !enteredWithParent(u.Match, e.RightParent) {
				u.Fades = append(u.Fades, Fade{Element: e.Right, In: true})
			}
			continue
		case match.Removed:
			if !leftWithParent(u.Match, e.LeftParent) {
				u.Fades = append(u.Fades, Fade{Element: e.Left, In: false})
				u.Ghosts = append(u.Ghosts, e.Left)
			}
			continue
		}

		carryState(e.Left, e.Right)
		if e.Status == match.Moved {
			if !enteredWithParent(u.Match, e.RightParent) {
				u.Fades = append(u.Fades, Fade{Element: e.Right, In: true})
			}
			if !leftWithParent(u.Match, e.LeftParent) {
				u.Fades = append(u.Fades, Fade{Element: e.Left, In: false})
				u.Ghosts = append(u.Ghosts, e.Left)
			}
			continue
		}
		if in, ok := interpolate(e.Left, e.Right); ok {
			u.Interpolations = append(u.Interpolations, in)
		}
	}

	next.CopyViewport(old)
	next.ChangeRevision = old.ChangeRevision + 1

	var parts []Animation
	if len(u.Interpolations) > 0 {
		parts = append(parts, &Morph{Interpolations: u.Interpolations, Length: c.duration, Easing: c.easing})
	}
	if len(u.Fades) > 0 {
		parts = append(parts, &FadeAnimation{Fades: u.Fades, Length: c.fadeDuration, Easing: c.easing})
	}
	switch len(parts) {
	case 0:
	case 1:
		u.Animation = parts[0]
	default:
		u.Animation = &Compound{Parts: parts}
	}

	c.logger.Debug("composed update",
		"revision", next.ChangeRevision,
		"interpolations", len(u.Interpolations),
		"fades", len(u.Fades),
	)
	return u
}

// Run starts the animation of u, preempting any animation still running.
// The preempted animation is abandoned where it stood and its completion
// never fires. onFrame is called after every applied frame and onDone once
// the new tree shows its final state.
func (c *Composer) Run(u *Update, onFrame func(progress float64), onDone func()) {
	if c.active != nil {
		c.logger.Debug("animation preempted",
			"revision", c.active.Root.ChangeRevision,
			"by", u.Root.ChangeRevision,
		)
		c.scheduler.Cancel()
		c.active = nil
	}
	if u.Animation == nil {
		if onDone != nil {
			onDone()
		}
		return
	}

	u.Animation.Apply(0)
	c.active = u
	c.scheduler.Start(u.Animation.Duration(),
		func(p float64) {
			u.Animation.Apply(p)
			if onFrame != nil {
				onFrame(p)
			}
		},
		func() {
			if c.active == u {
				c.active = nil
			}
			u.Ghosts = nil
			if onDone != nil {
				onDone()
			}
		},
	)
}

// Cancel stops the running animation without completing it.
func (c *Composer) Cancel() {
	if c.active == nil {
		return
	}
	c.scheduler.Cancel()
	c.active = nil
}

// carryState copies selection and highlight flags from the old element to
// its counterpart in the new tree.
func carryState(old, next scene.Element) {
	if prev, ok := scene.AsSelectable(old); ok {
		if ns, ok := scene.AsSelectable(next); ok {
			ns.SetSelected(prev.Selected())
		}
	}
	if oh, ok := scene.AsHighlightable(old); ok {
		if nh, ok := scene.AsHighlightable(next); ok {
			nh.SetHighlighted(oh.Highlighted())
		}
	}
}

// interpolate collects the fields both elements declare whose values
// differ. The from value is what old currently displays.
func interpolate(old, next scene.Element) (Interpolation, bool) {
	oa, ok := scene.AsAnimatable(old)
	if !ok {
		return Interpolation{}, false
	}
	na, ok := scene.AsAnimatable(next)
	if !ok {
		return Interpolation{}, false
	}

	fields := make(map[string]Range)
	for _, name := range na.AnimatableFields() {
		from, ok := oa.Field(name)
		if !ok {
			continue
		}
		to, _ := na.Field(name)
		if math.Abs(to-from) <= geom.Epsilon {
			continue
		}
		fields[name] = Range{From: from, To: to}
	}
	if len(fields) == 0 {
		return Interpolation{}, false
	}
	return Interpolation{Element: na, Fields: fields}, true
}

// enteredWithParent reports whether parent itself fades in, which makes a
// separate fade for its child redundant.
func enteredWithParent(r *match.Result, parent scene.Element) bool {
	if parent == nil {
		return false
	}
	e, ok := r.Get(parent.ID())
	return ok && e.Right == parent && (e.Status == match.Added || e.Status == match.Moved)
}

func leftWithParent(r *match.Result, parent scene.Element) bool {
	if parent == nil {
		return false
	}
	e, ok := r.Get(parent.ID())
	return ok && e.Left == parent && (e.Status == match.Removed || e.Status == match.Moved)
}
