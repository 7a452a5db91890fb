// Package match pairs the elements of two scene trees by id.
package match

import (
	"github.com/relgraph/relgraph/internal/scene"
)

type Status int

const (
	Unchanged Status = iota
	Changed
	Added
	Removed
	// Moved elements exist in both trees under different parents.
	Moved
)

func (s Status) String() string {
	switch s {
	case Unchanged:
		return "unchanged"
	case Changed:
		return "changed"
	case Added:
		return "added"
	case Removed:
		return "removed"
	case Moved:
		return "moved"
	default:
		return "unknown"
	}
}

// Entry is the pairing for one id. Left is the element in the old tree and
// Right the element in the new tree; either may be nil.
type Entry struct {
	ID          string
	Left        scene.Element
	Right       scene.Element
	LeftParent  scene.Element
	RightParent scene.Element
	Status      Status
}

// Result is the total pairing of two trees: every id of either tree has
// exactly one entry.
type Result struct {
	entries []*Entry
	byID    map[string]*Entry
}

// Entries returns the structurally paired entries in pre-order, then the
// remaining left-only entries in left pre-order, then right-only entries in
// right pre-order. Elements present on both sides under different parents
// are listed with the left-only group.
func (r *Result) Entries() []*Entry { return r.entries }

// Get returns the entry for id.
func (r *Result) Get(id string) (*Entry, bool) {
	e, ok := r.byID[id]
	return e, ok
}

// Len returns the number of distinct ids.
func (r *Result) Len() int { return len(r.entries) }

// Filter returns the entries with status s.
func (r *Result) Filter(s Status) []*Entry {
	var out []*Entry
	for _, e := range r.entries {
		if e.Status == s {
			out = append(out, e)
		}
	}
	return out
}

// Counts returns the number of entries per status.
func (r *Result) Counts() map[Status]int {
	counts := make(map[Status]int)
	for _, e := range r.entries {
		counts[e.Status]++
	}
	return counts
}

// Match walks both trees in parallel. At each level children are paired by
// id; a pair recurses so that children follow their parent. Ids found on
// only one side, or under different parents, are collected in a second pass
// over both trees so the result stays total.
func Match(left, right scene.Element) *Result {
	r := &Result{byID: make(map[string]*Entry)}
	if left != nil && right != nil && left.ID() == right.ID() {
		r.pair(left, right, nil, nil)
	}

	// Whatever the structural walk did not pair.
	scene.Walk(left, func(e scene.Element) bool {
		if _, ok := r.byID[e.ID()]; !ok {
			r.add(&Entry{ID: e.ID(), Left: e, LeftParent: e.Parent()})
		}
		return true
	})
	scene.Walk(right, func(e scene.Element) bool {
		if existing, ok := r.byID[e.ID()]; ok {
			if existing.Right == nil {
				existing.Right = e
				existing.RightParent = e.Parent()
			}
			return true
		}
		r.add(&Entry{ID: e.ID(), Right: e, RightParent: e.Parent()})
		return true
	})

	for _, e := range r.entries {
		e.Status = classify(e)
	}
	return r
}

func (r *Result) add(e *Entry) {
	r.entries = append(r.entries, e)
	r.byID[e.ID] = e
}

func (r *Result) pair(left, right, leftParent, rightParent scene.Element) {
	r.add(&Entry{ID: left.ID(), Left: left, Right: right, LeftParent: leftParent, RightParent: rightParent})

	rightByID := make(map[string]scene.Element, len(right.Children()))
	for _, c := range right.Children() {
		rightByID[c.ID()] = c
	}
	for _, c := range left.Children() {
		if rc, ok := rightByID[c.ID()]; ok {
			r.pair(c, rc, left, right)
		}
	}
}

func classify(e *Entry) Status {
	switch {
	case e.Left == nil:
		return Added
	case e.Right == nil:
		return Removed
	case parentID(e.LeftParent) != parentID(e.RightParent):
		return Moved
	case scene.Equal(e.Left, e.Right):
		return Unchanged
	default:
		return Changed
	}
}

func parentID(e scene.Element) string {
	if e == nil {
		return ""
	}
	return e.ID()
}
