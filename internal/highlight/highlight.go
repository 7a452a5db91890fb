// Package highlight tracks which element the pointer hovers and which
// elements light up with it.
package highlight

import (
	"slices"

	"github.com/relgraph/relgraph/internal/scene"
)

// RelatedLookup resolves the ids highlighted together with an id.
// *scene.Root implements it.
type RelatedLookup interface {
	Related(id string) []string
}

// Action describes a change of the hovered element. Affected holds the ids
// related to Highlighted and Unaffected those related to Previous; the
// hovered ids themselves are only in Highlighted and Previous.
type Action struct {
	Highlighted string   `json:"highlighted"`
	Previous    string   `json:"previous"`
	Affected    []string `json:"affected"`
	Unaffected  []string `json:"unaffected"`
}

// Tracker remembers the highlighted id of one interaction surface.
type Tracker struct {
	last string
}

// Current returns the highlighted id, or "" if nothing is highlighted.
func (t *Tracker) Current() string { return t.last }

// PointerMove handles a pointer event over target with the given button
// mask. Any pressed button clears the highlight. It returns an action only
// when the highlighted id changes.
func (t *Tracker) PointerMove(target scene.Element, buttons int, lookup RelatedLookup) (Action, bool) {
	id := ""
	if buttons == 0 {
		if h := Nearest(target); h != nil {
			id = h.ID()
		}
	}
	if id == t.last {
		return Action{}, false
	}

	a := Action{
		Highlighted: id,
		Previous:    t.last,
		Affected:    related(id, lookup),
		Unaffected:  related(t.last, lookup),
	}
	t.last = id
	return a, true
}

// Reset forgets the highlighted id without emitting an action.
func (t *Tracker) Reset() { t.last = "" }

// Nearest returns e or its closest ancestor that is highlightable.
func Nearest(e scene.Element) scene.Highlightable {
	for cur := e; cur != nil; cur = cur.Parent() {
		if h, ok := scene.AsHighlightable(cur); ok {
			return h
		}
	}
	return nil
}

func related(id string, lookup RelatedLookup) []string {
	if id == "" || lookup == nil {
		return nil
	}
	var ids []string
	for _, r := range lookup.Related(id) {
		if r != id && !slices.Contains(ids, r) {
			ids = append(ids, r)
		}
	}
	return ids
}

// Apply updates the highlight flags in root. The previous element and its
// related ids are cleared before the new ones are set, so ids in both stay
// lit.
func Apply(root *scene.Root, a Action) {
	set := func(ids []string, v bool) {
		for _, id := range ids {
			e, ok := root.Lookup(id)
			if !ok {
				continue
			}
			if h, ok := scene.AsHighlightable(e); ok {
				h.SetHighlighted(v)
			}
		}
	}
	if a.Previous != "" {
		set([]string{a.Previous}, false)
	}
	set(a.Unaffected, false)
	if a.Highlighted != "" {
		set([]string{a.Highlighted}, true)
	}
	set(a.Affected, true)
}
