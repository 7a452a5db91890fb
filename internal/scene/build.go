package scene

import (
	"fmt"

	"github.com/relgraph/relgraph/internal/snapshot"
)

// Build constructs a fresh scene tree from a snapshot. The related lookup
// combines the snapshot's explicit entries with relation endpoints: a
// relation is related to both endpoints and to their highlightable
// ancestors, and each of those is related back to the relation.
func Build(s *snapshot.Snapshot) (*Root, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	var data snapshot.RootData
	if err := s.Root.Decode(&data); err != nil {
		return nil, err
	}
	root := NewRoot(s.Root.ID)
	root.Title = data.Title

	for i := range s.Root.Children {
		if err := buildNode(&s.Root.Children[i], root); err != nil {
			return nil, err
		}
	}
	root.Reindex()

	for id, ids := range s.Related {
		for _, other := range ids {
			root.relate(id, other)
		}
	}
	Walk(root, func(e Element) bool {
		rel, ok := e.(*Relation)
		if !ok {
			return true
		}
		for _, end := range []string{rel.Source, rel.Target} {
			endpoint, ok := root.Lookup(end)
			if !ok {
				continue
			}
			root.relate(rel.ID(), end)
			root.relate(end, rel.ID())
			for _, a := range Ancestors(endpoint) {
				if _, ok := AsHighlightable(a); ok {
					root.relate(a.ID(), rel.ID())
				}
			}
		}
		return true
	})
	return root, nil
}

func buildNode(n *snapshot.Node, parent Element) error {
	e, err := newElement(n)
	if err != nil {
		return err
	}
	Attach(parent, e)
	for i := range n.Children {
		if err := buildNode(&n.Children[i], e); err != nil {
			return err
		}
	}
	return nil
}

func newElement(n *snapshot.Node) (Element, error) {
	switch n.Type {
	case snapshot.TypeComponent:
		var d snapshot.ComponentData
		if err := n.Decode(&d); err != nil {
			return nil, err
		}
		return NewComponent(n.ID, d), nil
	case snapshot.TypeInterface:
		var d snapshot.InterfaceData
		if err := n.Decode(&d); err != nil {
			return nil, err
		}
		return NewInterface(n.ID, d), nil
	case snapshot.TypeIssue:
		var d snapshot.IssueData
		if err := n.Decode(&d); err != nil {
			return nil, err
		}
		return NewIssue(n.ID, d), nil
	case snapshot.TypeLabel:
		var d snapshot.LabelData
		if err := n.Decode(&d); err != nil {
			return nil, err
		}
		return NewLabel(n.ID, d), nil
	case snapshot.TypeRelation:
		var d snapshot.RelationData
		if err := n.Decode(&d); err != nil {
			return nil, err
		}
		return NewRelation(n.ID, d), nil
	default:
		return nil, fmt.Errorf("build element %q: %w: %q", n.ID, snapshot.ErrUnknownType, n.Type)
	}
}
