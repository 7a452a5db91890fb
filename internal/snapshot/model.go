// Package snapshot defines the wire shape of a diagram snapshot: a complete
// element tree pushed by the backend on every update.
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/relgraph/relgraph/internal/geom"
	"github.com/relgraph/relgraph/internal/marker"
	"github.com/relgraph/relgraph/internal/segment"
)

var (
	ErrEmptyID     = errors.New("element id is empty")
	ErrDuplicateID = errors.New("duplicate element id")
	ErrInvalidRoot = errors.New("snapshot root must have type root")
	ErrNestedRoot  = errors.New("root element below the top level")
	ErrUnknownType = errors.New("unknown element type")
)

type NodeType string

const (
	TypeRoot      NodeType = "root"
	TypeComponent NodeType = "component"
	TypeInterface NodeType = "interface"
	TypeIssue     NodeType = "issue"
	TypeLabel     NodeType = "label"
	TypeRelation  NodeType = "relation"
)

// Snapshot is one complete diagram state.
type Snapshot struct {
	Root Node `json:"root"`
	// Related lists, per element id, the ids highlighted together with it.
	// Relation endpoints are related implicitly and need not be listed.
	Related map[string][]string `json:"related,omitempty"`
}

type Node struct {
	ID       string          `json:"id"`
	Type     NodeType        `json:"type"`
	Data     json.RawMessage `json:"data,omitempty"`
	Children []Node          `json:"children,omitempty"`
}

type RootData struct {
	Title string `json:"title,omitempty"`
}

type ComponentData struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Name   string  `json:"name,omitempty"`
	Fill   string  `json:"fill,omitempty"`
	Stroke string  `json:"stroke,omitempty"`
}

// InterfaceData positions an interface relative to its parent.
type InterfaceData struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
	Name   string  `json:"name,omitempty"`
}

type IssueData struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Severity string  `json:"severity,omitempty"`
	Message  string  `json:"message,omitempty"`
}

type LabelData struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Text     string  `json:"text"`
	FontSize float64 `json:"fontSize,omitempty"`
}

// RelationData is an edge. Its path is in canvas coordinates.
type RelationData struct {
	Start       geom.Point        `json:"start"`
	Segments    []segment.Segment `json:"segments"`
	StartMarker marker.Kind       `json:"startMarker,omitempty"`
	EndMarker   marker.Kind       `json:"endMarker,omitempty"`
	StrokeWidth float64           `json:"strokeWidth,omitempty"`
	Stroke      string            `json:"stroke,omitempty"`
	Source      string            `json:"source,omitempty"`
	Target      string            `json:"target,omitempty"`
}

// Parse decodes and validates a snapshot.
func Parse(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks ids and types over the whole tree.
func (s *Snapshot) Validate() error {
	if s.Root.Type != TypeRoot {
		return fmt.Errorf("validate snapshot: %w", ErrInvalidRoot)
	}
	seen := make(map[string]struct{})
	return validateNode(&s.Root, true, seen)
}

func validateNode(n *Node, top bool, seen map[string]struct{}) error {
	if n.ID == "" {
		return fmt.Errorf("validate %s: %w", n.Type, ErrEmptyID)
	}
	if _, dup := seen[n.ID]; dup {
		return fmt.Errorf("validate %s: %w: %q", n.Type, ErrDuplicateID, n.ID)
	}
	seen[n.ID] = struct{}{}

	switch n.Type {
	case TypeRoot:
		if !top {
			return fmt.Errorf("validate %q: %w", n.ID, ErrNestedRoot)
		}
	case TypeComponent, TypeInterface, TypeIssue, TypeLabel:
	case TypeRelation:
		var data RelationData
		if err := n.Decode(&data); err != nil {
			return err
		}
		for _, seg := range data.Segments {
			if err := seg.Validate(); err != nil {
				return fmt.Errorf("validate relation %q: %w", n.ID, err)
			}
		}
	default:
		return fmt.Errorf("validate %q: %w: %q", n.ID, ErrUnknownType, n.Type)
	}

	for i := range n.Children {
		if err := validateNode(&n.Children[i], false, seen); err != nil {
			return err
		}
	}
	return nil
}

// Decode unmarshals the node's type-specific data into v. Missing data
// leaves v at its zero value.
func (n *Node) Decode(v any) error {
	if len(n.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(n.Data, v); err != nil {
		return fmt.Errorf("decode %s %q: %w", n.Type, n.ID, err)
	}
	return nil
}

// NewNode builds a node with data marshaled from v.
func NewNode(id string, typ NodeType, v any, children ...Node) Node {
	n := Node{ID: id, Type: typ, Children: children}
	if v != nil {
		// Data types in this package always marshal.
		n.Data, _ = json.Marshal(v)
	}
	return n
}
