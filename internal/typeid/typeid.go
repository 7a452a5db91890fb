package typeid

import "go.jetify.com/typeid/v2"

const (
	PrefixDiagram   = "diag"
	PrefixSnapshot  = "snap"
	PrefixPublisher = "pub"
	PrefixRoot      = "root"
	PrefixComponent = "cmp"
	PrefixInterface = "intf"
	PrefixIssue     = "iss"
	PrefixLabel     = "lbl"
	PrefixRelation  = "rel"
)

func New(prefix string) string {
	id := typeid.MustGenerate(prefix)
	return id.String()
}

func NewDiagramID() string   { return New(PrefixDiagram) }
func NewSnapshotID() string  { return New(PrefixSnapshot) }
func NewPublisherID() string { return New(PrefixPublisher) }
func NewRootID() string      { return New(PrefixRoot) }
func NewComponentID() string { return New(PrefixComponent) }
func NewInterfaceID() string { return New(PrefixInterface) }
func NewIssueID() string     { return New(PrefixIssue) }
func NewLabelID() string     { return New(PrefixLabel) }
func NewRelationID() string  { return New(PrefixRelation) }
