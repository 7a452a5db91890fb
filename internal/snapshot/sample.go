package snapshot

import (
	"github.com/relgraph/relgraph/internal/geom"
	"github.com/relgraph/relgraph/internal/marker"
	"github.com/relgraph/relgraph/internal/segment"
	"github.com/relgraph/relgraph/internal/typeid"
)

// NewSample builds a small service diagram: a gateway calling two services,
// one of which reports an issue.
func NewSample() *Snapshot {
	rootID := typeid.NewRootID()
	gatewayID := typeid.NewComponentID()
	ordersID := typeid.NewComponentID()
	billingID := typeid.NewComponentID()

	gatewayOut := typeid.NewInterfaceID()
	ordersIn := typeid.NewInterfaceID()
	ordersOut := typeid.NewInterfaceID()
	billingIn := typeid.NewInterfaceID()

	toOrders := typeid.NewRelationID()
	toBilling := typeid.NewRelationID()

	component := func(id, name string, x, y float64, fill string, children ...Node) Node {
		children = append(children, NewNode(typeid.NewLabelID(), TypeLabel, LabelData{
			X: 12, Y: 24, Text: name, FontSize: 14,
		}))
		return NewNode(id, TypeComponent, ComponentData{
			X: x, Y: y, Width: 160, Height: 80, Name: name, Fill: fill, Stroke: "#1f2937",
		}, children...)
	}
	iface := func(id, name string, x, y float64) Node {
		return NewNode(id, TypeInterface, InterfaceData{X: x, Y: y, Radius: 6, Name: name})
	}

	return &Snapshot{
		Root: NewNode(rootID, TypeRoot, RootData{Title: "Checkout"},
			component(gatewayID, "gateway", 40, 120, "#dbeafe",
				iface(gatewayOut, "http", 160, 40)),
			component(ordersID, "orders", 320, 60, "#dcfce7",
				iface(ordersIn, "rpc", 0, 40),
				iface(ordersOut, "events", 80, 80),
				NewNode(typeid.NewIssueID(), TypeIssue, IssueData{
					X: 150, Y: 8, Severity: "warning", Message: "p99 latency above budget",
				})),
			component(billingID, "billing", 320, 260, "#fef9c3",
				iface(billingIn, "queue", 0, 40)),
			NewNode(toOrders, TypeRelation, RelationData{
				Start: geom.Pt(200, 160),
				Segments: []segment.Segment{
					segment.Line(geom.Pt(260, 160)),
					segment.Line(geom.Pt(260, 100)),
					segment.Line(geom.Pt(320, 100)),
				},
				EndMarker:   marker.KindArrow,
				StrokeWidth: 2,
				Stroke:      "#374151",
				Source:      gatewayOut,
				Target:      ordersIn,
			}),
			NewNode(toBilling, TypeRelation, RelationData{
				Start: geom.Pt(400, 140),
				Segments: []segment.Segment{
					segment.Arc(geom.Pt(320, 300), geom.Pt(320, 140), 80, 160, true),
				},
				StartMarker: marker.KindCircle,
				EndMarker:   marker.KindOpenArrow,
				StrokeWidth: 1.5,
				Stroke:      "#6b7280",
				Source:      ordersOut,
				Target:      billingIn,
			}),
		),
		Related: map[string][]string{
			gatewayID: {toOrders},
			ordersID:  {toOrders, toBilling},
			billingID: {toBilling},
		},
	}
}
