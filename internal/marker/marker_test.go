package marker

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/relgraph/relgraph/internal/geom"
)

func TestOffsets(t *testing.T) {
	arrowAlpha := math.Atan2(5, 12)
	diamondAlpha := math.Atan2(5, 8)

	tests := []struct {
		kind  Kind
		width float64
		start float64
		line  float64
	}{
		{KindNone, 2, 0, 0},
		{KindArrow, 2, 1 / math.Sin(arrowAlpha), 0},
		{KindArrow, 0, 0, 0},
		{KindOpenArrow, 3, 1.5 / math.Sin(arrowAlpha), 6},
		{KindDiamond, 2, 1 / math.Sin(diamondAlpha), 16},
		{KindCircle, 4, 2, 10},
		{"unknown", 4, 0, 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			start, line := Offsets(tt.kind, tt.width)
			assert.InDelta(t, tt.start, start, 1e-12)
			assert.InDelta(t, tt.line, line, 1e-12)
			assert.InDelta(t, tt.start+tt.line, Trim(tt.kind, tt.width), 1e-12)
		})
	}
}

func TestArrowOffsetGrowsWithStroke(t *testing.T) {
	a := Lookup(KindArrow)
	assert.Greater(t, a.StartOffset(4), a.StartOffset(2))
	// 1/sin(atan(5/12)) = 13/5
	assert.InDelta(t, 2.6, a.StartOffset(2), 1e-12)
}

func TestTemplatesStartAtTip(t *testing.T) {
	for kind, e := range engines {
		if kind == KindNone {
			assert.Empty(t, e.Template())
			assert.Empty(t, e.Outline())
			continue
		}
		assert.NotEmpty(t, e.Template(), kind)
		outline := e.Outline()
		assert.NotEmpty(t, outline, kind)
		for _, p := range outline {
			assert.LessOrEqual(t, p.X, 1e-9, "%s outline extends past the tip", kind)
		}
	}
}

func TestPlacement(t *testing.T) {
	m := Placement(geom.Pt(100, 50), geom.Pt(0, 1))

	tip := m.TransformPoint(geom.Pt(0, 0))
	assert.InDelta(t, 100, tip.X, 1e-9)
	assert.InDelta(t, 50, tip.Y, 1e-9)

	// The back of the arrow lies behind the tip, against the direction.
	back := m.TransformPoint(geom.Pt(-12, 0))
	assert.InDelta(t, 100, back.X, 1e-9)
	assert.InDelta(t, 38, back.Y, 1e-9)
}
