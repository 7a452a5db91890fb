package animation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEasingEndpoints(t *testing.T) {
	for _, e := range easings {
		assert.InDelta(t, 0, e.Apply(0), 1e-9, string(e))
		assert.InDelta(t, 1, e.Apply(1), 1e-9, string(e))
	}
}

func TestEasingValues(t *testing.T) {
	tests := []struct {
		easing Easing
		t      float64
		want   float64
	}{
		{Linear, 0.25, 0.25},
		{EaseIn, 0.5, 0.25},
		{EaseOut, 0.5, 0.75},
		{EaseInOut, 0.25, 0.125},
		{CubicIn, 0.5, 0.125},
		{CubicInOut, 0.5, 0.5},
		{Easing("nope"), 0.3, 0.3},
		{Linear, 2, 1},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, tt.easing.Apply(tt.t), 1e-9, "%s(%v)", tt.easing, tt.t)
	}
}

func TestParseEasing(t *testing.T) {
	e, err := ParseEasing("cubicInOut")
	require.NoError(t, err)
	assert.Equal(t, CubicInOut, e)

	e, err = ParseEasing("")
	require.NoError(t, err)
	assert.Equal(t, Linear, e)

	_, err = ParseEasing("wobble")
	assert.ErrorIs(t, err, ErrUnknownEasing)
}
