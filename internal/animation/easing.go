package animation

import (
	"errors"
	"fmt"
	"math"
)

var ErrUnknownEasing = errors.New("unknown easing")

// Easing names a timing curve applied to animation progress.
type Easing string

const (
	Linear     Easing = "linear"
	EaseIn     Easing = "easeIn"
	EaseOut    Easing = "easeOut"
	EaseInOut  Easing = "easeInOut"
	CubicIn    Easing = "cubicIn"
	CubicOut   Easing = "cubicOut"
	CubicInOut Easing = "cubicInOut"
	BackIn     Easing = "backIn"
	BackOut    Easing = "backOut"
	BackInOut  Easing = "backInOut"
	ElasticOut Easing = "elasticOut"
	BounceOut  Easing = "bounceOut"
)

var easings = []Easing{
	Linear, EaseIn, EaseOut, EaseInOut,
	CubicIn, CubicOut, CubicInOut,
	BackIn, BackOut, BackInOut,
	ElasticOut, BounceOut,
}

// ParseEasing resolves a configured easing name. The empty string is linear.
func ParseEasing(name string) (Easing, error) {
	if name == "" {
		return Linear, nil
	}
	for _, e := range easings {
		if string(e) == name {
			return e, nil
		}
	}
	return Linear, fmt.Errorf("parse easing: %w: %q", ErrUnknownEasing, name)
}

// Apply maps time progress t in [0,1] to eased progress. Unknown easings
// are linear.
func (e Easing) Apply(t float64) float64 {
	t = min(1, max(0, t))
	switch e {
	case EaseIn:
		return t * t

	case EaseOut:
		return t * (2 - t)

	case EaseInOut:
		if t < 0.5 {
			return 2 * t * t
		}
		return -1 + (4-2*t)*t

	case CubicIn:
		return t * t * t

	case CubicOut:
		t2 := 1 - t
		return 1 - t2*t2*t2

	case CubicInOut:
		if t < 0.5 {
			return 4 * t * t * t
		}
		t2 := -2*t + 2
		return 1 - t2*t2*t2/2

	case BackIn:
		c1 := 1.70158
		c3 := c1 + 1
		return c3*t*t*t - c1*t*t

	case BackOut:
		c1 := 1.70158
		c3 := c1 + 1
		t2 := t - 1
		return 1 + c3*t2*t2*t2 + c1*t2*t2

	case BackInOut:
		c1 := 1.70158
		c2 := c1 * 1.525
		if t < 0.5 {
			return (math.Pow(2*t, 2) * ((c2+1)*2*t - c2)) / 2
		}
		return (math.Pow(2*t-2, 2)*((c2+1)*(t*2-2)+c2) + 2) / 2

	case ElasticOut:
		if t == 0 || t == 1 {
			return t
		}
		c4 := (2 * math.Pi) / 3
		return math.Pow(2, -10*t)*math.Sin((t*10-0.75)*c4) + 1

	case BounceOut:
		return bounceOut(t)

	default:
		return t
	}
}

// bounceOut is the standard four-parabola bounce curve.
func bounceOut(t float64) float64 {
	n1 := 7.5625
	d1 := 2.75
	switch {
	case t < 1/d1:
		return n1 * t * t
	case t < 2/d1:
		t -= 1.5 / d1
		return n1*t*t + 0.75
	case t < 2.5/d1:
		t -= 2.25 / d1
		return n1*t*t + 0.9375
	default:
		t -= 2.625 / d1
		return n1*t*t + 0.984375
	}
}
