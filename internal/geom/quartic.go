package geom

import (
	"math"
	"sort"

	"github.com/gogpu/gg"
)

// SolveQuartic finds the real roots of a x^4 + b x^3 + c x^2 + d x + e = 0.
// Roots are returned in ascending order with duplicates merged.
//
// Lower-degree equations (a == 0) are delegated to the cubic and quadratic
// solvers from gg. The quartic case uses Ferrari's method on the depressed
// quartic and polishes every root with a few Newton steps on the original
// polynomial, which keeps near-double roots usable.
func SolveQuartic(a, b, c, d, e float64) []float64 {
	scale := math.Max(math.Max(math.Abs(b), math.Abs(c)), math.Max(math.Abs(d), math.Abs(e)))
	if math.Abs(a) <= 1e-14*scale || a == 0 {
		return mergeRoots(gg.SolveCubic(b, c, d, e))
	}

	b, c, d, e = b/a, c/a, d/a, e/a

	// Depress: x = y - b/4 gives y^4 + p y^2 + q y + r = 0
	b2 := b * b
	p := c - 3*b2/8
	q := d - b*c/2 + b2*b/8
	r := e - b*d/4 + b2*c/16 - 3*b2*b2/256

	var ys []float64
	if math.Abs(q) < 1e-12*math.Max(1, math.Abs(p)+math.Abs(r)) {
		// Biquadratic: z = y^2
		for _, z := range solveQuadraticTolerant(1, p, r) {
			if z < 0 {
				if z > -1e-12 {
					ys = append(ys, 0)
				}
				continue
			}
			s := math.Sqrt(z)
			ys = append(ys, s, -s)
		}
	} else {
		// Resolvent cubic 8m^3 + 8p m^2 + (2p^2 - 8r) m - q^2 = 0 has a positive root
		m := math.Inf(-1)
		for _, root := range gg.SolveCubic(8, 8*p, 2*p*p-8*r, -q*q) {
			m = math.Max(m, root)
		}
		if m <= 0 || math.IsInf(m, 0) || math.IsNaN(m) {
			return nil
		}
		s := math.Sqrt(2 * m)
		ys = append(ys, solveQuadraticTolerant(1, -s, p/2+m+q/(2*s))...)
		ys = append(ys, solveQuadraticTolerant(1, s, p/2+m-q/(2*s))...)
	}

	roots := make([]float64, 0, len(ys))
	for _, y := range ys {
		roots = append(roots, polishRoot(y-b/4, 1, b, c, d, e))
	}
	return mergeRoots(roots)
}

// solveQuadraticTolerant is gg.SolveQuadratic, except that a slightly
// negative discriminant produced by rounding yields the double root.
func solveQuadraticTolerant(a, b, c float64) []float64 {
	roots := gg.SolveQuadratic(a, b, c)
	if len(roots) > 0 {
		return roots
	}
	disc := b*b - 4*a*c
	if a != 0 && disc < 0 && disc > -1e-9*math.Max(1, b*b) {
		return []float64{-b / (2 * a)}
	}
	return nil
}

// polishRoot refines x as a root of the quartic with Newton iterations.
func polishRoot(x, a, b, c, d, e float64) float64 {
	for range 4 {
		f := (((a*x+b)*x+c)*x+d)*x + e
		df := ((4*a*x+3*b)*x+2*c)*x + d
		if df == 0 || math.IsNaN(df) {
			break
		}
		next := x - f/df
		if math.IsNaN(next) || math.IsInf(next, 0) {
			break
		}
		// Only accept steps that do not increase the residual.
		nf := (((a*next+b)*next+c)*next+d)*next + e
		if math.Abs(nf) > math.Abs(f) {
			break
		}
		x = next
	}
	return x
}

// mergeRoots sorts roots and drops values that are numerically identical.
func mergeRoots(roots []float64) []float64 {
	if len(roots) == 0 {
		return nil
	}
	out := make([]float64, 0, len(roots))
	for _, r := range roots {
		if !math.IsNaN(r) && !math.IsInf(r, 0) {
			out = append(out, r)
		}
	}
	sort.Float64s(out)

	merged := out[:0]
	for _, r := range out {
		if len(merged) > 0 && math.Abs(r-merged[len(merged)-1]) <= 1e-9*math.Max(1, math.Abs(r)) {
			continue
		}
		merged = append(merged, r)
	}
	if len(merged) == 0 {
		return nil
	}
	return merged
}
