package geom

import "math"

// Conic is a conic section given by its implicit equation
// A x^2 + B xy + C y^2 + D x + E y + F = 0.
type Conic struct {
	A, B, C, D, E, F float64
}

// EllipseConic returns the implicit form of the axis-aligned ellipse
// ((x-cx)/rx)^2 + ((y-cy)/ry)^2 = 1.
func EllipseConic(center Point, rx, ry float64) Conic {
	a := 1 / (rx * rx)
	c := 1 / (ry * ry)
	return Conic{
		A: a,
		C: c,
		D: -2 * center.X * a,
		E: -2 * center.Y * c,
		F: center.X*center.X*a + center.Y*center.Y*c - 1,
	}
}

// Eval returns the value of the implicit equation at p. It is zero on the conic.
func (k Conic) Eval(p Point) float64 {
	return k.A*p.X*p.X + k.B*p.X*p.Y + k.C*p.Y*p.Y + k.D*p.X + k.E*p.Y + k.F
}

// Gradient returns the gradient of the implicit equation at p.
func (k Conic) Gradient(p Point) Point {
	return Point{
		X: 2*k.A*p.X + k.B*p.Y + k.D,
		Y: k.B*p.X + 2*k.C*p.Y + k.E,
	}
}

// Project returns every point on the conic where the direction to q is
// normal to the conic. The nearest point of the conic to q is always one
// of them; the caller scores the candidates.
//
// The conic is rotated onto its principal axes, where the stationary points
// of the squared distance satisfy x(1 + λA) = qx - λD/2 and
// y(1 + λC) = qy - λE/2. Substituting into the conic gives a quartic in λ.
// Roots that make a denominator vanish correspond to q lying on an axis of
// symmetry and are resolved by intersecting the conic with that axis.
func (k Conic) Project(q Point) []Point {
	theta := 0.0
	if math.Abs(k.B) > 1e-15 {
		theta = 0.5 * math.Atan2(k.B, k.A-k.C)
	}
	sin, cos := math.Sincos(theta)

	// Coefficients in the rotated frame, B' = 0.
	a := k.A*cos*cos + k.B*cos*sin + k.C*sin*sin
	c := k.A*sin*sin - k.B*sin*cos + k.C*cos*cos
	d := k.D*cos + k.E*sin
	e := -k.D*sin + k.E*cos
	f := k.F
	px := cos*q.X + sin*q.Y
	py := -sin*q.X + cos*q.Y

	local := principalConic{a: a, c: c, d: d, e: e, f: f}
	candidates := local.stationaryPoints(px, py)

	out := make([]Point, 0, len(candidates))
	for _, p := range candidates {
		p = local.polish(p, px, py)
		if !local.onConic(p) {
			continue
		}
		world := Point{X: cos*p.X - sin*p.Y, Y: sin*p.X + cos*p.Y}
		out = appendUnique(out, world)
	}
	return out
}

// principalConic is a conic without the xy term.
type principalConic struct {
	a, c, d, e, f float64
}

func (k principalConic) eval(x, y float64) float64 {
	return k.a*x*x + k.c*y*y + k.d*x + k.e*y + k.f
}

func (k principalConic) onConic(p Point) bool {
	gx := 2*k.a*p.X + k.d
	gy := 2*k.c*p.Y + k.e
	scale := math.Max(1e-12, math.Hypot(gx, gy))
	return math.Abs(k.eval(p.X, p.Y))/scale < 1e-6
}

func (k principalConic) stationaryPoints(px, py float64) []Point {
	// Numerator and denominator polynomials in λ, lowest degree first.
	nx := poly{px, -k.d / 2}
	dx := poly{1, k.a}
	ny := poly{py, -k.e / 2}
	dy := poly{1, k.c}

	dx2 := dx.mul(dx)
	dy2 := dy.mul(dy)
	quartic := nx.mul(nx).mul(dy2).scale(k.a).
		add(ny.mul(ny).mul(dx2).scale(k.c)).
		add(nx.mul(dx).mul(dy2).scale(k.d)).
		add(ny.mul(dy).mul(dx2).scale(k.e)).
		add(dx2.mul(dy2).scale(k.f))

	var points []Point
	for _, lambda := range SolveQuartic(quartic.at(4), quartic.at(3), quartic.at(2), quartic.at(1), quartic.at(0)) {
		denX := 1 + lambda*k.a
		denY := 1 + lambda*k.c
		if math.Abs(denX) < 1e-9 || math.Abs(denY) < 1e-9 {
			continue
		}
		points = append(points, Point{
			X: (px - lambda*k.d/2) / denX,
			Y: (py - lambda*k.e/2) / denY,
		})
	}

	// q on the symmetry axis x = -d/2a: x is free at λ = -1/a.
	if k.a != 0 {
		axis := -k.d / (2 * k.a)
		if math.Abs(px-axis) < 1e-9*math.Max(1, math.Abs(px)) {
			lambda := -1 / k.a
			if den := 1 + lambda*k.c; math.Abs(den) > 1e-9 {
				points = append(points, k.pointsAtY((py-lambda*k.e/2)/den)...)
			} else {
				points = append(points, k.pointsAtY(py)...)
				points = append(points, k.pointsAtX(px)...)
			}
		}
	}
	if k.c != 0 {
		axis := -k.e / (2 * k.c)
		if math.Abs(py-axis) < 1e-9*math.Max(1, math.Abs(py)) {
			lambda := -1 / k.c
			if den := 1 + lambda*k.a; math.Abs(den) > 1e-9 {
				points = append(points, k.pointsAtX((px-lambda*k.d/2)/den)...)
			}
		}
	}
	return points
}

// pointsAtY intersects the conic with the horizontal line through y.
func (k principalConic) pointsAtY(y float64) []Point {
	var out []Point
	for _, x := range solveQuadraticTolerant(k.a, k.d, k.c*y*y+k.e*y+k.f) {
		out = append(out, Point{X: x, Y: y})
	}
	return out
}

// pointsAtX intersects the conic with the vertical line through x.
func (k principalConic) pointsAtX(x float64) []Point {
	var out []Point
	for _, y := range solveQuadraticTolerant(k.c, k.e, k.a*x*x+k.d*x+k.f) {
		out = append(out, Point{X: x, Y: y})
	}
	return out
}

// polish runs Newton iterations on the system {on conic, normal through q}.
func (k principalConic) polish(p Point, px, py float64) Point {
	for range 8 {
		gx := 2*k.a*p.X + k.d
		gy := 2*k.c*p.Y + k.e
		f1 := k.eval(p.X, p.Y)
		f2 := (p.X-px)*gy - (p.Y-py)*gx

		j11, j12 := gx, gy
		j21 := gy - (p.Y-py)*2*k.a
		j22 := (p.X-px)*2*k.c - gx
		det := j11*j22 - j12*j21
		if math.Abs(det) < 1e-18 {
			return p
		}
		stepX := (f1*j22 - f2*j12) / det
		stepY := (j11*f2 - j21*f1) / det
		if math.IsNaN(stepX) || math.IsNaN(stepY) {
			return p
		}
		p = Point{X: p.X - stepX, Y: p.Y - stepY}
		if math.Abs(stepX)+math.Abs(stepY) < 1e-13 {
			break
		}
	}
	return p
}

func appendUnique(points []Point, p Point) []Point {
	for _, existing := range points {
		if existing.Distance(p) < 1e-7 {
			return points
		}
	}
	return append(points, p)
}

// poly is a polynomial with coefficients in ascending degree.
type poly []float64

func (p poly) at(i int) float64 {
	if i < len(p) {
		return p[i]
	}
	return 0
}

func (p poly) mul(q poly) poly {
	out := make(poly, len(p)+len(q)-1)
	for i, a := range p {
		for j, b := range q {
			out[i+j] += a * b
		}
	}
	return out
}

func (p poly) add(q poly) poly {
	n := max(len(p), len(q))
	out := make(poly, n)
	for i := range n {
		out[i] = p.at(i) + q.at(i)
	}
	return out
}

func (p poly) scale(s float64) poly {
	out := make(poly, len(p))
	for i, a := range p {
		out[i] = a * s
	}
	return out
}
