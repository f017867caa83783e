// Package geometry provides the numeric layer: point coordinates and the
// tolerance-based checks every symbolic statement is verified against.
package geometry

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Tolerance for comparing derived quantities. Sampled coordinates are O(1),
// so absolute comparison is fine.
const eps = 1e-6

type Point struct {
	X, Y float64
}

func CloseEnough(a, b float64) bool {
	return math.Abs(a-b) < eps
}

func (p Point) Distance(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

func (p Point) Sub(q Point) Point {
	return Point{p.X - q.X, p.Y - q.Y}
}

func (p Point) Add(q Point) Point {
	return Point{p.X + q.X, p.Y + q.Y}
}

func (p Point) Scale(k float64) Point {
	return Point{k * p.X, k * p.Y}
}

func (p Point) Dot(q Point) float64 {
	return p.X*q.X + p.Y*q.Y
}

func (p Point) Cross(q Point) float64 {
	return p.X*q.Y - p.Y*q.X
}

func (p Point) String() string {
	return fmt.Sprintf("(%.4f, %.4f)", p.X, p.Y)
}

// Direction returns the direction of line ab in units of pi, in [0, 1).
// Lines are undirected, hence the half-turn normalization.
func Direction(a, b Point) float64 {
	d := math.Atan2(b.Y-a.Y, b.X-a.X) / math.Pi
	d = math.Mod(d, 1)
	if d < 0 {
		d++
	}
	return d
}

func Collinear(a, b, c Point) bool {
	return CloseEnough(b.Sub(a).Cross(c.Sub(a)), 0)
}

func Midpoint(a, b Point) Point {
	return Point{(a.X + b.X) / 2, (a.Y + b.Y) / 2}
}

// Foot returns the orthogonal projection of p onto line ab.
func Foot(p, a, b Point) (Point, error) {
	ab := b.Sub(a)
	n := ab.Dot(ab)
	if CloseEnough(n, 0) {
		return Point{}, fmt.Errorf("foot of perpendicular: line %v %v is degenerate", a, b)
	}
	t := p.Sub(a).Dot(ab) / n
	return a.Add(ab.Scale(t)), nil
}

// Circumcenter solves the 2x2 linear system equating distances to the three
// vertices. Fails when the vertices are collinear.
func Circumcenter(a, b, c Point) (Point, error) {
	m := mat.NewDense(2, 2, []float64{
		2 * (b.X - a.X), 2 * (b.Y - a.Y),
		2 * (c.X - a.X), 2 * (c.Y - a.Y),
	})
	rhs := mat.NewVecDense(2, []float64{
		b.X*b.X - a.X*a.X + b.Y*b.Y - a.Y*a.Y,
		c.X*c.X - a.X*a.X + c.Y*c.Y - a.Y*a.Y,
	})
	var sol mat.VecDense
	if err := sol.SolveVec(m, rhs); err != nil {
		return Point{}, fmt.Errorf("circumcenter of collinear points: %w", err)
	}
	return Point{sol.AtVec(0), sol.AtVec(1)}, nil
}

// Reflect mirrors p across the midpoint m.
func Reflect(p, m Point) Point {
	return Point{2*m.X - p.X, 2*m.Y - p.Y}
}

// OnSegment places the point at parameter t along ab.
func OnSegment(a, b Point, t float64) Point {
	return a.Add(b.Sub(a).Scale(t))
}

// Concyclic reports whether the four points lie on one circle.
func Concyclic(a, b, c, d Point) bool {
	o, err := Circumcenter(a, b, c)
	if err != nil {
		return false
	}
	return CloseEnough(o.Distance(a), o.Distance(d))
}
