package predicates

import (
	"fmt"
	"math"

	"geogen/geometry"
)

func (m Model) points(names []string) ([]geometry.Point, error) {
	pts := make([]geometry.Point, len(names))
	for i, n := range names {
		p, ok := m[n]
		if !ok {
			return nil, fmt.Errorf("point %q not in model", n)
		}
		pts[i] = p
	}
	return pts, nil
}

// angleDelta compares two line directions modulo a half turn.
func angleDelta(a, b float64) float64 {
	d := math.Mod(a-b, 1)
	if d < 0 {
		d++
	}
	return math.Min(d, 1-d)
}

// Check verifies the statement numerically against the model. A statement
// over unknown points or degenerate segments is simply false.
func Check(s Statement, m Model) bool {
	p, err := m.points(s.Args)
	if err != nil {
		return false
	}
	switch s.Pred {
	case Coll:
		return geometry.Collinear(p[0], p[1], p[2])
	case Midp:
		mid := geometry.Midpoint(p[1], p[2])
		return geometry.CloseEnough(mid.Distance(p[0]), 0)
	case Cong:
		return geometry.CloseEnough(p[0].Distance(p[1]), p[2].Distance(p[3]))
	case Para:
		return geometry.CloseEnough(angleDelta(geometry.Direction(p[0], p[1]), geometry.Direction(p[2], p[3])), 0)
	case Perp:
		return geometry.CloseEnough(angleDelta(geometry.Direction(p[0], p[1]), geometry.Direction(p[2], p[3])), 0.5)
	case Cyclic:
		return geometry.Concyclic(p[0], p[1], p[2], p[3])
	case EqAngle:
		d1 := angleDelta(geometry.Direction(p[0], p[1]), geometry.Direction(p[2], p[3]))
		d2 := angleDelta(geometry.Direction(p[4], p[5]), geometry.Direction(p[6], p[7]))
		return geometry.CloseEnough(d1, d2)
	case EqRatio:
		cd := p[2].Distance(p[3])
		gh := p[6].Distance(p[7])
		if geometry.CloseEnough(cd, 0) || geometry.CloseEnough(gh, 0) {
			return false
		}
		return geometry.CloseEnough(p[0].Distance(p[1])/cd, p[4].Distance(p[5])/gh)
	}
	return false
}

// CheckAll reports the first failing statement, if any.
func CheckAll(stmts []Statement, m Model) error {
	for _, s := range stmts {
		if !Check(s, m) {
			return fmt.Errorf("statement %q fails numerically", s)
		}
	}
	return nil
}
