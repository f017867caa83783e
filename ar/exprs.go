package ar

// Variable naming: "l:a,b" is the log-length of segment ab, "d:a,b" the
// direction of line ab in units of pi. Segments are undirected, so endpoint
// names are sorted.

func segKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + "," + b
}

func LengthVar(a, b string) string {
	return "l:" + segKey(a, b)
}

func DirVar(a, b string) string {
	return "d:" + segKey(a, b)
}

// CongExpr encodes |ab| = |cd| as l(ab) - l(cd) = 0.
func CongExpr(a, b, c, d string) Expr {
	return NewExpr().Add(LengthVar(a, b), 1).Add(LengthVar(c, d), -1)
}

// RatioExpr encodes ab/cd = ef/gh as l(ab) - l(cd) - l(ef) + l(gh) = 0.
func RatioExpr(pts [8]string) Expr {
	return NewExpr().
		Add(LengthVar(pts[0], pts[1]), 1).
		Add(LengthVar(pts[2], pts[3]), -1).
		Add(LengthVar(pts[4], pts[5]), -1).
		Add(LengthVar(pts[6], pts[7]), 1)
}

// ParaExpr encodes ab // cd as d(ab) - d(cd) = 0 (mod 1).
func ParaExpr(a, b, c, d string) Expr {
	return NewExpr().Add(DirVar(a, b), 1).Add(DirVar(c, d), -1)
}

// PerpExpr encodes ab perp cd as d(ab) - d(cd) - 1/2 = 0 (mod 1).
func PerpExpr(a, b, c, d string) Expr {
	e := NewExpr().Add(DirVar(a, b), 1).Add(DirVar(c, d), -1)
	e.Const = -0.5
	return e
}

// AngleExpr encodes angle(ab, cd) = angle(ef, gh) as
// (d(cd) - d(ab)) - (d(gh) - d(ef)) = 0 (mod 1).
func AngleExpr(pts [8]string) Expr {
	return NewExpr().
		Add(DirVar(pts[2], pts[3]), 1).
		Add(DirVar(pts[0], pts[1]), -1).
		Add(DirVar(pts[6], pts[7]), -1).
		Add(DirVar(pts[4], pts[5]), 1)
}
