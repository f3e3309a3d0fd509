package basis

import "math"

// Vec2 is a pair of real scalars. It stands for both points and
// displacement vectors; the role is contextual.
type Vec2 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// V constructs a Vec2.
func V(x, y float64) Vec2 { return Vec2{X: x, Y: y} }

func (v Vec2) Add(w Vec2) Vec2 { return Vec2{X: v.X + w.X, Y: v.Y + w.Y} }
func (v Vec2) Sub(w Vec2) Vec2 { return Vec2{X: v.X - w.X, Y: v.Y - w.Y} }
func (v Vec2) Mul(s float64) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

// Dot returns the scalar product.
func (v Vec2) Dot(w Vec2) float64 { return v.X*w.X + v.Y*w.Y }

// Cross returns the z component of the 3D cross product with z=0.
func (v Vec2) Cross(w Vec2) float64 { return v.X*w.Y - v.Y*w.X }

// Len returns the Euclidean norm.
func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }

// Mat2 is a row-major 2x2 matrix.
type Mat2 [2][2]float64

// Identity2 is the 2x2 identity.
var Identity2 = Mat2{{1, 0}, {0, 1}}

// Columns builds the matrix whose first column is c1 and second column is c2.
func Columns(c1, c2 Vec2) Mat2 {
	return Mat2{
		{c1.X, c2.X},
		{c1.Y, c2.Y},
	}
}

func (m Mat2) Col(i int) Vec2 { return Vec2{X: m[0][i], Y: m[1][i]} }

// Det returns the determinant.
func (m Mat2) Det() float64 { return m[0][0]*m[1][1] - m[0][1]*m[1][0] }

// Apply returns m·v.
func (m Mat2) Apply(v Vec2) Vec2 {
	return Vec2{
		X: m[0][0]*v.X + m[0][1]*v.Y,
		Y: m[1][0]*v.X + m[1][1]*v.Y,
	}
}

// Solve returns x such that m·x = s using Cramer's rule. ok is false when
// |det| is below eps.
func (m Mat2) Solve(s Vec2, eps float64) (x Vec2, ok bool) {
	det := m.Det()
	if math.Abs(det) < eps {
		return Vec2{}, false
	}
	return Vec2{
		X: (s.X*m[1][1] - s.Y*m[0][1]) / det,
		Y: (s.Y*m[0][0] - s.X*m[1][0]) / det,
	}, true
}

// Rotation returns the counter-clockwise rotation by rad radians.
func Rotation(rad float64) Mat2 {
	sin, cos := math.Sincos(rad)
	return Mat2{
		{cos, -sin},
		{sin, cos},
	}
}
