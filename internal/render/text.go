// Package render turns engine results into text and character diagrams.
package render

import (
	"fmt"
	"math"
	"strings"

	"basislab/internal/basis"
)

// Text renders res the way the interactive form shows it: coordinates to
// two decimals, the angle to one.
func Text(res basis.Result) string {
	var b strings.Builder
	in := res.Input
	if res.Degenerate {
		b.WriteString("LINEAR DEPENDENCE ERROR: The basis vectors are parallel. They form a line, not a 2D plane.\n")
		fmt.Fprintf(&b, "  det = %.3g\n", res.Determinant)
		return b.String()
	}

	fmt.Fprintf(&b, "Global Point:        (%s, %s)\n", num(in.Point.X), num(in.Point.Y))
	fmt.Fprintf(&b, "Shifted Vector:      (%.2f, %.2f)\n", z(res.Shifted.X), z(res.Shifted.Y))
	if res.Coords != nil {
		fmt.Fprintf(&b, "New Basis Coords:    [%.2f, %.2f]\n", z(res.Coords.X), z(res.Coords.Y))
	}
	b.WriteString("\n")

	if !res.Orthogonal {
		b.WriteString("Axes are NOT Perpendicular\n")
		b.WriteString("The new basis vectors form a skewed grid (Shear).\n")
		b.WriteString("Rotation Matrix is NOT possible.\n")
		return b.String()
	}

	b.WriteString("Axes are Perpendicular (90°)\n")
	if res.Rotation == nil {
		b.WriteString("Origin is shifted: affine shift, rotation matrix not applicable.\n")
		return b.String()
	}
	if res.Handedness == basis.LeftHanded {
		b.WriteString("Note: left-handed basis, axis 2 is opposite to the rotated Y axis.\n")
	}
	b.WriteString(Matrix(*res.Rotation))
	if !res.Centered {
		fmt.Fprintf(&b, "Followed by a shift of the origin to (%s, %s).\n", num(in.Origin.X), num(in.Origin.Y))
	}
	return b.String()
}

// Matrix renders the rotation header and the 2x2 matrix.
func Matrix(r basis.RotationInfo) string {
	m := r.Matrix
	return fmt.Sprintf("Rotation Matrix (R) for %.1f°:\n  | %5.2f  %5.2f |\n  | %5.2f  %5.2f |\n",
		z(r.AngleDegrees), z(m[0][0]), z(m[0][1]), z(m[1][0]), z(m[1][1]))
}

// z folds values that would print as -0.00 onto zero.
func z(f float64) float64 {
	if math.Abs(f) < 0.005 {
		return 0
	}
	return f
}

// num prints user inputs without trailing zeros, like the form echoes them.
func num(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return fmt.Sprintf("%.1f", f)
	}
	return fmt.Sprintf("%g", f)
}

// Extent returns the half-width of a square view window large enough for
// point and origin, never smaller than minExtent·1.5.
func Extent(point, origin basis.Vec2, minExtent float64) float64 {
	return math.Max(math.Max(point.Len(), origin.Len()), minExtent) * 1.5
}
