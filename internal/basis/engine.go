// Package basis converts points between the global frame and an affine
// frame given by two basis vectors and an origin offset, and classifies
// that frame.
package basis

import "math"

// Default thresholds. All are absolute.
const (
	DefaultDegenerateTol = 1e-10
	DefaultOrthogonalTol = 1e-5
	DefaultCenteredTol   = 1e-5
)

// Tolerances holds the absolute thresholds used by the classifier.
type Tolerances struct {
	Degenerate float64 `koanf:"degenerate" json:"degenerate"`
	Orthogonal float64 `koanf:"orthogonal" json:"orthogonal"`
	Centered   float64 `koanf:"centered" json:"centered"`
}

func DefaultTolerances() Tolerances {
	return Tolerances{
		Degenerate: DefaultDegenerateTol,
		Orthogonal: DefaultOrthogonalTol,
		Centered:   DefaultCenteredTol,
	}
}

// withDefaults replaces non-positive entries by their defaults.
func (t Tolerances) withDefaults() Tolerances {
	d := DefaultTolerances()
	if t.Degenerate <= 0 {
		t.Degenerate = d.Degenerate
	}
	if t.Orthogonal <= 0 {
		t.Orthogonal = d.Orthogonal
	}
	if t.Centered <= 0 {
		t.Centered = d.Centered
	}
	return t
}

// Config parameterises an Engine.
type Config struct {
	Policy     RotationPolicy
	Tolerances Tolerances
}

// Input is the six-scalar evaluation tuple. A zero Origin means the new
// frame is unshifted.
type Input struct {
	Point  Vec2 `json:"point" yaml:"point"`
	Basis1 Vec2 `json:"basis1" yaml:"basis1"`
	Basis2 Vec2 `json:"basis2" yaml:"basis2"`
	Origin Vec2 `json:"origin" yaml:"origin"`
}

// Matrix returns the basis matrix with Basis1 and Basis2 as columns.
func (in Input) Matrix() Mat2 { return Columns(in.Basis1, in.Basis2) }

// Finite reports whether all six scalars are finite.
func (in Input) Finite() bool {
	for _, v := range []Vec2{in.Point, in.Basis1, in.Basis2, in.Origin} {
		if math.IsNaN(v.X) || math.IsInf(v.X, 0) || math.IsNaN(v.Y) || math.IsInf(v.Y, 0) {
			return false
		}
	}
	return true
}

// Class is the terminal classification of a frame.
type Class string

const (
	ClassLinearDependence  Class = "LINEAR_DEPENDENCE"
	ClassRotation          Class = "ROTATION"
	ClassRotationWithShift Class = "ROTATION_WITH_SHIFT"
	ClassAffineShift       Class = "AFFINE_SHIFT"
	ClassSkewed            Class = "SKEWED"
)

// Handedness is the orientation of the basis pair, i.e. the sign of its
// determinant.
type Handedness string

const (
	RightHanded Handedness = "right"
	LeftHanded  Handedness = "left"
)

// RotationInfo describes the rotation taking the global X axis onto Basis1.
type RotationInfo struct {
	AngleRadians float64 `json:"angle_radians"`
	AngleDegrees float64 `json:"angle_degrees"`
	Matrix       Mat2    `json:"matrix"`
}

// Result is the outcome of one evaluation. Coords and Rotation are nil when
// they do not apply.
type Result struct {
	Input       Input          `json:"input"`
	Policy      RotationPolicy `json:"policy"`
	Class       Class          `json:"class"`
	Degenerate  bool           `json:"degenerate"`
	Tolerance   float64        `json:"tolerance,omitempty"` // degenerate threshold, set only when Degenerate
	Determinant float64        `json:"determinant"`
	Shifted     Vec2           `json:"shifted"`
	Coords      *Vec2          `json:"coords,omitempty"`
	Orthogonal  bool           `json:"orthogonal"`
	Centered    bool           `json:"centered"`
	Handedness  Handedness     `json:"handedness,omitempty"`
	Rotation    *RotationInfo  `json:"rotation,omitempty"`
}

// Engine evaluates inputs under a fixed policy. It holds no mutable state
// and is safe for concurrent use.
type Engine struct {
	policy RotationPolicy
	tol    Tolerances
}

// New returns an Engine. Zero tolerances fall back to the defaults.
func New(cfg Config) *Engine {
	return &Engine{policy: cfg.Policy, tol: cfg.Tolerances.withDefaults()}
}

var std = New(Config{})

// Evaluate runs in through an engine with the default configuration.
func Evaluate(in Input) (Result, error) { return std.Evaluate(in) }

func (e *Engine) Policy() RotationPolicy { return e.policy }
func (e *Engine) Tolerances() Tolerances { return e.tol }

// Evaluate converts in.Point into the frame described by in. On a singular
// basis it returns a Result with Degenerate set together with a
// *DegenerateBasisError; no further analysis is performed in that case.
func (e *Engine) Evaluate(in Input) (Result, error) {
	res := Result{
		Input:   in,
		Policy:  e.policy,
		Shifted: in.Point.Sub(in.Origin),
	}

	m := in.Matrix()
	res.Determinant = m.Det()
	coords, ok := m.Solve(res.Shifted, e.tol.Degenerate)
	if !ok {
		res.Degenerate = true
		res.Tolerance = e.tol.Degenerate
		res.Class = ClassLinearDependence
		return res, &DegenerateBasisError{Det: res.Determinant, Tolerance: e.tol.Degenerate}
	}
	res.Coords = &coords

	res.Orthogonal = math.Abs(in.Basis1.Dot(in.Basis2)) < e.tol.Orthogonal
	res.Centered = in.Origin.Len() < e.tol.Centered
	res.Handedness = RightHanded
	if res.Determinant < 0 {
		res.Handedness = LeftHanded
	}

	switch {
	case !res.Orthogonal:
		res.Class = ClassSkewed
	case e.policy == PolicyCenteredOrthogonal && !res.Centered:
		res.Class = ClassAffineShift
	default:
		res.Rotation = rotationOf(in.Basis1)
		res.Class = ClassRotation
		if !res.Centered {
			res.Class = ClassRotationWithShift
		}
	}
	return res, nil
}

// rotationOf derives the rotation from the direction of b1 alone. The
// second basis vector is assumed to be b1 turned by +90 degrees; a
// left-handed pair still yields the conventional matrix.
func rotationOf(b1 Vec2) *RotationInfo {
	rad := math.Atan2(b1.Y, b1.X)
	return &RotationInfo{
		AngleRadians: rad,
		AngleDegrees: rad * 180 / math.Pi,
		Matrix:       Rotation(rad),
	}
}
