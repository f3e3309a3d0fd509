package basis

import (
	"errors"
	"fmt"
	"math"
)

// ErrDegenerateBasis is matched by every DegenerateBasisError.
var ErrDegenerateBasis = errors.New("basis: linear dependence")

// DegenerateBasisError reports a basis matrix whose determinant fell under
// the degeneracy tolerance.
type DegenerateBasisError struct {
	Det       float64
	Tolerance float64
}

func (e *DegenerateBasisError) Error() string {
	return fmt.Sprintf("basis: linear dependence: |det|=%g < %g, the basis vectors are parallel",
		math.Abs(e.Det), e.Tolerance)
}

func (e *DegenerateBasisError) Unwrap() error { return ErrDegenerateBasis }
