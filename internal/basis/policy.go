package basis

import (
	"fmt"
	"strings"
)

// RotationPolicy decides when a rotation matrix is derived for an
// orthogonal basis.
type RotationPolicy int

const (
	// PolicyOrthogonal derives a rotation whenever the axes are
	// perpendicular. Rotation and origin shift are reported independently.
	PolicyOrthogonal RotationPolicy = iota
	// PolicyCenteredOrthogonal additionally requires the new origin to
	// coincide with the global one.
	PolicyCenteredOrthogonal
)

func (p RotationPolicy) String() string {
	switch p {
	case PolicyOrthogonal:
		return "orthogonal"
	case PolicyCenteredOrthogonal:
		return "centered"
	default:
		return fmt.Sprintf("RotationPolicy(%d)", int(p))
	}
}

// ParsePolicy accepts "orthogonal" and "centered" (case-insensitive). The
// empty string selects PolicyOrthogonal.
func ParsePolicy(s string) (RotationPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "orthogonal", "orthogonal-only":
		return PolicyOrthogonal, nil
	case "centered", "centred", "centered-orthogonal":
		return PolicyCenteredOrthogonal, nil
	}
	return PolicyOrthogonal, fmt.Errorf("unknown rotation policy %q (want orthogonal|centered)", s)
}

// MarshalText implements encoding.TextMarshaler.
func (p RotationPolicy) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *RotationPolicy) UnmarshalText(b []byte) error {
	v, err := ParsePolicy(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}
