package qfis

import "errors"

var (
	// ErrDomainViolation is returned when a breakpoint or output value lies
	// outside the owning variable's [min, max] range.
	ErrDomainViolation = errors.New("value outside of variable domain")

	// ErrUnknownShape is returned for an unrecognized membership function identifier.
	ErrUnknownShape = errors.New("unknown membership function shape")

	// ErrParameterCount is returned when a shape receives the wrong number of breakpoints.
	ErrParameterCount = errors.New("wrong number of membership function parameters")

	// ErrArityMismatch is returned when the pipeline receives the wrong number of crisp inputs.
	ErrArityMismatch = errors.New("unexpected number of input values")

	// ErrUnclassifiedDegree is returned when a crisp value falls in none of
	// the membership regions.
	ErrUnclassifiedDegree = errors.New("unclassified membership degree")

	// ErrStructuralMismatch is returned when a rule circuit or a measurement
	// does not fit the register layout of the fuzzy system.
	ErrStructuralMismatch = errors.New("register layout mismatch")

	ErrTagNotFound        = errors.New("tag is not a member of the variable")
	ErrUnknownTag         = errors.New("unknown linguistic tag")
	ErrUnknownVariable    = errors.New("unknown fuzzy variable")
	ErrUnsupportedVersion = errors.New("unsupported rule circuit version")
)
