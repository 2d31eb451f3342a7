package qfis

import "fmt"

// Unclassified is the degree left behind when a value matches no region.
const Unclassified = -1.0

/*
Shape identifies a membership function variant. Every non-constant shape is
stored as a trapezoid with degenerate or domain-extended breakpoints.
*/
type Shape int

const (
	Trapezoidal Shape = iota
	Triangular
	LinearZ
	LinearS
	Const
)

var shapeNames = map[Shape]string{
	Trapezoidal: "trapmf",
	Triangular:  "trimf",
	LinearZ:     "linzmf",
	LinearS:     "linsmf",
	Const:       "const",
}

func (s Shape) String() string {
	if name, ok := shapeNames[s]; ok {
		return name
	}
	return fmt.Sprintf("shape(%d)", int(s))
}

// ParseShape maps a declarative identifier such as "trapmf" to its Shape. Identifiers are case-sensitive.
func ParseShape(name string) (Shape, error) {
	for shape, id := range shapeNames {
		if id == name {
			return shape, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownShape, name)
}

// arity is the number of declarative parameters each shape takes.
func (s Shape) arity() int {
	switch s {
	case Trapezoidal:
		return 4
	case Triangular:
		return 3
	case LinearZ, LinearS:
		return 2
	case Const:
		return 1
	}
	return -1
}

/*
MembershipFunction maps a crisp value to a degree of truth. Breakpoints are
expected to be non-decreasing; they are not validated.
*/
type MembershipFunction struct {
	shape     Shape
	start     float64
	leftLow   float64
	leftHigh  float64
	rightHigh float64
	rightLow  float64
	end       float64
	scale     float64
}

func NewTrapezoidal(start, leftLow, leftHigh, rightHigh, rightLow, end float64) MembershipFunction {
	return MembershipFunction{
		shape:     Trapezoidal,
		start:     start,
		leftLow:   leftLow,
		leftHigh:  leftHigh,
		rightHigh: rightHigh,
		rightLow:  rightLow,
		end:       end,
	}
}

func NewTriangular(start, left, top, right, end float64) MembershipFunction {
	mf := NewTrapezoidal(start, left, top, top, right, end)
	mf.shape = Triangular
	return mf
}

// NewLinearZ is 1 on the left tail and ramps down to 0 between left and right.
func NewLinearZ(start, left, right, end float64) MembershipFunction {
	mf := NewTrapezoidal(start-1, start-1, start-1, left, right, end)
	mf.shape = LinearZ
	return mf
}

// NewLinearS ramps up from 0 to 1 between left and right and stays at 1.
func NewLinearS(start, left, right, end float64) MembershipFunction {
	mf := NewTrapezoidal(start, left, right, end+1, end+1, end+1)
	mf.shape = LinearS
	return mf
}

// NewConst evaluates to scale * value. It carries a payload, not a degree.
func NewConst(scale float64) MembershipFunction {
	return MembershipFunction{shape: Const, scale: scale}
}

/*
NewMembershipFunction builds a function from a declarative shape and its
parameters over domain. Parameters are in the order used by
the fuzzy definition files: trapmf takes four, trimf three, linzmf and linsmf
two, const one.
*/
func NewMembershipFunction(shape Shape, domain Domain, params []float64) (MembershipFunction, error) {
	if want := shape.arity(); want < 0 {
		return MembershipFunction{}, fmt.Errorf("%w: %v", ErrUnknownShape, shape)
	} else if len(params) != want {
		return MembershipFunction{}, fmt.Errorf(
			"%w: %v takes %d, got %d", ErrParameterCount, shape, want, len(params),
		)
	}

	switch shape {
	case Trapezoidal:
		return NewTrapezoidal(domain.Min, params[0], params[1], params[2], params[3], domain.Max), nil
	case Triangular:
		return NewTriangular(domain.Min, params[0], params[1], params[2], domain.Max), nil
	case LinearZ:
		return NewLinearZ(domain.Min, params[0], params[1], domain.Max), nil
	case LinearS:
		return NewLinearS(domain.Min, params[0], params[1], domain.Max), nil
	case Const:
		return NewConst(params[0]), nil
	}

	return MembershipFunction{}, fmt.Errorf("%w: %v", ErrUnknownShape, shape)
}

func (mf MembershipFunction) Shape() Shape { return mf.shape }

// Scale returns the payload of a Const function.
func (mf MembershipFunction) Scale() float64 { return mf.scale }

// Breakpoints returns start, leftLow, leftHigh, rightHigh, rightLow and end.
func (mf MembershipFunction) Breakpoints() [6]float64 {
	return [6]float64{mf.start, mf.leftLow, mf.leftHigh, mf.rightHigh, mf.rightLow, mf.end}
}

/*
Evaluate returns the degree of value. The value is clamped into [start, end]
first. A value that falls in no region yields Unclassified, which only happens
with out-of-order breakpoints or NaN input. Const functions return scale * value.
*/
func (mf MembershipFunction) Evaluate(value float64) float64 {
	if mf.shape == Const {
		return mf.scale * value
	}

	evaluation := Unclassified

	if value < mf.start {
		value = mf.start
	} else if value > mf.end {
		value = mf.end
	}

	switch {
	case (mf.start <= value && value <= mf.leftLow) || (mf.rightLow <= value && value <= mf.end):
		evaluation = 0
	case mf.leftHigh < value && value <= mf.rightHigh:
		evaluation = 1
	case mf.leftLow < value && value <= mf.leftHigh:
		evaluation = (value - mf.leftLow) / (mf.leftHigh - mf.leftLow)
	case mf.rightHigh < value && value < mf.rightLow:
		evaluation = (mf.rightLow - value) / (mf.rightLow - mf.rightHigh)
	}

	return evaluation
}

// Degree is Evaluate with the Unclassified sentinel promoted to an error.
func (mf MembershipFunction) Degree(value float64) (float64, error) {
	degree := mf.Evaluate(value)
	if mf.shape != Const && degree == Unclassified {
		return degree, fmt.Errorf("%w: %v at %v", ErrUnclassifiedDegree, mf.shape, value)
	}
	return degree, nil
}
