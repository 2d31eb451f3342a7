package qfis

import (
	"fmt"
	"slices"

	"github.com/theapemachine/errnie"
)

// Domain is the closed range [Min, Max] a fuzzy variable is defined over.
type Domain struct {
	Min float64
	Max float64
}

func (d Domain) Contains(value float64) bool {
	return value >= d.Min && value <= d.Max
}

/*
variable holds what inputs and outputs have in common: a name, a domain and
an ordered sequence of tags. Tag order decides the basis state each tag is
encoded into, so it is never re-sorted.
*/
type variable struct {
	name   string
	domain Domain
	tags   []*LinguisticTag
}

func (v *variable) Name() string { return v.name }
func (v *variable) Domain() Domain { return v.domain }
func (v *variable) String() string { return v.name }
func (v *variable) Tags() []*LinguisticTag { return slices.Clone(v.tags) }

// QubitCount is the width of the register that encodes this variable.
func (v *variable) QubitCount() int {
	return QubitCount(len(v.tags))
}

// Tag returns the first tag with the given name.
func (v *variable) Tag(name string) (*LinguisticTag, error) {
	for _, tag := range v.tags {
		if tag.name == name {
			return tag, nil
		}
	}
	return nil, fmt.Errorf("%w: %s IS %s", ErrUnknownTag, v.name, name)
}

// Index returns the position of tag in the variable, or -1.
func (v *variable) Index(tag *LinguisticTag) int {
	return slices.Index(v.tags, tag)
}

/*
RemoveTag removes tag by identity. Tags that merely share a name with it are
left in place.
*/
func (v *variable) RemoveTag(tag *LinguisticTag) error {
	idx := v.Index(tag)
	if idx < 0 {
		err := fmt.Errorf("%w: %v", ErrTagNotFound, tag)
		errnie.Error(err)
		return err
	}
	v.tags = slices.Delete(v.tags, idx, idx+1)
	return nil
}

func (v *variable) addTag(name string, mf MembershipFunction) *LinguisticTag {
	tag := &LinguisticTag{name: name, mf: mf, variable: v.name}
	v.tags = append(v.tags, tag)
	return tag
}

// FuzzyInput is a fuzzy variable fed by a crisp sensor value.
type FuzzyInput struct {
	variable
}

func NewFuzzyInput(name string, min, max float64) *FuzzyInput {
	return &FuzzyInput{variable{name: name, domain: Domain{Min: min, Max: max}}}
}

/*
AddTag validates params against the input's domain, builds the membership
function for shape and appends the resulting tag.

Parameters:
  - name: Name of the tag, duplicates are allowed
  - shape: Membership function variant
  - params: Breakpoints in declaration order, all within [min, max]

Returns:
  - *LinguisticTag: The appended tag
  - error: ErrDomainViolation, ErrUnknownShape or ErrParameterCount
*/
func (in *FuzzyInput) AddTag(name string, shape Shape, params ...float64) (*LinguisticTag, error) {
	for _, param := range params {
		if !in.domain.Contains(param) {
			err := fmt.Errorf(
				"%w: membership values %v of %s IS %s outside [%v, %v]",
				ErrDomainViolation, params, in.name, name, in.domain.Min, in.domain.Max,
			)
			errnie.Error(err)
			return nil, err
		}
	}

	mf, err := NewMembershipFunction(shape, in.domain, params)
	if err != nil {
		errnie.Error(err)
		return nil, err
	}

	return in.addTag(name, mf), nil
}

/*
Evaluate fuzzifies value against every tag, in tag order. Degrees are
returned as computed, including any Unclassified sentinel.
*/
func (in *FuzzyInput) Evaluate(value float64) Degrees {
	degrees := make(Degrees, 0, len(in.tags))
	for _, tag := range in.tags {
		degrees = append(degrees, Degree{Tag: tag.name, Value: tag.mf.Evaluate(value)})
	}
	return degrees
}

/*
FuzzyOutput is the variable the rule base writes into. Its tags carry a
constant payload used to weight the defuzzified result; outputs are never
evaluated against a crisp value.
*/
type FuzzyOutput struct {
	variable
}

func NewFuzzyOutput(name string, min, max float64) *FuzzyOutput {
	return &FuzzyOutput{variable{name: name, domain: Domain{Min: min, Max: max}}}
}

// AddTag appends a tag whose payload is value.
func (out *FuzzyOutput) AddTag(name string, value float64) (*LinguisticTag, error) {
	if !out.domain.Contains(value) {
		err := fmt.Errorf(
			"%w: value %v of %s IS %s outside [%v, %v]",
			ErrDomainViolation, value, out.name, name, out.domain.Min, out.domain.Max,
		)
		errnie.Error(err)
		return nil, err
	}
	return out.addTag(name, NewConst(value)), nil
}

// Degree is the membership of a crisp value in one tag.
type Degree struct {
	Tag   string
	Value float64
}

// Degrees is a fuzzified value, ordered like the tags of its variable.
type Degrees []Degree

func (d Degrees) Values() []float64 {
	values := make([]float64, len(d))
	for i, degree := range d {
		values[i] = degree.Value
	}
	return values
}

// Get returns the first degree recorded for tag.
func (d Degrees) Get(tag string) (float64, bool) {
	for _, degree := range d {
		if degree.Tag == tag {
			return degree.Value, true
		}
	}
	return 0, false
}

// Validate rejects any negative degree, which can only be the Unclassified sentinel.
func (d Degrees) Validate() error {
	for _, degree := range d {
		if degree.Value < 0 {
			return fmt.Errorf("%w: tag %s has degree %v", ErrUnclassifiedDegree, degree.Tag, degree.Value)
		}
	}
	return nil
}
