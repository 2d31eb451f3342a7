package qfis

import "fmt"

/*
LinguisticTag is a named category of a fuzzy variable, defined by one
membership function. The owning variable is referenced by name only.
*/
type LinguisticTag struct {
	name     string
	mf       MembershipFunction
	variable string
}

func (tag *LinguisticTag) Name() string { return tag.name }
func (tag *LinguisticTag) MF() MembershipFunction { return tag.mf }
func (tag *LinguisticTag) Variable() string { return tag.variable }
func (tag *LinguisticTag) Evaluate(value float64) float64 { return tag.mf.Evaluate(value) }

func (tag *LinguisticTag) String() string {
	return fmt.Sprintf("%s IS %s", tag.variable, tag.name)
}
