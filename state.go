package qfis

/*
State is one basis state of a register with its probability amplitude.
*/
type State struct {
	Basis       uint64
	Probability float64
	Amplitude   complex128
}
