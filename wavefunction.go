// wavefunction.go
package qfis

import (
	"sort"

	"gonum.org/v1/gonum/floats"
)

/*
WaveFunction is the probability distribution over the basis states of a
register, ready to collapse into a definite outcome on measurement.
*/
type WaveFunction struct {
	States     []State
	cumulative []float64
}

/*
NewWaveFunction normalizes the probabilities of states so they sum to 1.0 and
prepares them for repeated collapse. States with zero probability are kept,
they simply never get selected.
*/
func NewWaveFunction(states []State) *WaveFunction {
	wf := &WaveFunction{States: states}
	probabilities := wf.normalizeStateProbabilities()

	wf.cumulative = make([]float64, len(probabilities))
	if len(probabilities) > 0 {
		floats.CumSum(wf.cumulative, probabilities)
	}

	return wf
}

/*
Collapse picks the state whose cumulative probability first reaches r, with r
drawn uniformly from [0, 1). Rounding can leave the last cumulative value a
hair under 1.0, in which case the last state that can occur is returned.
*/
func (wf *WaveFunction) Collapse(r float64) State {
	if len(wf.States) == 0 {
		return State{}
	}

	idx := sort.SearchFloat64s(wf.cumulative, r)
	for idx < len(wf.States) && wf.States[idx].Probability == 0 {
		idx++
	}
	if idx < len(wf.States) {
		return wf.States[idx]
	}

	idx = len(wf.States) - 1
	for idx > 0 && wf.States[idx].Probability == 0 {
		idx--
	}
	return wf.States[idx]
}

// Probability returns the normalized probability of basis.
func (wf *WaveFunction) Probability(basis uint64) float64 {
	var p float64
	for _, state := range wf.States {
		if state.Basis == basis {
			p += state.Probability
		}
	}
	return p
}

/*
normalizeStateProbabilities ensures probabilities sum to 1.0 and returns them
in state order. A total that is not positive is left alone.
*/
func (wf *WaveFunction) normalizeStateProbabilities() []float64 {
	probabilities := make([]float64, len(wf.States))
	for i, state := range wf.States {
		probabilities[i] = state.Probability
	}

	total := floats.Sum(probabilities)
	if !(total > 0) {
		return probabilities
	}

	floats.Scale(1/total, probabilities)
	for i := range wf.States {
		wf.States[i].Probability = probabilities[i]
	}
	return probabilities
}
