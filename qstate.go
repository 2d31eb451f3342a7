package qfis

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"sync"

	"github.com/theapemachine/errnie"
)

// Sampler executes a circuit and returns the measurement counts of its output register.
type Sampler interface {
	Run(ctx context.Context, circuit *Circuit, shots int) (Counts, error)
}

/*
StatevectorSampler executes circuits exactly on the product state of the
prepared input registers. The rule block is a basis permutation onto the
output register, so the output distribution is the sum of the joint input
probabilities routed to each output basis state.
*/
type StatevectorSampler struct {
	mu   sync.Mutex
	seed uint64
	rng  *rand.Rand
}

// NewStatevectorSampler seeds the sampler; a zero seed draws a random one.
func NewStatevectorSampler(seed uint64) *StatevectorSampler {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return &StatevectorSampler{
		seed: seed,
		rng:  rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

/*
Forker is a Sampler that can split off independent samplers. The same stream
of the same parent always yields the same draws, however forks are scheduled.
*/
type Forker interface {
	Fork(stream uint64) Sampler
}

// Fork returns a sampler on its own PCG stream derived from the seed and stream.
func (s *StatevectorSampler) Fork(stream uint64) Sampler {
	return &StatevectorSampler{
		seed: s.seed,
		rng:  rand.New(rand.NewPCG(s.seed, (stream+1)*0x9e3779b97f4a7c15)),
	}
}

/*
Distribution returns the exact output distribution of circuit as a
WaveFunction over the output register's basis states.
*/
func (s *StatevectorSampler) Distribution(circuit *Circuit) (*WaveFunction, error) {
	if circuit.Rules == nil {
		return nil, fmt.Errorf("%w: circuit has no rule block", ErrStructuralMismatch)
	}

	widths := make([]int, len(circuit.Inputs))
	for i, reg := range circuit.Inputs {
		widths[i] = reg.Width
	}
	if err := circuit.Rules.Check(widths, circuit.Output.Width); err != nil {
		return nil, err
	}
	if len(circuit.Preparations) != len(circuit.Inputs) {
		return nil, fmt.Errorf(
			"%w: %d state preparations for %d input registers",
			ErrStructuralMismatch, len(circuit.Preparations), len(circuit.Inputs),
		)
	}

	registers := make([][]float64, len(circuit.Preparations))
	for i, prep := range circuit.Preparations {
		if len(prep.Amplitudes) != circuit.Inputs[i].Size() {
			return nil, fmt.Errorf(
				"%w: %d amplitudes for register %s",
				ErrStructuralMismatch, len(prep.Amplitudes), circuit.Inputs[i],
			)
		}
		probabilities := make([]float64, len(prep.Amplitudes))
		for j, amplitude := range prep.Amplitudes {
			probabilities[j] = amplitude * amplitude
		}
		registers[i] = probabilities
	}

	outputs := make([]float64, circuit.Output.Size())
	basis := make([]int, len(registers))
	for joint := range circuit.Rules.Table {
		p := 1.0
		rest := joint
		for i, reg := range circuit.Inputs {
			basis[i] = rest & (reg.Size() - 1)
			rest >>= reg.Width
			p *= registers[i][basis[i]]
		}
		if p == 0 {
			continue
		}
		outputs[circuit.Rules.Output(joint)] += p
	}

	states := make([]State, len(outputs))
	for b, p := range outputs {
		states[b] = State{Basis: uint64(b), Probability: p, Amplitude: complex(math.Sqrt(p), 0)}
	}

	return NewWaveFunction(states), nil
}

/*
Run measures the output register shots times. Each shot collapses the output
wave function and is recorded under its reversed-order bit-string.
*/
func (s *StatevectorSampler) Run(ctx context.Context, circuit *Circuit, shots int) (Counts, error) {
	if shots <= 0 {
		return nil, fmt.Errorf("shots must be positive, got %d", shots)
	}

	wf, err := s.Distribution(circuit)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	counts := make(Counts)
	for shot := 0; shot < shots; shot++ {
		if shot%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		state := wf.Collapse(s.rng.Float64())
		counts[MeasurementKey(state.Basis, circuit.Meas.Width)]++
	}

	errnie.Debug("sampled %d shots into %d outcomes", shots, len(counts))
	return counts, nil
}
