package qfis

import (
	"fmt"
	"math"

	"github.com/theapemachine/errnie"
	"gonum.org/v1/gonum/floats"
)

// maxQubits bounds a single register so 1<<qubits stays a sane allocation.
const maxQubits = 24

/*
QubitCount returns the width of the register for a variable with k tags: the
bits needed to index k states plus one qubit of headroom for the garbage state.
*/
func QubitCount(k int) int {
	if k <= 0 {
		return 0
	}
	return int(math.Ceil(math.Log2(float64(k)))) + 1
}

/*
AmplitudeEncoder turns a degree distribution into state-preparation amplitudes.

Degrees are not mutually exclusive probabilities, so the encoder forces them onto
the probability simplex. An excess is renormalized away, a deficit is absorbed
by the last slot of the register (the garbage state) so real tags keep their
values.

With Legacy set, negative degrees are passed through unchecked.
*/
type AmplitudeEncoder struct {
	Legacy bool
}

/*
Probabilities pads values with zeros to 2^qubits and normalizes them into a
probability vector.

Parameters:
  - values: Degrees in tag order
  - qubits: Width of the target register

Returns:
  - []float64: Probabilities of every basis state of the register
  - error: ErrStructuralMismatch when values do not fit, ErrUnclassifiedDegree
    for a negative degree outside legacy mode
*/
func (enc AmplitudeEncoder) Probabilities(values []float64, qubits int) ([]float64, error) {
	if qubits < 0 || qubits > maxQubits {
		return nil, fmt.Errorf("%w: invalid register width %d", ErrStructuralMismatch, qubits)
	}

	size := 1 << qubits
	if len(values) > size {
		return nil, fmt.Errorf(
			"%w: %d values do not fit a %d qubit register", ErrStructuralMismatch, len(values), qubits,
		)
	}

	if !enc.Legacy {
		for i, value := range values {
			if value < 0 || math.IsNaN(value) {
				return nil, fmt.Errorf("%w: value %v at index %d", ErrUnclassifiedDegree, value, i)
			}
		}
	}

	probabilities := make([]float64, size)
	copy(probabilities, values)

	total := floats.Sum(probabilities)

	switch {
	case total > 1.0:
		floats.Scale(1/total, probabilities)
	case total < 1.0:
		if len(values) == size {
			return nil, fmt.Errorf(
				"%w: no garbage slot left to absorb %v", ErrStructuralMismatch, 1.0-total,
			)
		}
		probabilities[size-1] = 1.0 - total
	}

	return probabilities, nil
}

// Encode returns the element-wise square root of Probabilities.
func (enc AmplitudeEncoder) Encode(values []float64, qubits int) ([]float64, error) {
	probabilities, err := enc.Probabilities(values, qubits)
	if err != nil {
		errnie.Error(err)
		return nil, err
	}

	amplitudes := make([]float64, len(probabilities))
	for i, p := range probabilities {
		amplitudes[i] = math.Sqrt(p)
	}

	errnie.Debug("encoded %d values into %d amplitudes", len(values), len(amplitudes))
	return amplitudes, nil
}
