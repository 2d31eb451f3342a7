package qfis

import (
	"fmt"
	"strings"
)

// QuantumRegister is a named block of qubits; qubit 0 is the least significant.
type QuantumRegister struct {
	Name  string
	Width int
}

// Size is the number of basis states the register spans.
func (r QuantumRegister) Size() int {
	return 1 << r.Width
}

func (r QuantumRegister) String() string {
	return fmt.Sprintf("%s[%d]", r.Name, r.Width)
}

// ClassicalRegister receives measurement results.
type ClassicalRegister struct {
	Name  string
	Width int
}

func (r ClassicalRegister) String() string {
	return fmt.Sprintf("%s[%d]", r.Name, r.Width)
}

/*
OutputBasisState is the basis state of the output register that stands for
the output tag at index. Qubit 0 is the headroom qubit and stays 0, the index
occupies the qubits above it.
*/
func OutputBasisState(index int) uint64 {
	return uint64(index) << 1
}

// GarbageOutput is the outcome the rule circuit produces when no rule fires.
const GarbageOutput uint64 = 1

/*
MeasurementKey renders basis state as the bit-string produced by measuring a
register of width qubits into a classical register in reverse order: the
leftmost character is qubit 0.
*/
func MeasurementKey(basis uint64, width int) string {
	var builder strings.Builder
	builder.Grow(width)

	for qubit := 0; qubit < width; qubit++ {
		if basis&(1<<qubit) != 0 {
			builder.WriteByte('1')
		} else {
			builder.WriteByte('0')
		}
	}

	return builder.String()
}
