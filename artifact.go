package qfis

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/theapemachine/errnie"
	"github.com/vmihailenco/msgpack/v5"
)

// RuleCircuitVersion is the artifact format this package reads and writes.
const RuleCircuitVersion = 1

/*
RuleCircuit is the pre-built block that encodes the fuzzy rule base. To the
pipeline it is opaque: it acts on one register per input variable plus the
output register, and maps every joint input basis state to an output basis
state. The first input register holds the least significant part of the
joint index.
*/
type RuleCircuit struct {
	Version     int      `msgpack:"version"`
	Name        string   `msgpack:"name"`
	InputWidths []int    `msgpack:"input_widths"`
	OutputWidth int      `msgpack:"output_width"`
	Table       []uint64 `msgpack:"table"`
}

/*
Check fails with ErrStructuralMismatch when the circuit was not built for a
system with the given register widths, or when its table is inconsistent
with its own declared layout.
*/
func (rc *RuleCircuit) Check(inputWidths []int, outputWidth int) error {
	var err error

	switch {
	case rc.Version != RuleCircuitVersion:
		err = fmt.Errorf("%w: version %d", ErrUnsupportedVersion, rc.Version)
	case len(rc.InputWidths) != len(inputWidths):
		err = fmt.Errorf(
			"%w: rule circuit has %d input registers, system has %d",
			ErrStructuralMismatch, len(rc.InputWidths), len(inputWidths),
		)
	case !slices.Equal(rc.InputWidths, inputWidths):
		err = fmt.Errorf(
			"%w: rule circuit input widths %v, system %v",
			ErrStructuralMismatch, rc.InputWidths, inputWidths,
		)
	case rc.OutputWidth != outputWidth:
		err = fmt.Errorf(
			"%w: rule circuit output width %d, system %d",
			ErrStructuralMismatch, rc.OutputWidth, outputWidth,
		)
	case len(rc.Table) != rc.jointSize():
		err = fmt.Errorf(
			"%w: rule table has %d entries, layout needs %d",
			ErrStructuralMismatch, len(rc.Table), rc.jointSize(),
		)
	}

	if err == nil {
		limit := uint64(1) << rc.OutputWidth
		for joint, output := range rc.Table {
			if output >= limit {
				err = fmt.Errorf(
					"%w: entry %d routes to %d, beyond a %d qubit output register",
					ErrStructuralMismatch, joint, output, rc.OutputWidth,
				)
				break
			}
		}
	}

	if err != nil {
		errnie.Error(err)
	}
	return err
}

// Output returns the output basis state for a joint input basis state.
func (rc *RuleCircuit) Output(joint int) uint64 {
	return rc.Table[joint]
}

// Qubits is the number of qubits the rule block acts on.
func (rc *RuleCircuit) Qubits() int {
	total := rc.OutputWidth
	for _, width := range rc.InputWidths {
		total += width
	}
	return total
}

func (rc *RuleCircuit) jointSize() int {
	size := 1
	for _, width := range rc.InputWidths {
		size <<= width
	}
	return size
}

// joint folds per-register basis states into one table index.
func (rc *RuleCircuit) joint(basis []int) int {
	joint, shift := 0, 0
	for i, b := range basis {
		joint |= b << shift
		shift += rc.InputWidths[i]
	}
	return joint
}

/*
ReadRuleCircuit decodes a msgpack encoded artifact. The layout is not checked
against any system here; that is left to Check.
*/
func ReadRuleCircuit(r io.Reader) (*RuleCircuit, error) {
	rc := &RuleCircuit{}
	if err := msgpack.NewDecoder(r).Decode(rc); err != nil {
		errnie.Error(err)
		return nil, fmt.Errorf("decoding rule circuit: %w", err)
	}

	if rc.Version != RuleCircuitVersion {
		err := fmt.Errorf("%w: version %d", ErrUnsupportedVersion, rc.Version)
		errnie.Error(err)
		return nil, err
	}

	return rc, nil
}

// WriteTo encodes the artifact as msgpack.
func (rc *RuleCircuit) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	if err := msgpack.NewEncoder(&buf).Encode(rc); err != nil {
		return 0, fmt.Errorf("encoding rule circuit: %w", err)
	}
	return buf.WriteTo(w)
}

func LoadRuleCircuit(path string) (*RuleCircuit, error) {
	file, err := os.Open(path)
	if err != nil {
		errnie.Error(err)
		return nil, err
	}
	defer file.Close()

	errnie.Info("loading rule circuit from %s", path)
	return ReadRuleCircuit(file)
}

func SaveRuleCircuit(path string, rc *RuleCircuit) error {
	file, err := os.Create(path)
	if err != nil {
		errnie.Error(err)
		return err
	}

	if _, err := rc.WriteTo(file); err != nil {
		file.Close()
		errnie.Error(err)
		return err
	}

	return file.Close()
}
