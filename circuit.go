package qfis

import (
	"fmt"
	"strings"
	"text/tabwriter"
)

// StatePreparation loads a real amplitude vector into one register.
type StatePreparation struct {
	Register   QuantumRegister
	Label      string
	Amplitudes []float64
}

/*
Circuit is the composed inference circuit: one register per input variable
prepared with its fuzzified amplitudes, the output register, the rule block
acting on all of them, and the measurement of the output register into the
classical register in reverse order.
*/
type Circuit struct {
	Inputs       []QuantumRegister
	Output       QuantumRegister
	Meas         ClassicalRegister
	Preparations []StatePreparation
	Rules        *RuleCircuit
}

func (c *Circuit) NumQubits() int {
	total := c.Output.Width
	for _, reg := range c.Inputs {
		total += reg.Width
	}
	return total
}

// Measurements returns, per output qubit, the classical bit it lands in.
func (c *Circuit) Measurements() []int {
	clbits := make([]int, c.Output.Width)
	for qubit := range clbits {
		clbits[qubit] = c.Meas.Width - 1 - qubit
	}
	return clbits
}

func (c *Circuit) String() string {
	var builder strings.Builder

	fmt.Fprintf(&builder, "circuit: %d qubits, %d clbits\n", c.NumQubits(), c.Meas.Width)

	tw := tabwriter.NewWriter(&builder, 0, 4, 2, ' ', 0)
	for _, reg := range c.Inputs {
		fmt.Fprintf(tw, "qreg\t%s\t\n", reg)
	}
	fmt.Fprintf(tw, "qreg\t%s\t\n", c.Output)
	fmt.Fprintf(tw, "creg\t%s\t\n", c.Meas)
	tw.Flush()

	for _, prep := range c.Preparations {
		amplitudes := make([]string, len(prep.Amplitudes))
		for i, amplitude := range prep.Amplitudes {
			amplitudes[i] = fmt.Sprintf("%.4f", amplitude)
		}
		fmt.Fprintf(
			&builder, "prepare_state(%s) %s = [%s]\n",
			prep.Label, prep.Register.Name, strings.Join(amplitudes, ", "),
		)
	}

	if c.Rules != nil {
		targets := make([]string, 0, len(c.Inputs)+1)
		for _, reg := range c.Inputs {
			targets = append(targets, reg.Name)
		}
		targets = append(targets, c.Output.Name)
		fmt.Fprintf(
			&builder, "rules(%s v%d, %d entries) %s\n",
			c.Rules.Name, c.Rules.Version, len(c.Rules.Table), strings.Join(targets, ", "),
		)
	}

	for qubit, clbit := range c.Measurements() {
		fmt.Fprintf(&builder, "measure %s[%d] -> %s[%d]\n", c.Output.Name, qubit, c.Meas.Name, clbit)
	}

	return builder.String()
}
