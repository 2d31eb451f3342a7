package qfis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/theapemachine/errnie"
)

/*
Pipeline runs fuzzy inference through a quantum circuit: crisp inputs are
fuzzified, amplitude encoded and prepared on one register each, the rule
circuit maps them onto the output register, and the measured counts are
decoded into a crisp output. A Pipeline holds no state between runs.
*/
type Pipeline struct {
	system  *System
	rules   *RuleCircuit
	sampler Sampler
	encoder AmplitudeEncoder
	decoder *ResultDecoder
	shots   int
}

// PipelineOption is a function type for configuring pipelines
type PipelineOption func(*Pipeline)

func WithSampler(sampler Sampler) PipelineOption {
	return func(p *Pipeline) {
		p.sampler = sampler
	}
}

func WithShots(shots int) PipelineOption {
	return func(p *Pipeline) {
		p.shots = shots
	}
}

// WithLegacy lets Unclassified degrees flow into the encoder unchecked.
func WithLegacy(legacy bool) PipelineOption {
	return func(p *Pipeline) {
		p.encoder.Legacy = legacy
	}
}

/*
NewPipeline checks rules against the register layout of system and fails
with ErrStructuralMismatch if they were not built for each other.

Parameters:
  - system: The fuzzy system, treated as read-only from here on
  - rules: The rule circuit artifact
  - opts: Sampler, shot budget and legacy mode

Returns:
  - *Pipeline: A pipeline ready to run
  - error: Any layout mismatch
*/
func NewPipeline(system *System, rules *RuleCircuit, opts ...PipelineOption) (*Pipeline, error) {
	if rules == nil {
		err := fmt.Errorf("%w: no rule circuit", ErrStructuralMismatch)
		errnie.Error(err)
		return nil, err
	}

	inputWidths, outputWidth := system.Layout()
	if err := rules.Check(inputWidths, outputWidth); err != nil {
		return nil, err
	}

	p := &Pipeline{
		system:  system,
		rules:   rules,
		decoder: NewResultDecoder(system.Output),
		shots:   DefaultShots,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.sampler == nil {
		p.sampler = NewStatevectorSampler(0)
	}

	return p, nil
}

func (p *Pipeline) System() *System { return p.system }

/*
fork returns a copy of the pipeline sampling on stream, when the sampler can
fork. Otherwise the pipeline itself is returned.
*/
func (p *Pipeline) fork(stream uint64) *Pipeline {
	forker, ok := p.sampler.(Forker)
	if !ok {
		return p
	}

	clone := *p
	clone.sampler = forker.Fork(stream)
	return &clone
}

/*
Fuzzify evaluates each crisp input against its variable. The number of inputs
must match the number of input variables exactly.
*/
func (p *Pipeline) Fuzzify(inputs []float64) ([]Degrees, error) {
	if len(inputs) != len(p.system.Inputs) {
		err := fmt.Errorf(
			"%w: expected %d but '%d' were given",
			ErrArityMismatch, len(p.system.Inputs), len(inputs),
		)
		errnie.Error(err)
		return nil, err
	}

	fuzzified := make([]Degrees, len(inputs))
	for i, value := range inputs {
		degrees := p.system.Inputs[i].Evaluate(value)
		if !p.encoder.Legacy {
			if err := degrees.Validate(); err != nil {
				err = fmt.Errorf("%s = %v: %w", p.system.Inputs[i].Name(), value, err)
				errnie.Error(err)
				return nil, err
			}
		}
		fuzzified[i] = degrees
	}

	return fuzzified, nil
}

// Circuit builds the inference circuit for inputs without running it.
func (p *Pipeline) Circuit(inputs []float64) (*Circuit, error) {
	fuzzified, err := p.Fuzzify(inputs)
	if err != nil {
		return nil, err
	}
	return p.compose(fuzzified)
}

func (p *Pipeline) compose(fuzzified []Degrees) (*Circuit, error) {
	circuit := &Circuit{
		Output: QuantumRegister{Name: p.system.Output.Name(), Width: p.system.Output.QubitCount()},
		Meas:   ClassicalRegister{Name: "meas", Width: p.system.Output.QubitCount()},
		Rules:  p.rules,
	}

	for i, input := range p.system.Inputs {
		reg := QuantumRegister{Name: input.Name(), Width: input.QubitCount()}

		amplitudes, err := p.encoder.Encode(fuzzified[i].Values(), reg.Width)
		if err != nil {
			return nil, fmt.Errorf("encoding %s: %w", input.Name(), err)
		}

		circuit.Inputs = append(circuit.Inputs, reg)
		circuit.Preparations = append(circuit.Preparations, StatePreparation{
			Register:   reg,
			Label:      input.Name() + "_init",
			Amplitudes: amplitudes,
		})
	}

	return circuit, nil
}

// Result is the outcome of one inference run.
type Result struct {
	ID       uuid.UUID
	Inputs   []float64
	Degrees  []Degrees
	Circuit  *Circuit
	Counts   Counts
	Decoded  Decoded
	Value    float64
	Duration time.Duration
}

/*
Run performs one inference. Errors from the sampler are returned wrapped but
otherwise untouched; nothing is retried. A decode error still comes with the
partial Result.
*/
func (p *Pipeline) Run(ctx context.Context, inputs []float64) (*Result, error) {
	startTime := time.Now()
	result := &Result{ID: uuid.New(), Inputs: inputs}

	fuzzified, err := p.Fuzzify(inputs)
	if err != nil {
		recordRun(startTime, outcomeArityOrEncode(err), nil)
		return nil, err
	}
	result.Degrees = fuzzified

	if result.Circuit, err = p.compose(fuzzified); err != nil {
		recordRun(startTime, outcomeEncode, nil)
		return nil, err
	}

	errnie.Debug("run %s: sampling %d shots for inputs %v", result.ID, p.shots, inputs)

	if result.Counts, err = p.sampler.Run(ctx, result.Circuit, p.shots); err != nil {
		recordRun(startTime, outcomeSample, nil)
		errnie.Error(err)
		return nil, fmt.Errorf("run %s: sampling: %w", result.ID, err)
	}

	result.Decoded, err = p.decoder.Decode(result.Counts)
	result.Value = result.Decoded.Value
	result.Duration = time.Since(startTime)

	switch {
	case err != nil:
		recordRun(startTime, outcomeDecode, &result.Decoded)
		return result, fmt.Errorf("run %s: %w", result.ID, err)
	case result.Decoded.GoodShots == 0:
		recordRun(startTime, outcomeNoOutcome, &result.Decoded)
	default:
		recordRun(startTime, outcomeOK, &result.Decoded)
	}

	errnie.Info("run %s: inputs %v -> %v (%d/%d good shots)",
		result.ID, inputs, result.Value, result.Decoded.GoodShots, result.Decoded.TotalShots)

	return result, nil
}

func outcomeArityOrEncode(err error) string {
	if errors.Is(err, ErrArityMismatch) {
		return outcomeArity
	}
	return outcomeEncode
}
