package qfis

import (
	_ "embed"
	"fmt"
	"os"
	"sync"

	"github.com/theapemachine/errnie"
	"gopkg.in/yaml.v3"
)

//go:embed definitions/sao2.yaml
var sao2Definition []byte

/*
System is a complete fuzzy inference system: its input variables in register
order, the output variable and the rules connecting them. A System is built
and validated once, then only read.
*/
type System struct {
	Name   string
	Inputs []*FuzzyInput
	Output *FuzzyOutput
	Rules  []Rule
}

// Layout returns the register width of every input and of the output.
func (s *System) Layout() ([]int, int) {
	widths := make([]int, len(s.Inputs))
	for i, input := range s.Inputs {
		widths[i] = input.QubitCount()
	}
	return widths, s.Output.QubitCount()
}

func (s *System) Input(name string) (*FuzzyInput, error) {
	for _, input := range s.Inputs {
		if input.Name() == name {
			return input, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownVariable, name)
}

// Compile builds the rule circuit for the system's own rules.
func (s *System) Compile() (*RuleCircuit, error) {
	return CompileRules(s, s.Rules)
}

type tagDefinition struct {
	Name   string    `yaml:"name"`
	Shape  string    `yaml:"shape"`
	Params []float64 `yaml:"params"`
	Value  float64   `yaml:"value"`
}

type variableDefinition struct {
	Name string          `yaml:"name"`
	Min  float64         `yaml:"min"`
	Max  float64         `yaml:"max"`
	Tags []tagDefinition `yaml:"tags"`
}

// Definition is the declarative form of a System, as stored in YAML.
type Definition struct {
	Name   string               `yaml:"name"`
	Inputs []variableDefinition `yaml:"inputs"`
	Output variableDefinition   `yaml:"output"`
	Rules  []string             `yaml:"rules"`
}

/*
Build validates the definition and constructs the System it describes. Every
tag goes through AddTag, so domain and shape errors surface here, at startup,
rather than during inference.
*/
func (def Definition) Build() (*System, error) {
	if len(def.Inputs) == 0 {
		return nil, fmt.Errorf("system %q: no input variables", def.Name)
	}

	system := &System{Name: def.Name}

	for _, in := range def.Inputs {
		input := NewFuzzyInput(in.Name, in.Min, in.Max)
		for _, tag := range in.Tags {
			shape, err := ParseShape(tag.Shape)
			if err != nil {
				return nil, fmt.Errorf("system %q: %s IS %s: %w", def.Name, in.Name, tag.Name, err)
			}
			if _, err := input.AddTag(tag.Name, shape, tag.Params...); err != nil {
				return nil, fmt.Errorf("system %q: %w", def.Name, err)
			}
		}
		system.Inputs = append(system.Inputs, input)
	}

	system.Output = NewFuzzyOutput(def.Output.Name, def.Output.Min, def.Output.Max)
	for _, tag := range def.Output.Tags {
		if _, err := system.Output.AddTag(tag.Name, tag.Value); err != nil {
			return nil, fmt.Errorf("system %q: %w", def.Name, err)
		}
	}

	for _, text := range def.Rules {
		rule, err := ParseRule(text)
		if err != nil {
			return nil, fmt.Errorf("system %q: %w", def.Name, err)
		}
		system.Rules = append(system.Rules, rule)
	}

	return system, nil
}

func ParseSystem(data []byte) (*System, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		errnie.Error(err)
		return nil, fmt.Errorf("parsing system definition: %w", err)
	}

	system, err := def.Build()
	if err != nil {
		errnie.Error(err)
		return nil, err
	}

	errnie.Info("built fuzzy system %s with %d inputs and %d rules", system.Name, len(system.Inputs), len(system.Rules))
	return system, nil
}

func LoadSystem(path string) (*System, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		errnie.Error(err)
		return nil, err
	}
	return ParseSystem(data)
}

var defaultDefinition = sync.OnceValues(func() (Definition, error) {
	var def Definition
	if err := yaml.Unmarshal(sao2Definition, &def); err != nil {
		errnie.Error(err)
		return Definition{}, fmt.Errorf("parsing system definition: %w", err)
	}
	return def, nil
})

/*
DefaultSystem returns the SaO2 desaturation event system: SaO2 reduction and
reduction duration in, event likelihood out. The definition is parsed once;
every call builds a fresh System from it, so changes a caller makes to its
variables never reach other callers.
*/
func DefaultSystem() (*System, error) {
	def, err := defaultDefinition()
	if err != nil {
		return nil, err
	}

	system, err := def.Build()
	if err != nil {
		errnie.Error(err)
		return nil, err
	}
	return system, nil
}
