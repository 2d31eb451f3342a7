package qfis

import (
	"fmt"
	"strings"

	"github.com/theapemachine/errnie"
)

// Clause is a single "<variable> IS <tag>" statement.
type Clause struct {
	Variable string
	Tag      string
}

func (c Clause) String() string {
	return fmt.Sprintf("%s IS %s", c.Variable, c.Tag)
}

/*
Rule is "IF <clause> AND <clause> ... THEN <clause>". Inputs left out of the
antecedent match every tag of that input.
*/
type Rule struct {
	If   []Clause
	Then Clause
}

func (r Rule) String() string {
	antecedent := make([]string, len(r.If))
	for i, clause := range r.If {
		antecedent[i] = clause.String()
	}
	return fmt.Sprintf("IF %s THEN %s", strings.Join(antecedent, " AND "), r.Then)
}

// ParseRule parses the textual form produced by Rule.String.
func ParseRule(text string) (Rule, error) {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "IF ") {
		return Rule{}, fmt.Errorf("rule %q: missing IF", text)
	}

	antecedent, consequent, ok := strings.Cut(strings.TrimPrefix(trimmed, "IF "), " THEN ")
	if !ok {
		return Rule{}, fmt.Errorf("rule %q: missing THEN", text)
	}

	then, err := parseClause(consequent)
	if err != nil {
		return Rule{}, fmt.Errorf("rule %q: %w", text, err)
	}

	rule := Rule{Then: then}
	for _, part := range strings.Split(antecedent, " AND ") {
		clause, err := parseClause(part)
		if err != nil {
			return Rule{}, fmt.Errorf("rule %q: %w", text, err)
		}
		rule.If = append(rule.If, clause)
	}

	return rule, nil
}

func parseClause(text string) (Clause, error) {
	idx := strings.LastIndex(text, " IS ")
	if idx < 0 {
		return Clause{}, fmt.Errorf("clause %q: missing IS", text)
	}

	clause := Clause{
		Variable: strings.TrimSpace(text[:idx]),
		Tag:      strings.TrimSpace(text[idx+len(" IS "):]),
	}
	if clause.Variable == "" || clause.Tag == "" {
		return Clause{}, fmt.Errorf("clause %q: empty variable or tag", text)
	}

	return clause, nil
}

/*
CompileRules builds the rule circuit for system from its rules. Every joint
basis state of the input registers is routed to the output basis state of the
rule that fires for it; combinations no rule covers, including the padding and
garbage states, are routed to GarbageOutput. When rules overlap the later one
wins.
*/
func CompileRules(system *System, rules []Rule) (*RuleCircuit, error) {
	inputWidths, outputWidth := system.Layout()

	rc := &RuleCircuit{
		Version:     RuleCircuitVersion,
		Name:        system.Name,
		InputWidths: inputWidths,
		OutputWidth: outputWidth,
	}

	size := rc.jointSize()
	rc.Table = make([]uint64, size)
	for i := range rc.Table {
		rc.Table[i] = GarbageOutput
	}

	for _, rule := range rules {
		matches, output, err := resolveRule(system, rule)
		if err != nil {
			errnie.Error(err)
			return nil, err
		}

		for _, basis := range cartesian(matches) {
			joint := rc.joint(basis)
			if rc.Table[joint] != GarbageOutput && rc.Table[joint] != output {
				errnie.Warn("rule %q overrides an earlier rule for inputs %v", rule.String(), basis)
			}
			rc.Table[joint] = output
		}
	}

	errnie.Info("compiled %d rules into %d table entries", len(rules), size)
	return rc, nil
}

// resolveRule returns, per input, the tag indices the rule matches.
func resolveRule(system *System, rule Rule) ([][]int, uint64, error) {
	if rule.Then.Variable != system.Output.Name() {
		return nil, 0, fmt.Errorf("%w: %s in %v", ErrUnknownVariable, rule.Then.Variable, rule)
	}

	outTag, err := system.Output.Tag(rule.Then.Tag)
	if err != nil {
		return nil, 0, fmt.Errorf("%v: %w", rule, err)
	}
	output := OutputBasisState(system.Output.Index(outTag))

	matches := make([][]int, len(system.Inputs))
	for _, clause := range rule.If {
		pos := -1
		for i, input := range system.Inputs {
			if input.Name() == clause.Variable {
				pos = i
				break
			}
		}
		if pos < 0 {
			return nil, 0, fmt.Errorf("%w: %s in %v", ErrUnknownVariable, clause.Variable, rule)
		}
		if matches[pos] != nil {
			return nil, 0, fmt.Errorf("%v: %s appears twice", rule, clause.Variable)
		}

		input := system.Inputs[pos]
		tag, err := input.Tag(clause.Tag)
		if err != nil {
			return nil, 0, fmt.Errorf("%v: %w", rule, err)
		}
		matches[pos] = []int{input.Index(tag)}
	}

	for i, input := range system.Inputs {
		if matches[i] == nil {
			all := make([]int, len(input.tags))
			for j := range all {
				all[j] = j
			}
			matches[i] = all
		}
	}

	return matches, output, nil
}

// cartesian expands per-register index choices into every combination.
func cartesian(choices [][]int) [][]int {
	combos := [][]int{{}}
	for _, options := range choices {
		next := make([][]int, 0, len(combos)*len(options))
		for _, combo := range combos {
			for _, option := range options {
				extended := make([]int, len(combo), len(combo)+1)
				copy(extended, combo)
				next = append(next, append(extended, option))
			}
		}
		combos = next
	}
	return combos
}
