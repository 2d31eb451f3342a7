package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/theapemachine/errnie"
	"github.com/theapemachine/qfis"
)

// --- Global Command Variables ---
var (
	configPath  string
	circuitPath string
	systemPath  string
	shots       int
	seed        uint64
	legacy      bool
	outputPath  string

	getCircuitInputs []float64
	runCircuitInputs []float64

	rootCmd = &cobra.Command{
		Use:   "qfis",
		Short: "Fuzzy inference on a quantum circuit",
		Long: `qfis fuzzifies two crisp sensor values, encodes them as quantum state
amplitudes, applies the fuzzy rule circuit and defuzzifies the measured
output into a single crisp value.`,
		Args: cobra.NoArgs,
		RunE: runRoot,
	}

	compileCmd = &cobra.Command{
		Use:   "compile",
		Short: "Compile the rules of a fuzzy system definition into a rule circuit artifact",
		Args:  cobra.NoArgs,
		RunE:  runCompile,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a configuration file")
	rootCmd.PersistentFlags().StringVar(&systemPath, "system", "", "Fuzzy system definition (YAML), defaults to the built-in SaO2 system")

	rootCmd.Flags().Float64SliceVarP(&getCircuitInputs, "get-quantum-circuit", "g", nil,
		"Print the quantum circuit for two crisp input values")
	rootCmd.Flags().Float64SliceVarP(&runCircuitInputs, "run-quantum-circuit", "r", nil,
		"Run the quantum circuit for two crisp input values and print the crisp output")
	rootCmd.MarkFlagsMutuallyExclusive("get-quantum-circuit", "run-quantum-circuit")

	rootCmd.Flags().StringVar(&circuitPath, "circuit", "", "Rule circuit artifact, compiled from the system rules when empty")
	rootCmd.Flags().IntVar(&shots, "shots", 0, "Number of measurement shots")
	rootCmd.Flags().Uint64Var(&seed, "seed", 0, "Sampler seed, random when 0")
	rootCmd.Flags().BoolVar(&legacy, "legacy", false, "Let unclassified membership degrees through to the encoder")

	compileCmd.Flags().StringVarP(&outputPath, "output", "o", "rules.qfc", "Where to write the artifact")
	rootCmd.AddCommand(compileCmd)
}

// loadConfig merges the config file with any flags set on the command line.
func loadConfig(cmd *cobra.Command) (*qfis.Config, error) {
	cfg, err := qfis.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("system") {
		cfg.SystemPath = systemPath
	}
	if flags.Changed("circuit") {
		cfg.CircuitPath = circuitPath
	}
	if flags.Changed("shots") {
		cfg.Shots = shots
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("legacy") {
		cfg.Legacy = legacy
	}

	return cfg, nil
}

func loadSystem(cfg *qfis.Config) (*qfis.System, error) {
	if cfg.SystemPath == "" {
		return qfis.DefaultSystem()
	}
	return qfis.LoadSystem(cfg.SystemPath)
}

func buildPipeline(cfg *qfis.Config) (*qfis.Pipeline, error) {
	system, err := loadSystem(cfg)
	if err != nil {
		return nil, err
	}

	var rules *qfis.RuleCircuit
	if cfg.CircuitPath != "" {
		rules, err = qfis.LoadRuleCircuit(cfg.CircuitPath)
	} else {
		rules, err = system.Compile()
	}
	if err != nil {
		return nil, err
	}

	return qfis.NewPipeline(
		system, rules,
		qfis.WithShots(cfg.Shots),
		qfis.WithSampler(qfis.NewStatevectorSampler(cfg.Seed)),
		qfis.WithLegacy(cfg.Legacy),
	)
}

func runRoot(cmd *cobra.Command, args []string) error {
	get, run := cmd.Flags().Changed("get-quantum-circuit"), cmd.Flags().Changed("run-quantum-circuit")
	if !get && !run {
		return cmd.Help()
	}

	inputs := getCircuitInputs
	if run {
		inputs = runCircuitInputs
	}
	if len(inputs) != 2 {
		return fmt.Errorf("%w: expected 2 but '%d' were given", qfis.ErrArityMismatch, len(inputs))
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	pipeline, err := buildPipeline(cfg)
	if err != nil {
		return err
	}

	// Past argument validation, errors are no longer usage errors.
	cmd.SilenceUsage = true

	if get {
		circuit, err := pipeline.Circuit(inputs)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), circuit)
		return nil
	}

	result, err := pipeline.Run(cmd.Context(), inputs)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), result.Value)
	return nil
}

func runCompile(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	system, err := loadSystem(cfg)
	if err != nil {
		return err
	}

	rules, err := system.Compile()
	if err != nil {
		return err
	}

	if err := qfis.SaveRuleCircuit(outputPath, rules); err != nil {
		return err
	}

	errnie.Info("wrote rule circuit %s to %s", rules.Name, outputPath)
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d registers, %d entries\n", outputPath, len(rules.InputWidths)+1, len(rules.Table))
	return nil
}
