package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/theapemachine/qfis"
)

var (
	batchInput string
	workers    int

	batchCmd = &cobra.Command{
		Use:   "batch",
		Short: "Run inference for every row of a CSV file of crisp inputs",
		Long: `batch reads one set of crisp inputs per CSV row, runs them concurrently
and writes one CSV row per input with the run id, the crisp output, the good
shot count and any error.`,
		Args: cobra.NoArgs,
		RunE: runBatch,
	}
)

func init() {
	batchCmd.Flags().StringVarP(&batchInput, "input", "i", "-", "CSV file of crisp inputs, - for stdin")
	batchCmd.Flags().IntVar(&workers, "workers", 0, "Number of concurrent inferences")
	batchCmd.Flags().StringVar(&circuitPath, "circuit", "", "Rule circuit artifact, compiled from the system rules when empty")
	batchCmd.Flags().IntVar(&shots, "shots", 0, "Number of measurement shots")
	batchCmd.Flags().Uint64Var(&seed, "seed", 0, "Sampler seed, random when 0")
	batchCmd.Flags().BoolVar(&legacy, "legacy", false, "Let unclassified membership degrees through to the encoder")
	rootCmd.AddCommand(batchCmd)
}

// readInputs parses every CSV record as a row of floats.
func readInputs(r io.Reader) ([][]float64, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.Comment = '#'

	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	inputs := make([][]float64, 0, len(records))
	for line, record := range records {
		row := make([]float64, len(record))
		for i, field := range record {
			if row[i], err = strconv.ParseFloat(strings.TrimSpace(field), 64); err != nil {
				return nil, fmt.Errorf("row %d: %w", line+1, err)
			}
		}
		inputs = append(inputs, row)
	}

	return inputs, nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers = workers
	}

	in := cmd.InOrStdin()
	if batchInput != "-" {
		file, err := os.Open(batchInput)
		if err != nil {
			return err
		}
		defer file.Close()
		in = file
	}

	inputs, err := readInputs(in)
	if err != nil {
		return err
	}

	pipeline, err := buildPipeline(cfg)
	if err != nil {
		return err
	}

	cmd.SilenceUsage = true

	results := qfis.NewBatch(pipeline, cfg.Workers).Run(cmd.Context(), inputs)

	writer := csv.NewWriter(cmd.OutOrStdout())
	if err := writer.Write([]string{"row", "id", "value", "good_shots", "error"}); err != nil {
		return err
	}

	for _, res := range results {
		record := []string{strconv.Itoa(res.Job.Index + 1), "", "", "", ""}
		if res.Result != nil {
			record[1] = res.Result.ID.String()
			record[2] = strconv.FormatFloat(res.Result.Value, 'g', -1, 64)
			record[3] = strconv.Itoa(res.Result.Decoded.GoodShots)
		}
		if res.Err != nil {
			record[4] = res.Err.Error()
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
