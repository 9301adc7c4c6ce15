package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Simplici0/mouldquote/internal/estimate"
	"github.com/Simplici0/mouldquote/internal/logging"
)

func newRootCmd() *cobra.Command {
	var (
		verbose bool
		logger  *zap.Logger
	)

	root := &cobra.Command{
		Use:          "estimate",
		Short:        "Price mould remediation inspections",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := "warn"
			if verbose {
				level = "debug"
			}
			var err error
			logger, err = logging.New(level, true)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newCalcCmd(func() *zap.Logger { return logger }))
	root.AddCommand(newRatesCmd())
	return root
}

func newCalcCmd(log func() *zap.Logger) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "calc [file]",
		Short: "Calculate a cost breakdown; reads stdin when no file or \"-\" is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "-"
			if len(args) == 1 {
				path = args[0]
			}

			input, err := readInput(cmd.InOrStdin(), path)
			if err != nil {
				return err
			}
			if err := input.Validate(); err != nil {
				return fmt.Errorf("invalid input: %w", err)
			}

			result := estimate.Calculate(input)
			log().Debug("calculated estimate",
				zap.String("source", path),
				zap.Int("areas", len(input.Areas)),
				zap.String("work_type", string(result.WorkType)),
				zap.Float64("total_cost", result.TotalCost),
			)

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}
			_, err = io.WriteString(out, estimate.Summary(result))
			return err
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full breakdown as JSON")
	return cmd
}

// readInput decodes YAML; JSON documents parse as YAML too.
func readInput(stdin io.Reader, path string) (estimate.InspectionCostInput, error) {
	var r io.Reader = stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return estimate.InspectionCostInput{}, fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		r = f
	}

	var input estimate.InspectionCostInput
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&input); err != nil {
		if errors.Is(err, io.EOF) {
			return input, fmt.Errorf("decode input: empty document")
		}
		return input, fmt.Errorf("decode input: %w", err)
	}
	return input, nil
}

func newRatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rates",
		Short: "Show pricing anchors, discount tiers and equipment day rates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)

			fmt.Fprintln(tw, "WORK TYPE\t2 HOURS\t8 HOURS")
			for _, wt := range estimate.WorkTypes {
				a := wt.Anchors()
				fmt.Fprintf(tw, "%s\t%s\t%s\n", wt, estimate.FormatCurrency(a.TwoHour), estimate.FormatCurrency(a.EightHour))
			}
			fmt.Fprintln(tw)

			fmt.Fprintln(tw, "HOURS\tDISCOUNT")
			for _, tier := range estimate.DiscountTiers {
				fmt.Fprintf(tw, "<= %g\t%.1f%%\n", tier.MaxHours, tier.Discount*100)
			}
			last := estimate.DiscountTiers[len(estimate.DiscountTiers)-1]
			fmt.Fprintf(tw, "> %g\t%.1f%%\n", last.MaxHours, estimate.MaxDiscount*100)
			fmt.Fprintln(tw)

			fmt.Fprintln(tw, "EQUIPMENT\tPER DAY")
			fmt.Fprintf(tw, "dehumidifier\t%s\n", estimate.FormatCurrency(estimate.DehumidifierDailyRate))
			fmt.Fprintf(tw, "air mover\t%s\n", estimate.FormatCurrency(estimate.AirMoverDailyRate))
			fmt.Fprintf(tw, "rcd box\t%s\n", estimate.FormatCurrency(estimate.RCDBoxDailyRate))

			return tw.Flush()
		},
	}
}
