package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sa6mwa/hfprop/propagation"
)

var reportFlags circuitFlags

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Run one prediction and print a tabular text report",
	Long: `report prints the same per-frequency columns as the legacy
reference's tabular output (spec.md §6): MUF/FOT/HPF, the dominant
mode, median/decile SNR, reliability, multipath probability, and group
delay, column-aligned with text/tabwriter.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		predictions, err := runPredict(&reportFlags)
		if err != nil {
			return err
		}
		return writeReport(cmd.OutOrStdout(), predictions)
	},
}

func init() {
	addCircuitFlags(reportCmd, &reportFlags)
	rootCmd.AddCommand(reportCmd)
}

func writeReport(w io.Writer, predictions []propagation.Prediction) error {
	tw := tabwriter.NewWriter(w, 0, 2, 2, ' ', 0)
	fmt.Fprintln(tw, "FREQ\tMUF\tFOT\tHPF\tMODE\tSNR\tSNR10\tSNR90\tRELIAB\tMPATH\tDELAY\tSTATUS")
	for _, p := range predictions {
		if p.Closed {
			fmt.Fprintf(tw, "%.2f\t-\t-\t-\t-\t-\t-\t-\t0.00\t-\t-\tclosed\n", p.FrequencyMHz)
			continue
		}
		mode := "-"
		if p.BestMode != nil {
			mode = fmt.Sprintf("%d%s", p.BestMode.HopCount, p.BestMode.Layer)
		}
		fmt.Fprintf(tw, "%.2f\t%.1f\t%.1f\t%.1f\t%s\t%.1f\t%.1f\t%.1f\t%.2f\t%.3f\t%.2f\topen\n",
			p.FrequencyMHz,
			p.Muf.MufMHz, p.Muf.FotMHz, p.Muf.HpfMHz,
			mode,
			p.Signal.SnrDb, p.Signal.Snr10, p.Signal.Snr90,
			p.Signal.Reliability,
			p.MultipathProb,
			p.Signal.DelayMs,
		)
	}
	return tw.Flush()
}
