package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

var predictFlags circuitFlags

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Run one prediction and print it as JSON",
	Long: `predict runs propagation.Engine.Predict for the given tx/rx
pair, time, solar activity, and frequency list, and writes the
resulting []Prediction as JSON to stdout — the machine-readable
sibling of "report".`,
	RunE: func(cmd *cobra.Command, args []string) error {
		predictions, err := runPredict(&predictFlags)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(predictions)
	},
}

func init() {
	addCircuitFlags(predictCmd, &predictFlags)
	rootCmd.AddCommand(predictCmd)
}
