package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sa6mwa/hfprop"
	"github.com/sa6mwa/hfprop/propagation"
)

var coeffsCmd = &cobra.Command{
	Use:   "coeffs",
	Short: "Inspect and validate the bundled coefficient store",
}

var (
	verifyUrsiCode string
	verifyLat      float64
	verifyLon      float64
	verifySsn      float64
)

var coeffsVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Cross-check the bundled coefficient store against a live GIRO/DIDB foF2 reading",
	Long: `verify fetches the most recent foF2 reading for a Digisonde
station from GIRO/DIDB and compares it against this engine's own
coefficient-store prediction for the same location, month, and hour —
a quick sanity check that the bundled coefficient maps are in the
right ballpark for a known station, not a substitute for the §8
reference-parity test suite.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := newEngine()
		if err != nil {
			return err
		}
		station, err := propagation.NewGeoPointDeg(verifyLat, verifyLon)
		if err != nil {
			return fmt.Errorf("coeffs verify: %w", err)
		}
		measured, predicted, delta, err := hfprop.StationCoefficientCheck(engine, verifyUrsiCode, station, verifySsn)
		if err != nil {
			return fmt.Errorf("coeffs verify: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "station=%s measured_foF2=%.2fMHz predicted_foF2=%.2fMHz delta=%.2fMHz\n",
			verifyUrsiCode, measured, predicted, delta)
		return nil
	},
}

func init() {
	coeffsVerifyCmd.Flags().StringVar(&verifyUrsiCode, "ursi-code", "JR055", "Digisonde URSI station code")
	coeffsVerifyCmd.Flags().Float64Var(&verifyLat, "lat", 54.6, "station latitude, degrees (for the coefficient-store side of the comparison)")
	coeffsVerifyCmd.Flags().Float64Var(&verifyLon, "lon", 13.4, "station longitude, degrees")
	coeffsVerifyCmd.Flags().Float64Var(&verifySsn, "ssn", 100, "smoothed sunspot number to use for the prediction")

	coeffsCmd.AddCommand(coeffsVerifyCmd)
	rootCmd.AddCommand(coeffsCmd)
}
