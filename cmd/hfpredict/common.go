package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sa6mwa/hfprop/propagation"
)

// circuitFlags are the tx/rx/time/solar/frequency inputs shared by
// the predict and report commands (spec.md §6's predict() signature).
type circuitFlags struct {
	txLat, txLon float64
	rxLat, rxLon float64
	year, month  int
	utcHour      float64
	ssn          float64
	freqsCsv     string

	txPowerDbw    float64
	requiredSnrDb float64
	bandwidthHz   float64
	noiseEnv      string
	minToaDeg     float64
	longPath      bool
	txAntenna     string
	rxAntenna     string
}

func addCircuitFlags(cmd *cobra.Command, f *circuitFlags) {
	cmd.Flags().Float64Var(&f.txLat, "tx-lat", 0, "transmitter latitude, degrees")
	cmd.Flags().Float64Var(&f.txLon, "tx-lon", 0, "transmitter longitude, degrees")
	cmd.Flags().Float64Var(&f.rxLat, "rx-lat", 0, "receiver latitude, degrees")
	cmd.Flags().Float64Var(&f.rxLon, "rx-lon", 0, "receiver longitude, degrees")
	cmd.Flags().IntVar(&f.year, "year", 0, "year (informational; only month/hour drive the model)")
	cmd.Flags().IntVar(&f.month, "month", 1, "month, 1-12")
	cmd.Flags().Float64Var(&f.utcHour, "utc-hour", 0, "UTC hour, [0,24)")
	cmd.Flags().Float64Var(&f.ssn, "ssn", 100, "smoothed sunspot number")
	cmd.Flags().StringVar(&f.freqsCsv, "freqs", "7,14,21", "comma-separated operating frequencies, MHz")

	cmd.Flags().Float64Var(&f.txPowerDbw, "tx-power-dbw", 20, "transmitter power, dBW (default 20 = 100 W)")
	cmd.Flags().Float64Var(&f.requiredSnrDb, "required-snr-db", 10, "required SNR, dB (10 realistic SSB, 73 legacy-validation)")
	cmd.Flags().Float64Var(&f.bandwidthHz, "bandwidth-hz", 2700, "receiver bandwidth, Hz")
	cmd.Flags().StringVar(&f.noiseEnv, "noise-env", "rural", "noise environment: remote|quiet|rural|residential|urban|noisy")
	cmd.Flags().Float64Var(&f.minToaDeg, "min-toa-deg", 3.0, "minimum takeoff angle, degrees")
	cmd.Flags().BoolVar(&f.longPath, "long-path", false, "use the long great-circle path instead of the short one")
	cmd.Flags().StringVar(&f.txAntenna, "tx-antenna", "dipole", "tx antenna: isotropic|dipole|invertedv|monopole|yagi3")
	cmd.Flags().StringVar(&f.rxAntenna, "rx-antenna", "dipole", "rx antenna: isotropic|dipole|invertedv|monopole|yagi3")
}

func parseFreqs(csv string) ([]float64, error) {
	parts := strings.Split(csv, ",")
	freqs := make([]float64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid frequency %q: %w", p, err)
		}
		freqs = append(freqs, v)
	}
	if len(freqs) == 0 {
		return nil, fmt.Errorf("no frequencies given")
	}
	return freqs, nil
}

func parseAntennaKind(s string) (propagation.AntennaKind, error) {
	switch strings.ToLower(s) {
	case "isotropic":
		return propagation.AntennaIsotropic, nil
	case "dipole":
		return propagation.AntennaDipole, nil
	case "invertedv", "inverted-v":
		return propagation.AntennaInvertedV, nil
	case "monopole":
		return propagation.AntennaMonopole, nil
	case "yagi3", "yagi":
		return propagation.AntennaYagi3, nil
	default:
		return 0, fmt.Errorf("unknown antenna kind %q", s)
	}
}

// buildConfig turns the shared flag set into a propagation.PredictionConfig
// layered over DefaultConfig(), spec.md §6.
func buildConfig(f *circuitFlags) (propagation.PredictionConfig, error) {
	cfg := propagation.DefaultConfig()

	env, err := propagation.ParseNoiseEnvironment(f.noiseEnv)
	if err != nil {
		return cfg, err
	}
	txKind, err := parseAntennaKind(f.txAntenna)
	if err != nil {
		return cfg, err
	}
	rxKind, err := parseAntennaKind(f.rxAntenna)
	if err != nil {
		return cfg, err
	}

	cfg.TxPowerDbw = f.txPowerDbw
	cfg.RequiredSnrDb = f.requiredSnrDb
	cfg.BandwidthHz = f.bandwidthHz
	cfg.NoiseEnv = env
	cfg.MinTakeoffAngleDeg = f.minToaDeg
	cfg.LongPath = f.longPath
	cfg.TxAntenna = propagation.AntennaSpec{Kind: txKind, HeightM: 20}
	cfg.RxAntenna = propagation.AntennaSpec{Kind: rxKind, HeightM: 20}
	return cfg, nil
}

// runPredict resolves flags into propagation.Engine.Predict inputs and
// runs the prediction, shared by the predict and report commands.
func runPredict(f *circuitFlags) ([]propagation.Prediction, error) {
	freqs, err := parseFreqs(f.freqsCsv)
	if err != nil {
		return nil, err
	}
	tx, err := propagation.NewGeoPointDeg(f.txLat, f.txLon)
	if err != nil {
		return nil, fmt.Errorf("tx location: %w", err)
	}
	rx, err := propagation.NewGeoPointDeg(f.rxLat, f.rxLon)
	if err != nil {
		return nil, fmt.Errorf("rx location: %w", err)
	}
	cfg, err := buildConfig(f)
	if err != nil {
		return nil, err
	}

	engine, err := newEngine()
	if err != nil {
		return nil, err
	}
	return engine.Predict(tx, rx, f.month, f.utcHour, f.ssn, freqs, cfg)
}
