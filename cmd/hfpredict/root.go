package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/sa6mwa/hfprop/propagation"
)

var (
	cfgFile string
	dataDir string
	verbose bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "hfpredict",
	Short: "Predict HF ionospheric propagation between two points",
	Long: `hfpredict runs the hfprop propagation engine: great-circle
geometry, ionospheric profile synthesis from the bundled CCIR/URSI
coefficient maps, ray tracing, and signal/reliability scoring, for a
transmitter, a receiver, a time, a solar activity level, and a list of
operating frequencies.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if verbose {
			logger, err = zap.NewDevelopment()
		} else {
			logger, err = zap.NewProduction()
		}
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.hfpredict.yaml)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "testdata/coeff", "directory containing the twelve monthly coefficient blobs")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	_ = viper.BindPFlag("data-dir", rootCmd.PersistentFlags().Lookup("data-dir"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".hfpredict")
		viper.SetConfigType("yaml")
		viper.AddConfigPath("$HOME")
		viper.AddConfigPath(".")
	}
	viper.SetEnvPrefix("HFPREDICT")
	viper.AutomaticEnv()
	_ = viper.ReadInConfig() // a missing config file is not an error; flags/defaults stand
}

// newEngine constructs the shared propagation.Engine from the
// resolved --data-dir flag/config value.
func newEngine() (*propagation.Engine, error) {
	dir := dataDir
	if viper.IsSet("data-dir") {
		dir = viper.GetString("data-dir")
	}
	engine, err := propagation.NewEngine(dir, logger)
	if err != nil {
		return nil, fmt.Errorf("loading coefficient store from %s: %w", dir, err)
	}
	return engine, nil
}
