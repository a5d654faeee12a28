package propagation

import "fmt"

// NoiseEnvironment is the categorical man-made noise environment used
// by §4.H.
type NoiseEnvironment int

const (
	NoiseRemote NoiseEnvironment = iota
	NoiseQuiet
	NoiseRural
	NoiseResidential
	NoiseUrban
	NoiseNoisy
)

func ParseNoiseEnvironment(s string) (NoiseEnvironment, error) {
	switch s {
	case "remote":
		return NoiseRemote, nil
	case "quiet":
		return NoiseQuiet, nil
	case "rural":
		return NoiseRural, nil
	case "residential":
		return NoiseResidential, nil
	case "urban":
		return NoiseUrban, nil
	case "noisy":
		return NoiseNoisy, nil
	default:
		return 0, &ConfigError{Field: "noise_env", Reason: fmt.Sprintf("unknown noise environment %q", s)}
	}
}

func (n NoiseEnvironment) String() string {
	switch n {
	case NoiseRemote:
		return "remote"
	case NoiseQuiet:
		return "quiet"
	case NoiseRural:
		return "rural"
	case NoiseResidential:
		return "residential"
	case NoiseUrban:
		return "urban"
	case NoiseNoisy:
		return "noisy"
	default:
		return "unknown"
	}
}

// AntennaKind selects one of the built-in antenna patterns, §4.I.
type AntennaKind int

const (
	AntennaIsotropic AntennaKind = iota
	AntennaDipole
	AntennaInvertedV
	AntennaMonopole
	AntennaYagi3
)

// AntennaSpec configures an antenna instance: its pattern kind plus
// the geometric parameters that pattern needs (height above ground,
// design frequency for the Yagi, ...).
type AntennaSpec struct {
	Kind         AntennaKind
	HeightM      float64 // height above ground, meters
	DesignFreqMHz float64 // center design frequency, for band-limited patterns
	AzimuthRad   float64 // boresight azimuth (Yagi only), radians
}

// PredictionConfig carries every knob described in spec.md §6. The
// zero value is not meant to be used directly; call DefaultConfig and
// override fields.
type PredictionConfig struct {
	TxPowerDbw            float64
	RequiredSnrDb         float64
	BandwidthHz           float64
	RequiredReliability   float64
	NoiseEnv              NoiseEnvironment
	MinTakeoffAngleDeg    float64
	LongPath              bool
	TxAntenna             AntennaSpec
	RxAntenna             AntennaSpec
	MaxTolerableDelayMs   float64
	MultipathToleranceDb  float64
}

// DefaultConfig returns spec.md §6's documented defaults: 100 W tx
// power, 10 dB required SNR (the realistic SSB operating value, not
// the legacy-validation value of 73), 2700 Hz SSB bandwidth, rural noise,
// 3 degree minimum takeoff angle, dipoles at both ends.
func DefaultConfig() PredictionConfig {
	return PredictionConfig{
		TxPowerDbw:           20,
		RequiredSnrDb:        10,
		BandwidthHz:          2700,
		RequiredReliability:  0.9,
		NoiseEnv:             NoiseRural,
		MinTakeoffAngleDeg:   3.0,
		LongPath:             false,
		TxAntenna:            AntennaSpec{Kind: AntennaDipole, HeightM: 20},
		RxAntenna:            AntennaSpec{Kind: AntennaDipole, HeightM: 20},
		MaxTolerableDelayMs:  0.1,
		MultipathToleranceDb: 3.0,
	}
}

// Validate checks the configuration against spec.md §7's
// ConfigInvalid conditions. It does not check the frequency list;
// Predict checks that itself, and a single frequency outside the
// accepted range fails the whole call before any compute, as a bad
// config does. Validate is called once per Predict.
func (c PredictionConfig) Validate() error {
	if c.BandwidthHz <= 0 {
		return &ConfigError{Field: "bandwidth_hz", Reason: "must be positive"}
	}
	if c.RequiredReliability < 0 || c.RequiredReliability > 1 {
		return &ConfigError{Field: "required_reliability", Reason: "must be in [0,1]"}
	}
	if c.MinTakeoffAngleDeg < 0 || c.MinTakeoffAngleDeg >= 90 {
		return &ConfigError{Field: "min_toa_deg", Reason: "must be in [0,90)"}
	}
	if c.MaxTolerableDelayMs < 0 {
		return &ConfigError{Field: "max_tolerable_delay_ms", Reason: "must be non-negative"}
	}
	if c.MultipathToleranceDb < 0 {
		return &ConfigError{Field: "multipath_tolerance_db", Reason: "must be non-negative"}
	}
	return nil
}
