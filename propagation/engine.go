package propagation

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/sa6mwa/hfprop/internal/coeff"
	"github.com/sa6mwa/hfprop/internal/ionosphere"
	"github.com/sa6mwa/hfprop/internal/model"
	"github.com/sa6mwa/hfprop/internal/raytrace"
)

// Engine owns the coefficient store and logger shared by every
// Predict call, spec.md §2/§9's "global coefficient store".
type Engine struct {
	store *coeff.Store
	log   *zap.Logger
}

// NewEngine constructs an Engine backed by the twelve monthly
// coefficient blobs under dataDir. It is safe to share one Engine
// across concurrent Predict calls: the Store is read-only after
// construction.
func NewEngine(dataDir string, log *zap.Logger) (*Engine, error) {
	if log == nil {
		log = zap.NewNop()
	}
	store, err := coeff.NewStore(dataDir, log)
	if err != nil {
		return nil, err
	}
	return &Engine{store: store, log: log}, nil
}

// Predict runs the full spec.md §2 pipeline for one tx/rx pair, time,
// and solar activity level across the given frequency list, returning
// one Prediction per frequency in the same order.
func (e *Engine) Predict(tx, rx GeoPoint, month int, utcHour, ssn float64, frequencies []float64, config PredictionConfig) ([]Prediction, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if month < 1 || month > 12 {
		return nil, &ConfigError{Field: "month", Reason: "must be in [1,12]"}
	}
	if len(frequencies) == 0 {
		return nil, &ConfigError{Field: "frequencies", Reason: "must be non-empty"}
	}
	for i, f := range frequencies {
		if f < 2.0 || f > 30.0 {
			return nil, &ConfigError{Field: fmt.Sprintf("frequencies[%d]", i), Reason: "must be in [2,30] MHz"}
		}
	}

	geom := BuildPathGeometry(tx, rx, config.LongPath)
	bases := ControlPoints(geom)

	points := make([]model.ControlPoint, len(bases))
	for i, b := range bases {
		solar := SolarZenithRad(b.Point, month, utcHour)
		geomag := GeomagneticContext(b.Point)
		profile, err := ionosphere.BuildProfile(e.store, b.Point.LatRad, b.Point.LonRad, solar.LocalTimeHour, solar.ZenithRad, ssn, month)
		if err != nil {
			return nil, err
		}
		profile.GyroFreqMHz = geomag.GyroFreqMHz
		profile.Ionogram = ionosphere.BuildIonogram(profile)
		points[i] = model.ControlPoint{
			Role:    b.Role,
			Point:   b.Point,
			Solar:   solar,
			Geomag:  geomag,
			Profile: profile,
		}
		e.log.Debug("built control point",
			zap.String("role", fmt.Sprint(b.Role)),
			zap.Float64("lat_deg", b.Point.LatRad*180/math.Pi),
			zap.Float64("lon_deg", b.Point.LonRad*180/math.Pi),
			zap.Float64("foE", profile.E.Critical),
			zap.Float64("foF2", profile.F2.Critical),
		)
	}

	minElevRad := config.MinTakeoffAngleDeg * math.Pi / 180
	midProfile := points[len(points)/2].Profile

	predictions := make([]Prediction, len(frequencies))
	for i, f := range frequencies {
		pred, err := e.predictOne(f, geom, points, midProfile, minElevRad, ssn, config)
		if err != nil {
			return nil, err
		}
		predictions[i] = pred
	}
	return predictions, nil
}

func (e *Engine) predictOne(fMHz float64, geom PathGeometry, points []model.ControlPoint, midProfile model.IonosphericProfile, minElevRad, ssn float64, config PredictionConfig) (Prediction, error) {
	rawModes := raytrace.EnumerateModes(midProfile, fMHz, geom.DistanceRad, minElevRad)
	if len(rawModes) == 0 {
		return Prediction{FrequencyMHz: fMHz, Closed: true}, nil
	}

	mufLayer, mufInfo := bestLayerMuf(points, minElevRad)
	noise := BuildNoise(e.store, geom.Rx, points[len(points)-1].Solar.LocalTimeHour, fMHz, config.BandwidthHz, config.NoiseEnv)

	modes := make([]model.Mode, 0, len(rawModes))
	for _, m := range rawModes {
		lp := layerParamsOf(midProfile, m.Layer)
		modes = append(modes, BuildSignal(m, points, lp, config, noise, mufInfo, fMHz, ssn))
	}

	viable := make([]model.Mode, 0, len(modes))
	for _, m := range modes {
		if m.Reliability >= minViableReliability {
			viable = append(viable, m)
		}
	}
	if len(viable) == 0 {
		return Prediction{FrequencyMHz: fMHz, Modes: modes, Closed: true}, nil
	}

	best := SelectBestMode(viable)
	combined := CombineSignal(viable)
	pathDistanceKm := geom.DistanceRad * EarthRadiusKm
	multipath := MultipathProbability(viable, *best, pathDistanceKm, config.MaxTolerableDelayMs, config.MultipathToleranceDb)
	serviceProb := MufExceedProbability(fMHz, mufInfo.MufMHz, mufInfo.SigLo, mufInfo.SigHi)
	e.log.Debug("circuit muf",
		zap.Float64("freq_mhz", fMHz),
		zap.Stringer("layer", mufLayer),
		zap.Float64("muf_mhz", mufInfo.MufMHz),
	)

	return Prediction{
		FrequencyMHz:  fMHz,
		Modes:         modes,
		BestMode:      best,
		Signal:        combined,
		Muf:           mufInfo,
		MultipathProb: multipath,
		ServiceProb:   serviceProb,
		Closed:        false,
	}, nil
}

// SampleFoF2 evaluates the coefficient store's predicted F2 critical
// frequency at a single point and time, without building a full
// circuit prediction. It backs the CLI's `coeffs verify` subcommand,
// which cross-checks this engine's coefficient store against a live
// GIRO/DIDB foF2 reading for the same station (see hfprop.go's
// StationCoefficientCheck).
func (e *Engine) SampleFoF2(latDeg, lonDeg float64, month int, utcHour, ssn float64) (float64, error) {
	if month < 1 || month > 12 {
		return 0, &ConfigError{Field: "month", Reason: "must be in [1,12]"}
	}
	p, err := NewGeoPointDeg(latDeg, lonDeg)
	if err != nil {
		return 0, err
	}
	solar := SolarZenithRad(p, month, utcHour)
	profile, err := ionosphere.BuildProfile(e.store, p.LatRad, p.LonRad, solar.LocalTimeHour, solar.ZenithRad, ssn, month)
	if err != nil {
		return 0, err
	}
	return profile.F2.Critical, nil
}

// minViableReliability is the reliability floor a mode must clear to
// be considered part of the circuit's usable signal, rather than
// treated as effectively closed, spec.md §7's NoMode condition.
const minViableReliability = 0.01

// bestLayerMuf picks the F2 layer when present (it almost always
// supports the highest MUF at HF), falling back to E, and builds the
// circuit MufInfo from it.
func bestLayerMuf(points []model.ControlPoint, minElevRad float64) (model.Layer, model.MufInfo) {
	layer := model.LayerF2
	if !points[0].Profile.F2.Present {
		layer = model.LayerE
	}
	muf := CircuitMUF(points, layer, minElevRad)

	sigLo, sigHi := 0.0, 0.0
	for _, cp := range points {
		lp := layerParamsOf(cp.Profile, layer)
		sigLo += lp.SigLo
		sigHi += lp.SigHi
	}
	n := float64(len(points))
	if n > 0 {
		sigLo /= n
		sigHi /= n
	}
	return layer, BuildMufInfo(muf, sigLo, sigHi)
}

