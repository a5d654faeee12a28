package propagation

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/sa6mwa/hfprop/internal/model"
)

// groundBounceLossDb is the median loss of one intermediate ground
// reflection, spec.md §4.J L_ground.
const groundBounceLossDb = 2.0

// auroralLatRad is the geomagnetic latitude beyond which auroral-zone
// absorption is added, spec.md §4.J L_aurora.
const auroralLatRad = 60.0 * math.Pi / 180

// absorptionCoeff and fLayerCollisionParam are spec.md §6's stable
// numerical constants ABSORPTION_COEFF and F-LAYER_COLLISION_PARAM,
// the CCIR/ITU-R P.533 non-deviative absorption formula's constant
// and collision-frequency term.
const (
	absorptionCoeff       = 677.2
	fLayerCollisionParam  = 10.2
)

func secantFactor(elevRad float64) float64 {
	s := math.Sin(elevRad)
	if s < 0.05 {
		s = 0.05
	}
	return 1 / s
}

// slantRangeKm is the one-way great-circle chord distance from a
// ground station to a reflection point at virtualHeightKm, halfway
// along a hop of hopDistanceRad central angle, by the law of cosines
// on the earth-centered triangle.
func slantRangeKm(hopDistanceRad, virtualHeightKm float64) float64 {
	r, rh := EarthRadiusKm, EarthRadiusKm+virtualHeightKm
	half := hopDistanceRad / 2
	d2 := rh*rh + r*r - 2*rh*r*math.Cos(half)
	if d2 < 0 {
		d2 = 0
	}
	return math.Sqrt(d2)
}

// pathLoss bundles the additive loss terms of spec.md §4.J's
// L_total = L_fs + L_abs + L_dev + L_ground + L_xls + L_aurora.
type pathLoss struct {
	slantKm  float64
	totalDb  float64
}

func computeLoss(mode model.Mode, points []model.ControlPoint, layerParams model.LayerParams, muf model.MufInfo, fMHz, ssn float64) pathLoss {
	elev := mode.Reflection.ElevationRad
	sec := secantFactor(elev)
	slantPerHop := slantRangeKm(mode.HopDistanceRad, mode.Reflection.VirtualHeightKm)
	totalSlantKm := float64(mode.HopCount) * 2 * slantPerHop

	lFs := 32.45 + 20*math.Log10(fMHz) + 20*math.Log10(math.Max(1, totalSlantKm))

	perHopAbsorption := nonDeviativeAbsorptionDb(points, fMHz, ssn)
	// L_abs uses the ray's incidence angle at a fixed 100 km D-region
	// absorption height, not its elevation at the ground.
	const dRegionHeightKm = 100.0
	sinIncD := EarthRadiusKm * math.Cos(elev) / (EarthRadiusKm + dRegionHeightKm)
	lAbs := float64(mode.HopCount) * perHopAbsorption / math.Sqrt(1-sinIncD*sinIncD)

	lDev := 0.0
	if layerParams.Present && layerParams.Critical > 0 {
		ratio := math.Min(0.999, fMHz/layerParams.Critical)
		closeness := 1 / (1 - ratio*ratio)
		if closeness > 10 {
			closeness = 10
		}
		lDev = float64(mode.HopCount) * layerParams.DevLoss * closeness
	}

	lGround := float64(mode.HopCount-1) * groundBounceLossDb * sec
	if lGround < 0 {
		lGround = 0
	}

	// L_xls, spec.md §4.J: this mode's own vertical frequency projected
	// to its oblique path gives its effective MUF; MufExceedProbability
	// already floors at mufProbabilityFloor so -10*log10(...) never
	// overflows. Scales with hop count and the secant factor like the
	// rest of the additive terms, so a mode pushed further above the
	// circuit MUF (by distance or hop count) is penalized more than one
	// only marginally over, instead of a flat excess-loss step.
	obliqueMuf := mode.Reflection.VerticalFreqMHz * sec
	exceedProb := MufExceedProbability(obliqueMuf, muf.MufMHz, muf.SigLo, muf.SigHi)
	lXls := -10 * math.Log10(exceedProb) * sec * float64(mode.HopCount)

	lAurora := auroralLossDb(points, perHopAbsorption)

	return pathLoss{
		slantKm: totalSlantKm,
		totalDb: lFs + lAbs + lDev + lGround + lXls + lAurora,
	}
}

// nonDeviativeAbsorptionDb is the CCIR/ITU-R P.533 style non-deviative
// absorption formula evaluated at each control point and averaged:
//
//	L = ABSORPTION_COEFF * (1 + 0.0037*ssn) * cos(chi)^0.75 / ((f+foE)^1.98 + F_LAYER_COLLISION_PARAM)
//
// spec.md §6's two named constants (ABSORPTION_COEFF,
// F-LAYER_COLLISION_PARAM) only make sense together in this formula;
// the zenith-angle exponent 0.75 is this engine's own smoothing choice
// where the legacy reference's exact exponent is not given by the
// spec.
func nonDeviativeAbsorptionDb(points []model.ControlPoint, fMHz, ssn float64) float64 {
	if len(points) == 0 {
		return 0
	}
	sum := 0.0
	for _, cp := range points {
		cosChi := math.Max(math.Cos(cp.Solar.ZenithRad), 0.02)
		foE := cp.Profile.E.Critical
		sum += absorptionCoeff * (1 + 0.0037*ssn) * math.Pow(cosChi, 0.75) /
			(math.Pow(fMHz+foE, 1.98) + fLayerCollisionParam)
	}
	return sum / float64(len(points))
}

func auroralLossDb(points []model.ControlPoint, perHopAbsorption float64) float64 {
	worst := 0.0
	for _, cp := range points {
		if math.Abs(cp.Geomag.LatRad) >= auroralLatRad {
			v := perHopAbsorption * 2.0
			if v > worst {
				worst = v
			}
		}
	}
	return worst
}

// BuildSignal fills a mode's Signal/Noise/Reliability/DelayMs fields
// given the control points along its path, the tx/rx antenna gains
// toward its departure/arrival elevation, and the per-frequency noise
// and MUF context, spec.md §4.I-§4.J.
func BuildSignal(mode model.Mode, points []model.ControlPoint, layerParams model.LayerParams, config PredictionConfig, noise model.NoiseComponents, muf model.MufInfo, fMHz, ssn float64) model.Mode {
	loss := computeLoss(mode, points, layerParams, muf, fMHz, ssn)

	txGain := NewAntennaPattern(config.TxAntenna).GainDbi(mode.Reflection.ElevationRad, config.TxAntenna.AzimuthRad, fMHz)
	rxGain := NewAntennaPattern(config.RxAntenna).GainDbi(mode.Reflection.ElevationRad, config.RxAntenna.AzimuthRad, fMHz)

	medianDbw := config.TxPowerDbw + txGain + rxGain - loss.totalDb

	spreadFrac := 0.0
	if muf.MufMHz > 0 {
		spreadFrac = math.Abs(fMHz-muf.MufMHz) / muf.MufMHz
	}
	const dbPerUnitSpread = 10.0
	power10 := math.Max(0.5, muf.SigLo*dbPerUnitSpread/math.Max(muf.MufMHz, 1) + spreadFrac)
	power90 := math.Max(0.5, muf.SigHi*dbPerUnitSpread/math.Max(muf.MufMHz, 1) + spreadFrac)

	snrMedian := medianDbw - noise.Combined.Median
	snr10 := math.Hypot(power10, noise.Combined.Lower)
	snr90 := math.Hypot(power90, noise.Combined.Upper)

	var reliability float64
	if config.RequiredSnrDb <= snrMedian {
		sigma := math.Max(snr90, 0.1)
		z := (snrMedian - config.RequiredSnrDb) / sigma
		reliability = distuv.Normal{Mu: 0, Sigma: 1}.CDF(z)
	} else {
		sigma := math.Max(snr10, 0.1)
		z := (snrMedian - config.RequiredSnrDb) / sigma
		reliability = distuv.Normal{Mu: 0, Sigma: 1}.CDF(z)
	}

	delayMs := loss.slantKm / VelocityOfLightMmPerMs

	mode.Signal = model.SignalInfo{
		PowerDbw:    medianDbw,
		Power10:     power10,
		Power90:     power90,
		SnrDb:       snrMedian,
		Snr10:       snr10,
		Snr90:       snr90,
		Reliability: reliability,
		DelayMs:     delayMs,
	}
	mode.Noise = noise
	mode.Reliability = reliability
	mode.DelayMs = delayMs
	return mode
}

// SelectBestMode ranks modes by reliability, then fewer hops, then
// higher SNR, spec.md §4.F step 3 / §4.J.
func SelectBestMode(modes []model.Mode) *model.Mode {
	if len(modes) == 0 {
		return nil
	}
	best := make([]model.Mode, len(modes))
	copy(best, modes)
	sort.Slice(best, func(i, j int) bool {
		if best[i].Reliability != best[j].Reliability {
			return best[i].Reliability > best[j].Reliability
		}
		if best[i].HopCount != best[j].HopCount {
			return best[i].HopCount < best[j].HopCount
		}
		return best[i].Signal.SnrDb > best[j].Signal.SnrDb
	})
	m := best[0]
	return &m
}

// CombineSignal incoherently sums the median power levels of the modes
// within 100 dB of the strongest, spec.md §4.J, representing the total
// energy a receiver sees when more than one mode is simultaneously
// viable.
func CombineSignal(modes []model.Mode) model.SignalInfo {
	if len(modes) == 0 {
		return model.SignalInfo{}
	}
	const combineWindowDb = 100.0
	strongest := math.Inf(-1)
	for _, m := range modes {
		strongest = math.Max(strongest, m.Signal.PowerDbw)
	}
	levels := make([]float64, 0, len(modes))
	for _, m := range modes {
		if m.Signal.PowerDbw >= strongest-combineWindowDb {
			levels = append(levels, m.Signal.PowerDbw)
		}
	}
	combined := LogSum(levels)
	best := SelectBestMode(modes)
	info := best.Signal
	info.PowerDbw = combined
	return info
}

// multipathProbabilityFloor is the value spec.md §4.J returns when no
// interfering mode is found, and unconditionally for paths beyond
// multipathDistanceCutoffKm (multipath is only modeled on shorter
// circuits).
const multipathProbabilityFloor = 0.001

// multipathDistanceCutoffKm is spec.md §4.J's "for paths <= 7000 km
// only" cutoff.
const multipathDistanceCutoffKm = 7000.0

// MultipathProbability implements spec.md §4.J: among modes whose
// group delay differs from the dominant mode's by more than
// maxTolerableDelayMs, and whose power is within toleranceDb of the
// dominant mode, the maximum reliability is the multipath
// probability; otherwise (or for paths longer than 7000 km) the
// floor is returned.
func MultipathProbability(modes []model.Mode, best model.Mode, pathDistanceKm, maxTolerableDelayMs, toleranceDb float64) float64 {
	if pathDistanceKm > multipathDistanceCutoffKm {
		return multipathProbabilityFloor
	}
	maxRel := 0.0
	found := false
	for _, m := range modes {
		if math.Abs(m.DelayMs-best.DelayMs) <= maxTolerableDelayMs {
			continue
		}
		if math.Abs(best.Signal.PowerDbw-m.Signal.PowerDbw) > toleranceDb {
			continue
		}
		found = true
		if m.Reliability > maxRel {
			maxRel = m.Reliability
		}
	}
	if !found {
		return multipathProbabilityFloor
	}
	return maxRel
}
