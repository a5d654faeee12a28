package propagation

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/sa6mwa/hfprop/internal/model"
)

// mufProbabilityFloor is the minimum non-zero probability this engine
// reports for P(f; MUF, ...), spec.md §4.G, avoiding a hard zero that
// would make downstream log/ratio math blow up.
const mufProbabilityFloor = 1e-6

// secantMUF converts a layer's critical frequency to the oblique
// frequency it supports at elevation angle elevRad via the secant
// law, the same f_vert = f*sin(elevation) relation the reflectrix
// sweep in internal/raytrace inverts per sample.
func secantMUF(criticalMHz, elevRad float64) float64 {
	s := math.Sin(elevRad)
	if s <= 1e-6 {
		return math.Inf(1)
	}
	return criticalMHz / s
}

// layerMUF returns the classical MUF for one control point's layer,
// spec.md §4.G: Critical * M(3000)F2 when m3000 is available (F2
// only), which does not depend on elevRad; otherwise the basic
// secant-law MUF at elevRad.
func layerMUF(params model.LayerParams, elevRad float64) float64 {
	if !params.Present {
		return 0
	}
	basic := secantMUF(params.Critical, elevRad)
	if params.M3000 > 0 {
		return params.Critical * params.M3000
	}
	return basic
}

// CircuitMUF computes the per-layer MUF at every control point for the
// given elevation angle and returns the minimum across points (the
// weakest link sets the circuit MUF), spec.md §4.G.
func CircuitMUF(points []model.ControlPoint, layer model.Layer, elevRad float64) float64 {
	muf := math.Inf(1)
	for _, cp := range points {
		params := layerParamsOf(cp.Profile, layer)
		if !params.Present {
			return 0
		}
		m := layerMUF(params, elevRad)
		if m < muf {
			muf = m
		}
	}
	if math.IsInf(muf, 1) {
		return 0
	}
	return muf
}

func layerParamsOf(profile model.IonosphericProfile, layer model.Layer) model.LayerParams {
	switch layer {
	case model.LayerE:
		return profile.E
	case model.LayerF1:
		return profile.F1
	case model.LayerF2:
		return profile.F2
	default:
		return model.LayerParams{}
	}
}

// BuildMufInfo derives FOT/HPF from a circuit MUF and its decile
// spread: FOT is refined downward from 0.85*MUF using the lower
// decile deviation so it still clears the MUF's soft floor, HPF
// refined upward using the upper deviation, spec.md §4.G.
func BuildMufInfo(mufMHz, sigLo, sigHi float64) model.MufInfo {
	fot := 0.85 * mufMHz
	if sigLo > 0 {
		fot = math.Min(fot, mufMHz-sigLo*0.5)
	}
	hpf := mufMHz
	if sigHi > 0 {
		hpf = mufMHz + sigHi*0.5
	}
	return model.MufInfo{
		MufMHz: mufMHz,
		FotMHz: fot,
		HpfMHz: hpf,
		SigLo:  sigLo,
		SigHi:  sigHi,
	}
}

// MufExceedProbability returns P(f; MUF, sigLo, sigHi): the
// probability that the operating frequency f is at or below the MUF
// on a given day, given the MUF's asymmetric decile spread modeled as
// a split normal distribution, floored at mufProbabilityFloor
// (spec.md §4.G).
func MufExceedProbability(fMHz, mufMHz, sigLo, sigHi float64) float64 {
	if mufMHz <= 0 {
		return mufProbabilityFloor
	}
	var sigma float64
	if fMHz <= mufMHz {
		sigma = sigLo
	} else {
		sigma = sigHi
	}
	if sigma <= 0 {
		if fMHz <= mufMHz {
			return 1
		}
		return mufProbabilityFloor
	}
	z := (mufMHz - fMHz) / sigma
	p := distuv.Normal{Mu: 0, Sigma: 1}.CDF(z)
	if p < mufProbabilityFloor {
		return mufProbabilityFloor
	}
	return p
}
