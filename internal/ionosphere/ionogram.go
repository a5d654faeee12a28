// Package ionosphere assembles the E/F1/F2 parabolic layer model and
// the virtual-height ionogram from coefficient-store evaluations,
// spec.md §4.E.
package ionosphere

import (
	"math"

	"gonum.org/v1/gonum/integrate/quad"

	"github.com/sa6mwa/hfprop/internal/model"
)

// quadNodes is the 40-node Gauss-Legendre quadrature spec.md §4.E
// calls for.
const quadNodes = 40

// minIonosphereHeightKm is the base of the ionosphere the virtual-
// height integral starts from, spec.md §4.E.
const minIonosphereHeightKm = 90.0

// plasmaFreqMHz returns the plasma (critical) frequency of a single
// parabolic layer at height h, zero outside the layer.
func plasmaFreqMHz(p model.LayerParams, h float64) float64 {
	if !p.Present || p.SemiThick <= 0 {
		return 0
	}
	ratio := (h - p.PeakHeight) / p.SemiThick
	if ratio < -1 || ratio > 1 {
		return 0
	}
	v := 1 - ratio*ratio
	if v < 0 {
		v = 0
	}
	return p.Critical * math.Sqrt(v)
}

// PenetrationAngleRad returns the elevation angle, measured from the
// horizon, above which an operating frequency f just penetrates layer
// fc rather than reflecting (spec.md §4.E penetration_angle). For
// f <= fc the layer reflects at every elevation up to vertical
// incidence, so the penetration angle is pi/2 (no penetration within
// the physical elevation range).
func PenetrationAngleRad(fcMHz, fMHz float64) float64 {
	if fMHz <= fcMHz || fcMHz <= 0 {
		return math.Pi / 2
	}
	ratio := fcMHz / fMHz
	if ratio > 1 {
		ratio = 1
	}
	return math.Asin(ratio)
}

// layerGroupDelayKm integrates the Appleton-Hartree (unmagnetized,
// collisionless) group refractive index 1/sqrt(1-(fN/f)^2) through a
// single parabolic layer from its base to the reflection height for
// frequency f, via 40-node Gauss-Legendre quadrature after the
// substitution h = h_r - t^2, which removes the 1/sqrt endpoint
// singularity at the reflection point (spec.md §4.E).
func layerGroupDelayKm(p model.LayerParams, fMHz float64) float64 {
	if !p.Present || fMHz >= p.Critical || fMHz <= 0 {
		return 0
	}
	base := p.PeakHeight - p.SemiThick
	ratio := fMHz / p.Critical
	hr := p.PeakHeight - p.SemiThick*math.Sqrt(math.Max(0, 1-ratio*ratio))
	tMax := math.Sqrt(math.Max(0, hr-base))
	if tMax <= 0 {
		return 0
	}

	f := func(t float64) float64 {
		h := hr - t*t
		fn := plasmaFreqMHz(p, h)
		denom := fMHz*fMHz - fn*fn
		if denom < 1e-9 {
			denom = 1e-9
		}
		mu := fMHz / math.Sqrt(denom)
		return 2 * t * mu
	}
	return quad.Fixed(f, 0, tMax, quadNodes, quad.Legendre{}, 0)
}

// penetratedLayerThicknessKm approximates the extra group path length
// contributed by a layer the ray fully penetrates without reflecting
// (i.e. operating frequency above that layer's critical frequency).
// The exact Appleton-Hartree integral through a non-reflecting layer
// has no singularity and is modest relative to the reflection-region
// term; this engine approximates it as the layer's full geometric
// thickness, a simplification in place of a second quadrature pass.
func penetratedLayerThicknessKm(p model.LayerParams) float64 {
	if !p.Present {
		return 0
	}
	return 2 * p.SemiThick
}

// VirtualHeightKm computes the virtual height for vertical-incidence
// frequency f reflecting from layer target, accounting for vacuum
// propagation from 90 km to the lowest layer's base and full
// penetration of any lower layers the ray passes through undisturbed.
func VirtualHeightKm(profile model.IonosphericProfile, target model.Layer, fMHz float64) float64 {
	layers := []struct {
		tag    model.Layer
		params model.LayerParams
	}{
		{model.LayerE, profile.E},
		{model.LayerF1, profile.F1},
		{model.LayerF2, profile.F2},
	}

	height := minIonosphereHeightKm
	var targetParams model.LayerParams
	for _, l := range layers {
		if !l.params.Present {
			continue
		}
		base := l.params.PeakHeight - l.params.SemiThick
		if base > height {
			height += base - height
		}
		if l.tag == target {
			targetParams = l.params
			break
		}
		height += penetratedLayerThicknessKm(l.params)
	}
	height += layerGroupDelayKm(targetParams, fMHz)
	return height
}

// BuildIonogram samples each present layer's vertical-incidence
// virtual height across its usable frequency range, spec.md §4.E
// ionogram(f_vert). The per-layer frequency grids are vectorized in
// one pass per layer as spec.md's performance note requests.
func BuildIonogram(profile model.IonosphericProfile) model.Ionogram {
	const samplesPerLayer = 24
	var ion model.Ionogram

	sample := func(tag model.Layer, params model.LayerParams) {
		if !params.Present || params.Critical <= 0 {
			return
		}
		for i := 1; i <= samplesPerLayer; i++ {
			frac := float64(i) / float64(samplesPerLayer+1)
			f := params.Critical * frac
			vh := VirtualHeightKm(profile, tag, f)
			ion.VerticalFreqMHz = append(ion.VerticalFreqMHz, f)
			ion.VirtualHeightKm = append(ion.VirtualHeightKm, vh)
			ion.LayerTag = append(ion.LayerTag, tag)
		}
	}
	sample(model.LayerE, profile.E)
	sample(model.LayerF1, profile.F1)
	sample(model.LayerF2, profile.F2)

	highest := profile.E.PeakHeight + profile.E.SemiThick
	if profile.F1.Present {
		highest = math.Max(highest, profile.F1.PeakHeight+profile.F1.SemiThick)
	}
	if profile.F2.Present {
		highest = math.Max(highest, profile.F2.PeakHeight+profile.F2.SemiThick)
	}
	const trueHeightSamples = 40
	step := (highest - minIonosphereHeightKm) / float64(trueHeightSamples-1)
	for i := 0; i < trueHeightSamples; i++ {
		h := minIonosphereHeightKm + float64(i)*step
		fn := math.Max(plasmaFreqMHz(profile.E, h), math.Max(plasmaFreqMHz(profile.F1, h), plasmaFreqMHz(profile.F2, h)))
		ion.TrueHeightKm = append(ion.TrueHeightKm, h)
		ion.PlasmaFreqMHz = append(ion.PlasmaFreqMHz, fn)
	}
	return ion
}

// InterpolateVirtualHeight looks up (or linearly interpolates) the
// virtual height of the stored ionogram samples for layer tag at
// vertical frequency f.
func InterpolateVirtualHeight(ion model.Ionogram, tag model.Layer, fMHz float64) (float64, bool) {
	var xs, ys []float64
	for i, t := range ion.LayerTag {
		if t == tag {
			xs = append(xs, ion.VerticalFreqMHz[i])
			ys = append(ys, ion.VirtualHeightKm[i])
		}
	}
	if len(xs) == 0 {
		return 0, false
	}
	if fMHz <= xs[0] {
		return ys[0], true
	}
	if fMHz >= xs[len(xs)-1] {
		return ys[len(ys)-1], true
	}
	for i := 0; i < len(xs)-1; i++ {
		if fMHz >= xs[i] && fMHz <= xs[i+1] {
			frac := (fMHz - xs[i]) / (xs[i+1] - xs[i])
			return ys[i] + frac*(ys[i+1]-ys[i]), true
		}
	}
	return ys[len(ys)-1], true
}
