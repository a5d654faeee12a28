// Package raytrace implements the per-frequency reflectrix
// construction and mode enumeration of spec.md §4.F, adapting the
// oblique-hop geometry the teacher (sa6mwa/hfprop) used for its
// single-hop TOA/Distance helpers into a full elevation-sweep table.
package raytrace

import (
	"math"
	"sort"

	"github.com/sa6mwa/hfprop/internal/ionosphere"
	"github.com/sa6mwa/hfprop/internal/model"
)

const earthRadiusKm = 6370.0

// ElevationRad returns the takeoff elevation angle (radians, above
// the horizon) for a single hop of great-circle distance
// hopDistanceRad reflecting at virtualHeightKm. This is the teacher's
// TOA() formula (sa6mwa-hfprop/hfprop.go), generalized from a
// kilometer distance plus a locally recomputed earth-central-angle to
// operating directly on the central angle the rest of this engine
// already carries in radians.
func ElevationRad(hopDistanceRad, virtualHeightKm float64) float64 {
	half := hopDistanceRad / 2
	horizontal := earthRadiusKm * math.Sin(half)
	if horizontal <= 0 {
		return math.Pi / 2
	}
	tangentValue := (math.Pi - half) / 2
	vertical := horizontal / math.Tan(tangentValue)
	return math.Atan((vertical+virtualHeightKm)/horizontal) - half
}

// HopDistanceRad inverts ElevationRad by bisection (the teacher's own
// Distance() searched this by linear increment; bisection keeps the
// same geometric model while avoiding an O(maxDistance) scan).
func HopDistanceRad(targetElevationRad, virtualHeightKm float64) float64 {
	lo, hi := 1e-6, math.Pi/2
	for i := 0; i < 60; i++ {
		mid := (lo + hi) / 2
		if ElevationRad(mid, virtualHeightKm) > targetElevationRad {
			lo = mid
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2
}

// BuildReflectrix sweeps elevation from minElevRad up to the layer's
// penetration angle for frequency fMHz, populating one ReflectionPoint
// per sample, spec.md §4.F step 1.
func BuildReflectrix(profile model.IonosphericProfile, layer model.Layer, fMHz, minElevRad float64) (model.Reflectrix, bool) {
	params := layerParams(profile, layer)
	if !params.Present {
		return model.Reflectrix{}, false
	}
	upperElevRad := ionosphere.PenetrationAngleRad(params.Critical, fMHz)
	if upperElevRad <= minElevRad {
		return model.Reflectrix{}, false
	}

	const samples = 30
	r := model.Reflectrix{FrequencyMHz: fMHz}
	for i := 0; i < samples; i++ {
		frac := float64(i) / float64(samples-1)
		elev := minElevRad + frac*(upperElevRad-minElevRad)
		fVert := fMHz * math.Sin(elev)
		if fVert > params.Critical {
			fVert = params.Critical
		}
		vh, ok := ionosphere.InterpolateVirtualHeight(profile.Ionogram, layer, fVert)
		if !ok {
			continue
		}
		hop := HopDistanceRad(elev, vh)
		r.Points = append(r.Points, model.ReflectionPoint{
			ElevationRad:    elev,
			TrueHeightKm:    params.PeakHeight - params.SemiThick,
			VirtualHeightKm: vh,
			VerticalFreqMHz: fVert,
			Layer:           layer,
			HopDistanceRad:  hop,
		})
	}
	if len(r.Points) == 0 {
		return model.Reflectrix{}, false
	}
	sort.Slice(r.Points, func(i, j int) bool { return r.Points[i].ElevationRad < r.Points[j].ElevationRad })

	r.MaxDistanceRad = r.Points[0].HopDistanceRad
	r.SkipDistanceRad = r.Points[len(r.Points)-1].HopDistanceRad
	for _, p := range r.Points {
		if p.HopDistanceRad > r.MaxDistanceRad {
			r.MaxDistanceRad = p.HopDistanceRad
		}
		if p.HopDistanceRad < r.SkipDistanceRad {
			r.SkipDistanceRad = p.HopDistanceRad
		}
	}
	return r, true
}

func layerParams(profile model.IonosphericProfile, layer model.Layer) model.LayerParams {
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

// InterpolateAtHopDistance scans the (elevation-ordered) reflectrix
// for every adjacent bracket whose hop distance spans targetRad,
// interpolating a reflection point for each. In the usual monotonic
// case this yields at most one match; near the high-elevation end of
// a reflectrix the virtual-height cusp close to the critical
// frequency can make hop distance locally non-monotonic, naturally
// producing the "ascending and descending branch" two-mode case
// spec.md §4.F step 3 describes, without special-casing it.
func InterpolateAtHopDistance(points []model.ReflectionPoint, targetRad float64) []model.ReflectionPoint {
	var out []model.ReflectionPoint
	for i := 0; i < len(points)-1; i++ {
		a, b := points[i], points[i+1]
		lo, hi := a.HopDistanceRad, b.HopDistanceRad
		if lo > hi {
			lo, hi = hi, lo
		}
		if targetRad < lo || targetRad > hi || hi == lo {
			continue
		}
		frac := (targetRad - a.HopDistanceRad) / (b.HopDistanceRad - a.HopDistanceRad)
		out = append(out, model.ReflectionPoint{
			ElevationRad:    a.ElevationRad + frac*(b.ElevationRad-a.ElevationRad),
			TrueHeightKm:    a.TrueHeightKm,
			VirtualHeightKm: a.VirtualHeightKm + frac*(b.VirtualHeightKm-a.VirtualHeightKm),
			VerticalFreqMHz: a.VerticalFreqMHz + frac*(b.VerticalFreqMHz-a.VerticalFreqMHz),
			Layer:           a.Layer,
			HopDistanceRad:  targetRad,
		})
	}
	return out
}
