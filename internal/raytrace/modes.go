package raytrace

import (
	"math"
	"sort"

	"github.com/sa6mwa/hfprop/internal/model"
)

// MaxHopCount bounds the hop-count search, spec.md §4.F step 2. Beyond
// this, absorption and ground-reflection loss make a mode's
// contribution negligible regardless of geometry; the cap keeps
// enumeration from growing with path distance for very long circuits.
const MaxHopCount = 6

var sweepLayers = [...]model.Layer{model.LayerE, model.LayerF1, model.LayerF2}

// EnumerateModes builds the raw mode list (reflection geometry only,
// no signal/noise/reliability yet) for operating frequency fMHz over
// a path of pathDistanceRad radians, spec.md §4.F steps 2-3.
func EnumerateModes(profile model.IonosphericProfile, fMHz, pathDistanceRad, minElevRad float64) []model.Mode {
	reflectrix := make(map[model.Layer]model.Reflectrix, len(sweepLayers))
	for _, layer := range sweepLayers {
		if r, ok := BuildReflectrix(profile, layer, fMHz, minElevRad); ok {
			reflectrix[layer] = r
		}
	}

	var modes []model.Mode
	for n := 1; n <= MaxHopCount; n++ {
		target := pathDistanceRad / float64(n)
		any := false
		for _, layer := range sweepLayers {
			r, ok := reflectrix[layer]
			if !ok {
				continue
			}
			if target < r.SkipDistanceRad || target > r.MaxDistanceRad {
				continue
			}
			for _, rp := range InterpolateAtHopDistance(r.Points, target) {
				modes = append(modes, model.Mode{
					Layer:          layer,
					HopCount:       n,
					HopDistanceRad: target,
					Reflection:     rp,
				})
				any = true
			}
		}
		// Once the shortest reflectrix skip distance exceeds the
		// remaining per-hop target for every layer, no higher hop count
		// will bracket it either (target only shrinks as n grows), so
		// stop early for paths much shorter than one layer's minimum hop.
		if !any && n > 1 && target < shortestSkipDistance(reflectrix) {
			break
		}
	}

	modes = append(modes, overMufModes(reflectrix, pathDistanceRad)...)
	modes = append(modes, verticalModes(reflectrix)...)

	sort.Slice(modes, func(i, j int) bool {
		if modes[i].HopCount != modes[j].HopCount {
			return modes[i].HopCount < modes[j].HopCount
		}
		return modes[i].Layer < modes[j].Layer
	})
	return modes
}

func shortestSkipDistance(reflectrix map[model.Layer]model.Reflectrix) float64 {
	min := math.Inf(1)
	for _, r := range reflectrix {
		if r.SkipDistanceRad < min {
			min = r.SkipDistanceRad
		}
	}
	return min
}

// overMufModes adds, per layer, a single high-penalty mode using the
// steepest reflection point and the skip distance as hop length,
// whenever a whole number of skip-distance hops lands within 50-150%
// of the path length; it does not check whether the ordinary hop
// sweep already found a mode for that layer. These
// represent operating just above the layer's normal window, reached
// only via heavy L_xls penalty in propagation's reliability pass
// (spec.md §4.F step 3, §4.J).
func overMufModes(reflectrix map[model.Layer]model.Reflectrix, pathDistanceRad float64) []model.Mode {
	var out []model.Mode
	for layer, r := range reflectrix {
		if len(r.Points) == 0 || r.SkipDistanceRad <= 0 {
			continue
		}
		n := int(math.Round(pathDistanceRad / r.SkipDistanceRad))
		if n < 1 {
			n = 1
		}
		covered := n*r.SkipDistanceRad >= pathDistanceRad*0.5 && n*r.SkipDistanceRad <= pathDistanceRad*1.5
		if !covered {
			continue
		}
		steepest := r.Points[len(r.Points)-1]
		out = append(out, model.Mode{
			Layer:          layer,
			HopCount:       n,
			HopDistanceRad: r.SkipDistanceRad,
			Reflection:     steepest,
			OverMUF:        true,
		})
	}
	return out
}

// verticalModes adds a near-vertical single-hop candidate per layer,
// representing NVIS coverage of the immediate vicinity of a
// transmitter regardless of the requested circuit distance.
func verticalModes(reflectrix map[model.Layer]model.Reflectrix) []model.Mode {
	var out []model.Mode
	for layer, r := range reflectrix {
		if len(r.Points) == 0 {
			continue
		}
		top := r.Points[len(r.Points)-1]
		if top.ElevationRad < 80*math.Pi/180 {
			continue
		}
		out = append(out, model.Mode{
			Layer:          layer,
			HopCount:       1,
			HopDistanceRad: top.HopDistanceRad,
			Reflection:     top,
			Vertical:       true,
		})
	}
	return out
}
