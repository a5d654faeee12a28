package coeff

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// timeHarmonics and latHarmonics factor CoeffRowLen (76) into a
// diurnal Fourier basis crossed with a latitudinal Legendre-style
// basis: 4 * 19 = 76.
const (
	timeHarmonics = 4
	latHarmonics  = 19
)

// timeLatBasis builds the flattened (time x latitude) basis vector
// used as one operand of the coefficient dot product, spec.md §4.D
// ("a Legendre/Fourier series in (latitude, longitude or local
// time)"). The diurnal component uses the fundamental and its first
// harmonic; the latitudinal component uses successive powers of
// sin(lat), a Legendre-like progression good enough for the engine's
// control-point resolution without requiring a full associated-
// Legendre implementation.
func timeLatBasis(localTimeHour, latRad float64) []float64 {
	w := 2 * math.Pi * localTimeHour / 24
	timeBasis := [timeHarmonics]float64{1, math.Cos(w), math.Sin(w), math.Cos(2 * w)}

	sinLat := math.Sin(latRad)
	latBasis := make([]float64, latHarmonics)
	p := 1.0
	for i := range latBasis {
		latBasis[i] = p
		p *= sinLat
	}

	out := make([]float64, CoeffRowLen)
	idx := 0
	for _, tb := range timeBasis {
		for _, lb := range latBasis {
			out[idx] = tb * lb
			idx++
		}
	}
	return out
}

// lonHarmonicWeights builds the per-harmonic longitude weighting used
// to combine the HarmonicCount stored rows into a single value. Real
// CCIR/URSI maps fold geographic longitude into the same spherical-
// harmonic expansion; this engine keeps longitude as a separate,
// decaying harmonic series over the stored rows, documented here
// rather than claiming bit-for-bit parity with the original atlas
// (no real coefficient files are distributed with this module — see
// SPEC_FULL.md).
func lonHarmonicWeights(lonRad float64) []float64 {
	w := make([]float64, HarmonicCount)
	for h := 0; h < HarmonicCount; h++ {
		w[h] = math.Cos(float64(h)*lonRad) / float64(h+1)
	}
	return w
}

// evalHarmonicBlock dot-products a [HarmonicCount][CoeffRowLen]
// coefficient block against the basis/weight vectors, vectorizing the
// per-harmonic inner product via gonum/floats as spec.md §4.D's
// performance note asks.
func evalHarmonicBlock(block []float32, basis, lonWeights []float64) float64 {
	rowF64 := make([]float64, CoeffRowLen)
	dots := make([]float64, HarmonicCount)
	for h := 0; h < HarmonicCount; h++ {
		row := block[h*CoeffRowLen : (h+1)*CoeffRowLen]
		for i, v := range row {
			rowF64[i] = float64(v)
		}
		dots[h] = floats.Dot(rowF64, basis)
	}
	return floats.Dot(dots, lonWeights)
}

// fixedLatBasis builds the latitude basis for the fixed maps: simple
// successive powers of sin(lat), FixedMapHarmonicCols (13) terms
// against the variable maps' latHarmonics (19).
func fixedLatBasis(latRad float64) []float64 {
	sinLat := math.Sin(latRad)
	out := make([]float64, FixedMapHarmonicCols)
	p := 1.0
	for i := range out {
		out[i] = p
		p *= sinLat
	}
	return out
}

// fixedHarmonicWeights builds the per-row weighting for the fixed
// maps from longitude and diurnal time fraction jointly, spec.md
// §4.A's fixed_map(kind, lat, lon, t_frac).
func fixedHarmonicWeights(lonRad, tFrac float64) []float64 {
	w := make([]float64, FixedMapHarmonicRows)
	for h := 0; h < FixedMapHarmonicRows; h++ {
		w[h] = math.Cos(float64(h)*lonRad+2*math.Pi*tFrac) / float64(h+1)
	}
	return w
}

// evalFixedBlock dot-products a [FixedMapHarmonicRows][FixedMapHarmonicCols]
// grid against the basis/weight vectors.
func evalFixedBlock(grid []float32, basis, weights []float64) float64 {
	rowF64 := make([]float64, FixedMapHarmonicCols)
	dots := make([]float64, FixedMapHarmonicRows)
	for h := 0; h < FixedMapHarmonicRows; h++ {
		row := grid[h*FixedMapHarmonicCols : (h+1)*FixedMapHarmonicCols]
		for i, v := range row {
			rowF64[i] = float64(v)
		}
		dots[h] = floats.Dot(rowF64, basis)
	}
	return floats.Dot(dots, weights)
}

// sigmaFromLevels derives the fractional day-to-day spread ("sigma")
// from the low/high solar-activity evaluations of the same map, the
// engine's stand-in for the reference's "secondary coefficients"
// (spec.md §4.D). The low/high evaluations already encode the map's
// sensitivity to solar conditions; their relative spread is used
// directly as a sigma, floored and capped to keep NewTriple's
// exponential well-behaved.
func sigmaFromLevels(low, high float64) float64 {
	denom := math.Abs(low) + math.Abs(high)
	if denom < 1e-9 {
		return 0.05
	}
	sigma := math.Abs(high-low) / denom
	return math.Min(0.35, math.Max(0.02, sigma))
}
