package model

import "math"

// NormDecile is the normal-decile constant used throughout the legacy
// reference: the z-score at the 10th/90th percentile of a standard
// normal distribution, rounded to the value the reference uses.
const NormDecile = 1.28

// NewTriple builds a TripleValue from a median and a symmetric
// fractional spread "sigma", following the sigma-normalizer
// convention resolved in SPEC_FULL.md / DESIGN.md: F = exp(NormDecile
// * sigma), lower = (1 - 1/F) * median, upper = (F - 1) * median.
func NewTriple(median, sigma float64) TripleValue {
	f := math.Exp(NormDecile * sigma)
	return TripleValue{
		Median: median,
		Lower:  median * (1 - 1/f),
		Upper:  median * (f - 1),
	}
}

// Scale multiplies all three components by a positive factor.
func (t TripleValue) Scale(factor float64) TripleValue {
	return TripleValue{
		Median: t.Median * factor,
		Lower:  t.Lower * factor,
		Upper:  t.Upper * factor,
	}
}

// AddLog adds a scalar dB offset to a triple carried in log (dB)
// space: the median moves by deltaDb and the lower/upper deviations,
// being relative to the median, are kept as they are.
func (t TripleValue) AddLog(deltaDb float64) TripleValue {
	return TripleValue{
		Median: t.Median + deltaDb,
		Lower:  t.Lower,
		Upper:  t.Upper,
	}
}

// PowerSum combines triples carried as dB *levels* by summing their
// medians in linear power and propagating deviations the same way
// (used for noise combination, §4.H: atmospheric + galactic +
// man-made, each a dBW level).
func PowerSum(triples ...TripleValue) TripleValue {
	if len(triples) == 0 {
		return TripleValue{}
	}
	sumLinear := func(get func(TripleValue) float64) float64 {
		var sum float64
		for _, t := range triples {
			sum += math.Pow(10, get(t)/10)
		}
		return sum
	}
	medianLin := sumLinear(func(t TripleValue) float64 { return t.Median })
	lowerLin := sumLinear(func(t TripleValue) float64 { return t.Median - t.Lower })
	upperLin := sumLinear(func(t TripleValue) float64 { return t.Median + t.Upper })

	median := 10 * math.Log10(medianLin)
	lowerLevel := 10 * math.Log10(lowerLin)
	upperLevel := 10 * math.Log10(upperLin)

	return TripleValue{
		Median: median,
		Lower:  math.Max(0, median-lowerLevel),
		Upper:  math.Max(0, upperLevel-median),
	}
}

// LogSum incoherently sums mode signal levels (dB levels, not
// deviations) per §4.J: combined = max(P_i) + 10*log10(sum(10^((P_i -
// max)/10))), restricted by the caller to modes within 100 dB of the
// strongest.
func LogSum(levelsDb []float64) float64 {
	if len(levelsDb) == 0 {
		return math.Inf(-1)
	}
	max := levelsDb[0]
	for _, l := range levelsDb[1:] {
		if l > max {
			max = l
		}
	}
	var sum float64
	for _, l := range levelsDb {
		sum += math.Pow(10, (l-max)/10)
	}
	return max + 10*math.Log10(sum)
}
