package propagation

import "github.com/sa6mwa/hfprop/internal/model"

// NormDecile is the normal-decile constant used throughout the
// legacy reference, spec.md §6.
const NormDecile = model.NormDecile

// NewTriple builds a TripleValue from a median and sigma, see
// internal/model for the sigma-normalizer convention (SPEC_FULL.md
// Open Question 3).
func NewTriple(median, sigma float64) TripleValue { return model.NewTriple(median, sigma) }

// PowerSum combines dB-level triples by summing their linear power,
// spec.md §4.H.
func PowerSum(triples ...TripleValue) TripleValue { return model.PowerSum(triples...) }

// LogSum incoherently sums mode signal levels, spec.md §4.J.
func LogSum(levelsDb []float64) float64 { return model.LogSum(levelsDb) }
