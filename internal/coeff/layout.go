// Package coeff implements the coefficient store described in
// spec.md §4.A: loading the twelve monthly binary blobs of CCIR/URSI
// Fourier-series coefficients plus the fixed auxiliary maps, and
// evaluating them at a control point.
package coeff

// Binary layout, spec.md §4.A: each monthly blob is a fixed
// big-endian sequence of 32-bit IEEE floats shaped
//
//	coeff: float[13*76*2*2]
//	f2:    float[2, 13, 76, 2]
//
// followed by a fixed-coefficient block of three auxiliary noise maps
// (Fam, Fdu, Fdl), each a 9x13 (degree 8, order 12) spherical-harmonic
// style coefficient grid — the "fixed Legendre/Fourier expansion"
// spec.md §4.A calls fixed_map. The fixed block's shape is not
// specified by spec.md; 9x13 is chosen to match the harmonic-degree
// convention the CCIR coefficient block itself uses (13 harmonics),
// and is documented here rather than re-derived at each call site.
const (
	HarmonicCount  = 13
	CoeffRowLen    = 76
	SolarLevels    = 2 // low (R12=10) and high (R12=100) reference maps
	Quantities     = 2 // foF2, M(3000)F2

	CoeffBlockLen = HarmonicCount * CoeffRowLen * SolarLevels * Quantities // 3952
	F2BlockLen    = Quantities * HarmonicCount * CoeffRowLen * SolarLevels // 3952, same count, CCIR/URSI reordering

	FixedMapHarmonicRows = 9
	FixedMapHarmonicCols = 13
	FixedMapLen          = FixedMapHarmonicRows * FixedMapHarmonicCols // 117
	FixedMapCount        = 3                                          // Fam, Fdu, Fdl

	FixedBlockLen = FixedMapCount * FixedMapLen // 351

	// BlobFloatCount is the total number of float32 values a valid
	// monthly blob must contain.
	BlobFloatCount = CoeffBlockLen + F2BlockLen + FixedBlockLen
	// BlobByteCount is BlobFloatCount encoded as 4-byte big-endian
	// IEEE 754 floats.
	BlobByteCount = BlobFloatCount * 4

	// SSN reference levels the two SolarLevels slots correspond to.
	SsnLevelLow  = 10.0
	SsnLevelHigh = 100.0

	// SsnClampMin/SsnClampMax are the out-of-range clamp bounds,
	// spec.md §4.A.
	SsnClampMin = 0.0
	SsnClampMax = 300.0
)

// FixedMapKind identifies one of the fixed auxiliary maps.
type FixedMapKind int

const (
	FixedFam FixedMapKind = iota // atmospheric noise, median
	FixedFdu                     // atmospheric noise, upper-decile scaling coefficient
	FixedFdl                     // atmospheric noise, lower-decile scaling coefficient
)

// VarMapKind identifies one of the variable (hour x SSN) coefficient
// maps.
type VarMapKind int

const (
	VarFoF2 VarMapKind = iota
	VarM3000
)
