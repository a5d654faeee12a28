package coeff

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/sa6mwa/hfprop/internal/model"
)

// CoeffData is one decoded monthly blob, spec.md §4.A.
type CoeffData struct {
	Coeff []float32 // CoeffBlockLen, [harmonic][row][solarLevel][quantity]
	F2    []float32 // F2BlockLen, [quantity][harmonic][row][solarLevel]
	Fixed [FixedMapCount][]float32 // each FixedMapLen, [row][col]
}

// Store is the process-wide, read-only-after-init coefficient store,
// spec.md §4.A / §9 "global coefficient store". It is safe to share
// by reference across propagation.Engine instances once constructed.
type Store struct {
	months [12]*CoeffData
	log    *zap.Logger
}

// NewStore loads all twelve monthly blobs from dir (named "01.bin"
// through "12.bin") and returns a ready-to-use Store, or a DataMissing
// error (spec.md §7) if any file is absent, unreadable, or the wrong
// size. Loading and validation happen once, at construction; the
// returned Store is treated as immutable thereafter.
func NewStore(dir string, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Store{log: log}
	for m := 1; m <= 12; m++ {
		path := filepath.Join(dir, fmt.Sprintf("%02d.bin", m))
		data, err := loadMonth(path)
		if err != nil {
			return nil, err
		}
		s.months[m-1] = data
		log.Debug("loaded coefficient month", zap.Int("month", m), zap.String("path", path))
	}
	s.checkFixedMapParity()
	return s, nil
}

// loadMonth reads and decodes one monthly blob, validating its size
// against the fixed layout of spec.md §4.A.
func loadMonth(path string) (data *CoeffData, err error) {
	f, openErr := os.Open(path)
	if openErr != nil {
		return nil, &dataErr{month: monthFromPath(path), path: path, cause: openErr}
	}
	defer f.Close()

	info, statErr := f.Stat()
	if statErr != nil {
		return nil, &dataErr{month: monthFromPath(path), path: path, cause: statErr}
	}
	if info.Size() != BlobByteCount {
		return nil, &dataErr{month: monthFromPath(path), path: path,
			cause: fmt.Errorf("expected %d bytes, got %d", BlobByteCount, info.Size())}
	}

	floats := make([]float32, BlobFloatCount)
	if readErr := binary.Read(f, binary.BigEndian, floats); readErr != nil {
		return nil, &dataErr{month: monthFromPath(path), path: path, cause: readErr}
	}

	data = &CoeffData{}
	off := 0
	data.Coeff = floats[off : off+CoeffBlockLen]
	off += CoeffBlockLen
	data.F2 = floats[off : off+F2BlockLen]
	off += F2BlockLen
	for i := 0; i < FixedMapCount; i++ {
		data.Fixed[i] = floats[off : off+FixedMapLen]
		off += FixedMapLen
	}
	return data, nil
}

// monthFromPath is a best-effort month label for error messages; it
// does not affect loading logic.
func monthFromPath(path string) int {
	base := filepath.Base(path)
	if len(base) < 2 {
		return 0
	}
	m := 0
	for _, c := range base[:2] {
		if c < '0' || c > '9' {
			return 0
		}
		m = m*10 + int(c-'0')
	}
	return m
}

type dataErr struct {
	month int
	path  string
	cause error
}

func (e *dataErr) Error() string {
	return fmt.Sprintf("coeff: month %d (%s): %v", e.month, e.path, e.cause)
}
func (e *dataErr) Unwrap() []error { return []error{model.ErrDataMissing, e.cause} }

// checkFixedMapParity logs (does not fail) when a month's fixed maps
// diverge from month 1's, since spec.md §4.A describes the fixed maps
// as genuinely fixed (not month-dependent) even though each blob
// carries its own copy.
func (s *Store) checkFixedMapParity() {
	ref := s.months[0]
	for m := 1; m < 12; m++ {
		for k := 0; k < FixedMapCount; k++ {
			if !float32SliceApproxEqual(ref.Fixed[k], s.months[m].Fixed[k]) {
				s.log.Warn("fixed map differs across months", zap.Int("month", m+1), zap.Int("map", k))
				return
			}
		}
	}
}

func float32SliceApproxEqual(a, b []float32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Abs(float64(a[i]-b[i])) > 1e-3 {
			return false
		}
	}
	return true
}

// clampSsn applies spec.md §4.A's SSN clamp, logging a warning when it
// fires.
func (s *Store) clampSsn(ssn float64) float64 {
	if ssn < SsnClampMin {
		s.log.Warn("ssn below range, clamping", zap.Float64("ssn", ssn), zap.Float64("clamped", SsnClampMin))
		return SsnClampMin
	}
	if ssn > SsnClampMax {
		s.log.Warn("ssn above range, clamping", zap.Float64("ssn", ssn), zap.Float64("clamped", SsnClampMax))
		return SsnClampMax
	}
	return ssn
}

// wrapTimeFrac wraps an out-of-[0,1) time fraction modulo one day,
// spec.md §4.A.
func wrapTimeFrac(t float64) float64 {
	t = math.Mod(t, 1.0)
	if t < 0 {
		t += 1.0
	}
	return t
}

// extractVarBlock gathers the [HarmonicCount][CoeffRowLen] sub-block
// of the Coeff array for one (solarLevel, quantity) pair. The Coeff
// array is laid out [harmonic][row][solarLevel][quantity] per
// spec.md §4.A's literal "float[13*76*2*2]" shape.
func extractVarBlock(coeffArr []float32, solarLevel, quantity int) []float32 {
	out := make([]float32, HarmonicCount*CoeffRowLen)
	idx := 0
	for h := 0; h < HarmonicCount; h++ {
		for r := 0; r < CoeffRowLen; r++ {
			flat := h*CoeffRowLen*SolarLevels*Quantities + r*SolarLevels*Quantities + solarLevel*Quantities + quantity
			out[idx] = coeffArr[flat]
			idx++
		}
	}
	return out
}

// extractF2Block gathers the [HarmonicCount][CoeffRowLen] sub-block
// of the F2 array for one (solarLevel, quantity) pair, laid out
// [quantity][harmonic][row][solarLevel] per spec.md §4.A's literal
// "float[2,13,76,2]" shape. Nothing in the module calls it: VarMap
// evaluates the CCIR Coeff block only, and the CLI's `coeffs verify`
// compares against live GIRO/DIDB data, not against the F2 block.
func extractF2Block(f2Arr []float32, solarLevel, quantity int) []float32 {
	out := make([]float32, HarmonicCount*CoeffRowLen)
	idx := 0
	for h := 0; h < HarmonicCount; h++ {
		for r := 0; r < CoeffRowLen; r++ {
			flat := quantity*HarmonicCount*CoeffRowLen*SolarLevels + h*CoeffRowLen*SolarLevels + r*SolarLevels + solarLevel
			out[idx] = f2Arr[flat]
			idx++
		}
	}
	return out
}

// VarMap evaluates a variable (hour x SSN-reference) coefficient map
// at the given point, returning the interpolated median value and a
// sigma (fractional day-to-day spread) derived from the low/high
// solar-reference divergence, spec.md §4.D. internal/ionosphere's
// BuildProfile wraps (median, sigma) into a TripleValue.
func (s *Store) VarMap(kind VarMapKind, latRad, lonRad, localTimeHour, ssn float64, month int) (median, sigma float64, err error) {
	if month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("coeff: month %d out of range", month)
	}
	data := s.months[month-1]
	ssn = s.clampSsn(ssn)

	basis := timeLatBasis(localTimeHour, latRad)
	lonW := lonHarmonicWeights(lonRad)

	q := int(kind)
	lowBlock := extractVarBlock(data.Coeff, 0, q)
	highBlock := extractVarBlock(data.Coeff, 1, q)
	low := evalHarmonicBlock(lowBlock, basis, lonW)
	high := evalHarmonicBlock(highBlock, basis, lonW)

	frac := (ssn - SsnLevelLow) / (SsnLevelHigh - SsnLevelLow)
	median = low + frac*(high-low)
	sigma = sigmaFromLevels(low, high)
	return median, sigma, nil
}

// FixedMap evaluates one of the fixed auxiliary maps (atmospheric
// noise coefficients) at a point and diurnal time fraction, spec.md
// §4.A. Fixed maps are, by spec, not month- or SSN-dependent; month 1
// is used as the canonical copy (see checkFixedMapParity).
func (s *Store) FixedMap(kind FixedMapKind, latRad, lonRad, tFrac float64) float64 {
	tFrac = wrapTimeFrac(tFrac)
	grid := s.months[0].Fixed[int(kind)]
	basis := fixedLatBasis(latRad)
	weights := fixedHarmonicWeights(lonRad, tFrac)
	return evalFixedBlock(grid, basis, weights)
}
