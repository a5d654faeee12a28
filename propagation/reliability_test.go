package propagation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sa6mwa/hfprop/internal/model"
)

func sampleControlPoints(t *testing.T) []model.ControlPoint {
	t.Helper()
	mk := func(latDeg, lonDeg, zenithDeg float64) model.ControlPoint {
		p, err := NewGeoPointDeg(latDeg, lonDeg)
		assert.NoError(t, err)
		return model.ControlPoint{
			Point: p,
			Solar: model.SolarContext{ZenithRad: zenithDeg * math.Pi / 180},
			Geomag: model.GeomagContext{
				LatRad: latDeg * math.Pi / 180,
			},
			Profile: model.IonosphericProfile{
				E:  model.LayerParams{Present: true, Critical: 3.5, PeakHeight: 110, SemiThick: 20, DevLoss: 1.0},
				F2: model.LayerParams{Present: true, Critical: 10.0, PeakHeight: 300, SemiThick: 80, DevLoss: 1.0},
			},
		}
	}
	return []model.ControlPoint{
		mk(40, -75, 30),
		mk(45, -50, 30),
		mk(51, -0.1, 30),
	}
}

func sampleMode() model.Mode {
	return model.Mode{
		Layer:    model.LayerF2,
		HopCount: 1,
		Reflection: model.ReflectionPoint{
			ElevationRad:    20 * math.Pi / 180,
			VirtualHeightKm: 300,
		},
		HopDistanceRad: 1000.0 / EarthRadiusKm,
	}
}

func TestSecantFactorFloorsNearHorizon(t *testing.T) {
	f := secantFactor(0.0001)
	assert.InDelta(t, 1/0.05, f, 1e-9)
}

func TestSecantFactorVerticalIsOne(t *testing.T) {
	f := secantFactor(math.Pi / 2)
	assert.InDelta(t, 1.0, f, 1e-6)
}

func TestSlantRangeKmIncreasesWithHopDistance(t *testing.T) {
	near := slantRangeKm(500.0/EarthRadiusKm, 300)
	far := slantRangeKm(2000.0/EarthRadiusKm, 300)
	assert.Greater(t, far, near)
}

func sampleMufInfo() model.MufInfo {
	return model.MufInfo{MufMHz: 20, SigLo: 1, SigHi: 1}
}

func TestComputeLossMoreHopsMeansMoreLoss(t *testing.T) {
	points := sampleControlPoints(t)
	lp := model.LayerParams{Present: true, Critical: 10.0, DevLoss: 1.0}
	muf := sampleMufInfo()
	oneHop := sampleMode()
	oneHop.HopDistanceRad = oneHop.HopDistanceRad
	twoHop := oneHop
	twoHop.HopCount = 2

	lossOne := computeLoss(oneHop, points, lp, muf, 14, 100)
	lossTwo := computeLoss(twoHop, points, lp, muf, 14, 100)
	assert.Greater(t, lossTwo.totalDb, lossOne.totalDb)
}

// TestComputeLossOverMufMatchesMufExceedProbability pins L_xls to the
// exact formula spec.md §4.J prescribes. Every other additive loss
// term (L_fs, L_abs, L_dev, L_ground, L_aurora) is independent of
// VerticalFreqMHz, so varying only that field isolates L_xls's
// contribution to totalDb exactly: it must equal
// -10*log10(P(obliqueMuf; MUF, sigLo, sigHi)) * sec(elevation) * HopCount,
// not a flat per-mode constant. A bug that substitutes a fixed dB step
// (independent of how far the mode's oblique MUF sits above the
// circuit MUF) would pass a "some additional loss" check but fail this
// exact pinning.
func TestComputeLossOverMufMatchesMufExceedProbability(t *testing.T) {
	points := sampleControlPoints(t)
	lp := model.LayerParams{Present: true, Critical: 10.0, DevLoss: 1.0}
	muf := sampleMufInfo()

	ordinary := sampleMode()
	ordinary.Reflection.VerticalFreqMHz = 6.0
	overMuf := sampleMode()
	overMuf.OverMUF = true
	overMuf.Reflection.VerticalFreqMHz = 7.0

	elev := overMuf.Reflection.ElevationRad
	sec := secantFactor(elev)
	wantDelta := -10*math.Log10(MufExceedProbability(overMuf.Reflection.VerticalFreqMHz*sec, muf.MufMHz, muf.SigLo, muf.SigHi))*sec*float64(overMuf.HopCount) -
		(-10 * math.Log10(MufExceedProbability(ordinary.Reflection.VerticalFreqMHz*sec, muf.MufMHz, muf.SigLo, muf.SigHi)) * sec * float64(ordinary.HopCount))

	lossOrdinary := computeLoss(ordinary, points, lp, muf, 14, 100)
	lossOverMuf := computeLoss(overMuf, points, lp, muf, 14, 100)
	assert.InDelta(t, wantDelta, lossOverMuf.totalDb-lossOrdinary.totalDb, 1e-6)
	assert.Greater(t, lossOverMuf.totalDb, lossOrdinary.totalDb)
}

// TestComputeLossOverMufScalesWithHopCount verifies the maintainer's
// N_hop requirement directly: since L_xls is the only additive term
// that both depends on VerticalFreqMHz and is linear in HopCount in a
// way the other terms aren't (L_fs scales as 20*log10(HopCount), L_abs
// and L_ground scale linearly too), isolate L_xls by differencing a
// high-VerticalFreqMHz mode against a low one at each hop count: that
// difference must itself double from one hop to two.
func TestComputeLossOverMufScalesWithHopCount(t *testing.T) {
	points := sampleControlPoints(t)
	lp := model.LayerParams{Present: true, Critical: 10.0, DevLoss: 1.0}
	muf := sampleMufInfo()

	lowOne := sampleMode()
	lowOne.Reflection.VerticalFreqMHz = 6.0
	highOne := sampleMode()
	highOne.Reflection.VerticalFreqMHz = 7.0

	lowTwo := lowOne
	lowTwo.HopCount = 2
	highTwo := highOne
	highTwo.HopCount = 2

	xlsOne := computeLoss(highOne, points, lp, muf, 14, 100).totalDb - computeLoss(lowOne, points, lp, muf, 14, 100).totalDb
	xlsTwo := computeLoss(highTwo, points, lp, muf, 14, 100).totalDb - computeLoss(lowTwo, points, lp, muf, 14, 100).totalDb
	assert.InDelta(t, 2*xlsOne, xlsTwo, 1e-6)
}

func TestNonDeviativeAbsorptionEmptyPointsIsZero(t *testing.T) {
	assert.Equal(t, 0.0, nonDeviativeAbsorptionDb(nil, 14, 100))
}

func TestNonDeviativeAbsorptionIncreasesWithSsn(t *testing.T) {
	points := sampleControlPoints(t)
	low := nonDeviativeAbsorptionDb(points, 14, 10)
	high := nonDeviativeAbsorptionDb(points, 14, 200)
	assert.Greater(t, high, low)
}

func TestAuroralLossZeroBelowAuroralLatitude(t *testing.T) {
	points := sampleControlPoints(t)
	assert.Equal(t, 0.0, auroralLossDb(points, 5.0))
}

func TestAuroralLossPositiveAboveAuroralLatitude(t *testing.T) {
	points := sampleControlPoints(t)
	points[0].Geomag.LatRad = 65 * math.Pi / 180
	assert.Greater(t, auroralLossDb(points, 5.0), 0.0)
}

func TestBuildSignalPopulatesModeFields(t *testing.T) {
	points := sampleControlPoints(t)
	lp := model.LayerParams{Present: true, Critical: 10.0, DevLoss: 1.0}
	config := DefaultConfig()
	noise := model.NoiseComponents{Combined: model.TripleValue{Median: -130, Lower: 3, Upper: 3}}
	muf := model.MufInfo{MufMHz: 20, SigLo: 1, SigHi: 1}

	mode := BuildSignal(sampleMode(), points, lp, config, noise, muf, 14, 100)
	assert.Greater(t, mode.DelayMs, 0.0)
	assert.GreaterOrEqual(t, mode.Reliability, 0.0)
	assert.LessOrEqual(t, mode.Reliability, 1.0)
}

// TestBuildSignalRequiredSnrIncreaseWeaklyLowersReliability is spec.md
// §8 invariant 9: raising the required SNR can only hold reliability
// steady or push it down, never up, since reliability is the CDF of
// (snrMedian - requiredSnr) and requiredSnr only ever subtracts.
func TestBuildSignalRequiredSnrIncreaseWeaklyLowersReliability(t *testing.T) {
	points := sampleControlPoints(t)
	lp := model.LayerParams{Present: true, Critical: 10.0, DevLoss: 1.0}
	noise := model.NoiseComponents{Combined: model.TripleValue{Median: -130, Lower: 3, Upper: 3}}
	muf := sampleMufInfo()

	low := DefaultConfig()
	low.RequiredSnrDb = 5
	high := low
	high.RequiredSnrDb = 15

	modeLow := BuildSignal(sampleMode(), points, lp, low, noise, muf, 14, 100)
	modeHigh := BuildSignal(sampleMode(), points, lp, high, noise, muf, 14, 100)
	assert.LessOrEqual(t, modeHigh.Reliability, modeLow.Reliability)
}

// TestBuildSignalTxPowerIncreaseRaisesSignalAndReliability is spec.md
// §8 invariant 10: a +3 dB tx_power change must raise the median
// signal by exactly 3 dB (power, gain, and loss terms are otherwise
// unaffected by tx_power) and can only hold reliability steady or
// raise it, never lower it.
func TestBuildSignalTxPowerIncreaseRaisesSignalAndReliability(t *testing.T) {
	points := sampleControlPoints(t)
	lp := model.LayerParams{Present: true, Critical: 10.0, DevLoss: 1.0}
	noise := model.NoiseComponents{Combined: model.TripleValue{Median: -130, Lower: 3, Upper: 3}}
	muf := sampleMufInfo()

	low := DefaultConfig()
	low.TxPowerDbw = 20
	high := low
	high.TxPowerDbw = 23

	modeLow := BuildSignal(sampleMode(), points, lp, low, noise, muf, 14, 100)
	modeHigh := BuildSignal(sampleMode(), points, lp, high, noise, muf, 14, 100)
	assert.InDelta(t, modeLow.Signal.PowerDbw+3, modeHigh.Signal.PowerDbw, 1e-9)
	assert.GreaterOrEqual(t, modeHigh.Reliability, modeLow.Reliability)
}

func TestSelectBestModePrefersHigherReliability(t *testing.T) {
	low := model.Mode{Reliability: 0.2, HopCount: 1, Signal: model.SignalInfo{SnrDb: 5}}
	high := model.Mode{Reliability: 0.8, HopCount: 2, Signal: model.SignalInfo{SnrDb: 1}}
	best := SelectBestMode([]model.Mode{low, high})
	assert.Equal(t, 0.8, best.Reliability)
}

func TestSelectBestModeEmptyIsNil(t *testing.T) {
	assert.Nil(t, SelectBestMode(nil))
}

func TestSelectBestModeTiesPreferFewerHops(t *testing.T) {
	a := model.Mode{Reliability: 0.5, HopCount: 2, Signal: model.SignalInfo{SnrDb: 5}}
	b := model.Mode{Reliability: 0.5, HopCount: 1, Signal: model.SignalInfo{SnrDb: 1}}
	best := SelectBestMode([]model.Mode{a, b})
	assert.Equal(t, 1, best.HopCount)
}

func TestCombineSignalEmptyIsZeroValue(t *testing.T) {
	assert.Equal(t, model.SignalInfo{}, CombineSignal(nil))
}

func TestCombineSignalExceedsEachModesPower(t *testing.T) {
	modes := []model.Mode{
		{Signal: model.SignalInfo{PowerDbw: -100}, Reliability: 0.5},
		{Signal: model.SignalInfo{PowerDbw: -105}, Reliability: 0.6},
	}
	combined := CombineSignal(modes)
	assert.Greater(t, combined.PowerDbw, -100.0)
}

func TestMultipathProbabilityFloorForSingleMode(t *testing.T) {
	best := model.Mode{Signal: model.SignalInfo{PowerDbw: -100}}
	modes := []model.Mode{best}
	assert.Equal(t, multipathProbabilityFloor, MultipathProbability(modes, best, 2000, 0.1, 3.0))
}

func TestMultipathProbabilityFloorBeyondDistanceCutoff(t *testing.T) {
	best := model.Mode{DelayMs: 5, Signal: model.SignalInfo{PowerDbw: -100}, Reliability: 0.9}
	other := model.Mode{DelayMs: 6, Signal: model.SignalInfo{PowerDbw: -100.5}, Reliability: 0.8}
	modes := []model.Mode{best, other}
	assert.Equal(t, multipathProbabilityFloor, MultipathProbability(modes, best, 8000, 0.1, 3.0))
}

func TestMultipathProbabilityUsesInterferingModeReliability(t *testing.T) {
	best := model.Mode{DelayMs: 5, Signal: model.SignalInfo{PowerDbw: -100}, Reliability: 0.9}
	interfering := model.Mode{DelayMs: 5.5, Signal: model.SignalInfo{PowerDbw: -101}, Reliability: 0.6}
	tooFar := model.Mode{DelayMs: 5.5, Signal: model.SignalInfo{PowerDbw: -150}, Reliability: 0.95}
	modes := []model.Mode{best, interfering, tooFar}
	assert.Equal(t, 0.6, MultipathProbability(modes, best, 2000, 0.1, 3.0))
}

func TestMultipathProbabilityFloorWhenNoModeClearsDelayTolerance(t *testing.T) {
	best := model.Mode{DelayMs: 5, Signal: model.SignalInfo{PowerDbw: -100}, Reliability: 0.9}
	near := model.Mode{DelayMs: 5.01, Signal: model.SignalInfo{PowerDbw: -100.5}, Reliability: 0.8}
	modes := []model.Mode{best, near}
	assert.Equal(t, multipathProbabilityFloor, MultipathProbability(modes, best, 2000, 0.1, 3.0))
}
