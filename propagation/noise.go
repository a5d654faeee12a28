package propagation

import (
	"math"

	"github.com/sa6mwa/hfprop/internal/coeff"
	"github.com/sa6mwa/hfprop/internal/model"
)

// thermalFloorDbwPerHz is 10*log10(k*T0) for T0 = 290 K, the
// reference noise-power density every ITU-R P.372-style noise figure
// is quoted above.
const thermalFloorDbwPerHz = -204.0

// manMadeTable holds the ITU-R P.372 style categorical man-made noise
// model Fa(f) = c - d*log10(f_MHz), dB above thermal at 1 MHz,
// spec.md §4.H.
var manMadeTable = map[NoiseEnvironment]struct{ c, d float64 }{
	NoiseRemote:      {45.0, 28.6},
	NoiseQuiet:       {53.6, 28.6},
	NoiseRural:       {67.2, 27.7},
	NoiseResidential: {72.5, 27.7},
	NoiseUrban:       {76.8, 27.7},
	NoiseNoisy:       {82.0, 27.7},
}

// galacticNoiseDb approximates the quiet-sun galactic noise figure
// above thermal, a standard result cited throughout HF noise
// modeling literature (valid roughly 1-100 MHz; this engine does not
// extend it outside the 2-30 MHz band it predicts within).
func galacticNoiseDb(fMHz float64) float64 {
	return 52.0 - 23.0*math.Log10(fMHz)
}

// manMadeNoiseDb evaluates the categorical table at fMHz.
func manMadeNoiseDb(env NoiseEnvironment, fMHz float64) float64 {
	t, ok := manMadeTable[env]
	if !ok {
		t = manMadeTable[NoiseRural]
	}
	return t.c - t.d*math.Log10(fMHz)
}

// atmosphericNoiseDb evaluates the receiver-site Fam fixed map and
// scales it to fMHz with the standard -10*log10(f) atmospheric
// frequency rolloff (CCIR Report 322 style), returning the median plus
// the decile spread read from Fdu/Fdl.
func atmosphericNoiseDb(store *coeff.Store, rx model.GeoPoint, localTimeHour, fMHz float64) (median, sigLo, sigHi float64) {
	tFrac := localTimeHour / 24.0
	fam := store.FixedMap(coeff.FixedFam, rx.LatRad, rx.LonRad, tFrac)
	fdu := store.FixedMap(coeff.FixedFdu, rx.LatRad, rx.LonRad, tFrac)
	fdl := store.FixedMap(coeff.FixedFdl, rx.LatRad, rx.LonRad, tFrac)

	rolloff := -10.0 * math.Log10(fMHz)
	median = fam + rolloff
	sigHi = math.Abs(fdu)
	sigLo = math.Abs(fdl)
	return median, sigLo, sigHi
}

// noisePowerDbw converts a noise figure (dB above thermal) to absolute
// receiver noise power in the configured bandwidth.
func noisePowerDbw(faDb, bandwidthHz float64) float64 {
	return faDb + thermalFloorDbwPerHz + 10*math.Log10(bandwidthHz)
}

// BuildNoise combines atmospheric, galactic, and man-made noise into
// the per-mode decile-triple NoiseComponents, spec.md §4.H: each
// component is converted to linear power in the operating bandwidth
// and power-summed, since independent noise sources add in power, not
// in dB.
func BuildNoise(store *coeff.Store, rx model.GeoPoint, localTimeHour, fMHz, bandwidthHz float64, env NoiseEnvironment) model.NoiseComponents {
	atmosMedianDb, atmosSigLo, atmosSigHi := atmosphericNoiseDb(store, rx, localTimeHour, fMHz)
	atmos := model.TripleValue{
		Median: noisePowerDbw(atmosMedianDb, bandwidthHz),
		Lower:  noisePowerDbw(atmosMedianDb, bandwidthHz) - noisePowerDbw(atmosMedianDb-atmosSigLo, bandwidthHz),
		Upper:  noisePowerDbw(atmosMedianDb+atmosSigHi, bandwidthHz) - noisePowerDbw(atmosMedianDb, bandwidthHz),
	}

	galMedian := noisePowerDbw(galacticNoiseDb(fMHz), bandwidthHz)
	galactic := model.TripleValue{Median: galMedian, Lower: 1.0, Upper: 1.0}

	manMadeMedian := noisePowerDbw(manMadeNoiseDb(env, fMHz), bandwidthHz)
	manMade := model.TripleValue{Median: manMadeMedian, Lower: 2.0, Upper: 3.0}

	combined := PowerSum(atmos, galactic, manMade)
	return model.NoiseComponents{
		Atmospheric: atmos,
		Galactic:    galactic,
		ManMade:     manMade,
		Combined:    combined,
	}
}

