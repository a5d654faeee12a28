package propagation

import "math"

// AntennaPattern returns the gain, in dBi, of an antenna toward a ray
// departing at elevRad (radians above the horizon) and azimuthRad
// (radians, true bearing), for operating frequency fMHz. spec.md §4.I.
type AntennaPattern interface {
	GainDbi(elevRad, azimuthRad, fMHz float64) float64
}

// NewAntennaPattern builds the pattern implementation for spec, using
// the out-of-band guard spec.md §4.I describes: a frequency more than
// +/-20% from DesignFreqMHz returns the pattern's gain at the nearer
// design edge rather than extrapolating.
func NewAntennaPattern(spec AntennaSpec) AntennaPattern {
	switch spec.Kind {
	case AntennaDipole:
		return dipolePattern{spec}
	case AntennaInvertedV:
		return invertedVPattern{spec}
	case AntennaMonopole:
		return monopolePattern{spec}
	case AntennaYagi3:
		return yagi3Pattern{spec}
	default:
		return isotropicPattern{}
	}
}

const outOfBandToleranceFrac = 0.20

// clampDesignFreq applies the out-of-band guard.
func clampDesignFreq(spec AntennaSpec, fMHz float64) float64 {
	if spec.DesignFreqMHz <= 0 {
		return fMHz
	}
	lo, hi := spec.DesignFreqMHz*(1-outOfBandToleranceFrac), spec.DesignFreqMHz*(1+outOfBandToleranceFrac)
	if fMHz < lo {
		return lo
	}
	if fMHz > hi {
		return hi
	}
	return fMHz
}

type isotropicPattern struct{}

func (isotropicPattern) GainDbi(_, _, _ float64) float64 { return 0 }

// dipolePattern is a horizontal half-wave dipole over real ground,
// modeled as free-space figure-eight azimuth response combined with
// an image-interference elevation factor from height above ground.
type dipolePattern struct{ spec AntennaSpec }

func (p dipolePattern) GainDbi(elevRad, azimuthRad, fMHz float64) float64 {
	fMHz = clampDesignFreq(p.spec, fMHz)
	broadside := math.Cos(azimuthRad - p.spec.AzimuthRad)
	azGainDbi := 2.15 + 10*math.Log10(math.Max(0.05, broadside*broadside))
	return azGainDbi + groundImageFactorDb(elevRad, p.spec.HeightM, fMHz)
}

// invertedVPattern is a dipole bent to 120 degrees at the apex,
// flattening the azimuth null and losing a little broadside gain
// relative to a flat-top dipole.
type invertedVPattern struct{ spec AntennaSpec }

func (p invertedVPattern) GainDbi(elevRad, azimuthRad, fMHz float64) float64 {
	fMHz = clampDesignFreq(p.spec, fMHz)
	broadside := math.Cos(azimuthRad - p.spec.AzimuthRad)
	azGainDbi := 1.5 + 6*math.Log10(math.Max(0.2, broadside*broadside+0.3))
	return azGainDbi + groundImageFactorDb(elevRad, p.spec.HeightM, fMHz)
}

// monopolePattern is a vertical quarter-wave ground-plane radiator:
// omnidirectional in azimuth, peaking at low elevation, which is why
// it is the conventional choice for single-hop low-angle NVIS-avoiding
// paths.
type monopolePattern struct{ spec AntennaSpec }

func (p monopolePattern) GainDbi(elevRad, _, _ float64) float64 {
	return 1.0 - 3.0*math.Sin(elevRad)
}

// yagi3Pattern is a fixed-azimuth 3-element Yagi: a forward lobe with
// modest front-to-back ratio, elevation response dominated by height
// above ground as with the wire antennas.
type yagi3Pattern struct{ spec AntennaSpec }

func (p yagi3Pattern) GainDbi(elevRad, azimuthRad, fMHz float64) float64 {
	fMHz = clampDesignFreq(p.spec, fMHz)
	off := azimuthRad - p.spec.AzimuthRad
	forward := math.Cos(off)
	var azGainDbi float64
	if forward >= 0 {
		azGainDbi = 7.0 + 3.0*math.Log10(math.Max(0.1, forward))
	} else {
		azGainDbi = 7.0 - 15.0 - 3.0*math.Log10(math.Max(0.1, -forward))
	}
	return azGainDbi + groundImageFactorDb(elevRad, p.spec.HeightM, fMHz)
}

// groundImageFactorDb models constructive/destructive interference
// between the direct ray and its ground-reflected image for a
// horizontal antenna at heightM, which is what makes a dipole's
// elevation response height-dependent rather than a second broadside
// lobe pointing straight up.
func groundImageFactorDb(elevRad, heightM, fMHz float64) float64 {
	if heightM <= 0 {
		return 0
	}
	wavelengthM := 299.792458 / fMHz
	phase := 4 * math.Pi * heightM / wavelengthM * math.Sin(elevRad)
	factor := 2 * math.Sin(phase/2)
	p := factor * factor
	if p < 1e-3 {
		p = 1e-3
	}
	return 10 * math.Log10(p)
}
