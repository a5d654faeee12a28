package propagation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsotropicPatternIsFlat(t *testing.T) {
	p := isotropicPattern{}
	assert.Equal(t, 0.0, p.GainDbi(0.1, 0.2, 14))
	assert.Equal(t, 0.0, p.GainDbi(1.5, 3.0, 28))
}

func TestNewAntennaPatternDefaultsToIsotropic(t *testing.T) {
	p := NewAntennaPattern(AntennaSpec{Kind: AntennaKind(99)})
	_, ok := p.(isotropicPattern)
	assert.True(t, ok)
}

func TestDipolePatternBroadsideExceedsOffAxis(t *testing.T) {
	spec := AntennaSpec{Kind: AntennaDipole, HeightM: 10, AzimuthRad: 0}
	p := NewAntennaPattern(spec)
	broadside := p.GainDbi(30*math.Pi/180, 0, 14)
	offAxis := p.GainDbi(30*math.Pi/180, math.Pi/2, 14)
	assert.Greater(t, broadside, offAxis)
}

func TestMonopolePatternIsOmnidirectional(t *testing.T) {
	spec := AntennaSpec{Kind: AntennaMonopole}
	p := NewAntennaPattern(spec)
	a := p.GainDbi(20*math.Pi/180, 0, 14)
	b := p.GainDbi(20*math.Pi/180, math.Pi, 14)
	assert.Equal(t, a, b)
}

func TestMonopolePatternPeaksLow(t *testing.T) {
	spec := AntennaSpec{Kind: AntennaMonopole}
	p := NewAntennaPattern(spec)
	low := p.GainDbi(5*math.Pi/180, 0, 14)
	high := p.GainDbi(80*math.Pi/180, 0, 14)
	assert.Greater(t, low, high)
}

func TestYagi3PatternForwardExceedsBackward(t *testing.T) {
	spec := AntennaSpec{Kind: AntennaYagi3, HeightM: 10, AzimuthRad: 0, DesignFreqMHz: 14}
	p := NewAntennaPattern(spec)
	forward := p.GainDbi(20*math.Pi/180, 0, 14)
	backward := p.GainDbi(20*math.Pi/180, math.Pi, 14)
	assert.Greater(t, forward, backward)
}

func TestClampDesignFreqHoldsEdges(t *testing.T) {
	spec := AntennaSpec{DesignFreqMHz: 14}
	assert.InDelta(t, 14*0.8, clampDesignFreq(spec, 5), 1e-9)
	assert.InDelta(t, 14*1.2, clampDesignFreq(spec, 40), 1e-9)
	assert.InDelta(t, 14, clampDesignFreq(spec, 14), 1e-9)
}

func TestClampDesignFreqNoOpWithoutDesignFreq(t *testing.T) {
	spec := AntennaSpec{}
	assert.Equal(t, 9.0, clampDesignFreq(spec, 9))
}

func TestGroundImageFactorZeroHeightIsNoOp(t *testing.T) {
	assert.Equal(t, 0.0, groundImageFactorDb(0.3, 0, 14))
}

func TestGroundImageFactorFloored(t *testing.T) {
	v := groundImageFactorDb(0.0001, 20, 14)
	assert.GreaterOrEqual(t, v, 10*math.Log10(1e-3)-1e-9)
}
