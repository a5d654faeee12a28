package ionosphere

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sa6mwa/hfprop/internal/model"
)

func sampleProfile() model.IonosphericProfile {
	return model.IonosphericProfile{
		E:  model.LayerParams{Present: true, Critical: 3.0, PeakHeight: 110, SemiThick: 20},
		F1: model.LayerParams{Present: true, Critical: 4.0, PeakHeight: 200, SemiThick: 30},
		F2: model.LayerParams{Present: true, Critical: 9.0, PeakHeight: 300, SemiThick: 80},
	}
}

func TestPenetrationAngleBelowCriticalIsVertical(t *testing.T) {
	angle := PenetrationAngleRad(9.0, 5.0)
	assert.InDelta(t, math.Pi/2, angle, 1e-9)
}

func TestPenetrationAngleAboveCriticalIsLessThanVertical(t *testing.T) {
	angle := PenetrationAngleRad(9.0, 12.0)
	assert.Less(t, angle, math.Pi/2)
	assert.Greater(t, angle, 0.0)
}

func TestPenetrationAngleAtCriticalIsVertical(t *testing.T) {
	assert.InDelta(t, math.Pi/2, PenetrationAngleRad(9.0, 9.0), 1e-9)
}

func TestVirtualHeightAtLowFrequencyNearTrueHeight(t *testing.T) {
	p := sampleProfile()
	vh := VirtualHeightKm(p, model.LayerF2, 1.0)
	trueHeightBase := p.F2.PeakHeight - p.F2.SemiThick
	assert.Greater(t, vh, minIonosphereHeightKm)
	assert.Less(t, vh, trueHeightBase+50)
}

func TestVirtualHeightIncreasesTowardCritical(t *testing.T) {
	p := sampleProfile()
	low := VirtualHeightKm(p, model.LayerF2, 1.0)
	high := VirtualHeightKm(p, model.LayerF2, p.F2.Critical*0.95)
	assert.Greater(t, high, low)
}

func TestBuildIonogramPopulatesAllPresentLayers(t *testing.T) {
	p := sampleProfile()
	ion := BuildIonogram(p)
	assert.NotEmpty(t, ion.VerticalFreqMHz)
	assert.Equal(t, len(ion.VerticalFreqMHz), len(ion.VirtualHeightKm))
	assert.NotEmpty(t, ion.TrueHeightKm)
	assert.Equal(t, len(ion.TrueHeightKm), len(ion.PlasmaFreqMHz))

	seen := map[model.Layer]bool{}
	for _, tag := range ion.LayerTag {
		seen[tag] = true
	}
	assert.True(t, seen[model.LayerE])
	assert.True(t, seen[model.LayerF1])
	assert.True(t, seen[model.LayerF2])
}

func TestBuildIonogramSkipsAbsentF1(t *testing.T) {
	p := sampleProfile()
	p.F1 = model.LayerParams{}
	ion := BuildIonogram(p)
	for _, tag := range ion.LayerTag {
		assert.NotEqual(t, model.LayerF1, tag)
	}
}

func TestInterpolateVirtualHeightWithinRange(t *testing.T) {
	p := sampleProfile()
	ion := BuildIonogram(p)
	mid := ion.VerticalFreqMHz[len(ion.VerticalFreqMHz)/2]
	vh, ok := InterpolateVirtualHeight(ion, model.LayerF2, mid)
	assert.True(t, ok)
	assert.Greater(t, vh, 0.0)
}

func TestInterpolateVirtualHeightUnknownLayer(t *testing.T) {
	p := sampleProfile()
	p.F1 = model.LayerParams{}
	ion := BuildIonogram(p)
	_, ok := InterpolateVirtualHeight(ion, model.LayerF1, 3.0)
	assert.False(t, ok)
}

func TestPlasmaFreqZeroOutsideLayer(t *testing.T) {
	p := sampleProfile().F2
	assert.Equal(t, 0.0, plasmaFreqMHz(p, p.PeakHeight-p.SemiThick-100))
	assert.Greater(t, plasmaFreqMHz(p, p.PeakHeight), 0.0)
}
