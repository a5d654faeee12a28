package raytrace

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sa6mwa/hfprop/internal/model"
)

func buildTestProfile() model.IonosphericProfile {
	return withIonogram(model.IonosphericProfile{
		E:  model.LayerParams{Present: true, Critical: 3.5, PeakHeight: 110, SemiThick: 20},
		F1: model.LayerParams{Present: true, Critical: 4.8, PeakHeight: 200, SemiThick: 30},
		F2: model.LayerParams{Present: true, Critical: 11.0, PeakHeight: 300, SemiThick: 80},
	})
}

func TestEnumerateModesFindsAtLeastOneModeForShortPath(t *testing.T) {
	profile := buildTestProfile()
	modes := EnumerateModes(profile, 8.0, 1200.0/earthRadiusKm, 3*math.Pi/180)
	assert.NotEmpty(t, modes)
}

func TestEnumerateModesHopCountsPositive(t *testing.T) {
	profile := buildTestProfile()
	modes := EnumerateModes(profile, 8.0, 3000.0/earthRadiusKm, 3*math.Pi/180)
	for _, m := range modes {
		assert.GreaterOrEqual(t, m.HopCount, 1)
	}
}

func TestEnumerateModesHopDistanceMatchesTarget(t *testing.T) {
	profile := buildTestProfile()
	pathDistanceRad := 3000.0 / earthRadiusKm
	modes := EnumerateModes(profile, 8.0, pathDistanceRad, 3*math.Pi/180)
	for _, m := range modes {
		if m.OverMUF || m.Vertical {
			continue
		}
		expected := pathDistanceRad / float64(m.HopCount)
		assert.InDelta(t, expected, m.HopDistanceRad, 1e-6)
	}
}

func TestEnumerateModesFarAboveAllLayersIsEmpty(t *testing.T) {
	profile := buildTestProfile()
	// At 300 MHz the penetration angle for every layer falls below the
	// minimum takeoff angle, so no reflectrix (and thus no mode,
	// ordinary or over-MUF) can be built at all.
	modes := EnumerateModes(profile, 300.0, 3000.0/earthRadiusKm, 3*math.Pi/180)
	assert.Empty(t, modes)
}

func TestShortestSkipDistanceEmpty(t *testing.T) {
	d := shortestSkipDistance(map[model.Layer]model.Reflectrix{})
	assert.True(t, math.IsInf(d, 1))
}

func TestOverMufModesAndVerticalModesNonCrashing(t *testing.T) {
	profile := buildTestProfile()
	reflectrix := map[model.Layer]model.Reflectrix{}
	for _, layer := range sweepLayers {
		if r, ok := BuildReflectrix(profile, layer, 8.0, 3*math.Pi/180); ok {
			reflectrix[layer] = r
		}
	}
	require.NotEmpty(t, reflectrix)
	_ = overMufModes(reflectrix, 3000.0/earthRadiusKm)
	_ = verticalModes(reflectrix)
}
