package propagation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSolarDeclinationRangeBounded(t *testing.T) {
	for doy := 1; doy <= 365; doy += 17 {
		d := SolarDeclinationRad(doy)
		assert.LessOrEqual(t, math.Abs(d), 23.45*math.Pi/180+1e-9)
	}
}

func TestSolarDeclinationSolsticeSign(t *testing.T) {
	// June solstice (day 172) is near maximum positive declination in
	// this approximation.
	juneDecl := SolarDeclinationRad(172)
	decDecl := SolarDeclinationRad(355)
	assert.Greater(t, juneDecl, 0.0)
	assert.Less(t, decDecl, 0.0)
}

func TestEquationOfTimeSmallMagnitude(t *testing.T) {
	for doy := 1; doy <= 365; doy += 11 {
		e := EquationOfTimeHours(doy)
		assert.Less(t, math.Abs(e), 0.5)
	}
}

func TestLocalTimeHourWrapsPositive(t *testing.T) {
	lt := LocalTimeHour(23, -180)
	assert.GreaterOrEqual(t, lt, 0.0)
	assert.Less(t, lt, 24.0)
}

func TestLocalTimeHourMatchesSimpleOffset(t *testing.T) {
	lt := LocalTimeHour(12, 45)
	assert.InDelta(t, 15, lt, 1e-9)
}

func TestSolarZenithNoonEquatorNearOverhead(t *testing.T) {
	p, err := NewGeoPointDeg(0, 0)
	assert.NoError(t, err)
	ctx := SolarZenithRad(p, 3, 12)
	assert.Less(t, ctx.ZenithRad, 30*math.Pi/180)
}

func TestSolarZenithMidnightIsLarge(t *testing.T) {
	p, err := NewGeoPointDeg(0, 0)
	assert.NoError(t, err)
	ctx := SolarZenithRad(p, 3, 0)
	assert.Greater(t, ctx.ZenithRad, 80*math.Pi/180)
}

func TestSolarZenithLocalTimeMatchesLongitude(t *testing.T) {
	p, err := NewGeoPointDeg(0, 45)
	assert.NoError(t, err)
	ctx := SolarZenithRad(p, 6, 0)
	assert.InDelta(t, LocalTimeHour(0, 45), ctx.LocalTimeHour, 1e-9)
}
