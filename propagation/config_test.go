package propagation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNoiseEnvironmentRoundTrips(t *testing.T) {
	for _, s := range []string{"remote", "quiet", "rural", "residential", "urban", "noisy"} {
		env, err := ParseNoiseEnvironment(s)
		require.NoError(t, err)
		assert.Equal(t, s, env.String())
	}
}

func TestParseNoiseEnvironmentUnknown(t *testing.T) {
	_, err := ParseNoiseEnvironment("deafening")
	assert.Error(t, err)
}

func TestNoiseEnvironmentStringUnknownValue(t *testing.T) {
	assert.Equal(t, "unknown", NoiseEnvironment(999).String())
}

func TestDefaultConfigValidates(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
}

func TestValidateRejectsBadBandwidth(t *testing.T) {
	c := DefaultConfig()
	c.BandwidthHz = 0
	assert.Error(t, c.Validate())
}

func TestValidateRejectsOutOfRangeReliability(t *testing.T) {
	c := DefaultConfig()
	c.RequiredReliability = 1.5
	assert.Error(t, c.Validate())
}

func TestValidateRejectsOutOfRangeTakeoffAngle(t *testing.T) {
	c := DefaultConfig()
	c.MinTakeoffAngleDeg = 90
	assert.Error(t, c.Validate())
}

func TestValidateRejectsNegativeDelay(t *testing.T) {
	c := DefaultConfig()
	c.MaxTolerableDelayMs = -1
	assert.Error(t, c.Validate())
}

func TestValidateRejectsNegativeMultipathTolerance(t *testing.T) {
	c := DefaultConfig()
	c.MultipathToleranceDb = -1
	assert.Error(t, c.Validate())
}
