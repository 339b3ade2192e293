package scenario

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/vehlab/internal/registry"
)

func TestSkidpadConvergesToTarget(t *testing.T) {
	reg := registry.Default()

	res, err := RunSkidpad(reg, SkidpadConfig{
		ModelID:  "bicycle",
		Speed:    15,
		Radius:   30,
		Duration: 20,
	})
	require.NoError(t, err)

	assert.True(t, res.Grades["yawRate"], "yaw rate metric %f", res.Metrics["yawRate"])
	assert.True(t, res.Grades["latAccel"], "lat accel metric %f", res.Metrics["latAccel"])

	require.NotNil(t, res.Theory.Skidpad)
	assert.InDelta(t, 0.5, res.Theory.Skidpad.YawRate, 1e-12)
	assert.InDelta(t, 7.5, res.Theory.Skidpad.LatAccel, 1e-12)

	assert.False(t, res.Flags["frictionLimited"])
}

func TestSkidpadSteadyWindowAveraging(t *testing.T) {
	reg := registry.Default()

	res, err := RunSkidpad(reg, SkidpadConfig{Speed: 15, Radius: 30})
	require.NoError(t, err)

	// The steady window is the trailing 40%: the PID must have pulled
	// the yaw rate onto the target well before it starts.
	series := res.Telemetry
	mid := series[len(series)*6/10]
	assert.InDelta(t, 0.5, mid.YawRate, 0.5*0.05, "yaw rate not settled at window start")
}

func TestSkidpadRejectsBadRadius(t *testing.T) {
	reg := registry.Default()

	_, err := RunSkidpad(reg, SkidpadConfig{Radius: -5})
	require.Error(t, err)
}

func TestSkidpadHighSpeedHitsFrictionLimit(t *testing.T) {
	reg := registry.Default()

	// v^2/R = 24^2/30 = 19.2 m/s^2, far beyond mu*g: the run must
	// saturate and say so instead of failing.
	res, err := RunSkidpad(reg, SkidpadConfig{Speed: 24, Radius: 30})
	require.NoError(t, err)

	assert.True(t, res.Flags["frictionLimited"])
	assert.False(t, res.Grades["latAccel"], "saturated run cannot reach v^2/R")
}
