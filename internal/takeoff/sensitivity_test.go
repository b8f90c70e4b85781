package takeoff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexiusacademia/gotakeoff/internal/settings"
)

func TestSensitivity(t *testing.T) {
	pts, err := Sensitivity(&settings.Settings{}, 225, 3000, []float64{15, 30, 60, 90})
	require.NoError(t, err)
	require.Len(t, pts, 4)

	// 0.225² × 3 at a right angle.
	assert.InEpsilon(t, 0.151875, pts[3].Analytic, 1e-12)
	for i, p := range pts {
		assert.InEpsilon(t, p.Analytic, p.Measured, 1e-3, "%v°", p.Angle)
		if i > 0 {
			assert.Less(t, p.Measured, pts[i-1].Measured)
		}
	}
}

func TestSensitivityErrors(t *testing.T) {
	_, err := Sensitivity(&settings.Settings{}, 0, 3000, []float64{45})
	assert.Error(t, err)

	_, err = Sensitivity(&settings.Settings{}, 225, 3000, []float64{0})
	assert.ErrorContains(t, err, "angle must lie in")

	_, err = Sensitivity(nil, 225, 3000, []float64{45})
	assert.ErrorIs(t, err, settings.ErrNilSettings)
}

func TestAngles(t *testing.T) {
	assert.Equal(t, []float64{10, 20, 30}, Angles(10, 30, 3))
	assert.Equal(t, []float64{5}, Angles(5, 90, 1))
}
