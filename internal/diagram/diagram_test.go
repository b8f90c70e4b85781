package diagram

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexiusacademia/gotakeoff/internal/geom"
	"github.com/alexiusacademia/gotakeoff/internal/plan"
	"github.com/alexiusacademia/gotakeoff/internal/settings"
	"github.com/alexiusacademia/gotakeoff/internal/takeoff"
)

func room(t *testing.T) (*plan.Plan, *takeoff.Result) {
	t.Helper()
	w := func(id string, x0, y0, x1, y1, th float64) plan.Wall {
		return plan.Wall{ID: id, Start: geom.Pt(x0, y0), End: geom.Pt(x1, y1), Thickness: th}
	}
	p := &plan.Plan{
		Walls: []plan.Wall{
			w("south", 0, 0, 4000, 0, 225),
			w("east", 4000, 0, 4000, 4000, 225),
			w("north", 4000, 4000, 0, 4000, 225),
			w("west", 0, 4000, 0, 0, 225),
			w("partition", 2000, 0, 2000, 4000, 100),
		},
		Columns: []plan.Column{{ID: "c1", Position: geom.Pt(1000, 2000), Width: 300, Height: 300}},
	}
	r, err := takeoff.Estimate(p, &settings.Settings{})
	require.NoError(t, err)
	return p, r
}

func TestDrawPlan(t *testing.T) {
	p, r := room(t)
	out := DrawPlan(p, r, 41)

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	// Frame, 21 rows at half the column density, frame, legend.
	require.Len(t, lines, 24)
	for _, l := range lines[:23] {
		assert.Equal(t, 45, utf8.RuneCountInString(l), l)
	}
	body := strings.Join(lines[1:22], "\n")
	assert.Contains(t, body, string(CellStructural))
	assert.Contains(t, body, string(CellPartition))
	assert.Contains(t, body, string(CellColumn))
}

func TestDrawPlanEmpty(t *testing.T) {
	r, err := takeoff.Estimate(&plan.Plan{}, &settings.Settings{})
	require.NoError(t, err)
	assert.Equal(t, "  (empty plan)\n", DrawPlan(&plan.Plan{}, r, 40))
}

func TestDrawSensitivity(t *testing.T) {
	out := DrawSensitivity([]takeoff.SensitivityPoint{
		{Angle: 10, Measured: 0.9},
		{Angle: 90, Measured: 0.15},
	})
	assert.Contains(t, out, "⚠ acute")
	assert.Equal(t, 1, strings.Count(out, "⚠"))
	assert.Contains(t, out, strings.Repeat("█", 40))
	assert.Contains(t, out, SensitivityCaption)
}

func TestDrawSummaryBox(t *testing.T) {
	out := DrawSummaryBox("Totals", []string{"Blocks: 495", "Mortar: 0.5 m³"})
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 6)
	for _, l := range lines {
		assert.Equal(t, utf8.RuneCountInString(lines[0]), utf8.RuneCountInString(l), l)
	}
}

func TestExportPlan(t *testing.T) {
	p, r := room(t)
	dir := t.TempDir()
	for _, name := range []string{"plan.png", "out/plan.svg"} {
		path := filepath.Join(dir, name)
		require.NoError(t, ExportPlan(p, r, path))
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}
}

func TestExportSensitivity(t *testing.T) {
	pts, err := takeoff.Sensitivity(&settings.Settings{}, 225, 3000, takeoff.Angles(10, 90, 5))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "sensitivity")
	require.NoError(t, ExportSensitivity(pts, path))
	_, err = os.Stat(path + ".png")
	assert.NoError(t, err)
}
