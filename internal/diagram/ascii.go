// Package diagram renders takeoff results as images (gonum/plot) and as
// text for the terminal.
package diagram

import (
	"fmt"
	"math"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/alexiusacademia/gotakeoff/internal/geom"
	"github.com/alexiusacademia/gotakeoff/internal/plan"
	"github.com/alexiusacademia/gotakeoff/internal/takeoff"
)

// Plan preview cells.
const (
	CellStructural = '█'
	CellPartition  = '▒'
	CellColumn     = '■'
	CellEmpty      = ' '
)

// DrawPlan rasterises the resolved footprints into a text grid cols
// characters wide. Rows are half as tall as columns are wide, matching a
// terminal cell.
func DrawPlan(p *plan.Plan, r *takeoff.Result, cols int) string {
	b := r.Structural.Footprint.Bounds().Union(r.Partition.Footprint.Bounds())
	if b.IsEmpty() || b.Width() <= 0 || b.Height() <= 0 {
		return "  (empty plan)\n"
	}
	if cols < 10 {
		cols = 10
	}

	cell := b.Width() / float64(cols)
	rows := max(1, int(math.Ceil(b.Height()/(2*cell))))
	cellH := b.Height() / float64(rows)

	var columns geom.MultiPolygon
	for _, c := range p.Columns {
		if fp, ok := c.Footprint(); ok {
			columns = append(columns, fp)
		}
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("  ┌%s┐\n", strings.Repeat("─", cols)))
	for i := 0; i < rows; i++ {
		// Top row first.
		y := b.Max.Y - (float64(i)+0.5)*cellH
		sb.WriteString("  │")
		for j := 0; j < cols; j++ {
			pt := geom.Pt(b.Min.X+(float64(j)+0.5)*cell, y)
			switch {
			case columns.Contains(pt):
				sb.WriteRune(CellColumn)
			case r.Structural.Footprint.Contains(pt):
				sb.WriteRune(CellStructural)
			case r.Partition.Footprint.Contains(pt):
				sb.WriteRune(CellPartition)
			default:
				sb.WriteRune(CellEmpty)
			}
		}
		sb.WriteString("│\n")
	}
	sb.WriteString(fmt.Sprintf("  └%s┘\n", strings.Repeat("─", cols)))
	sb.WriteString(fmt.Sprintf("  %c structural  %c partition  %c column   %.0f × %.0f\n",
		CellStructural, CellPartition, CellColumn, b.Width(), b.Height()))
	return sb.String()
}

// SensitivityCaption labels the curve drawn by DrawSensitivity.
const SensitivityCaption = "overlap volume (m³), smallest angle first"

// DrawSensitivity charts measured overlap volume per angle as a curve and
// as horizontal bars, flagging angles under the acute threshold.
func DrawSensitivity(points []takeoff.SensitivityPoint) string {
	var sb strings.Builder
	sb.WriteString("\n")
	sb.WriteString("  OVERLAP VOLUME vs. INTERSECTION ANGLE\n")
	sb.WriteString("  ─────────────────────────────────────\n\n")

	if len(points) >= 2 {
		series := make([]float64, len(points))
		for i, p := range points {
			series[i] = p.Measured
		}
		sb.WriteString(asciigraph.Plot(series,
			asciigraph.Height(10),
			asciigraph.Offset(4),
			asciigraph.Precision(3),
			asciigraph.Caption(SensitivityCaption),
		))
		sb.WriteString("\n\n")
	}

	const width = 40
	top := 0.0
	for _, p := range points {
		top = math.Max(top, p.Measured)
	}
	for _, p := range points {
		bar := 0
		if top > 0 {
			bar = int(math.Round(p.Measured / top * width))
		}
		mark := ""
		if p.Angle < takeoff.MinJunctionAngle {
			mark = " ⚠ acute"
		}
		sb.WriteString(fmt.Sprintf("  %5.1f° │%s %.4f m³%s\n", p.Angle, pad(strings.Repeat("█", bar), width), p.Measured, mark))
	}
	return sb.String()
}

// DrawSummaryBox creates a summary box for results
func DrawSummaryBox(title string, lines []string) string {
	var sb strings.Builder

	maxLen := len([]rune(title))
	for _, line := range lines {
		maxLen = max(maxLen, len([]rune(line)))
	}
	maxLen += 4

	border := strings.Repeat("═", maxLen)
	sb.WriteString(fmt.Sprintf("  ╔%s╗\n", border))
	sb.WriteString(fmt.Sprintf("  ║  %s  ║\n", pad(title, maxLen-4)))
	sb.WriteString(fmt.Sprintf("  ╠%s╣\n", border))
	for _, line := range lines {
		sb.WriteString(fmt.Sprintf("  ║  %s  ║\n", pad(line, maxLen-4)))
	}
	sb.WriteString(fmt.Sprintf("  ╚%s╝\n", border))

	return sb.String()
}

// pad right-pads s to n runes; %-*s counts bytes.
func pad(s string, n int) string {
	return s + strings.Repeat(" ", max(0, n-len([]rune(s))))
}
