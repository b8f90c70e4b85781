package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/alexiusacademia/gotakeoff/internal/plan"
	"github.com/alexiusacademia/gotakeoff/internal/takeoff"
)

// Sheet names of the bill of quantities.
const (
	SheetSummary  = "Summary"
	SheetWalls    = "Walls"
	SheetConcrete = "Concrete"
	SheetSteel    = "Steel"
	SheetSafety   = "Safety"
)

// Workbook builds the bill of quantities. The caller must Close the file.
func Workbook(p *plan.Plan, r *takeoff.Result) (*excelize.File, error) {
	f := excelize.NewFile()

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	sheets := []struct {
		name    string
		headers []string
		widths  []float64
		rows    [][]any
	}{
		{SheetSummary, []string{"Item", "Quantity", "Unit"}, []float64{32, 16, 10}, summaryRows(r)},
		{SheetWalls, []string{"Wall", "Class", "Length (mm)", "Thickness (mm)", "Height (mm)"}, []float64{16, 14, 14, 16, 14}, wallRows(p)},
		{SheetConcrete, []string{"Element", "Mix", "Volume (m³)", "Cement (bags)", "Sand (m³)", "Gravel (m³)"}, []float64{16, 10, 14, 14, 12, 12}, concreteRows(r)},
		{SheetSteel, []string{"Bars", "Diameter (mm)", "Length (m)", "Mass (kg)"}, []float64{20, 14, 14, 14}, steelRows(r)},
		{SheetSafety, []string{"Column", "Slenderness", "Span (m)", "Load (kN)", "Capacity (kN)", "Status", "Issues"}, []float64{12, 12, 10, 12, 14, 10, 40}, safetyRows(r)},
	}

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", s.name); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(s.name); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to create sheet: %w", err)
		}
		if err := writeSheet(f, s.name, header, s.headers, s.widths, s.rows); err != nil {
			f.Close()
			return nil, err
		}
	}
	f.SetActiveSheet(0)
	return f, nil
}

// WriteWorkbook saves the bill of quantities to path.
func WriteWorkbook(path string, p *plan.Plan, r *takeoff.Result) error {
	f, err := Workbook(p, r)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, style int, headers []string, widths []float64, rows [][]any) error {
	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(sheet, cell, cell, style); err != nil {
			return fmt.Errorf("failed to set header style: %w", err)
		}
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return fmt.Errorf("failed to convert column number: %w", err)
		}
		if err := f.SetColWidth(sheet, name, name, widths[col]); err != nil {
			return fmt.Errorf("failed to set column width: %w", err)
		}
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+2, err)
		}
	}
	return nil
}

func summaryRows(r *takeoff.Result) [][]any {
	rows := [][]any{
		{"Structural blocks", r.Structural.Blocks, "pcs"},
		{"Partition blocks", r.Partition.Blocks, "pcs"},
		{"Total blocks", r.TotalBlocks, "pcs"},
		{"Structural net volume", round(r.Structural.NetVolume), "m³"},
		{"Partition net volume", round(r.Partition.NetVolume), "m³"},
		{"Mortar", round(r.Mortar.WetVolume), "m³"},
		{"Mortar cement", r.Mortar.Bags(), "bags"},
		{"Concrete", round(r.Concrete.Total.WetVolume), "m³"},
		{"Concrete cement", r.Concrete.Total.Bags(), "bags"},
		{"Sand", round(r.Mortar.SandVolume + r.Concrete.Total.SandVolume), "m³"},
		{"Gravel", round(r.Concrete.Total.AggregateVolume), "m³"},
		{"Reinforcing steel", round(r.Steel.TotalMass), "kg"},
		{"Masonry duration", round(r.Labor.Days), "days"},
		{"Masonry labor", round(r.Labor.ManDays), "man-days"},
	}
	if r.Safety != nil {
		rows = append(rows, []any{"Safety score", r.Safety.Score, "/100"})
	}
	return rows
}

func wallRows(p *plan.Plan) [][]any {
	var rows [][]any
	for _, w := range p.Walls {
		rows = append(rows, []any{w.ID, w.Class().String(), round(w.Length()), w.Thickness, w.Height})
	}
	return rows
}

func concreteRows(r *takeoff.Result) [][]any {
	var rows [][]any
	for _, it := range r.Concrete.Items {
		q := it.Quantity
		rows = append(rows, []any{it.Name, it.Mix, round(it.Volume), round(q.CementBags), round(q.SandVolume), round(q.AggregateVolume)})
	}
	return rows
}

func steelRows(r *takeoff.Result) [][]any {
	var rows [][]any
	for _, it := range r.Steel.Items {
		rows = append(rows, []any{it.Name, it.Diameter, round(it.Length), round(it.Mass)})
	}
	return rows
}

func safetyRows(r *takeoff.Result) [][]any {
	if r.Safety == nil {
		return nil
	}
	var rows [][]any
	for _, c := range r.Safety.Columns {
		rows = append(rows, []any{
			c.ColumnID, round(c.Slenderness), round(c.Span), round(c.Load), round(c.Capacity),
			string(c.Severity), strings.Join(c.Issues, "; "),
		})
	}
	return rows
}

// round keeps three decimals so the sheet shows what the report prints.
func round(v float64) float64 {
	return math.Round(v*1000) / 1000
}
