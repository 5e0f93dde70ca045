package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/dmarins/stripcut/internal/model"
)

const (
	cutListSheet = "Cut List"
	summarySheet = "Summary"
)

// XLSX writes the cutting plan as a spreadsheet: one row per item run on the
// cut list sheet, plus a summary sheet with per-plate totals.
func XLSX(path string, sol model.Solution) error {
	if len(sol.Plates) == 0 {
		return fmt.Errorf("no plates to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", cutListSheet); err != nil {
		return err
	}

	header := []interface{}{"Plate", "Strip", "Item", "Width (mm)", "Height (mm)", "Quantity", "X (mm)", "Y (mm)"}
	if err := f.SetSheetRow(cutListSheet, "A1", &header); err != nil {
		return err
	}

	row := 2
	for pi, plate := range sol.Plates {
		for si, strip := range plate.Strips {
			for _, p := range strip.Placements {
				cell, err := excelize.CoordinatesToCellName(1, row)
				if err != nil {
					return err
				}
				values := []interface{}{
					pi + 1, si + 1, p.Item.Label,
					p.Item.Width, p.Item.Height, p.Quantity,
					p.X, strip.Y,
				}
				if err := f.SetSheetRow(cutListSheet, cell, &values); err != nil {
					return err
				}
				row++
			}
		}
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return err
	}

	plateArea := sol.PlateWidth * sol.PlateHeight
	summaryHeader := []interface{}{"Plate", "Strips", "Units", "Used Area (mm²)", "Usage (%)"}
	if err := f.SetSheetRow(summarySheet, "A1", &summaryHeader); err != nil {
		return err
	}
	for pi, plate := range sol.Plates {
		cell, err := excelize.CoordinatesToCellName(1, pi+2)
		if err != nil {
			return err
		}
		values := []interface{}{
			pi + 1, len(plate.Strips), plate.UnitCount(),
			plate.UsedArea(), 100 * plate.UsedArea() / plateArea,
		}
		if err := f.SetSheetRow(summarySheet, cell, &values); err != nil {
			return err
		}
	}

	totalsRow := len(sol.Plates) + 3
	cell, err := excelize.CoordinatesToCellName(1, totalsRow)
	if err != nil {
		return err
	}
	totals := []interface{}{"Total", "", "", "", fmt.Sprintf("%.2f%% utilization", sol.Utilization*100)}
	if err := f.SetSheetRow(summarySheet, cell, &totals); err != nil {
		return err
	}

	return f.SaveAs(path)
}
