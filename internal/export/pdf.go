// Package export writes cutting plans to external formats: PDF layout
// drawings, DXF geometry, XLSX cut lists, and QR-coded part labels. Nothing
// in this package feeds back into the solver.
package export

import (
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"

	"github.com/dmarins/stripcut/internal/model"
)

// itemColor represents an RGB fill color for a placed item.
type itemColor struct {
	R, G, B int
}

var itemColors = []itemColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	legendHeight = 18.0
	drawAreaTop  = marginTop + headerHeight + 5.0
)

// PDF generates a PDF document for the cutting plan: each plate on its own
// page with a scale drawing of its strips and item runs, followed by a
// summary page.
func PDF(path string, sol model.Solution) error {
	if len(sol.Plates) == 0 {
		return fmt.Errorf("no plates to export")
	}

	colors := assignColors(sol)

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	for i, plate := range sol.Plates {
		pdf.AddPage()
		renderPlatePage(pdf, sol, plate, colors, i+1)
	}

	pdf.AddPage()
	renderSummaryPage(pdf, sol)

	return pdf.OutputFileAndClose(path)
}

// assignColors maps item IDs to a color index by order of first appearance,
// so an item keeps the same color on every plate.
func assignColors(sol model.Solution) map[string]itemColor {
	colors := make(map[string]itemColor)
	next := 0
	for _, plate := range sol.Plates {
		for _, strip := range plate.Strips {
			for _, p := range strip.Placements {
				if _, ok := colors[p.Item.ID]; !ok {
					colors[p.Item.ID] = itemColors[next%len(itemColors)]
					next++
				}
			}
		}
	}
	return colors
}

// renderPlatePage draws a single plate on the current PDF page.
func renderPlatePage(pdf *fpdf.Fpdf, sol model.Solution, plate model.Plate, colors map[string]itemColor, plateNum int) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Plate %d of %d (%.0f x %.0f mm)", plateNum, len(sol.Plates), sol.PlateWidth, sol.PlateHeight)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	plateArea := sol.PlateWidth * sol.PlateHeight
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Strips: %d | Units: %d | Used area: %.0f mm² | Plate usage: %.1f%%",
		len(plate.Strips), plate.UnitCount(), plate.UsedArea(), 100*plate.UsedArea()/plateArea)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - legendHeight

	scale := math.Min(drawWidth/sol.PlateWidth, drawHeight/sol.PlateHeight)
	canvasW := sol.PlateWidth * scale
	canvasH := sol.PlateHeight * scale
	offsetX := marginLeft + (drawWidth-canvasW)/2
	offsetY := drawAreaTop

	// Plate background
	pdf.SetFillColor(210, 180, 140)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(offsetX, offsetY, canvasW, canvasH, "FD")

	for _, strip := range plate.Strips {
		// Strip boundary: the horizontal guillotine cut
		pdf.SetDrawColor(160, 120, 90)
		pdf.SetLineWidth(0.2)
		yCut := offsetY + (strip.Y+strip.Height)*scale
		pdf.Line(offsetX, yCut, offsetX+canvasW, yCut)

		for _, p := range strip.Placements {
			col := colors[p.Item.ID]
			for q := 0; q < p.Quantity; q++ {
				px := offsetX + (p.X+float64(q)*p.Item.Width)*scale
				py := offsetY + strip.Y*scale
				pw := p.Item.Width * scale
				ph := p.Item.Height * scale

				pdf.SetFillColor(col.R, col.G, col.B)
				pdf.SetDrawColor(30, 30, 30)
				pdf.SetLineWidth(0.3)
				pdf.Rect(px, py, pw, ph, "FD")

				if pw > 15 && ph > 8 {
					pdf.SetFont("Helvetica", "", labelFontSize(pw, ph))
					pdf.SetTextColor(0, 0, 0)

					label := p.Item.Label
					dims := fmt.Sprintf("%.0fx%.0f", p.Item.Width, p.Item.Height)

					if lw := pdf.GetStringWidth(label); lw < pw-2 {
						pdf.SetXY(px+(pw-lw)/2, py+ph/2-4)
						pdf.CellFormat(lw, 4, label, "", 0, "C", false, 0, "")
					}
					if dw := pdf.GetStringWidth(dims); ph > 14 && dw < pw-2 {
						pdf.SetXY(px+(pw-dw)/2, py+ph/2)
						pdf.CellFormat(dw, 4, dims, "", 0, "C", false, 0, "")
					}
				}
			}
		}
	}

	drawDimensionAnnotations(pdf, sol, scale, offsetX, offsetY, canvasW, canvasH)
	drawLegend(pdf, plate, colors, offsetY+canvasH+5)
}

// drawDimensionAnnotations adds plate dimension labels outside the drawing.
func drawDimensionAnnotations(pdf *fpdf.Fpdf, sol model.Solution, scale, offsetX, offsetY, canvasW, canvasH float64) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)

	widthLabel := fmt.Sprintf("%.0f mm", sol.PlateWidth)
	wLabelW := pdf.GetStringWidth(widthLabel)
	pdf.SetXY(offsetX+(canvasW-wLabelW)/2, offsetY+canvasH+1)
	pdf.CellFormat(wLabelW, 4, widthLabel, "", 0, "C", false, 0, "")

	heightLabel := fmt.Sprintf("%.0f mm", sol.PlateHeight)
	pdf.TransformBegin()
	pdf.TransformRotate(90, offsetX-3, offsetY+canvasH/2)
	hLabelW := pdf.GetStringWidth(heightLabel)
	pdf.SetXY(offsetX-3-hLabelW/2, offsetY+canvasH/2-2)
	pdf.CellFormat(hLabelW, 4, heightLabel, "", 0, "C", false, 0, "")
	pdf.TransformEnd()

	pdf.SetTextColor(0, 0, 0)
}

// drawLegend renders a compact legend of the plate's item runs.
func drawLegend(pdf *fpdf.Fpdf, plate model.Plate, colors map[string]itemColor, startY float64) {
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, startY)
	pdf.CellFormat(30, 4, "Items placed:", "", 0, "L", false, 0, "")

	// One legend entry per item type, quantities summed across strips.
	type legendEntry struct {
		item model.Item
		qty  int
	}
	var entries []legendEntry
	index := make(map[string]int)
	for _, strip := range plate.Strips {
		for _, p := range strip.Placements {
			if i, ok := index[p.Item.ID]; ok {
				entries[i].qty += p.Quantity
			} else {
				index[p.Item.ID] = len(entries)
				entries = append(entries, legendEntry{item: p.Item, qty: p.Quantity})
			}
		}
	}

	pdf.SetFont("Helvetica", "", 7)
	xPos := marginLeft + 32
	maxX := pageWidth - marginRight

	for _, e := range entries {
		col := colors[e.item.ID]
		label := fmt.Sprintf("%s (%.0fx%.0f) x%d", e.item.Label, e.item.Width, e.item.Height, e.qty)
		labelW := pdf.GetStringWidth(label) + 6

		if xPos+labelW > maxX {
			startY += 5
			xPos = marginLeft
		}

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.Rect(xPos, startY+0.5, 3, 3, "F")

		pdf.SetXY(xPos+4, startY)
		pdf.CellFormat(labelW-4, 4, label, "", 0, "L", false, 0, "")

		xPos += labelW + 2
	}
}

// renderSummaryPage draws the final page with overall plan statistics.
func renderSummaryPage(pdf *fpdf.Fpdf, sol model.Solution) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Cutting Plan Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18

	totalUnits := 0
	for _, plate := range sol.Plates {
		totalUnits += plate.UnitCount()
	}

	summaryItems := []struct {
		label string
		value string
	}{
		{"Plates Needed", fmt.Sprintf("%d", sol.PlateCount())},
		{"Plate Size", fmt.Sprintf("%.0f x %.0f mm", sol.PlateWidth, sol.PlateHeight)},
		{"Units Placed", fmt.Sprintf("%d", totalUnits)},
		{"Utilization", fmt.Sprintf("%.2f%%", sol.Utilization*100)},
		{"Waste", fmt.Sprintf("%.2f%%", (1-sol.Utilization)*100)},
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range summaryItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(40, 6, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}

	y += 5

	// Per-plate breakdown table
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Plate Breakdown", "", 0, "L", false, 0, "")
	y += 9

	colWidths := []float64{20, 25, 25, 45, 40}
	headers := []string{"Plate", "Strips", "Units", "Used Area", "Usage"}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	xPos := marginLeft
	for i, header := range headers {
		pdf.SetXY(xPos, y)
		pdf.CellFormat(colWidths[i], 6, header, "1", 0, "C", true, 0, "")
		xPos += colWidths[i]
	}
	y += 6

	plateArea := sol.PlateWidth * sol.PlateHeight
	pdf.SetFont("Helvetica", "", 9)
	for i, plate := range sol.Plates {
		xPos = marginLeft
		rowData := []string{
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("%d", len(plate.Strips)),
			fmt.Sprintf("%d", plate.UnitCount()),
			fmt.Sprintf("%.0f mm²", plate.UsedArea()),
			fmt.Sprintf("%.1f%%", 100*plate.UsedArea()/plateArea),
		}

		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}

		for j, cell := range rowData {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], 6, cell, "1", 0, "C", true, 0, "")
			xPos += colWidths[j]
		}
		y += 6
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by stripcut - Guillotine Cutting Plan Optimizer", "", 0, "C", false, 0, "")
}

// labelFontSize returns an appropriate font size for the rectangle dimensions.
func labelFontSize(w, h float64) float64 {
	minDim := math.Min(w, h)
	switch {
	case minDim > 40:
		return 8
	case minDim > 20:
		return 7
	default:
		return 6
	}
}
