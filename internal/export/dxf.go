package export

import (
	"fmt"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/drawing"

	"github.com/dmarins/stripcut/internal/model"
)

// plateGap is the horizontal spacing between plates in DXF model space (mm).
const plateGap = 100.0

// DXF writes the cutting plan as a DXF drawing. Plates are laid out side by
// side in model space, each on its own layer, with the plate outline and one
// rectangle per item unit. Coordinates are in mm with y growing upward, so
// strips are mirrored from the plate's top-origin layout.
func DXF(path string, sol model.Solution) error {
	if len(sol.Plates) == 0 {
		return fmt.Errorf("no plates to export")
	}

	d := dxf.NewDrawing()
	d.Header().LtScale = 1.0

	for i, plate := range sol.Plates {
		layer := fmt.Sprintf("PLATE_%d", i+1)
		if _, err := d.AddLayer(layer, dxf.DefaultColor, dxf.DefaultLineType, true); err != nil {
			return fmt.Errorf("add layer %s: %w", layer, err)
		}

		originX := float64(i) * (sol.PlateWidth + plateGap)
		drawRect(d, originX, 0, sol.PlateWidth, sol.PlateHeight)

		for _, strip := range plate.Strips {
			for _, p := range strip.Placements {
				for q := 0; q < p.Quantity; q++ {
					x := originX + p.X + float64(q)*p.Item.Width
					// Flip y so the first strip sits at the top of the plate.
					y := sol.PlateHeight - strip.Y - p.Item.Height
					drawRect(d, x, y, p.Item.Width, p.Item.Height)
				}
			}
		}
	}

	return d.SaveAs(path)
}

// drawRect draws an axis-aligned rectangle as four LINE entities.
func drawRect(d *drawing.Drawing, x, y, w, h float64) {
	d.Line(x, y, 0, x+w, y, 0)
	d.Line(x+w, y, 0, x+w, y+h, 0)
	d.Line(x+w, y+h, 0, x, y+h, 0)
	d.Line(x, y+h, 0, x, y, 0)
}
