package model

import (
	"fmt"

	"github.com/google/uuid"
)

// Item represents a rectangular item type to be cut from stock plates.
// Items are immutable once constructed and shared read-only across all
// solver trials.
type Item struct {
	ID     string  `json:"id"`
	Label  string  `json:"label"`
	Width  float64 `json:"width"`  // mm
	Height float64 `json:"height"` // mm
	Demand int     `json:"demand"` // required quantity across the whole solution
}

func NewItem(label string, w, h float64, demand int) Item {
	return Item{
		ID:     uuid.New().String()[:8],
		Label:  label,
		Width:  w,
		Height: h,
		Demand: demand,
	}
}

// Area returns the item area in mm².
func (it Item) Area() float64 {
	return it.Width * it.Height
}

// Instance describes one cutting problem: a plate size and the item catalog.
type Instance struct {
	PlateWidth  float64 `json:"plate_width"`  // mm
	PlateHeight float64 `json:"plate_height"` // mm
	Items       []Item  `json:"items"`
}

// Validate reports whether the instance is satisfiable at all. An item wider
// or taller than the plate can never be placed, regardless of algorithm, so
// this is checked eagerly before any trial runs.
func (in Instance) Validate() error {
	if in.PlateWidth <= 0 || in.PlateHeight <= 0 {
		return fmt.Errorf("plate dimensions must be positive, got %.2f x %.2f", in.PlateWidth, in.PlateHeight)
	}
	seen := make(map[string]bool, len(in.Items))
	for _, it := range in.Items {
		if it.ID == "" {
			return fmt.Errorf("item %q has an empty ID", it.Label)
		}
		if seen[it.ID] {
			return fmt.Errorf("duplicate item ID %q", it.ID)
		}
		seen[it.ID] = true
		if it.Width <= 0 || it.Height <= 0 {
			return fmt.Errorf("item %q has non-positive dimensions %.2f x %.2f", it.Label, it.Width, it.Height)
		}
		if it.Demand < 0 {
			return fmt.Errorf("item %q has negative demand %d", it.Label, it.Demand)
		}
		if it.Width > in.PlateWidth {
			return fmt.Errorf("item %q width %.2f exceeds plate width %.2f", it.Label, it.Width, in.PlateWidth)
		}
		if it.Height > in.PlateHeight {
			return fmt.Errorf("item %q height %.2f exceeds plate height %.2f", it.Label, it.Height, in.PlateHeight)
		}
	}
	return nil
}

// TotalDemandArea returns the total area of all demanded items. This is a
// constant of the instance, independent of any particular solution.
func (in Instance) TotalDemandArea() float64 {
	var total float64
	for _, it := range in.Items {
		total += it.Area() * float64(it.Demand)
	}
	return total
}

// TotalDemand returns the total number of item units to be produced.
func (in Instance) TotalDemand() int {
	total := 0
	for _, it := range in.Items {
		total += it.Demand
	}
	return total
}

// Placement represents a run of identical items laid edge to edge within a
// strip: Quantity copies of Item starting at offset X, each advancing by
// Item.Width along x.
type Placement struct {
	Item     Item    `json:"item"`
	Quantity int     `json:"quantity"`
	X        float64 `json:"x"` // offset from plate left edge (mm)
}

// RunWidth returns the total width consumed by the run.
func (p Placement) RunWidth() float64 {
	return float64(p.Quantity) * p.Item.Width
}

// Strip is one horizontal band of a plate. All placements share the strip's
// y offset; the strip height is the tallest item it contains.
type Strip struct {
	Y          float64     `json:"y"` // offset from plate top edge (mm)
	Height     float64     `json:"height"`
	Placements []Placement `json:"placements"`
}

// UsedWidth returns the total width consumed by all runs in the strip.
func (s Strip) UsedWidth() float64 {
	var total float64
	for _, p := range s.Placements {
		total += p.RunWidth()
	}
	return total
}

// Plate is one stock sheet's cutting pattern: a stack of strips.
type Plate struct {
	Strips []Strip `json:"strips"`
}

// UsedHeight returns the total height consumed by the stacked strips.
func (pl Plate) UsedHeight() float64 {
	var total float64
	for _, s := range pl.Strips {
		total += s.Height
	}
	return total
}

// UsedArea returns the total item area placed on the plate.
func (pl Plate) UsedArea() float64 {
	var total float64
	for _, s := range pl.Strips {
		for _, p := range s.Placements {
			total += float64(p.Quantity) * p.Item.Area()
		}
	}
	return total
}

// UnitCount returns the number of item units placed on the plate.
func (pl Plate) UnitCount() int {
	total := 0
	for _, s := range pl.Strips {
		for _, p := range s.Placements {
			total += p.Quantity
		}
	}
	return total
}

// Solution holds the full cutting plan: the plates in production order plus
// the plate dimensions they were built for.
type Solution struct {
	PlateWidth  float64 `json:"plate_width"`
	PlateHeight float64 `json:"plate_height"`
	Plates      []Plate `json:"plates"`
	Utilization float64 `json:"utilization"` // fraction of plate area consumed by items
}

// PlateCount returns the number of plates in the solution.
func (sol Solution) PlateCount() int {
	return len(sol.Plates)
}

// RecomputeUtilization derives the utilization fraction from the placed
// plates alone, independent of the value stored on the solution.
func (sol Solution) RecomputeUtilization() float64 {
	if len(sol.Plates) == 0 {
		return 0
	}
	var used float64
	for _, pl := range sol.Plates {
		used += pl.UsedArea()
	}
	return used / (float64(len(sol.Plates)) * sol.PlateWidth * sol.PlateHeight)
}

// PlacedQuantities returns the total placed quantity per item ID across all
// plates.
func (sol Solution) PlacedQuantities() map[string]int {
	counts := make(map[string]int)
	for _, pl := range sol.Plates {
		for _, s := range pl.Strips {
			for _, p := range s.Placements {
				counts[p.Item.ID] += p.Quantity
			}
		}
	}
	return counts
}

// Check verifies the structural invariants of the solution against the
// instance it was built from: exact demand coverage, in-bounds placements,
// disjoint runs within each strip, and strip heights matching the tallest
// placed item. It returns the first violation found.
func (sol Solution) Check(in Instance) error {
	placed := sol.PlacedQuantities()
	for _, it := range in.Items {
		if placed[it.ID] != it.Demand {
			return fmt.Errorf("item %q: placed %d, demand %d", it.Label, placed[it.ID], it.Demand)
		}
	}
	for pi, pl := range sol.Plates {
		y := 0.0
		for si, s := range pl.Strips {
			if s.Y != y {
				return fmt.Errorf("plate %d strip %d: y offset %.2f, want %.2f", pi, si, s.Y, y)
			}
			x := 0.0
			height := 0.0
			for _, p := range s.Placements {
				if p.Quantity <= 0 {
					return fmt.Errorf("plate %d strip %d: run of quantity %d", pi, si, p.Quantity)
				}
				if p.X < x-1e-9 {
					return fmt.Errorf("plate %d strip %d: run at x=%.2f overlaps previous run ending at %.2f", pi, si, p.X, x)
				}
				x = p.X + p.RunWidth()
				if p.Item.Height > height {
					height = p.Item.Height
				}
			}
			if x > sol.PlateWidth+1e-9 {
				return fmt.Errorf("plate %d strip %d: runs extend to %.2f beyond plate width %.2f", pi, si, x, sol.PlateWidth)
			}
			if len(s.Placements) > 0 && s.Height != height {
				return fmt.Errorf("plate %d strip %d: height %.2f, tallest item %.2f", pi, si, s.Height, height)
			}
			y += s.Height
		}
		if y > sol.PlateHeight+1e-9 {
			return fmt.Errorf("plate %d: strips stack to %.2f beyond plate height %.2f", pi, y, sol.PlateHeight)
		}
	}
	return nil
}
