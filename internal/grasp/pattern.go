package grasp

import (
	"math/rand"

	"github.com/dmarins/stripcut/internal/model"
)

// buildPlate stacks strips from the top of a fresh plate until the plate is
// full, demand runs out, or no further strip fits. Each strip consumes its
// tallest item's height of vertical space, so the stack is a valid sequence
// of horizontal guillotine cuts.
//
// An empty plate returned while demand remains means the current state cannot
// make progress; the caller treats that as a failed trial.
func buildPlate(rng *rand.Rand, items []model.Item, demand map[string]int, plateWidth, plateHeight, alpha float64) model.Plate {
	var plate model.Plate
	y := 0.0

	for y < plateHeight && anyDemand(demand) {
		strip := buildStrip(rng, items, demand, plateWidth, plateHeight-y, alpha)
		if len(strip.Placements) == 0 {
			break
		}
		strip.Y = y
		plate.Strips = append(plate.Strips, strip)
		y += strip.Height
	}
	return plate
}

func anyDemand(demand map[string]int) bool {
	for _, d := range demand {
		if d > 0 {
			return true
		}
	}
	return false
}
