package grasp

import (
	"math/rand"

	"github.com/dmarins/stripcut/internal/model"
)

// buildStrip fills one horizontal strip with greedy-randomized item runs.
// It repeatedly filters the catalog down to items that still have demand and
// fit both the remaining width and the height ceiling, ranks them by area,
// and draws uniformly from the restricted candidate list: the viable items
// whose area is at least alpha times the best viable area. alpha = 1 is pure
// greedy (random tie-break among equals), alpha = 0 is uniform over all
// viable items.
//
// The demand map is decremented in place for every run emitted. The returned
// strip may be empty when nothing viable fits.
func buildStrip(rng *rand.Rand, items []model.Item, demand map[string]int, plateWidth, ceiling, alpha float64) model.Strip {
	var strip model.Strip
	used := 0.0

	for {
		var viable []model.Item
		beta := 0.0
		for _, it := range items {
			if demand[it.ID] <= 0 || it.Width > plateWidth-used || it.Height > ceiling {
				continue
			}
			viable = append(viable, it)
			if a := it.Area(); a > beta {
				beta = a
			}
		}
		if len(viable) == 0 {
			return strip
		}

		var rcl []model.Item
		for _, it := range viable {
			if it.Area() >= alpha*beta {
				rcl = append(rcl, it)
			}
		}

		chosen := rcl[rng.Intn(len(rcl))]
		qty := int((plateWidth - used) / chosen.Width)
		if d := demand[chosen.ID]; d < qty {
			qty = d
		}
		if qty <= 0 {
			// Termination guard: never emit an empty run, and never retry
			// from the same state.
			return strip
		}

		strip.Placements = append(strip.Placements, model.Placement{
			Item:     chosen,
			Quantity: qty,
			X:        used,
		})
		if chosen.Height > strip.Height {
			strip.Height = chosen.Height
		}
		demand[chosen.ID] -= qty
		used += float64(qty) * chosen.Width
	}
}
