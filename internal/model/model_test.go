package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewItem_AssignsUniqueIDs(t *testing.T) {
	a := NewItem("A", 100, 50, 2)
	b := NewItem("A", 100, 50, 2)

	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, "A", a.Label)
	assert.Equal(t, 5000.0, a.Area())
}

func TestInstanceValidate_AcceptsWellFormedInstance(t *testing.T) {
	in := Instance{
		PlateWidth:  2440,
		PlateHeight: 1220,
		Items: []Item{
			NewItem("Shelf", 600, 300, 4),
			NewItem("Side", 800, 400, 2),
		},
	}
	assert.NoError(t, in.Validate())
}

func TestInstanceValidate_RejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		in   Instance
	}{
		{
			name: "zero plate width",
			in:   Instance{PlateWidth: 0, PlateHeight: 1000},
		},
		{
			name: "negative plate height",
			in:   Instance{PlateWidth: 1000, PlateHeight: -5},
		},
		{
			name: "empty item ID",
			in: Instance{PlateWidth: 1000, PlateHeight: 1000,
				Items: []Item{{Label: "A", Width: 10, Height: 10, Demand: 1}}},
		},
		{
			name: "duplicate item ID",
			in: Instance{PlateWidth: 1000, PlateHeight: 1000,
				Items: []Item{
					{ID: "x", Label: "A", Width: 10, Height: 10, Demand: 1},
					{ID: "x", Label: "B", Width: 20, Height: 20, Demand: 1},
				}},
		},
		{
			name: "non-positive item width",
			in: Instance{PlateWidth: 1000, PlateHeight: 1000,
				Items: []Item{{ID: "a", Label: "A", Width: 0, Height: 10, Demand: 1}}},
		},
		{
			name: "negative demand",
			in: Instance{PlateWidth: 1000, PlateHeight: 1000,
				Items: []Item{{ID: "a", Label: "A", Width: 10, Height: 10, Demand: -1}}},
		},
		{
			name: "item wider than plate",
			in: Instance{PlateWidth: 1000, PlateHeight: 1000,
				Items: []Item{{ID: "a", Label: "A", Width: 1001, Height: 10, Demand: 1}}},
		},
		{
			name: "item taller than plate",
			in: Instance{PlateWidth: 1000, PlateHeight: 1000,
				Items: []Item{{ID: "a", Label: "A", Width: 10, Height: 1001, Demand: 1}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.in.Validate())
		})
	}
}

func TestInstanceValidate_ZeroDemandIsAllowed(t *testing.T) {
	in := Instance{PlateWidth: 1000, PlateHeight: 1000,
		Items: []Item{{ID: "a", Label: "A", Width: 10, Height: 10, Demand: 0}}}
	assert.NoError(t, in.Validate())
}

func TestInstance_TotalDemandArea(t *testing.T) {
	in := Instance{
		PlateWidth:  1000,
		PlateHeight: 1000,
		Items: []Item{
			{ID: "a", Width: 10, Height: 5, Demand: 2},  // 100
			{ID: "b", Width: 20, Height: 20, Demand: 3}, // 1200
		},
	}
	assert.Equal(t, 1300.0, in.TotalDemandArea())
	assert.Equal(t, 5, in.TotalDemand())
}

func TestPlacement_RunWidth(t *testing.T) {
	p := Placement{Item: Item{Width: 150}, Quantity: 4}
	assert.Equal(t, 600.0, p.RunWidth())
}

func TestStrip_UsedWidth(t *testing.T) {
	s := Strip{Placements: []Placement{
		{Item: Item{Width: 100}, Quantity: 2},
		{Item: Item{Width: 50}, Quantity: 3},
	}}
	assert.Equal(t, 350.0, s.UsedWidth())
}

func TestPlate_Metrics(t *testing.T) {
	pl := Plate{Strips: []Strip{
		{Height: 300, Placements: []Placement{{Item: Item{Width: 600, Height: 300}, Quantity: 2}}},
		{Height: 200, Placements: []Placement{{Item: Item{Width: 400, Height: 200}, Quantity: 1}}},
	}}

	assert.Equal(t, 500.0, pl.UsedHeight())
	assert.Equal(t, 2*600*300.0+400*200.0, pl.UsedArea())
	assert.Equal(t, 3, pl.UnitCount())
}

// twoPlateSolution builds a known-good plan used by the invariant tests:
// one 10x10 plate holding 2x(10x5) stacked, another holding 4x(5x5) in two
// strips.
func twoPlateSolution() (Instance, Solution) {
	a := Item{ID: "a", Label: "A", Width: 10, Height: 5, Demand: 2}
	b := Item{ID: "b", Label: "B", Width: 5, Height: 5, Demand: 4}
	in := Instance{PlateWidth: 10, PlateHeight: 10, Items: []Item{a, b}}

	sol := Solution{
		PlateWidth:  10,
		PlateHeight: 10,
		Plates: []Plate{
			{Strips: []Strip{
				{Y: 0, Height: 5, Placements: []Placement{{Item: a, Quantity: 1, X: 0}}},
				{Y: 5, Height: 5, Placements: []Placement{{Item: a, Quantity: 1, X: 0}}},
			}},
			{Strips: []Strip{
				{Y: 0, Height: 5, Placements: []Placement{{Item: b, Quantity: 2, X: 0}}},
				{Y: 5, Height: 5, Placements: []Placement{{Item: b, Quantity: 2, X: 0}}},
			}},
		},
		Utilization: 1.0,
	}
	return in, sol
}

func TestSolutionCheck_AcceptsValidPlan(t *testing.T) {
	in, sol := twoPlateSolution()
	require.NoError(t, sol.Check(in))
	assert.Equal(t, 2, sol.PlateCount())
	assert.InDelta(t, 1.0, sol.RecomputeUtilization(), 1e-12)
}

func TestSolutionCheck_DetectsDemandMismatch(t *testing.T) {
	in, sol := twoPlateSolution()
	sol.Plates[0].Strips[0].Placements[0].Quantity = 2 // overproduces item A
	sol.Plates[0].Strips[0].Placements[0].X = 0
	err := sol.Check(in)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "demand")
}

func TestSolutionCheck_DetectsWidthOverflow(t *testing.T) {
	in, sol := twoPlateSolution()
	sol.Plates[1].Strips[0].Placements[0].Quantity = 4
	err := sol.Check(in)
	require.Error(t, err)
}

func TestSolutionCheck_DetectsWrongStripOffset(t *testing.T) {
	in, sol := twoPlateSolution()
	sol.Plates[0].Strips[1].Y = 4
	err := sol.Check(in)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "y offset")
}

func TestSolutionCheck_DetectsWrongStripHeight(t *testing.T) {
	in, sol := twoPlateSolution()
	sol.Plates[0].Strips[0].Height = 6
	assert.Error(t, sol.Check(in))
}

func TestSolutionCheck_DetectsZeroQuantityRun(t *testing.T) {
	in, sol := twoPlateSolution()
	sol.Plates[0].Strips[0].Placements[0].Quantity = 0
	assert.Error(t, sol.Check(in))
}

func TestSolution_RecomputeUtilization_EmptyPlanIsZero(t *testing.T) {
	sol := Solution{PlateWidth: 10, PlateHeight: 10}
	assert.Equal(t, 0.0, sol.RecomputeUtilization())
	assert.Equal(t, 0, sol.PlateCount())
}

func TestSolution_PlacedQuantities(t *testing.T) {
	_, sol := twoPlateSolution()
	counts := sol.PlacedQuantities()
	assert.Equal(t, 2, counts["a"])
	assert.Equal(t, 4, counts["b"])
}
