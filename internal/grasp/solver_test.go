package grasp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmarins/stripcut/internal/model"
)

func testInstance() model.Instance {
	return model.Instance{
		PlateWidth:  10,
		PlateHeight: 10,
		Items: []model.Item{
			{ID: "a", Label: "A", Width: 10, Height: 5, Demand: 2},
			{ID: "b", Label: "B", Width: 5, Height: 5, Demand: 4},
		},
	}
}

func testParams() Params {
	p := DefaultParams()
	p.Trials = 50
	p.AlphaMin = 0.8
	p.AlphaMax = 1.0
	p.Seed = 42
	return p
}

func TestParamsValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Params)
		wantErr bool
	}{
		{"defaults are valid", func(p *Params) {}, false},
		{"zero trials", func(p *Params) { p.Trials = 0 }, true},
		{"negative trials", func(p *Params) { p.Trials = -3 }, true},
		{"alpha min below zero", func(p *Params) { p.AlphaMin = -0.1 }, true},
		{"alpha max above one", func(p *Params) { p.AlphaMax = 1.5 }, true},
		{"inverted alpha range", func(p *Params) { p.AlphaMin = 0.9; p.AlphaMax = 0.5 }, true},
		{"full alpha range", func(p *Params) { p.AlphaMin = 0; p.AlphaMax = 1 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.mutate(&p)
			err := p.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidParameters)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSolve_RejectsInvalidParameters(t *testing.T) {
	p := testParams()
	p.Trials = 0
	s := New(p, nil)

	_, err := s.Solve(context.Background(), testInstance())
	assert.ErrorIs(t, err, ErrInvalidParameters)
}

func TestSolve_RejectsInvalidInstance(t *testing.T) {
	s := New(testParams(), nil)

	in := testInstance()
	in.Items[0].Width = 11 // wider than the plate

	_, err := s.Solve(context.Background(), in)
	assert.ErrorIs(t, err, ErrInvalidInstance)
}

func TestSolve_PerfectPackingScenario(t *testing.T) {
	// Plate 10x10, item A 10x5 demand 2, item B 5x5 demand 4. Total item area
	// equals exactly two plates, and a two-plate zero-waste plan exists. With
	// a high alpha range the search finds it reliably.
	in := testInstance()
	s := New(testParams(), nil)

	sol, err := s.Solve(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, 2, sol.PlateCount())
	assert.InDelta(t, 1.0, sol.Utilization, 1e-9)
	assert.NoError(t, sol.Check(in))
}

func TestSolve_SatisfiesDemandExactly(t *testing.T) {
	in := model.Instance{
		PlateWidth:  2440,
		PlateHeight: 1220,
		Items: []model.Item{
			{ID: "shelf", Label: "Shelf", Width: 764, Height: 300, Demand: 12},
			{ID: "side", Label: "Side", Width: 800, Height: 400, Demand: 5},
			{ID: "back", Label: "Back", Width: 1200, Height: 600, Demand: 3},
			{ID: "door", Label: "Door", Width: 396, Height: 717, Demand: 7},
		},
	}
	s := New(testParams(), nil)

	sol, err := s.Solve(context.Background(), in)
	require.NoError(t, err)
	require.NoError(t, sol.Check(in))

	placed := sol.PlacedQuantities()
	for _, it := range in.Items {
		assert.Equal(t, it.Demand, placed[it.ID], "item %s", it.Label)
	}
	assert.InDelta(t, sol.RecomputeUtilization(), sol.Utilization, 1e-9)
}

func TestSolve_SameSeedSameSolution(t *testing.T) {
	in := model.Instance{
		PlateWidth:  2440,
		PlateHeight: 1220,
		Items: []model.Item{
			{ID: "a", Label: "A", Width: 600, Height: 300, Demand: 9},
			{ID: "b", Label: "B", Width: 450, Height: 350, Demand: 6},
			{ID: "c", Label: "C", Width: 1100, Height: 500, Demand: 4},
		},
	}
	p := testParams()

	first, err := New(p, nil).Solve(context.Background(), in)
	require.NoError(t, err)
	second, err := New(p, nil).Solve(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestSolve_WorkerCountDoesNotAffectResult(t *testing.T) {
	// The winning trial is picked by utilization, plate count, then trial
	// index, and every trial has its own seeded random stream, so the result
	// must not depend on how the trials were scheduled.
	in := model.Instance{
		PlateWidth:  2440,
		PlateHeight: 1220,
		Items: []model.Item{
			{ID: "a", Label: "A", Width: 600, Height: 300, Demand: 9},
			{ID: "b", Label: "B", Width: 450, Height: 350, Demand: 6},
			{ID: "c", Label: "C", Width: 1100, Height: 500, Demand: 4},
		},
	}

	serial := testParams()
	serial.Workers = 1
	parallel := testParams()
	parallel.Workers = 8

	a, err := New(serial, nil).Solve(context.Background(), in)
	require.NoError(t, err)
	b, err := New(parallel, nil).Solve(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestSolve_ZeroDemandYieldsEmptyPlan(t *testing.T) {
	in := model.Instance{
		PlateWidth:  1000,
		PlateHeight: 1000,
		Items: []model.Item{
			{ID: "a", Label: "A", Width: 100, Height: 100, Demand: 0},
		},
	}
	s := New(testParams(), nil)

	sol, err := s.Solve(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, 0, sol.PlateCount())
	assert.Equal(t, 0.0, sol.Utilization)
}

func TestSolve_CancelledContextBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := New(testParams(), nil)
	_, err := s.Solve(ctx, testInstance())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSolve_SingleTrialPureGreedy(t *testing.T) {
	p := Params{Trials: 1, AlphaMin: 1, AlphaMax: 1, Seed: 7, Shuffle: false, Workers: 1}
	in := testInstance()

	sol, err := New(p, nil).Solve(context.Background(), in)
	require.NoError(t, err)
	assert.NoError(t, sol.Check(in))
}

func TestBetter_TieBreaks(t *testing.T) {
	two := model.Solution{Plates: make([]model.Plate, 2), Utilization: 0.9}
	three := model.Solution{Plates: make([]model.Plate, 3), Utilization: 0.9}
	low := model.Solution{Plates: make([]model.Plate, 2), Utilization: 0.5}

	// anything beats an empty incumbent
	assert.True(t, better(low, 5, model.Solution{}, -1))

	// higher utilization wins regardless of plate count
	assert.True(t, better(two, 9, low, 0))
	assert.False(t, better(low, 0, two, 9))

	// equal utilization, fewer plates wins
	assert.True(t, better(two, 9, three, 0))
	assert.False(t, better(three, 0, two, 9))

	// full tie keeps the earliest trial
	assert.True(t, better(two, 1, two, 5))
	assert.False(t, better(two, 5, two, 1))
}
