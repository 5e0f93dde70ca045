package grasp

import (
	"context"

	"go.uber.org/zap"

	"github.com/dmarins/stripcut/internal/model"
)

// ComparisonScenario defines a named parameter set to compare.
type ComparisonScenario struct {
	Name   string
	Params Params
}

// ComparisonResult holds the solver outcome and computed statistics for a
// single scenario. Err is set when the scenario could not produce a plan.
type ComparisonResult struct {
	Scenario     ComparisonScenario
	Solution     model.Solution
	PlatesUsed   int
	TotalRuns    int
	WastePercent float64
	Err          error
}

// CompareScenarios solves the same instance under each scenario and returns
// the results in scenario order, for side-by-side comparison of parameter
// choices (alpha range, shuffling, trial count).
func CompareScenarios(ctx context.Context, in model.Instance, scenarios []ComparisonScenario, logger *zap.Logger) []ComparisonResult {
	results := make([]ComparisonResult, 0, len(scenarios))

	for _, scenario := range scenarios {
		sol, err := New(scenario.Params, logger).Solve(ctx, in)
		if err != nil {
			results = append(results, ComparisonResult{Scenario: scenario, Err: err})
			continue
		}

		totalRuns := 0
		for _, plate := range sol.Plates {
			for _, strip := range plate.Strips {
				totalRuns += len(strip.Placements)
			}
		}

		results = append(results, ComparisonResult{
			Scenario:     scenario,
			Solution:     sol,
			PlatesUsed:   sol.PlateCount(),
			TotalRuns:    totalRuns,
			WastePercent: 100 * (1 - sol.Utilization),
		})
	}

	return results
}

// BuildDefaultScenarios generates what-if alternatives around a base
// parameter set, varying the greediness and the item ordering.
func BuildDefaultScenarios(base Params) []ComparisonScenario {
	scenarios := []ComparisonScenario{
		{Name: "Current Settings", Params: base},
	}

	if base.AlphaMin < 1 || base.AlphaMax < 1 {
		greedy := base
		greedy.AlphaMin = 1
		greedy.AlphaMax = 1
		scenarios = append(scenarios, ComparisonScenario{
			Name:   "Pure Greedy",
			Params: greedy,
		})
	}

	if base.AlphaMin > 0.5 {
		broad := base
		broad.AlphaMin = 0.5
		broad.AlphaMax = 1.0
		scenarios = append(scenarios, ComparisonScenario{
			Name:   "Broad Alpha 0.5-1.0",
			Params: broad,
		})
	}

	if base.Shuffle {
		fixed := base
		fixed.Shuffle = false
		scenarios = append(scenarios, ComparisonScenario{
			Name:   "Fixed Item Order",
			Params: fixed,
		})
	}

	return scenarios
}
