// Package grasp implements a multi-start greedy randomized construction
// search (GRASP) for the two-stage guillotine cutting stock problem: items
// are packed into horizontal strips, strips are stacked into plates, and the
// best of many randomized trials is kept.
package grasp

import (
	"context"
	"fmt"
	"math/rand"
	"runtime"
	"sync"

	"go.uber.org/zap"

	"github.com/dmarins/stripcut/internal/model"
)

// utilizationTolerance bounds the floating comparison between trial
// utilizations; values closer than this are considered equal.
const utilizationTolerance = 1e-9

// Params configures the multi-start search. A fixed greediness is expressed
// as AlphaMin == AlphaMax; otherwise each trial samples alpha uniformly from
// the range.
type Params struct {
	Trials   int     `json:"trials"`
	AlphaMin float64 `json:"alpha_min"`
	AlphaMax float64 `json:"alpha_max"`
	Seed     int64   `json:"seed"`
	Shuffle  bool    `json:"shuffle"` // permute item order per trial
	Workers  int     `json:"workers"` // 0 = NumCPU
}

// DefaultParams returns sensible defaults for typical cut lists.
func DefaultParams() Params {
	return Params{
		Trials:   200,
		AlphaMin: 0.9,
		AlphaMax: 0.9,
		Seed:     1,
		Shuffle:  true,
	}
}

// Validate checks parameter ranges.
func (p Params) Validate() error {
	if p.Trials <= 0 {
		return fmt.Errorf("%w: trials must be positive, got %d", ErrInvalidParameters, p.Trials)
	}
	if p.AlphaMin < 0 || p.AlphaMin > 1 || p.AlphaMax < 0 || p.AlphaMax > 1 {
		return fmt.Errorf("%w: alpha range [%.3f, %.3f] outside [0, 1]", ErrInvalidParameters, p.AlphaMin, p.AlphaMax)
	}
	if p.AlphaMin > p.AlphaMax {
		return fmt.Errorf("%w: alpha_min %.3f greater than alpha_max %.3f", ErrInvalidParameters, p.AlphaMin, p.AlphaMax)
	}
	return nil
}

// Solver runs independent construction trials and keeps the best solution.
type Solver struct {
	params Params
	logger *zap.Logger
}

// New creates a Solver. A nil logger disables logging.
func New(params Params, logger *zap.Logger) *Solver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Solver{params: params, logger: logger}
}

// Solve validates the instance and parameters, then runs Params.Trials
// independent construction trials across a bounded worker pool. Each trial
// owns a fresh demand copy and a rand.Rand seeded from the run seed, so a
// fixed seed reproduces the same solution regardless of how trials are
// scheduled. Trials that get stuck are discarded; the best surviving trial
// wins by utilization, then by fewer plates, then by earliest trial index.
//
// Cancellation is honored at trial boundaries: once the context is done no
// new trial starts, and the best solution found so far (if any) is returned.
func (s *Solver) Solve(ctx context.Context, in model.Instance) (model.Solution, error) {
	if err := s.params.Validate(); err != nil {
		return model.Solution{}, err
	}
	if err := in.Validate(); err != nil {
		return model.Solution{}, fmt.Errorf("%w: %s", ErrInvalidInstance, err)
	}

	// Derive every trial's seed up front from the run seed, so parallel
	// scheduling cannot perturb the random streams.
	seedSrc := rand.New(rand.NewSource(s.params.Seed))
	seeds := make([]int64, s.params.Trials)
	for i := range seeds {
		seeds[i] = seedSrc.Int63()
	}

	demandArea := in.TotalDemandArea()
	plateArea := in.PlateWidth * in.PlateHeight

	var (
		mu        sync.Mutex
		best      model.Solution
		bestTrial = -1
		failures  int
	)

	accept := func(trial int, sol model.Solution) {
		mu.Lock()
		defer mu.Unlock()
		if !better(sol, trial, best, bestTrial) {
			return
		}
		best, bestTrial = sol, trial
		s.logger.Info("trial improved best solution",
			zap.Int("trial", trial+1),
			zap.Int("plates", sol.PlateCount()),
			zap.Float64("utilization", sol.Utilization))
	}

	runTrial := func(trial int) error {
		rng := rand.New(rand.NewSource(seeds[trial]))

		alpha := s.params.AlphaMin
		if s.params.AlphaMax > s.params.AlphaMin {
			alpha = s.params.AlphaMin + rng.Float64()*(s.params.AlphaMax-s.params.AlphaMin)
		}

		items := make([]model.Item, len(in.Items))
		copy(items, in.Items)
		if s.params.Shuffle {
			rng.Shuffle(len(items), func(i, j int) { items[i], items[j] = items[j], items[i] })
		}

		demand := make(map[string]int, len(items))
		remaining := 0
		for _, it := range in.Items {
			demand[it.ID] = it.Demand
			remaining += it.Demand
		}

		var plates []model.Plate
		for remaining > 0 {
			plate := buildPlate(rng, items, demand, in.PlateWidth, in.PlateHeight, alpha)
			placed := plate.UnitCount()
			if placed == 0 {
				return errConstructionInfeasible
			}
			remaining -= placed
			plates = append(plates, plate)
		}

		util := 0.0
		if len(plates) > 0 {
			util = demandArea / (float64(len(plates)) * plateArea)
		}
		accept(trial, model.Solution{
			PlateWidth:  in.PlateWidth,
			PlateHeight: in.PlateHeight,
			Plates:      plates,
			Utilization: util,
		})
		return nil
	}

	workers := s.params.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > s.params.Trials {
		workers = s.params.Trials
	}

	trialCh := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for trial := range trialCh {
				if err := runTrial(trial); err != nil {
					mu.Lock()
					failures++
					mu.Unlock()
				}
			}
		}()
	}

dispatch:
	for trial := 0; trial < s.params.Trials; trial++ {
		if ctx.Err() != nil {
			break
		}
		select {
		case trialCh <- trial:
		case <-ctx.Done():
			break dispatch
		}
	}
	close(trialCh)
	wg.Wait()

	if bestTrial < 0 {
		if err := ctx.Err(); err != nil {
			return model.Solution{}, err
		}
		return model.Solution{}, fmt.Errorf("%w: all %d trials failed", ErrInfeasible, failures)
	}
	return best, nil
}

// better decides whether a candidate trial replaces the incumbent: strictly
// higher utilization wins; equal utilization with strictly fewer plates wins;
// remaining ties keep the earliest trial, which also makes concurrent runs
// independent of completion order.
func better(sol model.Solution, trial int, best model.Solution, bestTrial int) bool {
	if bestTrial < 0 {
		return true
	}
	if sol.Utilization > best.Utilization+utilizationTolerance {
		return true
	}
	if sol.Utilization < best.Utilization-utilizationTolerance {
		return false
	}
	if sol.PlateCount() != best.PlateCount() {
		return sol.PlateCount() < best.PlateCount()
	}
	return trial < bestTrial
}
