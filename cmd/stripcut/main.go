// stripcut — guillotine cutting plan optimizer
//
// Computes a near-optimal two-stage guillotine cutting plan for a list of
// rectangular items and a fixed stock plate size, using a multi-start
// greedy randomized construction search.
//
// Build:
//
//	go build -o stripcut ./cmd/stripcut
//
// Usage:
//
//	stripcut --items parts.csv --plate-width 2440 --plate-height 1220 \
//	         --trials 500 --alpha 0.9 --pdf plan.pdf
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/dmarins/stripcut/internal/config"
	"github.com/dmarins/stripcut/internal/export"
	"github.com/dmarins/stripcut/internal/grasp"
	"github.com/dmarins/stripcut/internal/importer"
	"github.com/dmarins/stripcut/internal/logging"
	"github.com/dmarins/stripcut/internal/model"
	"github.com/dmarins/stripcut/internal/project"
)

func main() {
	app := kingpin.New("stripcut", "Guillotine cutting plan optimizer - packs rectangular items into stock plates with minimal waste")

	configFile := app.Flag("config", "Path to YAML configuration file").String()
	itemsFile := app.Flag("items", "Item list file (.csv or .xlsx)").String()
	plateWidth := app.Flag("plate-width", "Stock plate width in mm").Float64()
	plateHeight := app.Flag("plate-height", "Stock plate height in mm").Float64()
	trials := app.Flag("trials", "Number of construction trials").Int()
	alpha := app.Flag("alpha", "Fixed greediness in [0,1]; 1 = pure greedy").Default("-1").Float64()
	alphaMin := app.Flag("alpha-min", "Lower bound of the sampled greediness range").Default("-1").Float64()
	alphaMax := app.Flag("alpha-max", "Upper bound of the sampled greediness range").Default("-1").Float64()
	seed := app.Flag("seed", "Random seed for reproducible runs").Default("-1").Int64()
	workers := app.Flag("workers", "Concurrent trial workers (0 = all CPUs)").Int()
	noShuffle := app.Flag("no-shuffle", "Disable per-trial item order permutation").Bool()
	compare := app.Flag("compare", "Also solve under what-if parameter variants and report the comparison").Bool()
	verbose := app.Flag("verbose", "Human-friendly debug logging").Short('v').Bool()

	pdfOut := app.Flag("pdf", "Write the plan as a PDF drawing").String()
	dxfOut := app.Flag("dxf", "Write the plan as a DXF drawing").String()
	xlsxOut := app.Flag("xlsx", "Write the cut list as an XLSX workbook").String()
	labelsOut := app.Flag("labels", "Write QR-coded run labels as a PDF").String()
	saveOut := app.Flag("save", "Save instance, parameters and solution as a project JSON").String()
	name := app.Flag("name", "Project name used when saving").Default("Untitled").String()

	kingpin.MustParse(app.Parse(os.Args[1:]))

	logger, err := logging.New(*verbose)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer func() {
		_ = logger.Sync()
	}()

	overrides := &config.CLIOverrides{ConfigFile: *configFile}
	if *plateWidth > 0 {
		overrides.PlateWidth = plateWidth
	}
	if *plateHeight > 0 {
		overrides.PlateHeight = plateHeight
	}
	if *trials > 0 {
		overrides.Trials = trials
	}
	if *alpha >= 0 {
		overrides.Alpha = alpha
	}
	if *alphaMin >= 0 {
		overrides.AlphaMin = alphaMin
	}
	if *alphaMax >= 0 {
		overrides.AlphaMax = alphaMax
	}
	if *seed >= 0 {
		overrides.Seed = seed
	}
	if *workers > 0 {
		overrides.Workers = workers
	}
	if *noShuffle {
		overrides.NoShuffle = noShuffle
	}

	cfg, err := config.Load(overrides)
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	instance := cfg.Instance()
	if *itemsFile != "" {
		items, err := loadItems(*itemsFile, logger)
		if err != nil {
			logger.Fatal("failed to load items", zap.Error(err))
		}
		instance.Items = items
	}
	if len(instance.Items) == 0 {
		logger.Fatal("no items given; use --items or list items in the config file")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	solver := grasp.New(cfg.Params, logger)

	logger.Info("starting search",
		zap.Int("items", len(instance.Items)),
		zap.Int("units", instance.TotalDemand()),
		zap.Float64("plate_width", instance.PlateWidth),
		zap.Float64("plate_height", instance.PlateHeight),
		zap.Int("trials", cfg.Params.Trials))

	solution, err := solver.Solve(ctx, instance)
	if err != nil {
		logger.Fatal("search failed", zap.Error(err))
	}

	logger.Info("search finished",
		zap.Int("plates", solution.PlateCount()),
		zap.Float64("utilization", solution.Utilization),
		zap.Float64("waste", 1-solution.Utilization))

	if *compare {
		scenarios := grasp.BuildDefaultScenarios(cfg.Params)
		for _, r := range grasp.CompareScenarios(ctx, instance, scenarios, zap.NewNop()) {
			if r.Err != nil {
				logger.Warn("scenario failed",
					zap.String("scenario", r.Scenario.Name),
					zap.Error(r.Err))
				continue
			}
			logger.Info("scenario result",
				zap.String("scenario", r.Scenario.Name),
				zap.Int("plates", r.PlatesUsed),
				zap.Int("runs", r.TotalRuns),
				zap.Float64("waste_percent", r.WastePercent))
		}
	}

	if *pdfOut != "" {
		if err := export.PDF(*pdfOut, solution); err != nil {
			logger.Fatal("PDF export failed", zap.Error(err))
		}
		logger.Info("wrote PDF", zap.String("path", *pdfOut))
	}
	if *dxfOut != "" {
		if err := export.DXF(*dxfOut, solution); err != nil {
			logger.Fatal("DXF export failed", zap.Error(err))
		}
		logger.Info("wrote DXF", zap.String("path", *dxfOut))
	}
	if *xlsxOut != "" {
		if err := export.XLSX(*xlsxOut, solution); err != nil {
			logger.Fatal("XLSX export failed", zap.Error(err))
		}
		logger.Info("wrote XLSX", zap.String("path", *xlsxOut))
	}
	if *labelsOut != "" {
		if err := export.Labels(*labelsOut, solution); err != nil {
			logger.Fatal("label export failed", zap.Error(err))
		}
		logger.Info("wrote labels", zap.String("path", *labelsOut))
	}
	if *saveOut != "" {
		p := project.Project{
			Name:     *name,
			Instance: instance,
			Params:   cfg.Params,
			Solution: &solution,
		}
		if err := project.Save(*saveOut, p); err != nil {
			logger.Fatal("project save failed", zap.Error(err))
		}
		logger.Info("saved project", zap.String("path", *saveOut))
	}
}

// loadItems reads the item catalog from a CSV or XLSX file, logging importer
// warnings and failing on importer errors.
func loadItems(path string, logger *zap.Logger) ([]model.Item, error) {
	result := importer.Import(path)
	for _, w := range result.Warnings {
		logger.Warn("import warning", zap.String("detail", w))
	}
	if len(result.Errors) > 0 {
		return nil, fmt.Errorf("%d import error(s), first: %s", len(result.Errors), result.Errors[0])
	}
	return result.Items, nil
}
