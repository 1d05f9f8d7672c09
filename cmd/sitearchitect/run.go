package main

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/EngineerAnishSharma/SiteArchitect/internal/server"
	"github.com/EngineerAnishSharma/SiteArchitect/internal/storage"
	"github.com/EngineerAnishSharma/SiteArchitect/pkg/analytics"
	"github.com/EngineerAnishSharma/SiteArchitect/pkg/evolve"
	"github.com/EngineerAnishSharma/SiteArchitect/pkg/export"
	"github.com/EngineerAnishSharma/SiteArchitect/pkg/layout"
	"github.com/EngineerAnishSharma/SiteArchitect/pkg/render"
	"github.com/EngineerAnishSharma/SiteArchitect/pkg/site"
	"github.com/EngineerAnishSharma/SiteArchitect/pkg/validation"
)

// loadAndValidate loads the site configuration and runs schema validation.
func loadAndValidate(projectPath string) (*site.Config, *validation.Report, error) {
	cfg, err := site.LoadProject(projectPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading site config: %w", err)
	}
	return cfg, validation.ValidateSchema(cfg), nil
}

func (f *batchFlags) options() layout.Options {
	return layout.Options{
		MinBuildings:        f.minBuildings,
		MaxBuildings:        f.maxBuildings,
		AttemptsPerBuilding: f.attemptsPerBuilding,
		FillExtra:           f.fillExtra,
	}
}

func (f *evolveFlags) evolveOptions() evolve.Options {
	return evolve.Options{
		Generations:    f.generations,
		PopulationSize: f.populationSize,
		MutationRate:   f.mutationRate,
	}
}

// scoredLayout is one ranked output layout with its derived statistics.
type scoredLayout struct {
	Layout layout.Layout
	Stats  layout.Stats
	Score  float64
}

func runGenerate(projectPath string, flags batchFlags, logger *log.Logger) error {
	cfg, schemaReport, err := loadAndValidate(projectPath)
	if err != nil {
		return err
	}
	if !schemaReport.Valid {
		printValidationReport(schemaReport)
		return fmt.Errorf("site configuration has validation errors")
	}

	rng := rand.New(rand.NewSource(flags.seed))
	g := layout.NewGenerator(cfg, rng)
	o := evolve.New(cfg, rng)

	logger.Info("generating layouts", "count", flags.layouts, "seed", flags.seed)
	layouts := g.CollectValid(flags.layouts, flags.maxTries, flags.options())
	if len(layouts) == 0 {
		logger.Warn("no valid layouts found; try increasing --max-tries or relaxing constraints")
		return nil
	}

	ranked := rankLayouts(layouts, g.Rules(), o)
	return writeOutputs(cfg, ranked, flags, "generate", logger)
}

func runEvolve(projectPath string, flags evolveFlags, logger *log.Logger) error {
	cfg, schemaReport, err := loadAndValidate(projectPath)
	if err != nil {
		return err
	}
	if !schemaReport.Valid {
		printValidationReport(schemaReport)
		return fmt.Errorf("site configuration has validation errors")
	}

	rng := rand.New(rand.NewSource(flags.seed))
	g := layout.NewGenerator(cfg, rng)
	o := evolve.New(cfg, rng)

	logger.Info("generating seed pool", "count", flags.layouts*2, "seed", flags.seed)
	pool := g.CollectValid(flags.layouts*2, flags.maxTries, flags.options())
	if len(pool) == 0 {
		logger.Warn("no valid layouts found; try increasing --max-tries or relaxing constraints")
		return nil
	}

	logger.Info("evolving layouts", "generations", flags.generations,
		"population", flags.populationSize, "mutation_rate", flags.mutationRate)
	results := o.Search(flags.layouts, pool, flags.evolveOptions())

	var layouts []layout.Layout
	if len(results) == 0 {
		logger.Warn("evolution produced no valid layouts, using the initial pool")
		layouts = pool
		if len(layouts) > flags.layouts {
			layouts = layouts[:flags.layouts]
		}
	} else {
		for _, res := range results {
			layouts = append(layouts, res.Layout)
		}
	}

	ranked := rankLayouts(layouts, g.Rules(), o)
	return writeOutputs(cfg, ranked, flags.batchFlags, "evolve", logger)
}

// rankLayouts scores and sorts layouts best-first.
func rankLayouts(layouts []layout.Layout, ru layout.Rules, o *evolve.Optimizer) []scoredLayout {
	ranked := make([]scoredLayout, len(layouts))
	for i, l := range layouts {
		ranked[i] = scoredLayout{Layout: l, Stats: ru.Summarize(l), Score: o.Score(l)}
	}
	sort.SliceStable(ranked, func(a, b int) bool {
		return ranked[a].Score > ranked[b].Score
	})
	return ranked
}

// writeOutputs renders, exports, persists, and prints the ranked batch.
func writeOutputs(cfg *site.Config, ranked []scoredLayout, flags batchFlags, approach string, logger *log.Logger) error {
	if err := os.MkdirAll(flags.outputDir, 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	renderer := render.New(cfg)
	entries := make([]export.Entry, 0, len(ranked))

	fmt.Printf("\nGenerated %d layouts (ranked by quality score)\n\n", len(ranked))

	for i, r := range ranked {
		baseName := fmt.Sprintf("layout_%d", i+1)
		printLayoutLine(i+1, r)

		if flags.png {
			pngPath := filepath.Join(flags.outputDir, baseName+".png")
			if err := renderer.PNG(pngPath, r.Layout, r.Stats); err != nil {
				return err
			}
			fmt.Printf("  -> PNG: %s\n", pngPath)
		}
		if flags.exportJSON {
			jsonPath := filepath.Join(flags.outputDir, baseName+".json")
			if err := export.JSONFile(jsonPath, r.Layout, r.Stats, cfg); err != nil {
				return err
			}
			fmt.Printf("  -> JSON: %s\n", jsonPath)
		}
		entries = append(entries, export.Entry{Layout: r.Layout, Stats: r.Stats})
	}

	if flags.exportCSV {
		csvPath := filepath.Join(flags.outputDir, "summary.csv")
		if err := export.CSVFile(csvPath, entries); err != nil {
			return err
		}
		fmt.Printf("\n-> CSV summary: %s\n", csvPath)
	}

	if flags.dbPath != "" {
		if err := persistRun(flags.dbPath, flags.seed, approach, ranked); err != nil {
			return err
		}
		logger.Info("run persisted", "db", flags.dbPath)
	}

	printAggregate(ranked)
	return nil
}

func persistRun(dbPath string, seed int64, approach string, ranked []scoredLayout) error {
	store, err := storage.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	records := make([]storage.LayoutRecord, len(ranked))
	for i, r := range ranked {
		records[i] = storage.LayoutRecord{Idx: i, Score: r.Score, Stats: r.Stats, Buildings: r.Layout}
	}
	return store.SaveRun(storage.NewRun(seed, approach), records)
}

func runAnalyze(projectPath string, flags evolveFlags, logger *log.Logger) error {
	cfg, schemaReport, err := loadAndValidate(projectPath)
	if err != nil {
		return err
	}
	if !schemaReport.Valid {
		printValidationReport(schemaReport)
		return fmt.Errorf("site configuration has validation errors")
	}

	rng := rand.New(rand.NewSource(flags.seed))
	g := layout.NewGenerator(cfg, rng)
	o := evolve.New(cfg, rng)

	logger.Info("running random search", "count", flags.layouts, "seed", flags.seed)
	randomLayouts := g.CollectValid(flags.layouts, flags.maxTries, flags.options())
	if len(randomLayouts) == 0 {
		logger.Warn("no valid layouts found; nothing to analyze")
		return nil
	}
	randomStats := analytics.Aggregate("Random Search", randomLayouts, o)
	printApproachStats(randomStats)

	logger.Info("running evolutionary optimization", "generations", flags.generations)
	pool := append(append([]layout.Layout{}, randomLayouts...), randomLayouts...)
	results := o.Search(flags.layouts, pool, flags.evolveOptions())
	if len(results) == 0 {
		logger.Warn("evolution produced no valid layouts; skipping comparison")
		return nil
	}

	evolvedLayouts := make([]layout.Layout, len(results))
	for i, res := range results {
		evolvedLayouts[i] = res.Layout
	}
	evolvedStats := analytics.Aggregate("Evolutionary Optimization", evolvedLayouts, o)
	printApproachStats(evolvedStats)

	printComparison(analytics.Compare(randomStats, evolvedStats))

	if flags.dbPath != "" {
		randomRanked := rankLayouts(randomLayouts, g.Rules(), o)
		evolvedRanked := rankLayouts(evolvedLayouts, g.Rules(), o)
		if err := persistRun(flags.dbPath, flags.seed, "analyze-random", randomRanked); err != nil {
			return err
		}
		if err := persistRun(flags.dbPath, flags.seed, "analyze-evolved", evolvedRanked); err != nil {
			return err
		}
		logger.Info("runs persisted", "db", flags.dbPath)
	}
	return nil
}

func runValidate(projectPath string) error {
	_, schemaReport, err := loadAndValidate(projectPath)
	if err != nil {
		return err
	}

	printValidationReport(schemaReport)
	if !schemaReport.Valid {
		os.Exit(1)
	}
	return nil
}

func runServe(projectPath string, port int, dbPath string, logger *log.Logger) error {
	cfg, schemaReport, err := loadAndValidate(projectPath)
	if err != nil {
		return err
	}
	if !schemaReport.Valid {
		printValidationReport(schemaReport)
		return fmt.Errorf("site configuration has validation errors")
	}

	var store *storage.Store
	if dbPath != "" {
		store, err = storage.Open(dbPath)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	return server.New(cfg, store, logger, port).Start()
}
