package main

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/EngineerAnishSharma/SiteArchitect/pkg/analytics"
	"github.com/EngineerAnishSharma/SiteArchitect/pkg/validation"
)

func printValidationReport(r *validation.Report) {
	if len(r.Errors) > 0 {
		fmt.Printf("ERRORS (%d):\n", len(r.Errors))
		for _, e := range r.Errors {
			fmt.Printf("  [%s] %s\n", e.Level, e.Message)
			if e.Path != "" {
				fmt.Printf("    -> %s = %v\n", e.Path, e.ActualValue)
			}
			if e.Expected != "" {
				fmt.Printf("    expected: %s\n", e.Expected)
			}
			for _, s := range e.Suggestions {
				fmt.Printf("    * %s\n", s)
			}
		}
		fmt.Println()
	}

	if len(r.Warnings) > 0 {
		fmt.Printf("WARNINGS (%d):\n", len(r.Warnings))
		for _, w := range r.Warnings {
			fmt.Printf("  [%s] %s\n", w.Level, w.Message)
			if w.Path != "" {
				fmt.Printf("    -> %s = %v\n", w.Path, w.ActualValue)
			}
			if w.Expected != "" {
				fmt.Printf("    expected: %s\n", w.Expected)
			}
			for _, s := range w.Suggestions {
				fmt.Printf("    * %s\n", s)
			}
		}
		fmt.Println()
	}

	if len(r.Info) > 0 {
		fmt.Printf("INFO (%d):\n", len(r.Info))
		for _, i := range r.Info {
			fmt.Printf("  [%s] %s\n", i.Level, i.Message)
		}
		fmt.Println()
	}

	if r.Valid {
		fmt.Printf("Result: VALID (%s)\n", r.Summary)
	} else {
		fmt.Printf("Result: INVALID (%s)\n", r.Summary)
	}
}

func printLayoutLine(rank int, r scoredLayout) {
	fmt.Printf("Layout %d: Score=%.1f | A=%d B=%d | Area=%s m2 | Buildings=%d | Valid=%t\n",
		rank, r.Score, r.Stats.CountA, r.Stats.CountB,
		humanize.Commaf(r.Stats.Area), len(r.Layout), r.Stats.Valid)
}

func printAggregate(ranked []scoredLayout) {
	if len(ranked) == 0 {
		return
	}

	var sumBuildings, sumArea, sumScore float64
	for _, r := range ranked {
		sumBuildings += float64(len(r.Layout))
		sumArea += r.Stats.Area
		sumScore += r.Score
	}
	n := float64(len(ranked))

	fmt.Println("\nAggregate Statistics:")
	fmt.Printf("  Average buildings per layout: %.1f\n", sumBuildings/n)
	fmt.Printf("  Average built area: %s m2\n", humanize.Commaf(sumArea/n))
	fmt.Printf("  Average quality score: %.1f\n", sumScore/n)
	fmt.Printf("  Best score: %.1f\n", ranked[0].Score)
	fmt.Printf("  Worst score: %.1f\n", ranked[len(ranked)-1].Score)
}

func printApproachStats(s analytics.ApproachStats) {
	fmt.Printf("\n%s\n", s.Name)
	fmt.Printf("  Layouts generated: %d\n", s.LayoutCount)
	if s.LayoutCount == 0 {
		return
	}

	fmt.Println("\n  Quality Score:")
	fmt.Printf("    Mean:   %.1f\n", s.Score.Mean)
	fmt.Printf("    Median: %.1f\n", s.Score.Median)
	fmt.Printf("    Max:    %.1f\n", s.Score.Max)
	fmt.Printf("    Min:    %.1f\n", s.Score.Min)
	fmt.Printf("    StdDev: %.1f\n", s.Score.StdDev)

	fmt.Println("\n  Buildings per Layout:")
	fmt.Printf("    Mean:   %.1f\n", s.Buildings.Mean)
	fmt.Printf("    Median: %.1f\n", s.Buildings.Median)
	fmt.Printf("    Max:    %.0f\n", s.Buildings.Max)
	fmt.Printf("    Min:    %.0f\n", s.Buildings.Min)

	fmt.Println("\n  Built Area (m2):")
	fmt.Printf("    Mean:   %s\n", humanize.Commaf(s.Area.Mean))
	fmt.Printf("    Max:    %s\n", humanize.Commaf(s.Area.Max))
	fmt.Printf("    Min:    %s\n", humanize.Commaf(s.Area.Min))

	fmt.Println("\n  Tower Mix:")
	fmt.Printf("    Avg Tower A: %.1f\n", s.AvgTypeA)
	fmt.Printf("    Avg Tower B: %.1f\n", s.AvgTypeB)
	fmt.Printf("    A/B Ratio:   %.2f\n", s.MixRatio)
}

func printComparison(c analytics.Comparison) {
	fmt.Println("\nCOMPARISON")
	fmt.Printf("  Average Score Improvement:    %+.1f%%\n", c.ScoreImprovementPct)
	fmt.Printf("  Average Building Count Gain:  %+.1f%%\n", c.BuildingGainPct)
}
