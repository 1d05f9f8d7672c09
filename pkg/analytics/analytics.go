// Package analytics aggregates batch statistics over layout sets and
// compares the random-search and evolutionary approaches.
package analytics

import (
	"math"
	"sort"

	"github.com/EngineerAnishSharma/SiteArchitect/pkg/evolve"
	"github.com/EngineerAnishSharma/SiteArchitect/pkg/layout"
)

// Summary describes the distribution of one metric across a layout set.
type Summary struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	StdDev float64 `json:"std_dev"`
}

// Describe computes summary statistics for a value slice. An empty slice
// yields the zero Summary; the standard deviation is the sample deviation
// and is 0 for fewer than two values.
func Describe(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	sum := 0.0
	for _, v := range sorted {
		sum += v
	}
	mean := sum / float64(len(sorted))

	median := sorted[len(sorted)/2]
	if len(sorted)%2 == 0 {
		median = (sorted[len(sorted)/2-1] + sorted[len(sorted)/2]) / 2
	}

	stdDev := 0.0
	if len(sorted) > 1 {
		sq := 0.0
		for _, v := range sorted {
			d := v - mean
			sq += d * d
		}
		stdDev = math.Sqrt(sq / float64(len(sorted)-1))
	}

	return Summary{
		Mean:   mean,
		Median: median,
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		StdDev: stdDev,
	}
}

// ApproachStats is the aggregate report for one layout-generation approach.
type ApproachStats struct {
	Name        string  `json:"name"`
	LayoutCount int     `json:"layout_count"`
	Score       Summary `json:"score"`
	Buildings   Summary `json:"buildings"`
	Area        Summary `json:"area"`
	AvgTypeA    float64 `json:"avg_type_a"`
	AvgTypeB    float64 `json:"avg_type_b"`
	MixRatio    float64 `json:"mix_ratio"`
}

// Aggregate scores and summarizes a layout set under the optimizer's site
// configuration.
func Aggregate(name string, layouts []layout.Layout, o *evolve.Optimizer) ApproachStats {
	stats := ApproachStats{Name: name, LayoutCount: len(layouts)}
	if len(layouts) == 0 {
		return stats
	}

	scores := make([]float64, len(layouts))
	counts := make([]float64, len(layouts))
	areas := make([]float64, len(layouts))
	sumA, sumB := 0.0, 0.0
	for i, l := range layouts {
		scores[i] = o.Score(l)
		counts[i] = float64(len(l))
		areas[i] = l.TotalArea()
		sumA += float64(l.Count(layout.TypeA))
		sumB += float64(l.Count(layout.TypeB))
	}

	stats.Score = Describe(scores)
	stats.Buildings = Describe(counts)
	stats.Area = Describe(areas)
	stats.AvgTypeA = sumA / float64(len(layouts))
	stats.AvgTypeB = sumB / float64(len(layouts))
	if stats.AvgTypeB > 0 {
		stats.MixRatio = stats.AvgTypeA / stats.AvgTypeB
	}
	return stats
}

// Comparison reports how the evolved approach fares against the random
// baseline, as percentage improvements of the mean score and the mean
// building count.
type Comparison struct {
	Random              ApproachStats `json:"random"`
	Evolved             ApproachStats `json:"evolved"`
	ScoreImprovementPct float64       `json:"score_improvement_pct"`
	BuildingGainPct     float64       `json:"building_gain_pct"`
}

// Compare builds the random-vs-evolved comparison. Improvement percentages
// are 0 when the baseline mean is 0.
func Compare(random, evolved ApproachStats) Comparison {
	c := Comparison{Random: random, Evolved: evolved}
	if random.Score.Mean != 0 {
		c.ScoreImprovementPct = (evolved.Score.Mean - random.Score.Mean) / random.Score.Mean * 100
	}
	if random.Buildings.Mean != 0 {
		c.BuildingGainPct = (evolved.Buildings.Mean - random.Buildings.Mean) / random.Buildings.Mean * 100
	}
	return c
}
