package analytics

import (
	"math"
	"math/rand"
	"testing"

	"github.com/EngineerAnishSharma/SiteArchitect/pkg/evolve"
	"github.com/EngineerAnishSharma/SiteArchitect/pkg/geo"
	"github.com/EngineerAnishSharma/SiteArchitect/pkg/layout"
	"github.com/EngineerAnishSharma/SiteArchitect/pkg/site"
)

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestDescribeOddCount(t *testing.T) {
	s := Describe([]float64{3, 1, 2})
	if !approxEqual(s.Mean, 2, 1e-9) {
		t.Errorf("mean: got %f", s.Mean)
	}
	if !approxEqual(s.Median, 2, 1e-9) {
		t.Errorf("median: got %f", s.Median)
	}
	if s.Min != 1 || s.Max != 3 {
		t.Errorf("min/max: got %f/%f", s.Min, s.Max)
	}
	if !approxEqual(s.StdDev, 1, 1e-9) {
		t.Errorf("sample std dev of 1,2,3 should be 1, got %f", s.StdDev)
	}
}

func TestDescribeEvenCountMedian(t *testing.T) {
	s := Describe([]float64{4, 1, 3, 2})
	if !approxEqual(s.Median, 2.5, 1e-9) {
		t.Errorf("median of 1..4 should be 2.5, got %f", s.Median)
	}
}

func TestDescribeSingleValue(t *testing.T) {
	s := Describe([]float64{7})
	if s.Mean != 7 || s.Median != 7 || s.Min != 7 || s.Max != 7 {
		t.Errorf("single value summary wrong: %+v", s)
	}
	if s.StdDev != 0 {
		t.Errorf("single value has zero deviation, got %f", s.StdDev)
	}
}

func TestDescribeEmpty(t *testing.T) {
	if s := Describe(nil); s != (Summary{}) {
		t.Errorf("empty input should yield the zero summary, got %+v", s)
	}
}

func validFixture() layout.Layout {
	return layout.Layout{
		{Rect: geo.R(20, 20, 30, 20), Type: layout.TypeA},
		{Rect: geo.R(70, 20, 20, 20), Type: layout.TypeB},
		{Rect: geo.R(140, 20, 30, 20), Type: layout.TypeA},
		{Rect: geo.R(140, 60, 20, 20), Type: layout.TypeB},
	}
}

func TestAggregate(t *testing.T) {
	o := evolve.New(site.Default(), rand.New(rand.NewSource(1)))
	layouts := []layout.Layout{validFixture(), validFixture()}

	stats := Aggregate("random", layouts, o)
	if stats.LayoutCount != 2 {
		t.Errorf("expected 2 layouts, got %d", stats.LayoutCount)
	}
	if !approxEqual(stats.Score.Mean, 640, 1e-9) {
		t.Errorf("identical fixtures should average their score, got %f", stats.Score.Mean)
	}
	if stats.Score.StdDev != 0 {
		t.Errorf("identical layouts have zero score deviation, got %f", stats.Score.StdDev)
	}
	if !approxEqual(stats.AvgTypeA, 2, 1e-9) || !approxEqual(stats.AvgTypeB, 2, 1e-9) {
		t.Errorf("expected 2/2 average mix, got %f/%f", stats.AvgTypeA, stats.AvgTypeB)
	}
	if !approxEqual(stats.MixRatio, 1, 1e-9) {
		t.Errorf("expected ratio 1, got %f", stats.MixRatio)
	}
	if !approxEqual(stats.Area.Mean, 2000, 1e-9) {
		t.Errorf("expected mean area 2000, got %f", stats.Area.Mean)
	}
}

func TestAggregateEmpty(t *testing.T) {
	o := evolve.New(site.Default(), rand.New(rand.NewSource(1)))
	stats := Aggregate("random", nil, o)
	if stats.LayoutCount != 0 {
		t.Errorf("expected empty aggregate, got %+v", stats)
	}
}

func TestCompare(t *testing.T) {
	random := ApproachStats{Score: Summary{Mean: 500}, Buildings: Summary{Mean: 5}}
	evolved := ApproachStats{Score: Summary{Mean: 650}, Buildings: Summary{Mean: 6}}

	c := Compare(random, evolved)
	if !approxEqual(c.ScoreImprovementPct, 30, 1e-9) {
		t.Errorf("expected +30%% score, got %f", c.ScoreImprovementPct)
	}
	if !approxEqual(c.BuildingGainPct, 20, 1e-9) {
		t.Errorf("expected +20%% buildings, got %f", c.BuildingGainPct)
	}
}

func TestCompareZeroBaseline(t *testing.T) {
	c := Compare(ApproachStats{}, ApproachStats{Score: Summary{Mean: 100}})
	if c.ScoreImprovementPct != 0 || c.BuildingGainPct != 0 {
		t.Errorf("zero baseline should yield zero improvements, got %+v", c)
	}
}
