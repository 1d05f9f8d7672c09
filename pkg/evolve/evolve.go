// Package evolve implements the population-based local search that refines
// generated layouts: scoring, mutation, greedy insertion, and the
// generational select-and-refill loop.
package evolve

import (
	"math"
	"math/rand"
	"sort"

	"github.com/EngineerAnishSharma/SiteArchitect/pkg/layout"
	"github.com/EngineerAnishSharma/SiteArchitect/pkg/site"
)

// InvalidScore is assigned to any layout failing full validation. Validity
// is a hard gate: quality only differentiates valid candidates.
const InvalidScore = -1000.0

// Options bounds one evolution run.
type Options struct {
	Generations    int     `json:"generations"`
	PopulationSize int     `json:"population_size"`
	MutationRate   float64 `json:"mutation_rate"`
}

// DefaultOptions returns the reference evolution parameters.
func DefaultOptions() Options {
	return Options{
		Generations:    100,
		PopulationSize: 20,
		MutationRate:   0.3,
	}
}

// addAttempts is the placement budget for one greedy insertion attempt.
const addAttempts = 50

// Optimizer evolves layouts against a fixed site configuration. Like the
// generator, it owns no global state: the random source is an explicit
// instance supplied by the caller.
type Optimizer struct {
	cfg   *site.Config
	rules layout.Rules
	rng   *rand.Rand
}

// New creates an optimizer bound to the site configuration and random source.
func New(cfg *site.Config, rng *rand.Rand) *Optimizer {
	return &Optimizer{cfg: cfg, rules: layout.NewRules(cfg), rng: rng}
}

// Rules returns the optimizer's bound rule checker.
func (o *Optimizer) Rules() layout.Rules { return o.rules }

// Score computes the scalar fitness of a layout. Invalid layouts score
// InvalidScore regardless of size; valid layouts combine building count,
// built area, spatial distribution, and a type-balance penalty.
func (o *Optimizer) Score(l layout.Layout) float64 {
	if !o.rules.Validate(l).All {
		return InvalidScore
	}

	countScore := float64(len(l)) * 100
	areaScore := l.TotalArea()

	distribution := 0.0
	if len(l) > 1 {
		centers := l.Centers()
		minX, maxX := centers[0].X, centers[0].X
		minY, maxY := centers[0].Y, centers[0].Y
		for _, c := range centers[1:] {
			minX = math.Min(minX, c.X)
			maxX = math.Max(maxX, c.X)
			minY = math.Min(minY, c.Y)
			maxY = math.Max(maxY, c.Y)
		}
		distribution = ((maxX - minX) + (maxY - minY)) / 2
	}

	// Up to three more A than B is tolerated before the penalty kicks in.
	countA := l.Count(layout.TypeA)
	countB := l.Count(layout.TypeB)
	balancePenalty := math.Max(0, float64(countA-countB-3)) * 15

	return countScore + areaScore*0.1 + distribution*0.5 - balancePenalty
}

func (o *Optimizer) uniform(lo, hi float64) float64 {
	return lo + o.rng.Float64()*(hi-lo)
}

// Mutate returns a mutated clone of the layout. Each building is
// independently jittered with probability rate by a uniform offset in
// [-10, 10] on each axis, clamped back into the valid placement range
// rather than rejected. With probability 0.5*rate one uniformly chosen
// building additionally flips type (A<->B) with its footprint swapped
// atomically; its position is left unchanged. Mutation never checks
// validity: the score is the only gate.
func (o *Optimizer) Mutate(l layout.Layout, rate float64) layout.Layout {
	mutated := l.Clone()
	if len(mutated) == 0 {
		return mutated
	}

	for i := range mutated {
		if o.rng.Float64() < rate {
			dx := o.uniform(-10, 10)
			dy := o.uniform(-10, 10)
			mutated[i].X = o.cfg.ClampX(mutated[i].X+dx, mutated[i].W)
			mutated[i].Y = o.cfg.ClampY(mutated[i].Y+dy, mutated[i].H)
		}
	}

	if o.rng.Float64() < rate*0.5 {
		i := o.rng.Intn(len(mutated))
		flipped := layout.TypeB
		if mutated[i].Type == layout.TypeB {
			flipped = layout.TypeA
		}
		mutated[i].SetType(o.cfg, flipped)
	}

	return mutated
}

// placeOK runs the three placement checks for a candidate rectangle against
// the buildings already in the layout.
func (o *Optimizer) placeOK(b layout.Building, l layout.Layout) bool {
	return o.rules.InsideSite(b.Rect) &&
		!o.rules.IntersectsPlaza(b.Rect) &&
		o.rules.SpacingOK(b.Rect, l)
}

// TryAddBuilding attempts to extend a clone of the layout by one building,
// using a three-tier heuristic: repair neighbor coverage with a type-B
// building near an uncovered type-A, grow type-A along the site boundary,
// and finally fall back to uniform random placement. Returns nil when every
// tier exhausts its budget.
func (o *Optimizer) TryAddBuilding(l layout.Layout, attempts int) layout.Layout {
	extended := l.Clone()

	countA := l.Count(layout.TypeA)
	countB := l.Count(layout.TypeB)

	centers := l.Centers()
	var aCenters, bCenters []int
	for i, b := range l {
		if b.Type == layout.TypeA {
			aCenters = append(aCenters, i)
		} else if b.Type == layout.TypeB {
			bCenters = append(bCenters, i)
		}
	}

	radius := o.cfg.Constraints.NeighborRadius
	needsB := false
	for _, ai := range aCenters {
		covered := false
		for _, bi := range bCenters {
			if centers[ai].Distance(centers[bi]) <= radius {
				covered = true
				break
			}
		}
		if !covered {
			needsB = true
			break
		}
	}

	// Tier 1: coverage repair. Place a type-B building on a random ring
	// around an uncovered type-A center, kept under the neighbor radius.
	if needsB && countB < countA {
		d := o.cfg.Types[layout.TypeB]
		for i := 0; i < attempts; i++ {
			ac := centers[aCenters[o.rng.Intn(len(aCenters))]]
			angle := o.uniform(0, 2*math.Pi)
			dist := o.uniform(25, 55)

			x := o.cfg.ClampX(ac.X+dist*math.Cos(angle)-d.W/2, d.W)
			y := o.cfg.ClampY(ac.Y+dist*math.Sin(angle)-d.H/2, d.H)

			b := layout.NewBuilding(o.cfg, layout.TypeB, x, y)
			if o.placeOK(b, extended) {
				return append(extended, b)
			}
		}
	}

	// Tier 2: boundary-seeking growth for type-A, while the mix allows it.
	if countA <= countB+4 {
		d := o.cfg.Types[layout.TypeA]
		loX, hiX := o.cfg.PlacementRangeX(d.W)
		loY, hiY := o.cfg.PlacementRangeY(d.H)

		zones := [][2]float64{
			{loX, o.uniform(loY, hiY)}, // left edge
			{hiX, o.uniform(loY, hiY)}, // right edge
			{o.uniform(loX, hiX), loY}, // bottom edge
			{o.uniform(loX, hiX), hiY}, // top edge
			{loX + 5, loY + 5},         // inset corners
			{hiX - 5, loY + 5},
			{loX + 5, hiY - 5},
			{hiX - 5, hiY - 5},
		}

		for i := 0; i < attempts/2; i++ {
			z := zones[o.rng.Intn(len(zones))]
			x := o.cfg.ClampX(z[0]+o.uniform(-10, 10), d.W)
			y := o.cfg.ClampY(z[1]+o.uniform(-10, 10), d.H)

			b := layout.NewBuilding(o.cfg, layout.TypeA, x, y)
			if o.placeOK(b, extended) {
				return append(extended, b)
			}
		}
	}

	// Tier 3: uniform random placement across the whole valid region.
	tags := o.cfg.TypeTags()
	tag := tags[o.rng.Intn(len(tags))]
	d := o.cfg.Types[tag]
	loX, hiX := o.cfg.PlacementRangeX(d.W)
	loY, hiY := o.cfg.PlacementRangeY(d.H)

	for i := 0; i < attempts; i++ {
		b := layout.NewBuilding(o.cfg, tag, o.uniform(loX, hiX), o.uniform(loY, hiY))
		if o.placeOK(b, extended) {
			return append(extended, b)
		}
	}

	return nil
}

// Evolve refines one seed layout over a fixed number of generations and
// returns the best layout ever observed, which may be the seed itself when
// no generation improves on it. The best-ever score is monotonically
// non-decreasing in the number of generations.
func (o *Optimizer) Evolve(initial layout.Layout, opts Options) layout.Layout {
	// A population under two cannot split into survivors and refill slots;
	// the seed stands as the result.
	if opts.PopulationSize < 2 {
		return initial
	}

	population := make([]layout.Layout, opts.PopulationSize)
	for i := range population {
		population[i] = initial.Clone()
	}

	best := initial
	bestScore := o.Score(initial)

	type scored struct {
		score float64
		idx   int
	}

	for gen := 0; gen < opts.Generations; gen++ {
		ranked := make([]scored, len(population))
		for i, l := range population {
			ranked[i] = scored{score: o.Score(l), idx: i}
		}
		// Descending by score; equal scores keep original population order
		// so survivor selection is deterministic.
		sort.SliceStable(ranked, func(a, b int) bool {
			return ranked[a].score > ranked[b].score
		})

		if ranked[0].score > bestScore {
			bestScore = ranked[0].score
			best = population[ranked[0].idx].Clone()
		}

		survivors := make([]layout.Layout, opts.PopulationSize/2)
		for i := range survivors {
			survivors[i] = population[ranked[i].idx]
		}

		next := make([]layout.Layout, 0, opts.PopulationSize)
		for _, s := range survivors {
			next = append(next, s.Clone())
		}
		for len(next) < opts.PopulationSize {
			parent := survivors[o.rng.Intn(len(survivors))]
			child := o.Mutate(parent, opts.MutationRate)

			if o.rng.Float64() < 0.3 {
				if extended := o.TryAddBuilding(child, addAttempts); extended != nil {
					child = extended
				}
			}
			next = append(next, child)
		}
		population = next
	}

	return best
}

// Result pairs an evolved layout with its score.
type Result struct {
	Layout layout.Layout `json:"layout"`
	Score  float64       `json:"score"`
}

// Search evolves up to count seeds from the pool independently (no
// cross-pollination), keeps only results that remain fully valid, and
// returns them sorted by score descending. Fewer than count results are
// returned when some evolutions fail to stay valid.
func (o *Optimizer) Search(count int, pool []layout.Layout, opts Options) []Result {
	var results []Result
	for i := 0; i < len(pool) && i < count; i++ {
		improved := o.Evolve(pool[i], opts)
		if !o.rules.Validate(improved).All {
			continue
		}
		results = append(results, Result{Layout: improved, Score: o.Score(improved)})
	}

	sort.SliceStable(results, func(a, b int) bool {
		return results[a].Score > results[b].Score
	})

	if len(results) > count {
		results = results[:count]
	}
	return results
}
