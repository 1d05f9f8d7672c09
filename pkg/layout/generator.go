package layout

import (
	"math/rand"

	"github.com/EngineerAnishSharma/SiteArchitect/pkg/site"
)

// Options bounds one layout generation attempt.
type Options struct {
	MinBuildings        int `json:"min_buildings"`
	MaxBuildings        int `json:"max_buildings"`
	AttemptsPerBuilding int `json:"attempts_per_building"`
	FillExtra           int `json:"fill_extra"`
}

// DefaultOptions returns the reference generation parameters.
func DefaultOptions() Options {
	return Options{
		MinBuildings:        5,
		MaxBuildings:        12,
		AttemptsPerBuilding: 120,
		FillExtra:           2,
	}
}

// Generator builds layouts by randomized placement with bounded retries.
// The random source is an explicit instance owned by the caller, never
// process-wide state; constructing it with a fixed seed makes generation
// fully deterministic.
type Generator struct {
	cfg   *site.Config
	rules Rules
	rng   *rand.Rand
}

// NewGenerator creates a generator bound to the site configuration and
// random source.
func NewGenerator(cfg *site.Config, rng *rand.Rand) *Generator {
	return &Generator{cfg: cfg, rules: NewRules(cfg), rng: rng}
}

// Rules returns the generator's bound rule checker.
func (g *Generator) Rules() Rules { return g.rules }

func (g *Generator) uniform(lo, hi float64) float64 {
	return lo + g.rng.Float64()*(hi-lo)
}

func (g *Generator) randomType() string {
	tags := g.cfg.TypeTags()
	return tags[g.rng.Intn(len(tags))]
}

// tryPlace attempts up to `attempts` uniform-random positions for a building
// of the given type, accepting the first that passes containment, plaza, and
// spacing checks against the buildings placed so far.
func (g *Generator) tryPlace(tag string, current Layout, attempts int) (Building, bool) {
	d := g.cfg.Types[tag]
	loX, hiX := g.cfg.PlacementRangeX(d.W)
	loY, hiY := g.cfg.PlacementRangeY(d.H)

	for i := 0; i < attempts; i++ {
		b := NewBuilding(g.cfg, tag, g.uniform(loX, hiX), g.uniform(loY, hiY))
		if !g.rules.InsideSite(b.Rect) {
			continue
		}
		if g.rules.IntersectsPlaza(b.Rect) {
			continue
		}
		if !g.rules.SpacingOK(b.Rect, current) {
			continue
		}
		return b, true
	}
	return Building{}, false
}

// Generate builds one layout from scratch. The target count is drawn
// uniformly from [MinBuildings, MaxBuildings]; each mandatory building gets
// AttemptsPerBuilding placement tries, and a single exhausted budget fails
// the whole layout (nil, no partial results). FillExtra additional
// buildings are then attempted best-effort, stopping at the first failure.
// Finally the neighbor-mix rule is checked; a layout failing it is rejected.
// An inverted count range (max < min) yields nil like any other exhaustion.
func (g *Generator) Generate(opts Options) Layout {
	if opts.MaxBuildings < opts.MinBuildings {
		return nil
	}

	target := opts.MinBuildings + g.rng.Intn(opts.MaxBuildings-opts.MinBuildings+1)
	current := Layout{}

	for i := 0; i < target; i++ {
		b, ok := g.tryPlace(g.randomType(), current, opts.AttemptsPerBuilding)
		if !ok {
			return nil
		}
		current = append(current, b)
	}

	for added := 0; added < opts.FillExtra; added++ {
		b, ok := g.tryPlace(g.randomType(), current, opts.AttemptsPerBuilding)
		if !ok {
			break
		}
		current = append(current, b)
	}

	if !g.rules.NeighborMixOK(current) {
		return nil
	}
	return current
}

// CollectValid calls Generate up to maxTries times, keeping only layouts
// that pass full validation, and stops early once count layouts are
// accepted. It returns however many were found (possibly zero); infeasible
// parameters degrade to an empty result rather than an error.
func (g *Generator) CollectValid(count, maxTries int, opts Options) []Layout {
	var layouts []Layout
	for i := 0; i < maxTries && len(layouts) < count; i++ {
		l := g.Generate(opts)
		if l == nil {
			continue
		}
		if g.rules.Validate(l).All {
			layouts = append(layouts, l)
		}
	}
	return layouts
}
