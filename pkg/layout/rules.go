package layout

import (
	"fmt"
	"sort"

	"github.com/EngineerAnishSharma/SiteArchitect/pkg/geo"
	"github.com/EngineerAnishSharma/SiteArchitect/pkg/site"
	"github.com/EngineerAnishSharma/SiteArchitect/pkg/validation"
)

// Rules evaluates the placement constraints against a fixed site
// configuration. All checks are pure and deterministic given their inputs.
type Rules struct {
	cfg *site.Config
}

// NewRules binds the placement rules to a site configuration.
func NewRules(cfg *site.Config) Rules {
	return Rules{cfg: cfg}
}

// Config returns the bound site configuration.
func (ru Rules) Config() *site.Config { return ru.cfg }

// InsideSite reports whether the rectangle lies entirely within the
// setback-inset site bounds. Touching the inset boundary counts as inside.
func (ru Rules) InsideSite(r geo.Rect) bool {
	s := ru.cfg.Site
	return r.ContainedIn(s.Setback, s.Setback, s.Width-s.Setback, s.Height-s.Setback)
}

// IntersectsPlaza reports whether the rectangle shares interior area with
// the plaza. Touching the plaza edge does not count.
func (ru Rules) IntersectsPlaza(r geo.Rect) bool {
	return r.Overlaps(ru.cfg.Plaza)
}

// SpacingOK reports whether the rectangle keeps at least the minimum
// edge-to-edge spacing from every building in others. Used incrementally
// during placement (against already-placed buildings) and exhaustively
// during full validation (all pairs).
func (ru Rules) SpacingOK(r geo.Rect, others Layout) bool {
	for _, o := range others {
		if geo.EdgeDistance(r, o.Rect) < ru.cfg.Constraints.MinSpacing {
			return false
		}
	}
	return true
}

// NeighborMixOK reports whether every type-A building has a type-B building
// whose center lies within the neighbor radius (inclusive) of its own
// center. A layout with no type-B building fails, including the empty
// layout: the rule cannot be satisfied without at least one type-B
// representative.
func (ru Rules) NeighborMixOK(l Layout) bool {
	centers := l.Centers()
	var bCenters []geo.Point
	for i, b := range l {
		if b.Type == TypeB {
			bCenters = append(bCenters, centers[i])
		}
	}
	if len(bCenters) == 0 {
		return false
	}

	radius := ru.cfg.Constraints.NeighborRadius
	for i, b := range l {
		if b.Type != TypeA {
			continue
		}
		hasClose := false
		for _, bc := range bCenters {
			if centers[i].Distance(bc) <= radius {
				hasClose = true
				break
			}
		}
		if !hasClose {
			return false
		}
	}
	return true
}

// RuleReport records the outcome of the four placement rules for one layout.
// It is produced fresh on every query and never cached.
type RuleReport struct {
	Boundary    bool `json:"boundary"`
	Plaza       bool `json:"plaza"`
	Spacing     bool `json:"spacing"`
	NeighborMix bool `json:"neighbor_mix"`
	All         bool `json:"all"`
}

// Validate evaluates all four placement rules on the layout. The rules are
// independent: any subset may fail simultaneously.
func (ru Rules) Validate(l Layout) RuleReport {
	boundary := true
	plaza := true
	for _, b := range l {
		if !ru.InsideSite(b.Rect) {
			boundary = false
		}
		if ru.IntersectsPlaza(b.Rect) {
			plaza = false
		}
	}

	spacing := true
	minSpacing := ru.cfg.Constraints.MinSpacing
	for i := 0; i < len(l) && spacing; i++ {
		for j := i + 1; j < len(l); j++ {
			if geo.EdgeDistance(l[i].Rect, l[j].Rect) < minSpacing {
				spacing = false
				break
			}
		}
	}

	neighbor := ru.NeighborMixOK(l)

	return RuleReport{
		Boundary:    boundary,
		Plaza:       plaza,
		Spacing:     spacing,
		NeighborMix: neighbor,
		All:         boundary && plaza && spacing && neighbor,
	}
}

// SpacingViolation is one building pair closer than the minimum spacing.
type SpacingViolation struct {
	I        int     `json:"i"`
	J        int     `json:"j"`
	Distance float64 `json:"distance"`
}

// Violations is the index-level diagnostic record for a layout: which
// buildings fail which rules, and which pairs are too close.
type Violations struct {
	BoundaryFail     []int              `json:"boundary_fail"`
	PlazaFail        []int              `json:"plaza_fail"`
	SpacingFailPairs []SpacingViolation `json:"spacing_fail_pairs"`
	NeighborFail     []int              `json:"neighbor_fail"`
	Affected         []int              `json:"affected_indices"`
}

// FindViolations recomputes all checks from scratch (not reusing Validate)
// to report per-index granularity for diagnostics.
func (ru Rules) FindViolations(l Layout) Violations {
	var v Violations
	affected := make(map[int]bool)

	for i, b := range l {
		if !ru.InsideSite(b.Rect) {
			v.BoundaryFail = append(v.BoundaryFail, i)
			affected[i] = true
		}
		if ru.IntersectsPlaza(b.Rect) {
			v.PlazaFail = append(v.PlazaFail, i)
			affected[i] = true
		}
	}

	minSpacing := ru.cfg.Constraints.MinSpacing
	for i := 0; i < len(l); i++ {
		for j := i + 1; j < len(l); j++ {
			dist := geo.EdgeDistance(l[i].Rect, l[j].Rect)
			if dist < minSpacing {
				v.SpacingFailPairs = append(v.SpacingFailPairs, SpacingViolation{I: i, J: j, Distance: dist})
				affected[i] = true
				affected[j] = true
			}
		}
	}

	centers := l.Centers()
	var bIdx []int
	for i, b := range l {
		if b.Type == TypeB {
			bIdx = append(bIdx, i)
		}
	}
	radius := ru.cfg.Constraints.NeighborRadius
	for i, b := range l {
		if b.Type != TypeA {
			continue
		}
		hasClose := false
		for _, j := range bIdx {
			if centers[i].Distance(centers[j]) <= radius {
				hasClose = true
				break
			}
		}
		if !hasClose {
			v.NeighborFail = append(v.NeighborFail, i)
			affected[i] = true
		}
	}

	v.Affected = make([]int, 0, len(affected))
	for i := range affected {
		v.Affected = append(v.Affected, i)
	}
	sort.Ints(v.Affected)

	return v
}

// Report converts the violation detail into a validation report for
// CLI and server diagnostics.
func (v Violations) Report() *validation.Report {
	r := validation.NewReport()

	for _, i := range v.BoundaryFail {
		r.AddError(validation.Result{
			Level:   validation.LevelSpatial,
			Message: fmt.Sprintf("building %d extends beyond the setback boundary", i),
			Path:    fmt.Sprintf("buildings[%d]", i),
		})
	}
	for _, i := range v.PlazaFail {
		r.AddError(validation.Result{
			Level:   validation.LevelSpatial,
			Message: fmt.Sprintf("building %d overlaps the plaza", i),
			Path:    fmt.Sprintf("buildings[%d]", i),
		})
	}
	for _, p := range v.SpacingFailPairs {
		r.AddError(validation.Result{
			Level:       validation.LevelSpatial,
			Message:     fmt.Sprintf("buildings %d and %d are %.1f m apart", p.I, p.J, p.Distance),
			Path:        fmt.Sprintf("buildings[%d]", p.I),
			ActualValue: p.Distance,
			Expected:    "minimum edge-to-edge spacing",
		})
	}
	for _, i := range v.NeighborFail {
		r.AddError(validation.Result{
			Level:       validation.LevelSpatial,
			Message:     fmt.Sprintf("type-A building %d has no type-B building within the neighbor radius", i),
			Path:        fmt.Sprintf("buildings[%d]", i),
			Suggestions: []string{"Add a type-B building nearby or move an existing one closer"},
		})
	}

	return r
}
