package validation

import (
	"fmt"

	"github.com/EngineerAnishSharma/SiteArchitect/pkg/site"
)

// ValidateSchema performs structural sanity checks on a site configuration.
// It runs at the CLI/server boundary only: the placement engine itself never
// validates its configuration, and an infeasible configuration simply
// degrades to placement exhaustion there.
func ValidateSchema(c *site.Config) *Report {
	r := NewReport()

	validateSite(c, r)
	validatePlaza(c, r)
	validateConstraints(c, r)
	validateTypes(c, r)

	return r
}

func validateSite(c *site.Config, r *Report) {
	if c.Site.Width <= 0 || c.Site.Height <= 0 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     fmt.Sprintf("site dimensions must be positive (got %.1f x %.1f)", c.Site.Width, c.Site.Height),
			Path:        "site",
			ActualValue: fmt.Sprintf("%.1fx%.1f", c.Site.Width, c.Site.Height),
			Expected:    "> 0 on both axes",
		})
	}
	if c.Site.Setback < 0 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "site setback must be non-negative",
			Path:        "site.setback",
			ActualValue: c.Site.Setback,
			Expected:    ">= 0",
		})
	}
	if 2*c.Site.Setback >= c.Site.Width || 2*c.Site.Setback >= c.Site.Height {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     fmt.Sprintf("setback %.1f leaves no buildable area on a %.1fx%.1f site", c.Site.Setback, c.Site.Width, c.Site.Height),
			Path:        "site.setback",
			ActualValue: c.Site.Setback,
			Expected:    fmt.Sprintf("< %.1f", min(c.Site.Width, c.Site.Height)/2),
		})
	}
}

func validatePlaza(c *site.Config, r *Report) {
	p := c.Plaza
	if p.W <= 0 || p.H <= 0 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "plaza dimensions must be positive",
			Path:        "plaza",
			ActualValue: fmt.Sprintf("%.1fx%.1f", p.W, p.H),
			Expected:    "> 0 on both axes",
		})
		return
	}
	if p.X < 0 || p.Y < 0 || p.MaxX() > c.Site.Width || p.MaxY() > c.Site.Height {
		r.AddWarning(Result{
			Level:       LevelSchema,
			Message:     "plaza extends beyond the site boundary",
			Path:        "plaza",
			ActualValue: fmt.Sprintf("(%.1f,%.1f) %.1fx%.1f", p.X, p.Y, p.W, p.H),
			Expected:    fmt.Sprintf("within %.1fx%.1f", c.Site.Width, c.Site.Height),
			Suggestions: []string{"Move or shrink the plaza so it lies inside the site"},
		})
	}
}

func validateConstraints(c *site.Config, r *Report) {
	if c.Constraints.MinSpacing < 0 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "min_spacing must be non-negative",
			Path:        "constraints.min_spacing",
			ActualValue: c.Constraints.MinSpacing,
			Expected:    ">= 0",
		})
	}
	if c.Constraints.NeighborRadius <= 0 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "neighbor_radius must be positive",
			Path:        "constraints.neighbor_radius",
			ActualValue: c.Constraints.NeighborRadius,
			Expected:    "> 0",
		})
	}
}

func validateTypes(c *site.Config, r *Report) {
	if len(c.Types) == 0 {
		r.AddError(Result{
			Level:    LevelSchema,
			Message:  "building_types catalog must not be empty",
			Path:     "building_types",
			Expected: "at least one type",
		})
		return
	}

	for _, tag := range c.TypeTags() {
		d := c.Types[tag]
		if d.W <= 0 || d.H <= 0 {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     fmt.Sprintf("building type %q has non-positive footprint", tag),
				Path:        fmt.Sprintf("building_types.%s", tag),
				ActualValue: fmt.Sprintf("%.1fx%.1f", d.W, d.H),
				Expected:    "> 0 on both axes",
			})
			continue
		}
		loX, hiX := c.PlacementRangeX(d.W)
		loY, hiY := c.PlacementRangeY(d.H)
		if hiX < loX || hiY < loY {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     fmt.Sprintf("building type %q (%.0fx%.0f) cannot fit inside the setback area", tag, d.W, d.H),
				Path:        fmt.Sprintf("building_types.%s", tag),
				ActualValue: fmt.Sprintf("%.1fx%.1f", d.W, d.H),
				Expected:    fmt.Sprintf("<= %.1fx%.1f", c.Site.Width-2*c.Site.Setback, c.Site.Height-2*c.Site.Setback),
			})
		}
	}
}
