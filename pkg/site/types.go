package site

import (
	"sort"

	"github.com/EngineerAnishSharma/SiteArchitect/pkg/geo"
)

// Dims is the fixed footprint for a building type.
type Dims struct {
	W float64 `yaml:"w" json:"w"`
	H float64 `yaml:"h" json:"h"`
}

// SiteDef describes the outer site rectangle and its mandatory setback.
type SiteDef struct {
	Width   float64 `yaml:"width" json:"width"`
	Height  float64 `yaml:"height" json:"height"`
	Setback float64 `yaml:"setback" json:"setback"`
}

// Constraints holds the placement rule thresholds.
type Constraints struct {
	MinSpacing     float64 `yaml:"min_spacing" json:"min_spacing"`
	NeighborRadius float64 `yaml:"neighbor_radius" json:"neighbor_radius"`
}

// Config is the complete site configuration. It is immutable for the
// lifetime of a run and shared read-only by every component.
type Config struct {
	Site        SiteDef         `yaml:"site" json:"site"`
	Plaza       geo.Rect        `yaml:"plaza" json:"plaza"`
	Constraints Constraints     `yaml:"constraints" json:"constraints"`
	Types       map[string]Dims `yaml:"building_types" json:"building_types"`
}

// TypeTags returns the building type tags in sorted order, so that callers
// drawing a uniform random type do so deterministically for a fixed seed.
func (c *Config) TypeTags() []string {
	tags := make([]string, 0, len(c.Types))
	for tag := range c.Types {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// PlacementRangeX returns the closed interval of valid origin x coordinates
// for a footprint of width w.
func (c *Config) PlacementRangeX(w float64) (lo, hi float64) {
	return c.Site.Setback, c.Site.Width - c.Site.Setback - w
}

// PlacementRangeY returns the closed interval of valid origin y coordinates
// for a footprint of height h.
func (c *Config) PlacementRangeY(h float64) (lo, hi float64) {
	return c.Site.Setback, c.Site.Height - c.Site.Setback - h
}

// ClampX truncates x into the valid origin range for width w.
func (c *Config) ClampX(x, w float64) float64 {
	lo, hi := c.PlacementRangeX(w)
	return clamp(x, lo, hi)
}

// ClampY truncates y into the valid origin range for height h.
func (c *Config) ClampY(y, h float64) float64 {
	lo, hi := c.PlacementRangeY(h)
	return clamp(y, lo, hi)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
