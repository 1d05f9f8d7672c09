// Package layout implements the building placement engine: the layout data
// model, the placement rules, and the randomized generator that produces
// candidate layouts for the optimizer.
package layout

import (
	"github.com/EngineerAnishSharma/SiteArchitect/pkg/geo"
	"github.com/EngineerAnishSharma/SiteArchitect/pkg/site"
)

// Building type tags. The catalog maps each tag to a fixed footprint
// (reference config: A = 30x20, B = 20x20).
const (
	TypeA = "A"
	TypeB = "B"
)

// Building is one placed rectangle with its type tag. Type and footprint are
// always consistent: use SetType to change the type so the dimensions follow.
type Building struct {
	geo.Rect
	Type string `json:"type"`
}

// NewBuilding creates a building of the given type at (x, y), with the
// footprint taken from the site catalog.
func NewBuilding(cfg *site.Config, tag string, x, y float64) Building {
	d := cfg.Types[tag]
	return Building{Rect: geo.R(x, y, d.W, d.H), Type: tag}
}

// SetType changes the building's type and atomically swaps its footprint to
// the catalog dimensions for the new type. The origin is left unchanged,
// which may introduce overlaps or boundary violations caught by the next
// validity check.
func (b *Building) SetType(cfg *site.Config, tag string) {
	d := cfg.Types[tag]
	b.Type = tag
	b.W = d.W
	b.H = d.H
}

// Layout is an ordered collection of buildings. Order is insertion order and
// carries no meaning beyond stable indexing in diagnostics.
type Layout []Building

// Clone returns an independent copy of the layout. Every mutation or
// insertion attempt in the optimizer operates on a clone so that failed
// attempts never corrupt the parent.
func (l Layout) Clone() Layout {
	out := make(Layout, len(l))
	copy(out, l)
	return out
}

// Count returns the number of buildings with the given type tag.
func (l Layout) Count(tag string) int {
	n := 0
	for _, b := range l {
		if b.Type == tag {
			n++
		}
	}
	return n
}

// TotalArea returns the summed footprint area of all buildings.
func (l Layout) TotalArea() float64 {
	area := 0.0
	for _, b := range l {
		area += b.Area()
	}
	return area
}

// Centers returns the building centers aligned by index with the layout.
func (l Layout) Centers() []geo.Point {
	centers := make([]geo.Point, len(l))
	for i, b := range l {
		centers[i] = b.Center()
	}
	return centers
}
