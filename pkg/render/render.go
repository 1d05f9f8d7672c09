// Package render draws layouts as PNG rasters and SVG documents: site
// border, plaza, type-colored buildings, violation outlines, and the
// A-to-nearest-B neighbor links.
package render

import (
	"math"

	"github.com/EngineerAnishSharma/SiteArchitect/pkg/geo"
	"github.com/EngineerAnishSharma/SiteArchitect/pkg/layout"
	"github.com/EngineerAnishSharma/SiteArchitect/pkg/site"
)

const (
	colorTypeA     = "#1f77b4"
	colorTypeB     = "#ff7f0e"
	colorPlaza     = "#cccccc"
	colorOutline   = "#111111"
	colorViolation = "#d62728"
	colorNeighbor  = "#9467bd"
	colorBorder    = "#222222"
)

// Renderer draws layouts for one site configuration. Scale converts site
// meters to output pixels.
type Renderer struct {
	cfg    *site.Config
	rules  layout.Rules
	Scale  float64
	Margin float64
}

// New creates a renderer with the default scale (6 px/m) and margin.
func New(cfg *site.Config) *Renderer {
	return &Renderer{cfg: cfg, rules: layout.NewRules(cfg), Scale: 6, Margin: 20}
}

func typeColor(tag string) string {
	switch tag {
	case layout.TypeA:
		return colorTypeA
	case layout.TypeB:
		return colorTypeB
	}
	return "#2ca02c"
}

// nearestPairs returns the deduplicated center pairs where each building is
// linked to its nearest neighbor by center distance.
func nearestPairs(centers []geo.Point) [][2]int {
	seen := make(map[[2]int]bool)
	var pairs [][2]int
	for i := range centers {
		nearest := -1
		nearestDist := math.Inf(1)
		for j := range centers {
			if j == i {
				continue
			}
			if d := centers[i].Distance(centers[j]); d < nearestDist {
				nearestDist = d
				nearest = j
			}
		}
		if nearest < 0 {
			continue
		}
		p := [2]int{i, nearest}
		if p[0] > p[1] {
			p[0], p[1] = p[1], p[0]
		}
		if !seen[p] {
			seen[p] = true
			pairs = append(pairs, p)
		}
	}
	return pairs
}

// neighborLink is the drawn line from a type-A center to its closest type-B
// center, flagged when the distance exceeds the neighbor radius.
type neighborLink struct {
	From      geo.Point
	To        geo.Point
	Distance  float64
	Violation bool
}

// neighborLinks finds, for every type-A building, the closest type-B center.
// Buildings of type A with no B anywhere produce no link; the neighbor-mix
// rule reports that case separately.
func (r *Renderer) neighborLinks(l layout.Layout, v layout.Violations) []neighborLink {
	centers := l.Centers()

	failed := make(map[int]bool, len(v.NeighborFail))
	for _, idx := range v.NeighborFail {
		failed[idx] = true
	}

	var links []neighborLink
	for i, b := range l {
		if b.Type != layout.TypeA {
			continue
		}
		closest := -1
		closestDist := math.Inf(1)
		for j, other := range l {
			if other.Type != layout.TypeB {
				continue
			}
			if d := centers[i].Distance(centers[j]); d < closestDist {
				closestDist = d
				closest = j
			}
		}
		if closest < 0 {
			continue
		}
		links = append(links, neighborLink{
			From:      centers[i],
			To:        centers[closest],
			Distance:  closestDist,
			Violation: failed[i],
		})
	}
	return links
}
