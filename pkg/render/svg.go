package render

import (
	"bytes"
	"fmt"

	"github.com/EngineerAnishSharma/SiteArchitect/pkg/layout"
)

// SVG renders the layout as an SVG document in site coordinates. The
// viewBox matches the site in meters; y is flipped so the site origin sits
// at the lower-left corner, as in the PNG output.
func (r *Renderer) SVG(l layout.Layout, stats layout.Stats) []byte {
	w := r.cfg.Site.Width
	h := r.cfg.Site.Height
	flipY := func(y, rh float64) float64 { return h - y - rh }

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		w, h, w*r.Scale, h*r.Scale)

	fmt.Fprintf(&buf, `  <rect x="0" y="0" width="%.1f" height="%.1f" fill="#ffffff" stroke="%s" stroke-width="1"/>`+"\n",
		w, h, colorBorder)

	plaza := r.cfg.Plaza
	fmt.Fprintf(&buf, `  <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s" fill-opacity="0.5"/>`+"\n",
		plaza.X, flipY(plaza.Y, plaza.H), plaza.W, plaza.H, colorPlaza)
	pc := plaza.Center()
	fmt.Fprintf(&buf, `  <text x="%.1f" y="%.1f" font-size="6" fill="#333333" text-anchor="middle" dominant-baseline="central">Plaza</text>`+"\n",
		pc.X, flipY(pc.Y, 0))

	violations := r.rules.FindViolations(l)
	affected := make(map[int]bool, len(violations.Affected))
	for _, idx := range violations.Affected {
		affected[idx] = true
	}

	for _, link := range r.neighborLinks(l, violations) {
		color := colorNeighbor
		if link.Violation {
			color = colorViolation
		}
		fmt.Fprintf(&buf, `  <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="0.8" stroke-opacity="0.8"/>`+"\n",
			link.From.X, flipY(link.From.Y, 0), link.To.X, flipY(link.To.Y, 0), color)
	}

	for i, b := range l {
		stroke := colorOutline
		if affected[i] {
			stroke = colorViolation
		}
		fmt.Fprintf(&buf, `  <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s" fill-opacity="0.8" stroke="%s" stroke-width="1"/>`+"\n",
			b.X, flipY(b.Y, b.H), b.W, b.H, typeColor(b.Type), stroke)
		c := b.Center()
		fmt.Fprintf(&buf, `  <text x="%.1f" y="%.1f" font-size="6" fill="#ffffff" text-anchor="middle" dominant-baseline="central">%s</text>`+"\n",
			c.X, flipY(c.Y, 0), b.Type)
	}

	status := "invalid"
	if stats.Valid {
		status = "valid"
	}
	fmt.Fprintf(&buf, `  <text x="2" y="6" font-size="5" fill="%s">A: %d | B: %d | Area: %.0f m2 | %s</text>`+"\n",
		colorOutline, stats.CountA, stats.CountB, stats.Area, status)

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}
