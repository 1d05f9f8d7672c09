package render

import (
	"fmt"
	"io"
	"os"

	"github.com/fogleman/gg"

	"github.com/EngineerAnishSharma/SiteArchitect/pkg/layout"
)

// PNG renders the layout to a PNG file.
func (r *Renderer) PNG(path string, l layout.Layout, stats layout.Stats) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := r.EncodePNG(f, l, stats); err != nil {
		return fmt.Errorf("rendering %s: %w", path, err)
	}
	return f.Close()
}

// EncodePNG renders the layout and writes PNG bytes to w. Site coordinates
// have the origin at the lower-left corner, so y is flipped into the
// raster's top-down space.
func (r *Renderer) EncodePNG(w io.Writer, l layout.Layout, stats layout.Stats) error {
	width := int(r.cfg.Site.Width*r.Scale + 2*r.Margin)
	height := int(r.cfg.Site.Height*r.Scale + 2*r.Margin)
	dc := gg.NewContext(width, height)

	px := func(x float64) float64 { return r.Margin + x*r.Scale }
	py := func(y float64) float64 { return float64(height) - r.Margin - y*r.Scale }
	// rect draws with the site rect's lower-left anchor.
	rect := func(x, y, w, h float64) {
		dc.DrawRectangle(px(x), py(y+h), w*r.Scale, h*r.Scale)
	}

	dc.SetHexColor("#ffffff")
	dc.Clear()

	// Site border.
	dc.SetHexColor(colorBorder)
	dc.SetLineWidth(2)
	rect(0, 0, r.cfg.Site.Width, r.cfg.Site.Height)
	dc.Stroke()

	// Plaza.
	plaza := r.cfg.Plaza
	dc.SetHexColor(colorPlaza)
	rect(plaza.X, plaza.Y, plaza.W, plaza.H)
	dc.Fill()
	dc.SetHexColor("#333333")
	pc := plaza.Center()
	dc.DrawStringAnchored("Plaza", px(pc.X), py(pc.Y), 0.5, 0.5)

	violations := r.rules.FindViolations(l)
	affected := make(map[int]bool, len(violations.Affected))
	for _, idx := range violations.Affected {
		affected[idx] = true
	}

	// Nearest-neighbor distance lines, drawn for mutual nearest pairs.
	centers := l.Centers()
	dc.SetHexColor("#555555")
	dc.SetLineWidth(1)
	for _, p := range nearestPairs(centers) {
		dc.DrawLine(px(centers[p[0]].X), py(centers[p[0]].Y), px(centers[p[1]].X), py(centers[p[1]].Y))
		dc.Stroke()
	}

	// Neighbor links under the buildings.
	dc.SetLineWidth(1.5)
	for _, link := range r.neighborLinks(l, violations) {
		if link.Violation {
			dc.SetHexColor(colorViolation)
		} else {
			dc.SetHexColor(colorNeighbor)
		}
		dc.DrawLine(px(link.From.X), py(link.From.Y), px(link.To.X), py(link.To.Y))
		dc.Stroke()
	}

	// Buildings with type labels.
	for i, b := range l {
		dc.SetHexColor(typeColor(b.Type))
		rect(b.X, b.Y, b.W, b.H)
		dc.FillPreserve()

		if affected[i] {
			dc.SetHexColor(colorViolation)
		} else {
			dc.SetHexColor(colorOutline)
		}
		dc.SetLineWidth(2)
		dc.Stroke()

		c := b.Center()
		dc.SetHexColor("#ffffff")
		dc.DrawStringAnchored(b.Type, px(c.X), py(c.Y), 0.5, 0.5)
	}

	status := "invalid"
	if stats.Valid {
		status = "valid"
	}
	subtitle := fmt.Sprintf("A: %d  |  B: %d  |  Area: %.0f m2  |  Status: %s  |  Min spacing: %.0f m",
		stats.CountA, stats.CountB, stats.Area, status, r.cfg.Constraints.MinSpacing)
	dc.SetHexColor(colorOutline)
	dc.DrawStringAnchored(subtitle, r.Margin, r.Margin/2, 0, 0.5)

	return dc.EncodePNG(w)
}
