// Package export serializes layouts to JSON documents and CSV summaries.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/EngineerAnishSharma/SiteArchitect/pkg/geo"
	"github.com/EngineerAnishSharma/SiteArchitect/pkg/layout"
	"github.com/EngineerAnishSharma/SiteArchitect/pkg/site"
)

// BuildingRecord is one building in the exported document, with the derived
// center and area included so downstream consumers need no geometry code.
type BuildingRecord struct {
	ID      int     `json:"id"`
	Type    string  `json:"type"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	CenterX float64 `json:"center_x"`
	CenterY float64 `json:"center_y"`
	Area    float64 `json:"area"`
}

// Statistics is the aggregate block of the exported document.
type Statistics struct {
	TotalBuildings int     `json:"total_buildings"`
	TowerACount    int     `json:"tower_a_count"`
	TowerBCount    int     `json:"tower_b_count"`
	TotalBuiltArea float64 `json:"total_built_area"`
	Valid          bool    `json:"valid"`
}

// RuleValidation is the per-rule outcome block of the exported document.
type RuleValidation struct {
	Boundary    bool `json:"boundary"`
	Plaza       bool `json:"plaza"`
	Spacing     bool `json:"spacing"`
	NeighborMix bool `json:"neighbor_mix"`
}

// Document is the full JSON export of one layout together with the site
// parameters it was generated under.
type Document struct {
	Site           SiteBlock        `json:"site"`
	Plaza          geo.Rect         `json:"plaza"`
	Constraints    ConstraintsBlock `json:"constraints"`
	Buildings      []BuildingRecord `json:"buildings"`
	Statistics     Statistics       `json:"statistics"`
	RuleValidation RuleValidation   `json:"rule_validation"`
}

// SiteBlock is the site geometry portion of the document.
type SiteBlock struct {
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Setback float64 `json:"setback"`
}

// ConstraintsBlock is the spacing-rule portion of the document.
type ConstraintsBlock struct {
	MinSpacing     float64 `json:"min_spacing"`
	NeighborRadius float64 `json:"neighbor_radius"`
}

// NewDocument assembles the export document for a layout.
func NewDocument(l layout.Layout, stats layout.Stats, cfg *site.Config) Document {
	buildings := make([]BuildingRecord, len(l))
	for i, b := range l {
		c := b.Center()
		buildings[i] = BuildingRecord{
			ID:      i,
			Type:    b.Type,
			X:       b.X,
			Y:       b.Y,
			Width:   b.W,
			Height:  b.H,
			CenterX: c.X,
			CenterY: c.Y,
			Area:    b.Area(),
		}
	}

	return Document{
		Site: SiteBlock{
			Width:   cfg.Site.Width,
			Height:  cfg.Site.Height,
			Setback: cfg.Site.Setback,
		},
		Plaza: cfg.Plaza,
		Constraints: ConstraintsBlock{
			MinSpacing:     cfg.Constraints.MinSpacing,
			NeighborRadius: cfg.Constraints.NeighborRadius,
		},
		Buildings: buildings,
		Statistics: Statistics{
			TotalBuildings: len(l),
			TowerACount:    stats.CountA,
			TowerBCount:    stats.CountB,
			TotalBuiltArea: stats.Area,
			Valid:          stats.Valid,
		},
		RuleValidation: RuleValidation{
			Boundary:    stats.RuleBoundary,
			Plaza:       stats.RulePlaza,
			Spacing:     stats.RuleSpacing,
			NeighborMix: stats.RuleNeighbor,
		},
	}
}

// JSON writes the layout document as indented JSON.
func JSON(w io.Writer, l layout.Layout, stats layout.Stats, cfg *site.Config) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewDocument(l, stats, cfg))
}

// JSONFile writes the layout document to a file, creating or truncating it.
func JSONFile(path string, l layout.Layout, stats layout.Stats, cfg *site.Config) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := JSON(f, l, stats, cfg); err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return f.Close()
}

// Entry pairs a layout with its statistics for the CSV summary.
type Entry struct {
	Layout layout.Layout
	Stats  layout.Stats
}

var csvHeader = []string{
	"layout_id",
	"total_buildings",
	"tower_a_count",
	"tower_b_count",
	"total_area_m2",
	"valid",
	"rule_boundary",
	"rule_plaza",
	"rule_spacing",
	"rule_neighbor_mix",
}

// CSV writes one summary row per layout, with layout IDs starting at 1.
func CSV(w io.Writer, entries []Entry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for i, e := range entries {
		row := []string{
			strconv.Itoa(i + 1),
			strconv.Itoa(len(e.Layout)),
			strconv.Itoa(e.Stats.CountA),
			strconv.Itoa(e.Stats.CountB),
			strconv.FormatFloat(e.Stats.Area, 'f', -1, 64),
			strconv.FormatBool(e.Stats.Valid),
			strconv.FormatBool(e.Stats.RuleBoundary),
			strconv.FormatBool(e.Stats.RulePlaza),
			strconv.FormatBool(e.Stats.RuleSpacing),
			strconv.FormatBool(e.Stats.RuleNeighbor),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// CSVFile writes the summary rows to a file, creating or truncating it.
func CSVFile(path string, entries []Entry) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := CSV(f, entries); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
