package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/EngineerAnishSharma/SiteArchitect/pkg/geo"
	"github.com/EngineerAnishSharma/SiteArchitect/pkg/layout"
	"github.com/EngineerAnishSharma/SiteArchitect/pkg/site"
)

func validFixture() layout.Layout {
	return layout.Layout{
		{Rect: geo.R(20, 20, 30, 20), Type: layout.TypeA},
		{Rect: geo.R(70, 20, 20, 20), Type: layout.TypeB},
		{Rect: geo.R(140, 20, 30, 20), Type: layout.TypeA},
		{Rect: geo.R(140, 60, 20, 20), Type: layout.TypeB},
	}
}

func TestNewDocument(t *testing.T) {
	cfg := site.Default()
	l := validFixture()
	stats := layout.NewRules(cfg).Summarize(l)

	doc := NewDocument(l, stats, cfg)

	if doc.Site.Width != 200 || doc.Site.Height != 140 || doc.Site.Setback != 10 {
		t.Errorf("site block wrong: %+v", doc.Site)
	}
	if doc.Plaza != geo.R(85, 55, 40, 40) {
		t.Errorf("plaza block wrong: %+v", doc.Plaza)
	}
	if doc.Constraints.MinSpacing != 15 || doc.Constraints.NeighborRadius != 60 {
		t.Errorf("constraints block wrong: %+v", doc.Constraints)
	}
	if len(doc.Buildings) != 4 {
		t.Fatalf("expected 4 building records, got %d", len(doc.Buildings))
	}

	first := doc.Buildings[0]
	if first.ID != 0 || first.Type != layout.TypeA {
		t.Errorf("first record identity wrong: %+v", first)
	}
	if first.CenterX != 35 || first.CenterY != 30 || first.Area != 600 {
		t.Errorf("derived fields wrong: %+v", first)
	}

	if doc.Statistics.TotalBuildings != 4 || doc.Statistics.TowerACount != 2 || doc.Statistics.TowerBCount != 2 {
		t.Errorf("statistics wrong: %+v", doc.Statistics)
	}
	if doc.Statistics.TotalBuiltArea != 2000 || !doc.Statistics.Valid {
		t.Errorf("statistics wrong: %+v", doc.Statistics)
	}
	if !doc.RuleValidation.Boundary || !doc.RuleValidation.Plaza || !doc.RuleValidation.Spacing || !doc.RuleValidation.NeighborMix {
		t.Errorf("rule validation wrong: %+v", doc.RuleValidation)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	cfg := site.Default()
	l := validFixture()
	stats := layout.NewRules(cfg).Summarize(l)

	var buf bytes.Buffer
	if err := JSON(&buf, l, stats, cfg); err != nil {
		t.Fatalf("JSON: %v", err)
	}

	var doc Document
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(doc.Buildings) != len(l) {
		t.Errorf("decoded %d buildings, want %d", len(doc.Buildings), len(l))
	}
	if !strings.Contains(buf.String(), `"rule_validation"`) {
		t.Error("output missing rule_validation block")
	}
}

func TestCSVSummary(t *testing.T) {
	cfg := site.Default()
	ru := layout.NewRules(cfg)

	valid := validFixture()
	invalid := validFixture()
	invalid[0].X = 5

	var buf bytes.Buffer
	err := CSV(&buf, []Entry{
		{Layout: valid, Stats: ru.Summarize(valid)},
		{Layout: invalid, Stats: ru.Summarize(invalid)},
	})
	if err != nil {
		t.Fatalf("CSV: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "layout_id" || rows[0][9] != "rule_neighbor_mix" {
		t.Errorf("header wrong: %v", rows[0])
	}
	if rows[1][0] != "1" || rows[1][5] != "true" {
		t.Errorf("valid layout row wrong: %v", rows[1])
	}
	if rows[2][0] != "2" || rows[2][5] != "false" || rows[2][6] != "false" {
		t.Errorf("invalid layout row should fail boundary: %v", rows[2])
	}
}

func TestCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := CSV(&buf, nil); err != nil {
		t.Fatalf("CSV: %v", err)
	}
	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil || len(rows) != 1 {
		t.Errorf("empty export should contain only the header, got %v (%v)", rows, err)
	}
}
