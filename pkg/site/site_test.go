package site

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default()

	if cfg.Site.Width != 200 || cfg.Site.Height != 140 || cfg.Site.Setback != 10 {
		t.Errorf("site dims wrong: %+v", cfg.Site)
	}
	if cfg.Plaza.X != 85 || cfg.Plaza.Y != 55 || cfg.Plaza.W != 40 || cfg.Plaza.H != 40 {
		t.Errorf("plaza wrong: %+v", cfg.Plaza)
	}
	if cfg.Constraints.MinSpacing != 15 || cfg.Constraints.NeighborRadius != 60 {
		t.Errorf("constraints wrong: %+v", cfg.Constraints)
	}
	if d := cfg.Types["A"]; d.W != 30 || d.H != 20 {
		t.Errorf("type A dims wrong: %+v", d)
	}
	if d := cfg.Types["B"]; d.W != 20 || d.H != 20 {
		t.Errorf("type B dims wrong: %+v", d)
	}
}

func TestTypeTagsSorted(t *testing.T) {
	cfg := Default()
	tags := cfg.TypeTags()
	if len(tags) != 2 || tags[0] != "A" || tags[1] != "B" {
		t.Errorf("expected sorted tags [A B], got %v", tags)
	}
}

func TestPlacementRange(t *testing.T) {
	cfg := Default()

	loX, hiX := cfg.PlacementRangeX(30)
	if loX != 10 || hiX != 160 {
		t.Errorf("x range for width 30: got [%f, %f]", loX, hiX)
	}
	loY, hiY := cfg.PlacementRangeY(20)
	if loY != 10 || hiY != 110 {
		t.Errorf("y range for height 20: got [%f, %f]", loY, hiY)
	}
}

func TestClamp(t *testing.T) {
	cfg := Default()

	if got := cfg.ClampX(-5, 30); got != 10 {
		t.Errorf("below range should clamp to setback, got %f", got)
	}
	if got := cfg.ClampX(500, 30); got != 160 {
		t.Errorf("above range should clamp to far bound, got %f", got)
	}
	if got := cfg.ClampX(80, 30); got != 80 {
		t.Errorf("in-range value should pass through, got %f", got)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "site.yaml")
	content := []byte(`site:
  width: 300
  height: 200
constraints:
  min_spacing: 20
`)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Site.Width != 300 || cfg.Site.Height != 200 {
		t.Errorf("overrides not applied: %+v", cfg.Site)
	}
	if cfg.Constraints.MinSpacing != 20 {
		t.Errorf("min spacing not applied: %+v", cfg.Constraints)
	}
	// Fields the file does not mention keep their defaults.
	if cfg.Site.Setback != 10 {
		t.Errorf("setback should default to 10, got %f", cfg.Site.Setback)
	}
	if cfg.Constraints.NeighborRadius != 60 {
		t.Errorf("neighbor radius should default to 60, got %f", cfg.Constraints.NeighborRadius)
	}
	if len(cfg.Types) != 2 {
		t.Errorf("type catalog should default, got %v", cfg.Types)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("missing file should error")
	}
}

func TestLoadProjectMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadProject(t.TempDir())
	if err != nil {
		t.Fatalf("LoadProject: %v", err)
	}
	if cfg.Site.Width != 200 {
		t.Errorf("expected default config, got %+v", cfg.Site)
	}
}

func TestLoadProjectReadsSiteYAML(t *testing.T) {
	dir := t.TempDir()
	content := []byte("site:\n  width: 250\n")
	if err := os.WriteFile(filepath.Join(dir, "site.yaml"), content, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadProject(dir)
	if err != nil {
		t.Fatalf("LoadProject: %v", err)
	}
	if cfg.Site.Width != 250 {
		t.Errorf("expected width 250 from project file, got %f", cfg.Site.Width)
	}
}
