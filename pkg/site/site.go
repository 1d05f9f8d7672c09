package site

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/EngineerAnishSharma/SiteArchitect/pkg/geo"
)

// Default returns the reference site configuration: a 200x140 m site with a
// 10 m setback, a central 40x40 m plaza, 15 m minimum spacing, a 60 m
// neighbor radius, and the two-tower catalog (A = 30x20, B = 20x20).
func Default() *Config {
	return &Config{
		Site: SiteDef{
			Width:   200,
			Height:  140,
			Setback: 10,
		},
		Plaza: geo.R(85, 55, 40, 40),
		Constraints: Constraints{
			MinSpacing:     15,
			NeighborRadius: 60,
		},
		Types: map[string]Dims{
			"A": {W: 30, H: 20},
			"B": {W: 20, H: 20},
		},
	}
}

// Load reads a site configuration from a YAML file. Fields left unset in the
// file fall back to the reference defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading site file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing site YAML: %w", err)
	}
	return cfg, nil
}

// LoadProject loads the site configuration from a project directory.
// It looks for site.yaml in the given directory; a missing file yields
// the default configuration rather than an error.
func LoadProject(projectDir string) (*Config, error) {
	sitePath := filepath.Join(projectDir, "site.yaml")
	if _, err := os.Stat(sitePath); os.IsNotExist(err) {
		return Default(), nil
	}
	return Load(sitePath)
}
