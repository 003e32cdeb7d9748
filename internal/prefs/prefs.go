package prefs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Path is the viewer preferences file, relative to the process working directory.
const Path = "config/viewer.yaml"

// Viewer holds display toggles the console can flip. Persisted across runs;
// simulation settings live in the profile instead.
type Viewer struct {
	ShowFPS       bool `yaml:"show_fps"`
	ShowMemAlloc  bool `yaml:"show_memalloc"`
	ShowTelemetry bool `yaml:"show_telemetry"`
	GridVisible   bool `yaml:"grid_visible"`
	FreeCamera    bool `yaml:"free_camera"`
}

func Default() Viewer {
	return Viewer{
		ShowTelemetry: true,
		GridVisible:   true,
	}
}

// Load reads preferences from path. A missing file yields Default() without error;
// a file that does not parse yields Default() and the parse error.
func Load(path string) (Viewer, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Default(), fmt.Errorf("prefs: %w", err)
	}
	p := Default()
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Default(), fmt.Errorf("prefs: parse %s: %w", path, err)
	}
	return p, nil
}

// Save writes p to path, creating its directory if needed.
func Save(path string, p Viewer) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("prefs: %w", err)
	}
	data, err := yaml.Marshal(p)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
