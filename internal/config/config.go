package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// PrefsPath is the path to the preferences file, relative to the process
// working directory.
const PrefsPath = "config/scene.json"

// Prefs holds viewer preferences persisted across runs. In-memory scene state
// (focus, drag) is never saved.
type Prefs struct {
	ShowFPS        bool   `json:"show_fps"`
	ShowMemAlloc   bool   `json:"show_memalloc"`
	GridVisible    bool   `json:"grid_visible"`
	LastSelectedID string `json:"last_selected_id,omitempty"`
}

// Default returns default preferences (debug overlays off, grid on).
func Default() Prefs {
	return Prefs{
		ShowFPS:      false,
		ShowMemAlloc: false,
		GridVisible:  true,
	}
}

// Load reads preferences from config/scene.json. If the file is missing or
// invalid, returns Default() and does not create a file.
func Load() (Prefs, error) {
	data, err := os.ReadFile(PrefsPath)
	if err != nil {
		return Default(), nil
	}
	var p Prefs
	if err := json.Unmarshal(data, &p); err != nil {
		return Default(), nil
	}
	return p, nil
}

// Save writes preferences to config/scene.json, creating the config directory
// if needed.
func Save(p Prefs) error {
	dir := filepath.Dir(PrefsPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(p, "", "\t")
	if err != nil {
		return err
	}
	return os.WriteFile(PrefsPath, data, 0644)
}
