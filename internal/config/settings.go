// Package config loads optional toolkit settings from a JSON file.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultSettingsPath is where the CLI looks for settings when no -config
// flag is given. A missing file at this path is not an error.
const DefaultSettingsPath = "rasterkit.settings.json"

// maxSettingsFileSize guards against accidentally pointing -config at a
// raster payload.
const maxSettingsFileSize = 1 << 20

// Settings is the optional on-disk configuration. All fields are pointers
// so a partial file overrides only what it names; nil means "not set" and
// the flag default applies.
type Settings struct {
	WorkingDir    *string `json:"working_dir,omitempty"`
	DBFile        *string `json:"db_file,omitempty"`
	Verbose       *bool   `json:"verbose,omitempty"`
	DisableRunLog *bool   `json:"disable_run_log,omitempty"`
}

// Load reads settings from a JSON file. The file must have a .json
// extension and stay under the size guard.
func Load(path string) (*Settings, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return nil, err
	}
	if info.Size() > maxSettingsFileSize {
		return nil, fmt.Errorf("config file %s is %d bytes, limit is %d", cleanPath, info.Size(), maxSettingsFileSize)
	}

	raw, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, err
	}

	var s Settings
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", cleanPath, err)
	}
	return &s, nil
}

// LoadDefault loads DefaultSettingsPath, returning empty settings when the
// file does not exist.
func LoadDefault() (*Settings, error) {
	s, err := Load(DefaultSettingsPath)
	if os.IsNotExist(err) {
		return &Settings{}, nil
	}
	return s, err
}
