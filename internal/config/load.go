package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Load reads a TOML or JSON parameter file and overlays it onto
// DefaultParams. Fields not set in the file keep their default values.
func Load(path string) (Params, error) {
	p := DefaultParams()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.DecodeFile(path, &p); err != nil {
			return Params{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	case ".json":
		data, err := os.ReadFile(path)
		if err != nil {
			return Params{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := json.Unmarshal(data, &p); err != nil {
			return Params{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	default:
		return Params{}, fmt.Errorf("config: unsupported parameter file %s", path)
	}

	if err := p.Validate(); err != nil {
		return Params{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return p, nil
}
