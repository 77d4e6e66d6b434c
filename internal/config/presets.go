package config

import (
	"bytes"
	"embed"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/spf13/viper"
)

//go:embed presets/*.json
var presetFS embed.FS

// PresetNames returns the names of the embedded build presets, sorted
func PresetNames() []string {
	entries, err := presetFS.ReadDir("presets")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(names)
	return names
}

// Preset returns the configuration for a named build preset. Keys the
// preset omits keep their built-in defaults.
func Preset(name string) (*Config, error) {
	data, err := presetFS.ReadFile(path.Join("presets", name+".json"))
	if err != nil {
		return nil, fmt.Errorf("unknown preset %q (available: %s)", name, strings.Join(PresetNames(), ", "))
	}

	v := viper.New()
	setDefaults(v, Default())
	v.SetConfigType("json")
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("failed to parse preset %s: %w", name, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode preset %s: %w", name, err)
	}
	return cfg, nil
}
