package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadWranglerConfig reads a wrangler_config yaml file, starting from
// Default() so any key the file omits keeps its documented default,
// mirroring load_wrangler_config's merge-over-defaults behavior.
func LoadWranglerConfig(path string) (WranglerConfig, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading wrangler config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing wrangler config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadScenarioConfig reads a scenario config yaml file, defaulting
// WranglerConfig to Default() before the file is unmarshaled over it,
// mirroring load_scenario_config.
func LoadScenarioConfig(path string) (ScenarioConfig, error) {
	cfg := ScenarioConfig{WranglerConfig: Default()}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading scenario config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing scenario config %s: %w", path, err)
	}
	return cfg, nil
}
