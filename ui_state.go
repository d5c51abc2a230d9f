package main

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const configDirName = "diagview"

// uiConfig is persisted between sessions. Pointer fields distinguish "unset"
// from an explicit false.
type uiConfig struct {
	Environment string `yaml:"environment,omitempty"`
	Theme       string `yaml:"theme,omitempty"`
	ShowLogs    *bool  `yaml:"showLogs,omitempty"`
	Telemetry   *bool  `yaml:"telemetry,omitempty"`
	Journal     *bool  `yaml:"journal,omitempty"`
}

func (c *uiConfig) showLogs() bool {
	return c != nil && c.ShowLogs != nil && *c.ShowLogs
}

func (c *uiConfig) telemetryEnabled() bool {
	return c == nil || c.Telemetry == nil || *c.Telemetry
}

func (c *uiConfig) journalEnabled() bool {
	return c == nil || c.Journal == nil || *c.Journal
}

// loadUIConfig reads path, or ui.yaml under the config dir when path is
// empty. A missing or unreadable file yields an empty config.
func loadUIConfig(path string) (*uiConfig, string) {
	if strings.TrimSpace(path) == "" {
		configDir := resolveConfigDir()
		if err := os.MkdirAll(configDir, 0o755); err != nil {
			return &uiConfig{}, filepath.Join(configDir, "ui.yaml")
		}
		path = filepath.Join(configDir, "ui.yaml")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return &uiConfig{}, path
	}
	var cfg uiConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return &uiConfig{}, path
	}
	return &cfg, path
}

func saveUIConfig(cfg *uiConfig, path string) error {
	if cfg == nil {
		cfg = &uiConfig{}
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func resolveConfigDir() string {
	if override := strings.TrimSpace(os.Getenv("DIAGVIEW_CONFIG_DIR")); override != "" {
		return override
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, configDirName)
}

func boolPtr(v bool) *bool {
	return &v
}
