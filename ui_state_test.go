package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bekirdag/diagview/internal/diagnostics"
	"github.com/bekirdag/diagview/internal/render"
)

func TestUIConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "ui.yaml")
	cfg := &uiConfig{
		Environment: "fairfax",
		Theme:       "dark",
		ShowLogs:    boolPtr(true),
		Telemetry:   boolPtr(false),
	}
	require.NoError(t, saveUIConfig(cfg, path))

	loaded, loadedPath := loadUIConfig(path)
	assert.Equal(t, path, loadedPath)
	assert.Equal(t, cfg, loaded)
	assert.True(t, loaded.showLogs())
	assert.False(t, loaded.telemetryEnabled())
	assert.True(t, loaded.journalEnabled())
}

func TestUIConfigDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DIAGVIEW_CONFIG_DIR", dir)

	cfg, path := loadUIConfig("")
	assert.Equal(t, filepath.Join(dir, "ui.yaml"), path)
	assert.Equal(t, &uiConfig{}, cfg)
	assert.False(t, cfg.showLogs())
	assert.True(t, cfg.telemetryEnabled())
	assert.True(t, cfg.journalEnabled())

	var missing *uiConfig
	assert.True(t, missing.telemetryEnabled())
}

func TestUIConfigIgnoresInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ui.yaml")
	require.NoError(t, os.WriteFile(path, []byte("environment: [unterminated"), 0o644))

	cfg, _ := loadUIConfig(path)
	assert.Equal(t, &uiConfig{}, cfg)
}

func TestResolveEnvironment(t *testing.T) {
	logger := zap.NewNop()

	assert.Equal(t, diagnostics.Mooncake, resolveEnvironment("mooncake", &uiConfig{Environment: "fairfax"}, logger))
	assert.Equal(t, diagnostics.Fairfax, resolveEnvironment("", &uiConfig{Environment: "fairfax"}, logger))
	assert.Equal(t, diagnostics.Fairfax, resolveEnvironment("nowhere", &uiConfig{Environment: "Fairfax"}, logger))
	assert.Equal(t, diagnostics.DefaultEnvironment, resolveEnvironment("", &uiConfig{}, logger))
}

func TestResolveTheme(t *testing.T) {
	assert.Equal(t, render.ThemeLight, resolveTheme("light", &uiConfig{Theme: "dark"}))
	assert.Equal(t, render.ThemeDark, resolveTheme("", &uiConfig{Theme: "dark"}))
	assert.Equal(t, render.ThemeAuto, resolveTheme("", &uiConfig{}))
}
