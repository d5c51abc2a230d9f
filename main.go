package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/bekirdag/diagview/internal/diagnostics"
	"github.com/bekirdag/diagview/internal/journal"
	"github.com/bekirdag/diagview/internal/logging"
	"github.com/bekirdag/diagview/internal/render"
)

func main() {
	theme := flag.String("theme", "", "Markdown rendering theme: auto, light, or dark")
	envFlag := flag.String("env", "", "Environment to open: public, fairfax, or mooncake")
	configPath := flag.String("config", "", "Path to ui.yaml (defaults to the user config dir)")
	verbose := flag.Bool("debug", false, "Write debug logs")
	flag.Parse()

	cfg, cfgPath := loadUIConfig(*configPath)
	configDir := filepath.Dir(cfgPath)

	logger := logging.NewOrNop(logging.Options{
		Path:    filepath.Join(configDir, "diagview.log"),
		Verbose: *verbose,
	})
	defer func() { _ = logger.Sync() }()

	opts := modelOptions{
		environment: resolveEnvironment(*envFlag, cfg, logger),
		theme:       resolveTheme(*theme, cfg),
		logger:      logger,
		config:      cfg,
		configPath:  cfgPath,
		showLogs:    cfg.showLogs(),
	}
	opts.fetcher = diagnostics.NewClient(diagnostics.WithLogger(logger.Named("fetch")))

	if cfg.telemetryEnabled() {
		opts.telemetry = newTelemetryLogger(telemetryOptions{
			Path:      filepath.Join(configDir, "telemetry.jsonl"),
			SessionID: newTelemetrySessionID(),
			UserID:    resolveTelemetryUserID(),
			Logger:    logger.Named("telemetry"),
		})
		defer opts.telemetry.Close()
	}
	if cfg.journalEnabled() {
		store, err := journal.Open(filepath.Join(configDir, "journal.sqlite"))
		if err != nil {
			logger.Warn("fetch journal disabled", zap.Error(err))
		} else {
			defer store.Close()
			opts.journal = store
		}
	}

	logger.Info("starting diagview",
		zap.String("environment", opts.environment.Key()),
		zap.String("theme", string(opts.theme)),
		zap.String("config", cfgPath),
	)

	if _, err := tea.NewProgram(
		initialModel(opts),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	).Run(); err != nil {
		logger.Error("program exited with error", zap.Error(err))
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// resolveEnvironment prefers the flag, then the saved config, then the default.
func resolveEnvironment(flagValue string, cfg *uiConfig, logger *zap.Logger) diagnostics.Environment {
	for _, candidate := range []string{flagValue, cfg.Environment} {
		if strings.TrimSpace(candidate) == "" {
			continue
		}
		env, err := diagnostics.ParseEnvironment(candidate)
		if err != nil {
			logger.Warn("ignoring unknown environment", zap.String("value", candidate))
			continue
		}
		return env
	}
	return diagnostics.DefaultEnvironment
}

func resolveTheme(flagValue string, cfg *uiConfig) render.Theme {
	if strings.TrimSpace(flagValue) != "" {
		return render.ThemeFromString(flagValue)
	}
	return render.ThemeFromString(cfg.Theme)
}
