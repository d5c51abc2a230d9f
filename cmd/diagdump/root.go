package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bekirdag/diagview/internal/diagnostics"
	"github.com/bekirdag/diagview/internal/journal"
	"github.com/bekirdag/diagview/internal/logging"
	"github.com/bekirdag/diagview/internal/render"
)

type dumpOptions struct {
	env         string
	tab         string
	extension   string
	theme       string
	width       int
	jsonOut     bool
	journalPath string
	noJournal   bool
	history     bool
	limit       int
	verbose     bool
}

// newRootCmd builds the command. A nil fetcher means the HTTP client.
func newRootCmd(fetcher diagnostics.Fetcher, stdout io.Writer) *cobra.Command {
	opts := &dumpOptions{}
	logger := zap.NewNop()

	cmd := &cobra.Command{
		Use:   "diagdump",
		Short: "Print portal diagnostics for one environment",
		Long: `diagdump fetches the diagnostics document of a portal environment and
prints one view of it: the extension links, build information, server
information, or a single extension's configuration.

Examples:
  diagdump --env fairfax --tab build
  diagdump --extension websites
  diagdump --tab server --json
  diagdump --history`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			built, err := logging.New(logging.Options{Verbose: opts.verbose, Quiet: true})
			if err != nil {
				return err
			}
			logger = built
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.history {
				return runHistory(opts, stdout)
			}
			f := fetcher
			if f == nil {
				f = diagnostics.NewClient(diagnostics.WithLogger(logger.Named("fetch")))
			}
			return runDump(cmd.Context(), opts, f, logger, stdout)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.env, "env", diagnostics.DefaultEnvironment.Key(), "environment: public, fairfax, or mooncake")
	flags.StringVar(&opts.tab, "tab", string(diagnostics.TabExtensions), "view: extensions, build, or server")
	flags.StringVar(&opts.extension, "extension", "", "print the configuration of the extension stored under this key")
	flags.StringVar(&opts.theme, "theme", string(render.ThemePlain), "markdown theme: plain, auto, dark, or light")
	flags.IntVar(&opts.width, "width", 100, "word wrap width for rendered markdown")
	flags.BoolVar(&opts.jsonOut, "json", false, "print JSON instead of rendered markdown")
	flags.StringVar(&opts.journalPath, "journal", "", "fetch journal path (defaults to the diagview config dir)")
	flags.BoolVar(&opts.noJournal, "no-journal", false, "do not record this fetch")
	flags.BoolVar(&opts.history, "history", false, "print recent fetches from the journal and exit")
	flags.IntVar(&opts.limit, "limit", 20, "number of journal entries for --history")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging on stderr")
	return cmd
}

func runDump(ctx context.Context, opts *dumpOptions, fetcher diagnostics.Fetcher, logger *zap.Logger, stdout io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	env, err := diagnostics.ParseEnvironment(opts.env)
	if err != nil {
		return err
	}
	tab := diagnostics.ParseTab(opts.tab)
	if string(tab) != strings.TrimSpace(opts.tab) {
		logger.Warn("unknown tab, showing extensions", zap.String("tab", opts.tab))
	}

	state, req := diagnostics.Start(env)
	started := time.Now()
	doc, fetchErr := fetcher.Fetch(ctx, req.URL)
	result := diagnostics.FetchResult{Request: req, Document: doc, Err: fetchErr}
	recordFetch(opts, logger, journal.EntryFromResult(result, started, time.Since(started)))

	state = state.ApplyFetchResult(result).SetActiveTab(string(tab))
	if err := state.LastError(); err != nil {
		return fmt.Errorf("fetch %s diagnostics: %w", env.Key(), err)
	}
	if !state.Loaded() {
		return fmt.Errorf("%s returned an empty diagnostics document", req.URL)
	}

	if key := strings.TrimSpace(opts.extension); key != "" {
		state = state.SelectExtensionByKey(key)
		info, ok := state.Selected()
		if !ok {
			return fmt.Errorf("extension %q is not loaded in %s", key, env.Label())
		}
		return write(stdout, opts, info, render.ExtensionMarkdown(info))
	}

	document := state.Document()
	switch state.ActiveTab() {
	case diagnostics.TabBuild:
		return write(stdout, opts, document.BuildInfo, render.BuildInfoMarkdown(document.BuildInfo))
	case diagnostics.TabServer:
		return write(stdout, opts, document.ServerInfo, render.ServerInfoMarkdown(document.ServerInfo))
	default:
		links := state.Links()
		if links == nil {
			links = []diagnostics.NavigableLink{}
		}
		return write(stdout, opts, links, render.LinksMarkdown(links))
	}
}

func write(w io.Writer, opts *dumpOptions, value any, markdown string) error {
	if opts.jsonOut {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(value)
	}
	renderer := render.NewRenderer(render.ThemeFromString(opts.theme), opts.width)
	_, err := io.WriteString(w, renderer.Render(markdown))
	return err
}

func recordFetch(opts *dumpOptions, logger *zap.Logger, entry journal.Entry) {
	if opts.noJournal {
		return
	}
	store, err := journal.Open(journalPath(opts))
	if err != nil {
		logger.Warn("fetch journal unavailable", zap.Error(err))
		return
	}
	defer store.Close()
	if _, err := store.Record(entry); err != nil {
		logger.Warn("recording fetch failed", zap.Error(err))
	}
}

func runHistory(opts *dumpOptions, stdout io.Writer) error {
	path := journalPath(opts)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		_, err := fmt.Fprintln(stdout, "No fetches recorded.")
		return err
	}
	store, err := journal.Open(path)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer store.Close()

	entries, err := store.Recent(opts.limit)
	if err != nil {
		return fmt.Errorf("read journal: %w", err)
	}
	if opts.jsonOut {
		if entries == nil {
			entries = []journal.Entry{}
		}
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}
	if len(entries) == 0 {
		_, err := fmt.Fprintln(stdout, "No fetches recorded.")
		return err
	}
	for _, entry := range entries {
		if _, err := fmt.Fprintf(stdout, "%-9s %s\n", entry.Environment, entry.Summary()); err != nil {
			return err
		}
	}
	return nil
}

func journalPath(opts *dumpOptions) string {
	if path := strings.TrimSpace(opts.journalPath); path != "" {
		return path
	}
	dir := strings.TrimSpace(os.Getenv("DIAGVIEW_CONFIG_DIR"))
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			base = "."
		}
		dir = filepath.Join(base, "diagview")
	}
	return filepath.Join(dir, "journal.sqlite")
}
