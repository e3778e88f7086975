// Package main provides the socialife CLI entry point.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/gauthierbraillon/socialife/internal/aggregator"
	"github.com/gauthierbraillon/socialife/internal/config"
	"github.com/gauthierbraillon/socialife/internal/display"
	"github.com/gauthierbraillon/socialife/internal/ranking"
	"github.com/gauthierbraillon/socialife/internal/repository"
)

// version is injected at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// resolveVersion prefers the ldflags version and falls back to the module
// version recorded by go install.
func resolveVersion(ldflags string, info *debug.BuildInfo) string {
	if ldflags != "dev" {
		return ldflags
	}
	if info == nil || info.Main.Version == "" || info.Main.Version == "(devel)" {
		return "dev"
	}
	return info.Main.Version
}

// app carries the state shared by every subcommand.
type app struct {
	configPath string
	dataFlag   string
	jsonOut    bool
	ephemeral  bool
	logLevel   string

	cfg    *config.Config
	logger *slog.Logger
	repo   *repository.Repository
}

// setup loads configuration and installs the logger. It runs before every
// subcommand.
func (a *app) setup(cmd *cobra.Command) error {
	load := config.Load
	if a.configPath != "" {
		load = func() (*config.Config, error) { return config.LoadFromFile(a.configPath) }
	}
	cfg, err := load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if a.dataFlag != "" {
		cfg.Data.Source = a.dataFlag
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	a.cfg = cfg

	a.logger = newLogger(cmd.ErrOrStderr(), cfg.Log)
	slog.SetDefault(a.logger)
	a.logger.Debug("configuration loaded", "source", cfg.Data.Source, "session", cfg.Session.Dir)
	return nil
}

func newLogger(w io.Writer, cfg config.LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLogLevel(cfg.Level)}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// repository opens the client repository on first use.
func (a *app) repository() (*repository.Repository, error) {
	if a.repo != nil {
		return a.repo, nil
	}

	httpClient := &http.Client{Timeout: time.Duration(a.cfg.Data.Timeout)}
	source := repository.NewSource(a.cfg.Data.Source, repository.WithHTTPClient(httpClient))

	var session repository.SessionStorage = repository.NewSessionStore(a.cfg.Session.Dir)
	if a.ephemeral {
		session = repository.NewMemorySession()
	}

	repo, err := repository.New(source,
		repository.WithSession(session),
		repository.WithLogger(a.logger),
	)
	if err != nil {
		return nil, err
	}
	a.repo = repo
	return repo, nil
}

func (a *app) aggregator() (*aggregator.Aggregator, error) {
	repo, err := a.repository()
	if err != nil {
		return nil, err
	}
	return aggregator.New(repo, aggregator.WithConcurrency(a.cfg.Data.FetchConcurrency)), nil
}

func (a *app) ranking() (*ranking.Engine, error) {
	repo, err := a.repository()
	if err != nil {
		return nil, err
	}
	return ranking.NewEngine(repo), nil
}

// render writes v as indented JSON when --json is set and text otherwise.
func (a *app) render(w io.Writer, v any, text func(f *display.TerminalFormatter) string) error {
	if a.jsonOut {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	_, err := fmt.Fprint(w, text(display.NewTerminalFormatter()))
	return err
}

// newRootCmd creates the root command for socialife CLI.
func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:     "socialife",
		Short:   "Analytics for a social media agency's clients",
		Long:    "Socialife summarises client metrics across Instagram, Facebook, TikTok and LinkedIn, ranks content, classifies CSV exports and outlines client reports.",
		Version: resolveVersion(version, buildInfo()),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		SilenceUsage: true,
	}

	rootCmd.SetVersionTemplate("socialife version {{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Config file (default from SOCIALIFE_CONFIG_PATH or the config directory)")
	rootCmd.PersistentFlags().StringVar(&a.dataFlag, "data", "", "Data directory or http(s) base URL (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&a.jsonOut, "json", false, "Print results as JSON")
	rootCmd.PersistentFlags().BoolVar(&a.ephemeral, "ephemeral", false, "Keep session edits in memory only")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(newClientsCmd(a))
	rootCmd.AddCommand(newOverviewCmd(a))
	rootCmd.AddCommand(newSummaryCmd(a))
	rootCmd.AddCommand(newSeriesCmd(a))
	rootCmd.AddCommand(newPostsCmd(a))
	rootCmd.AddCommand(newHashtagsCmd(a))
	rootCmd.AddCommand(newTopCmd(a))
	rootCmd.AddCommand(newDetectCmd(a))
	rootCmd.AddCommand(newReportCmd(a))
	rootCmd.AddCommand(newSessionCmd(a))
	rootCmd.AddCommand(newConfigCmd(a))

	return rootCmd
}

func buildInfo() *debug.BuildInfo {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return nil
	}
	return info
}
