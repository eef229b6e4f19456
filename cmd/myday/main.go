// Command myday is the CLI surface over the MyDay core: task lists,
// tasks, and notes in a local SQLite database, with a live WebSocket
// dashboard under `myday serve`.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/myday-app/myday/internal/config"
	"github.com/myday-app/myday/internal/coordinator"
	"github.com/myday-app/myday/internal/live"
	"github.com/myday-app/myday/internal/logging"
	"github.com/myday-app/myday/internal/parse"
	"github.com/myday-app/myday/internal/settings"
	"github.com/myday-app/myday/internal/store"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "myday",
	Short: "Personal task lists, tasks, and notes",
	Long: `myday keeps task lists, tasks, and notes in a local SQLite database.

All state lives under the data directory (see 'myday --help' for config).
Run 'myday serve' for a live WebSocket dashboard of every change.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $XDG_CONFIG_HOME/myday/config.yaml)")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(taskCmd)
	rootCmd.AddCommand(noteCmd)
	rootCmd.AddCommand(voiceCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(serveCmd)
}

// app bundles the wired core for one CLI invocation. The store handle
// is constructed here and passed down explicitly; nothing else opens
// the database.
type app struct {
	cfg   config.Config
	log   *zap.SugaredLogger
	store *store.Store
	hub   *live.Hub
	prefs *settings.Store
	coord *coordinator.Coordinator
}

// openApp wires config, logging, store, settings, parser, and
// coordinator, and runs the startup bootstrap.
func openApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	log, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return nil, err
	}

	st, err := store.Open(cfg.DatabasePath())
	if err != nil {
		return nil, err
	}

	prefs, err := settings.Open(cfg.SettingsPath(), log)
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	hub := live.NewHub(st)

	var parser parse.TaskParser
	switch cfg.Parser {
	case "claude":
		parser = parse.NewClaude(cfg.AnthropicModel, cfg.AnthropicAPIKey)
	default:
		parser = parse.NewLocal()
	}

	coord := coordinator.New(hub, prefs, parser, log)
	if err := coord.Start(ctx); err != nil {
		_ = prefs.Close()
		_ = st.Close()
		return nil, err
	}

	return &app{
		cfg:   cfg,
		log:   log,
		store: st,
		hub:   hub,
		prefs: prefs,
		coord: coord,
	}, nil
}

// close flushes queued operations before tearing the core down so
// one-shot commands never exit with work still in the mailbox.
func (a *app) close() {
	a.coord.Flush()
	a.coord.Stop()
	if err := a.prefs.Close(); err != nil {
		a.log.Warnw("failed to close settings", "error", err)
	}
	if err := a.store.Close(); err != nil {
		a.log.Warnw("failed to close store", "error", err)
	}
	_ = a.log.Sync()
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
