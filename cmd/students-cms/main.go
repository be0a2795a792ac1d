// main is the entry point of the Students CMS application.
//
// STARTUP SEQUENCE:
//  1. Parse flags (cobra)
//  2. Load configuration from a YAML file and/or the environment
//  3. Initialise the logger
//  4. Open the storage backend (flat text file or SQLite)
//  5. Register all menu commands
//  6. Run the interactive session until the user exits
//
// RUNNING THE PROGRAM:
//
//	go run ./cmd/students-cms --config=config/local.yaml
//
// or (with the environment variable):
//
//	CONFIG_PATH=config/local.yaml go run ./cmd/students-cms
//
// With no config at all every setting falls back to its default, and the
// records live in P14_8-CMS.txt in the working directory.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aanand-mishra/students-cms/internal/cli"
	"github.com/aanand-mishra/students-cms/internal/config"
	"github.com/aanand-mishra/students-cms/internal/console"
	"github.com/aanand-mishra/students-cms/internal/records"
	"github.com/aanand-mishra/students-cms/internal/storage"
	"github.com/aanand-mishra/students-cms/internal/storage/flatfile"
	"github.com/aanand-mishra/students-cms/internal/storage/sqlite"
)

var (
	configPath string

	// Set in PersistentPreRun, before any command body runs.
	cfg *config.Config
	log *slog.Logger
)

// rootCmd runs the interactive session.
var rootCmd = &cobra.Command{
	Use:   "students-cms",
	Short: "Class management system for student records",
	Long: `students-cms keeps student records (ID, name, programme, marks and grade)
in a delimited text file or a SQLite database.

Run without arguments to start the interactive menu.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// ── Load Config ───────────────────────────────────────────────────
		// MustLoad exits the program if the config is unusable.
		// The name "Must" signals: if this returns, config is guaranteed valid.
		cfg = config.MustLoad(configPath)

		// ── Initialise Logger ─────────────────────────────────────────────
		// Logs go to stderr so they never interleave with the menu on stdout.
		log = setupLogger(cfg.Env, cfg.LogLevel, cmd.ErrOrStderr())
		slog.SetDefault(log)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		log.Info("starting students-cms",
			slog.String("env", cfg.Env),
			slog.String("driver", cfg.Storage.Driver))

		backend, err := newStorage(cfg, log)
		if err != nil {
			return err
		}
		defer backend.Close()

		log.Info("storage initialised", slog.String("path", backend.Location()))

		return runSession(cfg, backend, cmd.InOrStdin(), cmd.OutOrStdout(), log)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to the YAML config file (or set CONFIG_PATH env)")
	rootCmd.AddCommand(listCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runSession builds an empty store and the menu around backend, then runs
// the session on in/out until the user exits.
func runSession(cfg *config.Config, backend storage.Storage, in io.Reader, out io.Writer, log *slog.Logger) error {
	store := records.New()

	router := cli.NewRouter()
	registerRoutes(router, store, backend, cfg.Storage.DatabaseName)

	c := console.New(in, out, cfg.Prompt)
	return cli.NewSession(c, store, router, log).Run()
}

// newStorage opens the backend named by cfg.Storage.Driver.
//
// We return the storage.Storage INTERFACE, not a concrete type. The rest of
// the program only knows about the interface, so adding a backend only
// requires a new case here.
func newStorage(cfg *config.Config, log *slog.Logger) (storage.Storage, error) {
	switch cfg.Storage.Driver {
	case config.DriverFile:
		return flatfile.New(cfg.Storage.Path, cfg.Storage.DatabaseName, log), nil
	case config.DriverSQLite:
		return sqlite.New(cfg.Storage.Path, log)
	}
	return nil, fmt.Errorf("newStorage: %w: %q", storage.ErrUnknownDriver, cfg.Storage.Driver)
}

// setupLogger returns a *slog.Logger configured for the given environment.
//
// Development (dev/local): human-readable text output.
// Production (prod/staging): machine-readable JSON output.
//
// The level comes from config (debug, info, warn, error); anything
// unparsable falls back to warn, which keeps a normal session quiet.
func setupLogger(env, level string, w io.Writer) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		lvl = slog.LevelWarn
	}
	opts := &slog.HandlerOptions{Level: lvl}

	switch env {
	case "prod", "staging":
		return slog.New(slog.NewJSONHandler(w, opts))
	default: // "dev", "local" and anything unrecognised
		return slog.New(slog.NewTextHandler(w, opts))
	}
}
