// Root command and global state for the larder CLI.
package main

import (
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/larder/internal/paths"
	"github.com/mesh-intelligence/larder/pkg/larder"
	"github.com/mesh-intelligence/larder/pkg/types"
)

// Global flag values.
var (
	flagConfigDir string
	flagPath      string
	flagTable     string
	flagJSON      bool
	flagVerbose   bool
)

// db is the database opened by openDB, closed by the persistent post-run.
var db *larder.Database

var rootCmd = &cobra.Command{
	Use:     "larder",
	Short:   "Larder is an embedded, schema-less document store",
	Long: `Larder stores JSON documents in named tables backed by a single
whole-state file. This CLI inserts, queries, updates, and removes
documents in a larder database.`,
	Version: larder.Version,
	// Do not print usage on errors returned by subcommands.
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging()
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeDB()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: platform config dir)")
	rootCmd.PersistentFlags().StringVar(&flagPath, "path", "", "database file path (default: $(CWD)/larder.json)")
	rootCmd.PersistentFlags().StringVar(&flagTable, "table", larder.DefaultTableName, "table to operate on")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "enable debug logging")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(insertCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(truncateCmd)
	rootCmd.AddCommand(tablesCmd)
}

// setupLogging installs a tint slog handler on stderr. Debug level is
// gated behind --verbose; colors are disabled when stderr is not a
// terminal.
func setupLogging() {
	level := slog.LevelWarn
	if flagVerbose {
		level = slog.LevelDebug
	}
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:   level,
		NoColor: !isatty.IsTerminal(os.Stderr.Fd()),
	}))
	slog.SetDefault(logger)
}

// openDB resolves config and opens the database. Commands that touch data
// call this; version and init do not.
func openDB() error {
	configDir, err := paths.ResolveConfigDir(flagConfigDir)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(configDir)
	if err != nil {
		return err
	}
	path, err := paths.ResolveDataPath(flagPath, cfg.GetString(cfgKeyPath))
	if err != nil {
		return err
	}

	config := types.Config{
		Storage:   cfg.GetString(cfgKeyStorage),
		Path:      path,
		CacheSize: cfg.GetInt(cfgKeyCacheSize),
		Indent:    cfg.GetString(cfgKeyIndent),
	}
	slog.Debug("opening database", "storage", config.Storage, "path", config.Path)

	db, err = larder.Open(config)
	return err
}

func closeDB() error {
	if db == nil {
		return nil
	}
	err := db.Close()
	db = nil
	return err
}

// table returns the handle for the table selected by --table.
func table() *larder.Table {
	return db.Table(flagTable)
}
