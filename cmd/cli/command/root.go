package command

// root.go defines the root command for the libraryctl admin tool.
// Every subcommand talks to the database directly, so it needs the same
// environment as the API server.

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"libraryhub/database"
	"libraryhub/internal/cache"
	"libraryhub/internal/config"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var verbose bool // Global flag for debug logging

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "libraryctl",
	Short: "libraryctl - LibraryHub administration",
	Long: `libraryctl performs the desk chores that do not belong behind the web UI:
- Apply database migrations
- Create librarian accounts
- Accrue overdue fines, for example from a daily cron job

Configuration is read from the environment and an optional .env file,
exactly like the API server.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err) // Print error to standard error
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output")
}

// env is what every subcommand needs to reach the database.
type env struct {
	cfg    *config.Config
	db     *gorm.DB
	logger *slog.Logger
}

func openEnv() (*env, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, db: db, logger: logger}, nil
}

func (e *env) Close() {
	if err := database.Close(e.db); err != nil {
		e.logger.Warn("database_close_failed", "error", err)
	}
}

// invalidateDashboard drops the API server's cached dashboard after a write made
// from here. Without REDIS_URL there is nothing to drop.
func (e *env) invalidateDashboard(ctx context.Context) {
	if e.cfg.RedisURL == "" {
		return
	}

	client, err := cache.NewClient(e.cfg.RedisURL, e.cfg.RedisPassword)
	if err != nil {
		e.logger.Warn("redis_unavailable", "error", err)
		return
	}
	defer client.Close()

	if err := cache.NewDashboardCache(client, e.cfg.CacheExpiry()).Invalidate(ctx); err != nil {
		e.logger.Warn("dashboard_cache_invalidate_failed", "error", err)
	}
}
