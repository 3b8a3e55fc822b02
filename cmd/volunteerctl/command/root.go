// Package command provides the volunteerctl root command and its
// sub-commands. All of them read the same environment (and .env file)
// as the API server.
//
//	./volunteerctl check-env
//	./volunteerctl check-db
//	./volunteerctl list
//	./volunteerctl geocode "Red Square, Moscow"
//	./volunteerctl migrate [--status]
package command

import (
	"context"
	"fmt"
	"os"
	"time"

	"volunteer_map_backend/platform/config"
	"volunteer_map_backend/platform/db"
	"volunteer_map_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

var (
	timeout time.Duration
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "volunteerctl",
	Short: "Operator tooling for the volunteer map backend",
	Long: `Operator tooling for the volunteer map backend.
It checks the effective configuration and database connectivity, lists
stored volunteers, runs the geocoding chain for a single address and
applies the embedded schema migrations.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits with a non-zero status when
// the selected sub-command fails.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().DurationVarP(
		&timeout, "timeout", "t", 30*time.Second, "overall command timeout",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&verbose, "verbose", "v", false, "log to stderr while running",
	)
	rootCmd.AddCommand(checkEnvCmd, checkDBCmd, listCmd, geocodeCmd, migrateCmd)
}

// env bundles what most sub-commands need.
type env struct {
	cfg *config.Config
	log *logger.Logger
}

func loadEnv() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	log := logger.Discard()
	if verbose {
		log = logger.NewWithWriter(cfg.Env, os.Stderr)
	}
	return &env{cfg: cfg, log: log}, nil
}

func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), timeout)
}

func connect(ctx context.Context, e *env) (*pgxpool.Pool, error) {
	pool, err := db.NewPool(ctx, e.cfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", e.cfg.MaskedDatabaseURL(), err)
	}
	return pool, nil
}
