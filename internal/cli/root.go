package cli

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"attendkiosk/internal/config"
	dbpkg "attendkiosk/internal/db"
	"attendkiosk/internal/export"
	"attendkiosk/internal/export/csvfile"
	"attendkiosk/internal/export/sheets"
	"attendkiosk/internal/logging"
)

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "attendkiosk",
		Short: "QR attendance kiosk",
		Long: `attendkiosk records attendance from scanned QR codes.

The run command is the long-running kiosk loop; enroll and export are
one-shot batch utilities.  Configuration comes from the environment
(optionally via a .env file), prefixed KIOSK_.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newEnrollCmd())
	rootCmd.AddCommand(newExportCmd())

	return rootCmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads env config and builds the logger shared by all commands.
func setup() (config.Config, *zap.Logger, error) {
	_ = godotenv.Load() // a missing .env is fine

	cfg := config.FromEnv()
	logger, err := logging.New(logging.Config{Level: cfg.LogLevel, Dev: cfg.LogDev})
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, logger, nil
}

// openDB opens durable storage.  Failure here is the one fatal startup
// condition the kiosk has.
func openDB(ctx context.Context, cfg config.Config) (*sql.DB, *dbpkg.Worker, error) {
	conn, err := dbpkg.Open(ctx, dbpkg.Config{Path: cfg.DBPath, Env: cfg.Env})
	if err != nil {
		return nil, nil, fmt.Errorf("open db: %w", err)
	}
	return conn, dbpkg.NewWorker(conn), nil
}

// buildSink selects the export sink from config.
func buildSink(ctx context.Context, cfg config.Config) (export.Sink, error) {
	switch cfg.ExportSink {
	case "sheets":
		return sheets.New(ctx, sheets.Config{
			CredentialsFile: cfg.SheetsCredsFile,
			SpreadsheetID:   cfg.SheetsSpreadsheet,
		})
	default:
		return csvfile.New(cfg.ExportDir), nil
	}
}
