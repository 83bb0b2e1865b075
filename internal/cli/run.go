package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"attendkiosk/internal/clock"
	dbpkg "attendkiosk/internal/db"
	"attendkiosk/internal/httpapi"
	"attendkiosk/internal/kiosk/service"
	sqlitestore "attendkiosk/internal/kiosk/store/sqlite"
	"attendkiosk/internal/present"
	"attendkiosk/internal/scan"
)

func newRunCmd() *cobra.Command {
	var sourcePath string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the kiosk scanning loop",
		Long: `Run the kiosk loop: poll the decoder, reconcile scans into the
attendance ledger, and export the previous day at rollover.

Decoded payloads are read as lines from stdin by default, so a decoder
process is typically piped in:

    zbarcam --raw /dev/video0 | attendkiosk run

Quit with an interrupt (Ctrl-C); in-flight ledger writes complete before
the process exits.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runKiosk(sourcePath)
		},
	}

	cmd.Flags().StringVar(&sourcePath, "source", "-", "decoded payload stream: '-' for stdin, or a FIFO path")
	return cmd
}

func runKiosk(sourcePath string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, writer, err := openDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer conn.Close()
	defer writer.Close() // drains queued writes before the connection goes away

	if cfg.Env == "dev" {
		if err := dbpkg.SeedDev(ctx, conn); err != nil {
			return fmt.Errorf("seed dev data: %w", err)
		}
	}

	identity := sqlitestore.NewIdentityStore(conn, writer)
	ledger := sqlitestore.NewLedgerStore(conn, writer)

	sink, err := buildSink(ctx, cfg)
	if err != nil {
		return err
	}

	var stream io.Reader = os.Stdin
	if sourcePath != "" && sourcePath != "-" {
		f, err := os.Open(sourcePath)
		if err != nil {
			return fmt.Errorf("open decode source: %w", err)
		}
		stream = f
	}
	source := scan.NewLineSource(stream)
	defer source.Close()

	clk := clock.New()
	presenter := present.NewTerminal(os.Stdout)
	recon := service.NewReconciler(identity, ledger, clk, logger)
	exporter := service.NewExporter(ledger, sink, cfg.ExportTimeout, logger)

	sessionID := uuid.NewString()
	logger.Info("kiosk starting",
		zap.String("session_id", sessionID),
		zap.String("db", cfg.DBPath),
		zap.String("export_sink", cfg.ExportSink),
	)

	srv := httpapi.NewServer(httpapi.Dependencies{
		Logger:    logger,
		Addr:      cfg.HTTPAddr,
		Ledger:    ledger,
		Exporter:  exporter,
		Clock:     clk,
		SessionID: sessionID,
	})
	go func() {
		logger.Info("operator api listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.Start(); err != nil && ctx.Err() == nil {
			logger.Error("operator api error", zap.Error(err))
		}
	}()

	runner := service.NewRunner(service.RunnerDeps{
		Source:     source,
		Reconciler: recon,
		Exporter:   exporter,
		Presenter:  presenter,
		Clock:      clk,
		Interval:   cfg.PollInterval,
		Logger:     logger,
	})

	err = runner.Run(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)

	logger.Info("kiosk stopped", zap.String("session_id", sessionID))
	return err
}
