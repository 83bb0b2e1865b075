package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"attendkiosk/internal/kiosk/service"
	sqlitestore "attendkiosk/internal/kiosk/store/sqlite"
	"attendkiosk/internal/kiosk/types"
)

func newExportCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export one day's attendance to the configured sink",
		Long: `Re-run the daily export for a given date.  Used to recover after
an export failure (the kiosk shows a sticky warning but does not retry
on its own) or to backfill a day the kiosk was off at midnight.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd.Context(), date)
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "calendar date YYYY-MM-DD (default: yesterday)")
	return cmd
}

func runExport(ctx context.Context, date string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	if date == "" {
		date = types.CivilDate(time.Now().AddDate(0, 0, -1))
	} else if _, err := time.Parse(types.DateLayout, date); err != nil {
		return fmt.Errorf("bad --date %q: want YYYY-MM-DD", date)
	}

	conn, writer, err := openDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer conn.Close()
	defer writer.Close()

	sink, err := buildSink(ctx, cfg)
	if err != nil {
		return err
	}

	ledger := sqlitestore.NewLedgerStore(conn, writer)
	exporter := service.NewExporter(ledger, sink, cfg.ExportTimeout, logger)

	if err := exporter.ExportDay(ctx, date); err != nil {
		return fmt.Errorf("export %s: %w", date, err)
	}
	fmt.Printf("exported %s\n", date)
	return nil
}
