package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"attendkiosk/internal/enroll"
	sqlitestore "attendkiosk/internal/kiosk/store/sqlite"
)

func newEnrollCmd() *cobra.Command {
	var rosterPath, outDir string

	cmd := &cobra.Command{
		Use:   "enroll",
		Short: "Import a roster CSV and generate QR codes",
		Long: `Import people from a roster CSV of (id, email, name[, year]) rows
and write each person's QR code PNG (the email, encoded) under the
output directory.  Re-running with a grown roster only adds the new
people; existing ones get their QR regenerated.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEnroll(cmd.Context(), rosterPath, outDir)
		},
	}

	cmd.Flags().StringVar(&rosterPath, "roster", "", "roster CSV path (required)")
	cmd.Flags().StringVar(&outDir, "out", "./qrcodes", "output directory for QR codes")
	_ = cmd.MarkFlagRequired("roster")
	return cmd
}

func runEnroll(ctx context.Context, rosterPath, outDir string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	conn, writer, err := openDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer conn.Close()
	defer writer.Close()

	roster, err := os.Open(rosterPath)
	if err != nil {
		return fmt.Errorf("open roster: %w", err)
	}
	defer roster.Close()

	identity := sqlitestore.NewIdentityStore(conn, writer)
	enroller := enroll.New(identity, logger)

	res, err := enroller.Run(ctx, roster, outDir)
	if err != nil {
		return err
	}

	logger.Info("enrollment done",
		zap.Int("created", res.Created),
		zap.Int("duplicates", res.Duplicates),
		zap.Int("skipped", res.Skipped),
	)
	fmt.Printf("enrolled %d new, %d already present, %d skipped\n",
		res.Created, res.Duplicates, res.Skipped)
	return nil
}
