package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"repairdesk/internal/logger"
	"repairdesk/internal/services"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export-submissions",
	Short: "Write all repair requests to an XLSX workbook",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		dbManager, err := openDatabase()
		if err != nil {
			return err
		}
		defer func() { _ = dbManager.Close() }()
		defer logger.Sync()

		db, timeout := dbManager.DB(), dbManager.StoreTimeout()
		prices := services.NewPriceService(db, timeout)
		submissions := services.NewSubmissionService(db, timeout, prices)

		data, err := submissions.Export(cmd.Context())
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		out := exportOutput
		if out == "" {
			out = fmt.Sprintf("submissions-%s.xlsx", time.Now().UTC().Format("20060102"))
		}
		if err := os.WriteFile(out, data, 0o600); err != nil {
			return fmt.Errorf("failed to write %s: %w", out, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d bytes)\n", out, len(data))
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default submissions-YYYYMMDD.xlsx)")
	rootCmd.AddCommand(exportCmd)
}
