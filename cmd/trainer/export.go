package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dmmona/adaptive-trainer/internal/config"
	"github.com/dmmona/adaptive-trainer/internal/store"
)

var (
	exportRunID string
	exportOut   string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a run's resource history to CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		if cfg.Store.Path == "" {
			return fmt.Errorf("store.path is not configured; nothing to export")
		}

		st, err := store.NewStore(cfg.Store.Path)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		f, err := os.Create(exportOut)
		if err != nil {
			return fmt.Errorf("create %s: %w", exportOut, err)
		}
		defer f.Close()

		n, err := st.ExportHistoryCSV(f, exportRunID)
		if err != nil {
			return err
		}
		if n == 0 {
			fmt.Fprintf(os.Stderr, "no history recorded for run %s; nothing exported\n", exportRunID)
			return nil
		}
		fmt.Printf("exported %d samples to %s\n", n, exportOut)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportRunID, "run", "", "run ID to export")
	exportCmd.Flags().StringVar(&exportOut, "out", "resource_history.csv", "destination CSV path")
	exportCmd.MarkFlagRequired("run")
}
