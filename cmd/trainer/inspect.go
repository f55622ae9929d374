package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dmmona/adaptive-trainer/internal/config"
	"github.com/dmmona/adaptive-trainer/internal/store"
)

var inspectRunID string

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Show a run's adaptation decision log",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		if cfg.Store.Path == "" {
			return fmt.Errorf("store.path is not configured; nothing to inspect")
		}

		st, err := store.NewStore(cfg.Store.Path)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		records, err := st.ListDecisions(inspectRunID)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Printf("no adaptation decisions recorded for run %s\n", inspectRunID)
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ITER\tDECISION\tACTION\tAGGREGATE\tMODEL\tREASON")
		for _, rec := range records {
			fmt.Fprintf(w, "%d\t%s\t%s\t%.4f\t%s\t%s\n",
				rec.Iteration, rec.Decision, rec.Action, rec.Aggregate, rec.Model, rec.Reason)
		}
		return w.Flush()
	},
}

func init() {
	inspectCmd.Flags().StringVar(&inspectRunID, "run", "", "run ID to inspect")
	inspectCmd.MarkFlagRequired("run")
}
