package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dmmona/adaptive-trainer/internal/config"
	"github.com/dmmona/adaptive-trainer/internal/monitor"
	"github.com/dmmona/adaptive-trainer/internal/observability"
	"github.com/dmmona/adaptive-trainer/internal/policy"
	"github.com/dmmona/adaptive-trainer/internal/store"
	"github.com/dmmona/adaptive-trainer/internal/trainer"
)

var (
	policyIn  string
	policyOut string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the adaptive training control loop",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}

		logger := observability.New(cfg.Logger)
		defer logger.Sync()

		config.ApplyEnvOverrides(&cfg, logger)
		printBanner()

		var st *store.Store
		if cfg.Store.Path != "" {
			st, err = store.NewStore(cfg.Store.Path)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer st.Close()
		}

		mon := monitor.NewMonitor(monitor.SystemProbe{}, monitor.Config{
			Interval: cfg.Training.SampleInterval,
			Window:   cfg.Training.LogInterval,
		}, logger)

		polCfg := policy.DefaultConfig()
		polCfg.LearningRate = cfg.Training.LearningRate
		pol := policy.NewNetwork(polCfg)
		if policyIn != "" {
			if err := pol.Load(policyIn); err != nil {
				return fmt.Errorf("load policy: %w", err)
			}
			logger.Info("policy parameters loaded", zap.String("path", policyIn))
		}

		loop := trainer.NewLoop(cfg, mon, pol, trainer.SimulatedStepper{Delay: time.Second}, st, logger)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		final, err := loop.Run(ctx)
		if err != nil {
			logger.Error("training loop failed", zap.Error(err))
			return err
		}

		if policyOut != "" {
			if err := pol.Save(policyOut); err != nil {
				return fmt.Errorf("save policy: %w", err)
			}
			logger.Info("policy parameters saved", zap.String("path", policyOut))
		}

		fmt.Printf("run: %s\n", loop.RunID())
		fmt.Printf("final model: %s\n", final.Render())
		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&policyIn, "policy-in", "", "load policy parameters from this checkpoint before running")
	runCmd.Flags().StringVar(&policyOut, "policy-out", "", "save policy parameters to this checkpoint after running")
}

func printBanner() {
	fmt.Println("============================================")
	fmt.Println("  adaptive-trainer - resource-aware control loop")
	fmt.Println("============================================")
}
