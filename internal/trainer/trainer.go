package trainer

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dmmona/adaptive-trainer/internal/arch"
	"github.com/dmmona/adaptive-trainer/internal/config"
	"github.com/dmmona/adaptive-trainer/internal/monitor"
	"github.com/dmmona/adaptive-trainer/internal/precision"
	"github.com/dmmona/adaptive-trainer/internal/store"
)

// #region constants

const (
	maxIdentifierLen = 80 // label identifiers longer than this are reset
	maxSuffixRepeat  = 3  // max occurrences of one action suffix before reset
)

// #endregion constants

// #region loop-struct

// Loop is the orchestrating control loop: per iteration it samples resources,
// forecasts, computes the policy signal, periodically adapts the model
// architecture with hysteresis and a runaway-growth guard, selects a
// precision tier, and delegates to the external training step. Single
// owner of the monitor history and the model state; runs synchronously.
type Loop struct {
	cfg     config.Config
	logger  *zap.Logger
	monitor *monitor.Monitor
	policy  Policy
	stepper Stepper
	store   *store.Store // nil disables persistence

	runID    string
	baseName string
	model    arch.Model

	// lastAction is the most recently committed adaptation action. Hysteresis
	// compares against this field rather than inspecting identifier suffixes.
	lastAction arch.AdaptationAction
}

// NewLoop wires a loop from its collaborators. st may be nil to disable
// persistence. The model starts as the label variant built from
// architecture.initial_model.
func NewLoop(cfg config.Config, mon *monitor.Monitor, pol Policy, stepper Stepper, st *store.Store, logger *zap.Logger) *Loop {
	if logger == nil {
		logger = zap.NewNop()
	}
	base := cfg.Architecture.InitialModel
	return &Loop{
		cfg:      cfg,
		logger:   logger,
		monitor:  mon,
		policy:   pol,
		stepper:  stepper,
		store:    st,
		runID:    uuid.New().String(),
		baseName: base,
		model:    arch.LabelModel(base),
	}
}

// RunID identifies this loop's persisted samples and decisions.
func (l *Loop) RunID() string {
	return l.runID
}

// SetModel replaces the initial model state, e.g. with the structured
// variant. Must be called before Run.
func (l *Loop) SetModel(m arch.Model) {
	l.model = m
}

// Model returns the current model state.
func (l *Loop) Model() arch.Model {
	return l.model
}

// #endregion loop-struct

// #region run

// Run executes iterations 1..epochs and returns the final model state.
// Cancellation is honored at iteration boundaries only; errors from
// sub-calls propagate unmodified.
func (l *Loop) Run(ctx context.Context) (arch.Model, error) {
	epochs := l.cfg.Training.Epochs
	l.logger.Info("starting training loop",
		zap.String("run_id", l.runID),
		zap.Int("epochs", epochs),
		zap.String("initial_model", l.model.Render()))

	precCfg := precision.Config{
		HighThresholdGB: l.cfg.Precision.HighThresholdGB,
		LowThresholdGB:  l.cfg.Precision.LowThresholdGB,
	}

	for epoch := 1; epoch <= epochs; epoch++ {
		if err := ctx.Err(); err != nil {
			return l.model, err
		}

		sample, err := l.monitor.Log()
		if err != nil {
			return l.model, err
		}
		l.recordSample(sample)

		forecast, err := l.monitor.Forecast()
		if err != nil {
			return l.model, err
		}

		signal, err := l.policy.Forward([]float64{forecast.CPUPercent, forecast.MemoryGB})
		if err != nil {
			return l.model, err
		}

		l.logger.Info("epoch metrics",
			zap.Int("epoch", epoch),
			zap.Float64("cpu", sample.CPUPercent),
			zap.Float64("memory_gb", sample.MemoryGB),
			zap.Float64s("signal", signal))

		if epoch%l.cfg.Training.AdaptInterval == 0 {
			if err := l.adapt(epoch, signal); err != nil {
				return l.model, err
			}
		}

		// Precision comes from the instantaneous sample, not the forecast.
		tier, err := precision.Select(precision.ResourceState{
			CPUPercent: &sample.CPUPercent,
			MemoryGB:   &sample.MemoryGB,
		}, precCfg)
		if err != nil {
			return l.model, err
		}

		result, err := l.stepper.Step(ctx, StepRequest{
			Iteration: epoch,
			BatchSize: l.cfg.Training.BatchSize,
			Precision: tier,
			Model:     l.model,
		})
		if err != nil {
			return l.model, fmt.Errorf("training step %d: %w", epoch, err)
		}

		if err := l.policy.Update(result.Loss); err != nil {
			return l.model, fmt.Errorf("policy update %d: %w", epoch, err)
		}

		l.logger.Info("epoch complete",
			zap.Int("epoch", epoch),
			zap.String("precision", string(tier)),
			zap.Float64("loss", result.Loss))
	}

	l.logger.Info("training loop complete",
		zap.String("run_id", l.runID),
		zap.String("final_model", l.model.Render()))
	return l.model, nil
}

// #endregion run

// #region adapt

// adapt decides and, hysteresis permitting, commits one adaptation. A
// threshold no-op commits nothing; a candidate repeating the last committed
// action is discarded and recorded as skipped-by-hysteresis.
func (l *Loop) adapt(epoch int, signal []float64) error {
	aggregate, err := arch.Aggregate(signal)
	if err != nil {
		return err
	}
	action := arch.Decide(aggregate, arch.Config{
		PruneThreshold:  l.cfg.Architecture.PruneThreshold,
		ExpandThreshold: l.cfg.Architecture.ExpandThreshold,
	})

	switch {
	case action == arch.ActionNoOp:
		l.logger.Info("adaptation not needed",
			zap.Int("epoch", epoch),
			zap.Float64("aggregate", aggregate))
		l.recordDecision(epoch, store.DecisionNoOp, action, aggregate, "aggregate between thresholds")

	case action == l.lastAction:
		l.logger.Info("adaptation skipped by hysteresis",
			zap.Int("epoch", epoch),
			zap.String("action", string(action)),
			zap.Float64("aggregate", aggregate))
		l.recordDecision(epoch, store.DecisionHysteresisSkip, action, aggregate, "same action as last commit")

	default:
		previous := l.model.Render()
		l.model = l.model.Apply(action)
		l.lastAction = action
		l.logger.Info("model adapted",
			zap.Int("epoch", epoch),
			zap.String("action", string(action)),
			zap.Float64("aggregate", aggregate),
			zap.String("from", previous),
			zap.String("to", l.model.Render()))
		l.recordDecision(epoch, store.DecisionCommit, action, aggregate, "")
		l.enforceBounds(epoch, aggregate)
	}
	return nil
}

// enforceBounds resets a runaway label identifier to <base>_adapted. Applies
// only to the label variant; a reset is a warning-level event, not an error.
func (l *Loop) enforceBounds(epoch int, aggregate float64) {
	label, ok := l.model.(arch.LabelModel)
	if !ok {
		return
	}
	id := string(label)
	overgrown := len(id) > maxIdentifierLen ||
		strings.Count(id, string(arch.ActionExpand)) > maxSuffixRepeat ||
		strings.Count(id, string(arch.ActionPrune)) > maxSuffixRepeat

	if !overgrown {
		return
	}

	reset := l.baseName + "_adapted"
	l.logger.Warn("model identifier exceeded bounds; resetting",
		zap.Int("epoch", epoch),
		zap.String("identifier", id),
		zap.String("reset_to", reset))
	l.model = arch.LabelModel(reset)
	l.recordDecision(epoch, store.DecisionBoundReset, l.lastAction, aggregate, "identifier length or suffix repeat bound exceeded")
}

// #endregion adapt

// #region persistence

// recordSample mirrors a logged sample into the store; persistence failures
// are logged and do not interrupt the loop.
func (l *Loop) recordSample(sample monitor.ResourceSample) {
	if l.store == nil {
		return
	}
	if err := l.store.RecordSample(l.runID, sample); err != nil {
		l.logger.Warn("failed to persist sample", zap.Error(err))
	}
}

func (l *Loop) recordDecision(epoch int, decision string, action arch.AdaptationAction, aggregate float64, reason string) {
	if l.store == nil {
		return
	}
	err := l.store.RecordDecision(store.DecisionRecord{
		RunID:     l.runID,
		Iteration: epoch,
		Decision:  decision,
		Action:    string(action),
		Aggregate: aggregate,
		Model:     l.model.Render(),
		Reason:    reason,
	})
	if err != nil {
		l.logger.Warn("failed to persist decision", zap.Error(err))
	}
}

// #endregion persistence
