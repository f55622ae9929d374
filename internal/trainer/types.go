package trainer

import (
	"context"
	"time"

	"github.com/dmmona/adaptive-trainer/internal/arch"
	"github.com/dmmona/adaptive-trainer/internal/precision"
)

// #region policy-interface

// Policy abstracts the learned policy function so the loop can be tested
// with scripted signals. *policy.Network satisfies it.
type Policy interface {
	Forward(metrics []float64) ([]float64, error)
	Update(loss float64) error
}

// #endregion policy-interface

// #region stepper

// Stepper is the external training-step operation. The loop treats it as
// opaque: it supplies the batch size, the selected precision tier, and the
// current model, and receives back the step loss.
type Stepper interface {
	Step(ctx context.Context, req StepRequest) (StepResult, error)
}

// StepRequest carries everything the external step needs for one iteration.
type StepRequest struct {
	Iteration int
	BatchSize int
	Precision precision.Tier
	Model     arch.Model
}

// StepResult is what the external step reports back.
type StepResult struct {
	Loss float64
}

// #endregion stepper

// #region simulated-stepper

// SimulatedStepper stands in for a real training step: it sleeps for the
// configured delay and reports a smoothly decaying pseudo-loss.
type SimulatedStepper struct {
	Delay time.Duration
}

// Step blocks for the configured delay and returns a deterministic loss.
func (s SimulatedStepper) Step(_ context.Context, req StepRequest) (StepResult, error) {
	if s.Delay > 0 {
		time.Sleep(s.Delay)
	}
	return StepResult{Loss: 1 / (1 + float64(req.Iteration))}, nil
}

// #endregion simulated-stepper
