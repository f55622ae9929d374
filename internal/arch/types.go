package arch

import "errors"

// #region action

// AdaptationAction is the discrete structural change applied to a model.
type AdaptationAction string

const (
	ActionPrune  AdaptationAction = "pruned"
	ActionExpand AdaptationAction = "expanded"
	ActionNoOp   AdaptationAction = "unchanged"
)

// #endregion action

// #region config

// Config holds the thresholds for the adaptation decision.
type Config struct {
	PruneThreshold  float64 // aggregate <= this → prune (inclusive)
	ExpandThreshold float64 // aggregate >= this → expand (inclusive)
}

// DefaultConfig returns the stock -0.2 / 0.2 thresholds.
func DefaultConfig() Config {
	return Config{
		PruneThreshold:  -0.2,
		ExpandThreshold: 0.2,
	}
}

// #endregion config

// #region errors

// ErrUnsupportedModel indicates the model state is neither known variant.
var ErrUnsupportedModel = errors.New("unsupported model representation")

// ErrUnsupportedSignal indicates the policy signal is absent or malformed.
var ErrUnsupportedSignal = errors.New("unsupported policy signal")

// #endregion errors
