package arch

import "fmt"

// #region aggregate

// Aggregate reduces a policy signal to a single scalar by arithmetic mean.
// A length-one signal is its own mean, so scalar callers wrap in a slice.
func Aggregate(signal []float64) (float64, error) {
	if len(signal) == 0 {
		return 0, fmt.Errorf("%w: signal is absent or empty", ErrUnsupportedSignal)
	}
	var sum float64
	for _, v := range signal {
		sum += v
	}
	return sum / float64(len(signal)), nil
}

// #endregion aggregate

// #region decide

// Decide maps an aggregated signal to an action. Both comparisons are
// inclusive; prune wins by evaluation order if the thresholds are
// misconfigured to overlap.
func Decide(aggregate float64, cfg Config) AdaptationAction {
	switch {
	case aggregate <= cfg.PruneThreshold:
		return ActionPrune
	case aggregate >= cfg.ExpandThreshold:
		return ActionExpand
	default:
		return ActionNoOp
	}
}

// #endregion decide

// #region adapt

// Adapt aggregates the signal, decides an action, and applies it to the
// model. Returns the adapted model alongside the action taken.
func Adapt(model Model, signal []float64, cfg Config) (Model, AdaptationAction, error) {
	if model == nil {
		return nil, "", fmt.Errorf("%w: model is nil", ErrUnsupportedModel)
	}
	aggregate, err := Aggregate(signal)
	if err != nil {
		return nil, "", err
	}
	action := Decide(aggregate, cfg)
	return model.Apply(action), action, nil
}

// #endregion adapt
