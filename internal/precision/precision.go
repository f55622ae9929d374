package precision

import (
	"errors"
	"fmt"
)

// #region tier

// Tier is the numeric-computation fidelity chosen for a training step.
type Tier string

const (
	TierFull      Tier = "fp32"
	TierMixed     Tier = "mixed"
	TierQuantized Tier = "quantized"
)

// #endregion tier

// #region resource-state

// ResourceState carries the instantaneous readings the selector works from.
// Pointer fields are nil when a metric is unavailable.
type ResourceState struct {
	CPUPercent *float64
	MemoryGB   *float64
}

// #endregion resource-state

// #region config

// Config holds the memory thresholds (GB) for tier selection.
type Config struct {
	HighThresholdGB float64 // memory >= this → fp32
	LowThresholdGB  float64 // memory >= this (and < high) → mixed
}

// DefaultConfig returns the stock 10/6 GB thresholds.
func DefaultConfig() Config {
	return Config{
		HighThresholdGB: 10,
		LowThresholdGB:  6,
	}
}

// #endregion config

// #region errors

// ErrMissingMetric indicates the resource state lacks a required reading.
var ErrMissingMetric = errors.New("missing metric")

// #endregion errors

// #region select

// Select maps a memory reading to a precision tier. Stateless; safe to call
// independently of the adaptation cadence.
func Select(state ResourceState, cfg Config) (Tier, error) {
	if state.MemoryGB == nil {
		return "", fmt.Errorf("%w: resource state must include a memory reading (GB)", ErrMissingMetric)
	}
	mem := *state.MemoryGB
	switch {
	case mem >= cfg.HighThresholdGB:
		return TierFull, nil
	case mem >= cfg.LowThresholdGB:
		return TierMixed, nil
	default:
		return TierQuantized, nil
	}
}

// #endregion select
