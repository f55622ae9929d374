package monitor

import (
	"errors"
	"time"
)

// #region sample

// ResourceSample is one instantaneous reading of system resource usage.
// Immutable once created.
type ResourceSample struct {
	Timestamp  time.Time
	CPUPercent float64
	MemoryGB   float64
}

// #endregion sample

// #region probe-interface

// Probe abstracts the OS resource queries so the monitor can be tested
// without real system reads.
type Probe interface {
	// CPUPercent blocks for the given interval and returns overall CPU usage.
	CPUPercent(interval time.Duration) (float64, error)
	// MemoryGB returns the memory currently in use, in GB.
	MemoryGB() (float64, error)
}

// #endregion probe-interface

// #region forecast-func

// ForecastFunc is a pluggable forecasting strategy. It must always produce a
// sample; the default strategy is the monitor's moving average.
type ForecastFunc func() (ResourceSample, error)

// #endregion forecast-func

// #region config

// Config holds the monitor's sampling and forecasting knobs.
type Config struct {
	Interval time.Duration // CPU measurement interval per sample
	Window   int           // moving-average window for forecasting
}

// DefaultConfig returns a 1s interval with a 3-sample window.
func DefaultConfig() Config {
	return Config{
		Interval: time.Second,
		Window:   3,
	}
}

// #endregion config

// #region errors

// ErrResourceUnavailable indicates the OS resource query failed.
var ErrResourceUnavailable = errors.New("resource metrics unavailable")

// ErrEmptyHistory indicates an operation that needs history found none.
var ErrEmptyHistory = errors.New("no resource history")

// #endregion errors
