package monitor

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// #region monitor-struct

// Monitor reads instantaneous CPU/memory usage, keeps an append-only ordered
// history, and computes a smoothed forecast. It is owned by a single caller;
// no locking is done here.
type Monitor struct {
	probe      Probe
	config     Config
	logger     *zap.Logger
	history    []ResourceSample
	last       *ResourceSample
	forecastFn ForecastFunc
}

// NewMonitor creates a monitor using the default moving-average forecast.
func NewMonitor(probe Probe, config Config, logger *zap.Logger) *Monitor {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Monitor{
		probe:  probe,
		config: config,
		logger: logger,
	}
	m.forecastFn = m.movingAverage
	return m
}

// SetForecast substitutes a custom forecasting strategy. Passing nil restores
// the default moving average.
func (m *Monitor) SetForecast(fn ForecastFunc) {
	if fn == nil {
		m.forecastFn = m.movingAverage
		return
	}
	m.forecastFn = fn
}

// #endregion monitor-struct

// #region sample

// Sample performs a blocking read of current CPU percentage (measured over
// the configured interval) and memory usage in GB. The result is stored as
// the last-known sample before returning.
func (m *Monitor) Sample() (ResourceSample, error) {
	cpu, err := m.probe.CPUPercent(m.config.Interval)
	if err != nil {
		return ResourceSample{}, fmt.Errorf("%w: cpu: %v", ErrResourceUnavailable, err)
	}
	mem, err := m.probe.MemoryGB()
	if err != nil {
		return ResourceSample{}, fmt.Errorf("%w: memory: %v", ErrResourceUnavailable, err)
	}
	sample := ResourceSample{
		Timestamp:  time.Now().UTC(),
		CPUPercent: cpu,
		MemoryGB:   mem,
	}
	m.last = &sample
	return sample, nil
}

// #endregion sample

// #region log

// Log samples and appends the result to history, returning the same sample.
func (m *Monitor) Log() (ResourceSample, error) {
	sample, err := m.Sample()
	if err != nil {
		return ResourceSample{}, err
	}
	m.history = append(m.history, sample)
	return sample, nil
}

// #endregion log

// #region forecast

// Forecast runs the configured forecasting strategy.
func (m *Monitor) Forecast() (ResourceSample, error) {
	return m.forecastFn()
}

// movingAverage is the default strategy: the elementwise mean of the last
// Window history entries with a fresh timestamp. With too little history it
// falls back to the last-known sample, or to a fresh Sample() when none
// exists, so a forecast is always produced.
func (m *Monitor) movingAverage() (ResourceSample, error) {
	if len(m.history) >= m.config.Window {
		recent := m.history[len(m.history)-m.config.Window:]
		var cpu, mem float64
		for _, s := range recent {
			cpu += s.CPUPercent
			mem += s.MemoryGB
		}
		n := float64(m.config.Window)
		return ResourceSample{
			Timestamp:  time.Now().UTC(),
			CPUPercent: cpu / n,
			MemoryGB:   mem / n,
		}, nil
	}
	if m.last != nil {
		return *m.last, nil
	}
	m.logger.Debug("forecast requested with no history; sampling directly")
	return m.Sample()
}

// #endregion forecast

// #region history

// History returns a snapshot copy of the logged samples.
func (m *Monitor) History() []ResourceSample {
	out := make([]ResourceSample, len(m.history))
	copy(out, m.history)
	return out
}

// Last returns the last-known sample, if any.
func (m *Monitor) Last() (ResourceSample, bool) {
	if m.last == nil {
		return ResourceSample{}, false
	}
	return *m.last, true
}

// Clear empties the history. The last-known sample is kept.
func (m *Monitor) Clear() {
	m.history = nil
}

// #endregion history
