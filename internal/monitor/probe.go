package monitor

import (
	"fmt"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

// #region system-probe

// SystemProbe reads real resource usage via gopsutil.
type SystemProbe struct{}

// CPUPercent measures overall CPU usage over the given interval. Blocks for
// the full interval.
func (SystemProbe) CPUPercent(interval time.Duration) (float64, error) {
	percents, err := cpu.Percent(interval, false)
	if err != nil {
		return 0, fmt.Errorf("cpu percent: %w", err)
	}
	if len(percents) == 0 {
		return 0, fmt.Errorf("cpu percent: no readings")
	}
	return percents[0], nil
}

// MemoryGB returns the memory currently in use, in GB.
func (SystemProbe) MemoryGB() (float64, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return 0, fmt.Errorf("virtual memory: %w", err)
	}
	return float64(vm.Used) / (1024 * 1024 * 1024), nil
}

// #endregion system-probe
