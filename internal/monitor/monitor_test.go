package monitor

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

// fakeProbe returns scripted readings in sequence, repeating the last one.
type fakeProbe struct {
	cpu    []float64
	mem    []float64
	calls  int
	failed bool
}

func (p *fakeProbe) CPUPercent(time.Duration) (float64, error) {
	if p.failed {
		return 0, fmt.Errorf("probe offline")
	}
	v := p.cpu[min(p.calls, len(p.cpu)-1)]
	return v, nil
}

func (p *fakeProbe) MemoryGB() (float64, error) {
	if p.failed {
		return 0, fmt.Errorf("probe offline")
	}
	v := p.mem[min(p.calls, len(p.mem)-1)]
	p.calls++
	return v, nil
}

func newTestMonitor(p Probe, window int) *Monitor {
	return NewMonitor(p, Config{Interval: 0, Window: window}, zap.NewNop())
}

func TestSampleStoresLastKnown(t *testing.T) {
	m := newTestMonitor(&fakeProbe{cpu: []float64{50}, mem: []float64{8}}, 3)

	s, err := m.Sample()
	if err != nil {
		t.Fatal(err)
	}
	if s.CPUPercent != 50 || s.MemoryGB != 8 {
		t.Fatalf("unexpected sample: %+v", s)
	}

	last, ok := m.Last()
	if !ok || last != s {
		t.Fatal("last-known sample not stored")
	}
	if len(m.History()) != 0 {
		t.Fatal("Sample must not append to history")
	}
}

func TestSampleResourceUnavailable(t *testing.T) {
	m := newTestMonitor(&fakeProbe{failed: true}, 3)
	if _, err := m.Sample(); !errors.Is(err, ErrResourceUnavailable) {
		t.Fatalf("expected ErrResourceUnavailable, got %v", err)
	}
}

func TestLogAppendsInOrder(t *testing.T) {
	m := newTestMonitor(&fakeProbe{cpu: []float64{10, 20, 30}, mem: []float64{1, 2, 3}}, 3)

	for i := 0; i < 3; i++ {
		if _, err := m.Log(); err != nil {
			t.Fatal(err)
		}
	}

	hist := m.History()
	if len(hist) != 3 {
		t.Fatalf("history length = %d, want 3", len(hist))
	}
	for i, wantCPU := range []float64{10, 20, 30} {
		if hist[i].CPUPercent != wantCPU {
			t.Fatalf("history[%d].CPUPercent = %v, want %v", i, hist[i].CPUPercent, wantCPU)
		}
	}
}

func TestForecastShortHistoryReturnsLastSample(t *testing.T) {
	m := newTestMonitor(&fakeProbe{cpu: []float64{10, 20}, mem: []float64{1, 2}}, 3)

	var logged ResourceSample
	var err error
	for i := 0; i < 2; i++ {
		logged, err = m.Log()
		if err != nil {
			t.Fatal(err)
		}
	}

	got, err := m.Forecast()
	if err != nil {
		t.Fatal(err)
	}
	if got != logged {
		t.Fatalf("forecast = %+v, want last sample %+v", got, logged)
	}
}

func TestForecastEmptyHistorySamples(t *testing.T) {
	m := newTestMonitor(&fakeProbe{cpu: []float64{33}, mem: []float64{4}}, 3)

	got, err := m.Forecast()
	if err != nil {
		t.Fatal(err)
	}
	if got.CPUPercent != 33 || got.MemoryGB != 4 {
		t.Fatalf("forecast = %+v", got)
	}
	if len(m.History()) != 0 {
		t.Fatal("fallback sample must not enter history")
	}
}

func TestForecastMovingAverageWindow(t *testing.T) {
	m := newTestMonitor(&fakeProbe{cpu: []float64{10, 20, 30, 40}, mem: []float64{1, 2, 3, 4}}, 3)

	for i := 0; i < 4; i++ {
		if _, err := m.Log(); err != nil {
			t.Fatal(err)
		}
	}

	got, err := m.Forecast()
	if err != nil {
		t.Fatal(err)
	}
	// Mean of exactly the last 3 entries: cpu (20+30+40)/3, mem (2+3+4)/3.
	if math.Abs(got.CPUPercent-30) > 1e-9 {
		t.Fatalf("forecast cpu = %v, want 30", got.CPUPercent)
	}
	if math.Abs(got.MemoryGB-3) > 1e-9 {
		t.Fatalf("forecast memory = %v, want 3", got.MemoryGB)
	}
}

func TestCustomForecastStrategy(t *testing.T) {
	m := newTestMonitor(&fakeProbe{cpu: []float64{10}, mem: []float64{1}}, 3)
	want := ResourceSample{Timestamp: time.Now().UTC(), CPUPercent: 99, MemoryGB: 42}
	m.SetForecast(func() (ResourceSample, error) { return want, nil })

	got, err := m.Forecast()
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Fatalf("forecast = %+v, want %+v", got, want)
	}

	// nil restores the default.
	m.SetForecast(nil)
	if _, err := m.Forecast(); err != nil {
		t.Fatal(err)
	}
}

func TestClearKeepsLastSample(t *testing.T) {
	m := newTestMonitor(&fakeProbe{cpu: []float64{10}, mem: []float64{1}}, 3)
	if _, err := m.Log(); err != nil {
		t.Fatal(err)
	}

	m.Clear()

	if len(m.History()) != 0 {
		t.Fatal("history not cleared")
	}
	if _, ok := m.Last(); !ok {
		t.Fatal("last-known sample must survive Clear")
	}
}

func TestExportCSV(t *testing.T) {
	m := newTestMonitor(&fakeProbe{cpu: []float64{10, 20}, mem: []float64{1.5, 2.5}}, 3)
	for i := 0; i < 2; i++ {
		if _, err := m.Log(); err != nil {
			t.Fatal(err)
		}
	}

	var buf strings.Builder
	if err := m.ExportCSV(&buf); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines", len(lines))
	}
	if lines[0] != "timestamp,cpu,memory" {
		t.Fatalf("header = %q", lines[0])
	}
	if !strings.HasSuffix(lines[1], ",10,1.5") {
		t.Fatalf("row 1 = %q", lines[1])
	}
}

func TestExportCSVEmptyHistory(t *testing.T) {
	m := newTestMonitor(&fakeProbe{cpu: []float64{10}, mem: []float64{1}}, 3)
	var buf strings.Builder
	if err := m.ExportCSV(&buf); !errors.Is(err, ErrEmptyHistory) {
		t.Fatalf("expected ErrEmptyHistory, got %v", err)
	}
	if buf.Len() != 0 {
		t.Fatal("nothing should be written for empty history")
	}
}
