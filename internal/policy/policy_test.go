package policy

import (
	"errors"
	"math"
	"path/filepath"
	"testing"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Seed = 1
	return cfg
}

func TestForwardOutputBounded(t *testing.T) {
	n := NewNetwork(testConfig())

	out, err := n.Forward([]float64{0.5, 0.13})
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 3 {
		t.Fatalf("output width = %d, want 3", len(out))
	}
	for i, v := range out {
		if v <= -1 || v >= 1 {
			t.Fatalf("output[%d] = %v, want strictly inside (-1, 1)", i, v)
		}
	}
}

func TestForwardWrongInputWidth(t *testing.T) {
	n := NewNetwork(testConfig())
	if _, err := n.Forward([]float64{1, 2, 3}); err == nil {
		t.Fatal("expected error for wrong input width")
	}
}

func TestForwardSingleSampleBypassesNormalization(t *testing.T) {
	cfg := testConfig()
	cfg.DropoutP = 0 // deterministic
	n := NewNetwork(cfg)

	single, err := n.Forward([]float64{50.0, 13.0})
	if err != nil {
		t.Fatal(err)
	}
	batch, err := n.ForwardBatch([][]float64{{50.0, 13.0}})
	if err != nil {
		t.Fatal(err)
	}
	for i := range single {
		if math.Abs(single[i]-batch[0][i]) > 1e-12 {
			t.Fatalf("single-row batch must bypass normalization: %v vs %v", single, batch[0])
		}
	}
}

func TestForwardBatchNormalizes(t *testing.T) {
	cfg := testConfig()
	cfg.DropoutP = 0
	n := NewNetwork(cfg)

	rows := [][]float64{{50.0, 13.0}, {60.0, 12.5}, {55.0, 13.2}}

	normalized, err := n.ForwardBatch(rows)
	if err != nil {
		t.Fatal(err)
	}

	// Same first row pushed through alone skips normalization, so the two
	// results differ when the stage is active.
	single, err := n.Forward(rows[0])
	if err != nil {
		t.Fatal(err)
	}
	same := true
	for i := range single {
		if math.Abs(single[i]-normalized[0][i]) > 1e-9 {
			same = false
		}
	}
	if same {
		t.Fatal("batch input should be standardized before the network")
	}

	// Disabling the stage removes the discrepancy.
	cfg.Normalize = false
	cfg.Seed = 1
	m := NewNetwork(cfg)
	m.SetTraining(false)
	a, err := m.Forward(rows[0])
	if err != nil {
		t.Fatal(err)
	}
	b, err := m.ForwardBatch(rows)
	if err != nil {
		t.Fatal(err)
	}
	for i := range a {
		if math.Abs(a[i]-b[0][i]) > 1e-12 {
			t.Fatal("with Normalize=false, batch and single paths must agree")
		}
	}
}

func TestDropoutOnlyInTrainingMode(t *testing.T) {
	cfg := testConfig()
	n := NewNetwork(cfg)
	n.SetTraining(false)

	// Inference mode is deterministic regardless of dropout probability.
	first, err := n.Forward([]float64{50.0, 13.0})
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		got, err := n.Forward([]float64{50.0, 13.0})
		if err != nil {
			t.Fatal(err)
		}
		for j := range got {
			if got[j] != first[j] {
				t.Fatal("inference mode must be deterministic")
			}
		}
	}
}

func TestUpdateChangesParameters(t *testing.T) {
	cfg := testConfig()
	cfg.DropoutP = 0
	n := NewNetwork(cfg)

	if _, err := n.Forward([]float64{0.5, 0.13}); err != nil {
		t.Fatal(err)
	}

	before := append([]float64(nil), n.w2...)
	if err := n.Update(0.5); err != nil {
		t.Fatal(err)
	}

	changed := false
	for i := range before {
		if before[i] != n.w2[i] {
			changed = true
			break
		}
	}
	if !changed {
		t.Fatal("Update must change parameters")
	}
}

func TestUpdateWithoutForward(t *testing.T) {
	n := NewNetwork(testConfig())
	if err := n.Update(1.0); !errors.Is(err, ErrNoForwardPass) {
		t.Fatalf("expected ErrNoForwardPass, got %v", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	cfg := testConfig()
	cfg.DropoutP = 0
	n := NewNetwork(cfg)
	n.SetTraining(false)

	want, err := n.Forward([]float64{50.0, 13.0})
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "policy.json")
	if err := n.Save(path); err != nil {
		t.Fatal(err)
	}

	cfg.Seed = 2 // different init, parameters come from the checkpoint
	m := NewNetwork(cfg)
	if err := m.Load(path); err != nil {
		t.Fatal(err)
	}
	if m.Training() {
		t.Fatal("Load must leave the network in inference mode")
	}

	got, err := m.Forward([]float64{50.0, 13.0})
	if err != nil {
		t.Fatal(err)
	}
	for i := range want {
		if math.Abs(want[i]-got[i]) > 1e-12 {
			t.Fatalf("loaded network diverges: %v vs %v", want, got)
		}
	}
}

func TestLoadShapeMismatch(t *testing.T) {
	cfg := testConfig()
	n := NewNetwork(cfg)
	path := filepath.Join(t.TempDir(), "policy.json")
	if err := n.Save(path); err != nil {
		t.Fatal(err)
	}

	cfg.HiddenDim = 8
	m := NewNetwork(cfg)
	if err := m.Load(path); err == nil {
		t.Fatal("expected shape mismatch error")
	}
}
