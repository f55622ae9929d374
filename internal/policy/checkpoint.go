package policy

import (
	"encoding/json"
	"fmt"
	"os"
)

// #region checkpoint-format

// checkpoint is the on-disk parameter set.
type checkpoint struct {
	InputDim  int       `json:"input_dim"`
	HiddenDim int       `json:"hidden_dim"`
	OutputDim int       `json:"output_dim"`
	W1        []float64 `json:"w1"`
	B1        []float64 `json:"b1"`
	W2        []float64 `json:"w2"`
	B2        []float64 `json:"b2"`
}

// #endregion checkpoint-format

// #region save

// Save persists the full parameter set to path.
func (n *Network) Save(path string) error {
	ck := checkpoint{
		InputDim:  n.config.InputDim,
		HiddenDim: n.config.HiddenDim,
		OutputDim: n.config.OutputDim,
		W1:        n.w1,
		B1:        n.b1,
		W2:        n.w2,
		B2:        n.b2,
	}
	data, err := json.Marshal(ck)
	if err != nil {
		return fmt.Errorf("marshal checkpoint: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write checkpoint: %w", err)
	}
	return nil
}

// #endregion save

// #region load

// Load restores the parameter set from path and leaves the network in
// inference mode (dropout disabled).
func (n *Network) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read checkpoint: %w", err)
	}
	var ck checkpoint
	if err := json.Unmarshal(data, &ck); err != nil {
		return fmt.Errorf("unmarshal checkpoint: %w", err)
	}
	if ck.InputDim != n.config.InputDim || ck.HiddenDim != n.config.HiddenDim || ck.OutputDim != n.config.OutputDim {
		return fmt.Errorf("checkpoint shape %dx%dx%d does not match network %dx%dx%d",
			ck.InputDim, ck.HiddenDim, ck.OutputDim,
			n.config.InputDim, n.config.HiddenDim, n.config.OutputDim)
	}
	if len(ck.W1) != len(n.w1) || len(ck.B1) != len(n.b1) || len(ck.W2) != len(n.w2) || len(ck.B2) != len(n.b2) {
		return fmt.Errorf("checkpoint parameter lengths do not match network")
	}

	copy(n.w1, ck.W1)
	copy(n.b1, ck.B1)
	copy(n.w2, ck.W2)
	copy(n.b2, ck.B2)
	n.training = false
	return nil
}

// #endregion load
