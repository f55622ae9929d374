package policy

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"
)

// #region config

// Config holds the network shape and training knobs.
type Config struct {
	InputDim     int
	HiddenDim    int
	OutputDim    int
	LearningRate float64
	DropoutP     float64 // dropout probability after the hidden layer
	Normalize    bool    // standardize batched inputs (bypassed for single samples)
	Seed         int64   // 0 = time-based
}

// DefaultConfig matches the stock controller shape: [cpu, memory] in,
// three adjustment components out.
func DefaultConfig() Config {
	return Config{
		InputDim:     2,
		HiddenDim:    16,
		OutputDim:    3,
		LearningRate: 0.001,
		DropoutP:     0.1,
		Normalize:    true,
	}
}

// #endregion config

// #region errors

// ErrNoForwardPass indicates Update was called before any Forward.
var ErrNoForwardPass = errors.New("no cached forward pass")

// #endregion errors

// #region network-struct

// Network is a small feed-forward policy: linear → ReLU → dropout (training
// mode only) → linear → tanh. Each output component is bounded in (-1, 1) by
// the saturating output stage. Parameters change only through Update.
type Network struct {
	config   Config
	training bool
	rng      *rand.Rand

	// Row-major weights: w1 is hidden×input, w2 is output×hidden.
	w1, b1 []float64
	w2, b2 []float64

	opt   *adam
	cache *forwardCache
}

// forwardCache holds the activations needed to backpropagate one step.
type forwardCache struct {
	input     []float64
	hiddenPre []float64
	hidden    []float64 // post-ReLU, post-dropout
	dropMask  []float64
	output    []float64
}

// NewNetwork creates a network with scaled random initialization, in
// training mode.
func NewNetwork(config Config) *Network {
	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	n := &Network{
		config:   config,
		training: true,
		rng:      rng,
		w1:       make([]float64, config.HiddenDim*config.InputDim),
		b1:       make([]float64, config.HiddenDim),
		w2:       make([]float64, config.OutputDim*config.HiddenDim),
		b2:       make([]float64, config.OutputDim),
	}
	initScaled(rng, n.w1, config.InputDim)
	initScaled(rng, n.w2, config.HiddenDim)
	n.opt = newAdam(config.LearningRate, len(n.w1), len(n.b1), len(n.w2), len(n.b2))
	return n
}

// initScaled fills weights with uniform values scaled by 1/sqrt(fanIn).
func initScaled(rng *rand.Rand, w []float64, fanIn int) {
	bound := 1 / math.Sqrt(float64(fanIn))
	for i := range w {
		w[i] = (rng.Float64()*2 - 1) * bound
	}
}

// SetTraining toggles training mode (dropout active) on or off.
func (n *Network) SetTraining(training bool) {
	n.training = training
}

// Training reports whether the network is in training mode.
func (n *Network) Training() bool {
	return n.training
}

// #endregion network-struct

// #region forward

// Forward runs a single resource vector through the network and returns the
// policy signal. Input normalization is bypassed for a single sample even
// when enabled; see ForwardBatch.
func (n *Network) Forward(metrics []float64) ([]float64, error) {
	if len(metrics) != n.config.InputDim {
		return nil, fmt.Errorf("input has %d components, want %d", len(metrics), n.config.InputDim)
	}
	return n.forwardOne(metrics), nil
}

// ForwardBatch runs several resource vectors through the network. When
// normalization is enabled and the batch has more than one row, inputs are
// standardized per feature across the batch first; a single-row batch is
// passed through unnormalized. This mirrors the batch-size-1 bypass of the
// original design; set Normalize=false to remove the branch entirely.
func (n *Network) ForwardBatch(batch [][]float64) ([][]float64, error) {
	if len(batch) == 0 {
		return nil, fmt.Errorf("empty batch")
	}
	for i, row := range batch {
		if len(row) != n.config.InputDim {
			return nil, fmt.Errorf("row %d has %d components, want %d", i, len(row), n.config.InputDim)
		}
	}

	rows := batch
	if n.config.Normalize && len(batch) > 1 {
		rows = standardize(batch, n.config.InputDim)
	}

	out := make([][]float64, len(rows))
	for i, row := range rows {
		out[i] = n.forwardOne(row)
	}
	return out, nil
}

// forwardOne computes one pass and caches activations for Update.
func (n *Network) forwardOne(x []float64) []float64 {
	in, hid, out := n.config.InputDim, n.config.HiddenDim, n.config.OutputDim

	c := &forwardCache{
		input:     append([]float64(nil), x...),
		hiddenPre: make([]float64, hid),
		hidden:    make([]float64, hid),
		dropMask:  make([]float64, hid),
		output:    make([]float64, out),
	}

	for i := 0; i < hid; i++ {
		sum := n.b1[i]
		for j := 0; j < in; j++ {
			sum += n.w1[i*in+j] * x[j]
		}
		c.hiddenPre[i] = sum

		// ReLU
		act := sum
		if act < 0 {
			act = 0
		}

		// Inverted dropout, active only in training mode
		mask := 1.0
		if n.training && n.config.DropoutP > 0 {
			if n.rng.Float64() < n.config.DropoutP {
				mask = 0
			} else {
				mask = 1 / (1 - n.config.DropoutP)
			}
		}
		c.dropMask[i] = mask
		c.hidden[i] = act * mask
	}

	for k := 0; k < out; k++ {
		sum := n.b2[k]
		for i := 0; i < hid; i++ {
			sum += n.w2[k*hid+i] * c.hidden[i]
		}
		c.output[k] = math.Tanh(sum)
	}

	n.cache = c
	return append([]float64(nil), c.output...)
}

// standardize returns per-feature standardized copies of the batch rows.
func standardize(batch [][]float64, dim int) [][]float64 {
	nRows := float64(len(batch))
	mean := make([]float64, dim)
	for _, row := range batch {
		for j, v := range row {
			mean[j] += v
		}
	}
	for j := range mean {
		mean[j] /= nRows
	}

	variance := make([]float64, dim)
	for _, row := range batch {
		for j, v := range row {
			d := v - mean[j]
			variance[j] += d * d
		}
	}

	const eps = 1e-5
	out := make([][]float64, len(batch))
	for i, row := range batch {
		out[i] = make([]float64, dim)
		for j, v := range row {
			std := math.Sqrt(variance[j]/nRows + eps)
			out[i][j] = (v - mean[j]) / std
		}
	}
	return out
}

// #endregion forward

// #region update

// Update performs exactly one optimization step using the supplied scalar as
// the objective weight: the network descends loss * mean(output) through the
// most recent cached forward pass. The scalar must be computed by the caller;
// no reward is derived here.
func (n *Network) Update(loss float64) error {
	c := n.cache
	if c == nil {
		return ErrNoForwardPass
	}

	in, hid, out := n.config.InputDim, n.config.HiddenDim, n.config.OutputDim

	gw1 := make([]float64, len(n.w1))
	gb1 := make([]float64, len(n.b1))
	gw2 := make([]float64, len(n.w2))
	gb2 := make([]float64, len(n.b2))

	// d(loss * mean(out)) / d(preTanh_k)
	dPre := make([]float64, out)
	for k := 0; k < out; k++ {
		dOut := loss / float64(out)
		dPre[k] = dOut * (1 - c.output[k]*c.output[k])
	}

	dHidden := make([]float64, hid)
	for k := 0; k < out; k++ {
		gb2[k] = dPre[k]
		for i := 0; i < hid; i++ {
			gw2[k*hid+i] = dPre[k] * c.hidden[i]
			dHidden[i] += dPre[k] * n.w2[k*hid+i]
		}
	}

	for i := 0; i < hid; i++ {
		d := dHidden[i] * c.dropMask[i]
		if c.hiddenPre[i] <= 0 {
			d = 0
		}
		gb1[i] = d
		for j := 0; j < in; j++ {
			gw1[i*in+j] = d * c.input[j]
		}
	}

	n.opt.step(
		[][]float64{n.w1, n.b1, n.w2, n.b2},
		[][]float64{gw1, gb1, gw2, gb2},
	)
	return nil
}

// #endregion update
