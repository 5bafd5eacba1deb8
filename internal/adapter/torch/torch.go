//go:build jams_torch

// Package torch adapts a TorchScript module to the predictor.Predictor
// capability. This file is the real, cgo-backed implementation built only
// with the 'jams_torch' tag; the default, cgo-free build links stub.go
// instead.
package torch

import (
	"context"
	"fmt"
	"sync"

	torch "github.com/sugarme/gotch/ts"

	"jamsd/internal/jamserr"
	"jamsd/internal/predictor"
	"jamsd/internal/tensor"
)

// Adapter loads a TorchScript module and predicts by packing all numeric
// columns into a single row-major float tensor in lexicographic
// feature-name order (spec §4.C, §9 open question 2).
type Adapter struct {
	module *torch.CModule
	// torch.jit modules exported without optimize_for_inference are not
	// guaranteed reentrant; serialize forward passes with an interior lock
	// per spec §4.C/§9.
	mu sync.Mutex
}

// New loads the TorchScript module at path onto the CPU device.
func New(path string) (predictor.Predictor, error) {
	module, err := torch.ModuleLoad(path)
	if err != nil {
		return nil, jamserr.LoadError(fmt.Sprintf("torch: failed to load module at %q", path), err)
	}
	return &Adapter{module: module}, nil
}

// Predict concatenates all numeric (float and int) columns in lexicographic
// name order into one 2-D float tensor, runs forward, and extracts the
// output tensor.
func (a *Adapter) Predict(ctx context.Context, input tensor.ModelInput) (predictor.Output, error) {
	select {
	case <-ctx.Done():
		return nil, jamserr.Deadline("torch: predict canceled before native call")
	default:
	}

	batchSize, err := input.BatchSize()
	if err != nil {
		return nil, err
	}

	floatNames, floatCols := input.Floats()
	intNames, intCols := input.Ints()
	if len(floatNames)+len(intNames) == 0 {
		return nil, jamserr.BadInput("torch: input has no numeric columns to pack", nil)
	}

	// Merge both numeric views, then re-sort by name so packing order is a
	// single lexicographic pass across floats and ints together.
	type col struct {
		name   string
		values []float64
	}
	cols := make([]col, 0, len(floatNames)+len(intNames))
	for i, n := range floatNames {
		cols = append(cols, col{name: n, values: floatCols[i]})
	}
	for i, n := range intNames {
		vs := make([]float64, len(intCols[i]))
		for j, v := range intCols[i] {
			vs[j] = float64(v)
		}
		cols = append(cols, col{name: n, values: vs})
	}
	for i := 1; i < len(cols); i++ {
		for j := i; j > 0 && cols[j].name < cols[j-1].name; j-- {
			cols[j], cols[j-1] = cols[j-1], cols[j]
		}
	}

	flat := make([]float32, 0, batchSize*len(cols))
	for row := 0; row < batchSize; row++ {
		for _, c := range cols {
			flat = append(flat, float32(c.values[row]))
		}
	}

	inTensor, err := torch.NewTensorFromData(flat, []int64{int64(batchSize), int64(len(cols))})
	if err != nil {
		return nil, jamserr.BadInput("torch: failed to build input tensor", err)
	}
	defer inTensor.MustDrop()

	a.mu.Lock()
	outTensor, err := a.module.Forward([]torch.Tensor{*inTensor})
	a.mu.Unlock()
	if err != nil {
		return nil, jamserr.InferenceFailure("torch: forward failed", err)
	}
	defer outTensor.MustDrop()

	raw := outTensor.Vals().([]float32)
	cols2 := len(raw) / batchSize
	out := make(predictor.Output, batchSize)
	for i := range out {
		row := make([]float64, cols2)
		for j := 0; j < cols2; j++ {
			row[j] = float64(raw[i*cols2+j])
		}
		out[i] = row
	}
	return out, nil
}

// Close releases the underlying libtorch module.
func (a *Adapter) Close() error {
	if a.module == nil {
		return nil
	}
	a.module.Drop()
	return nil
}
