//go:build jams_tensorflow

// Package tensorflow adapts a TensorFlow SavedModel bundle to the
// predictor.Predictor capability. This file is the real, cgo-backed
// implementation built only with the 'jams_tensorflow' tag; the default,
// cgo-free build links stub.go instead.
package tensorflow

import (
	"context"
	"fmt"

	tf "github.com/tensorflow/tensorflow/tensorflow/go"

	"jamsd/internal/jamserr"
	"jamsd/internal/predictor"
	"jamsd/internal/tensor"
)

// Adapter loads a SavedModel directory and predicts against its default
// serving signature. TF sessions are documented safe for concurrent Run
// calls, so no interior lock is needed (spec §9's "naturally reentrant"
// case).
type Adapter struct {
	model *tf.SavedModel
}

// New loads the SavedModel rooted at path.
func New(path string) (predictor.Predictor, error) {
	model, err := tf.LoadSavedModel(path, []string{"serve"}, nil)
	if err != nil {
		return nil, jamserr.LoadError(fmt.Sprintf("tensorflow: failed to load saved model at %q", path), err)
	}
	return &Adapter{model: model}, nil
}

// Predict feeds each float column as an input tensor to the graph operation
// with the same name as the feature, runs the session, and reshapes the
// single output tensor into a 2-D batch result. Int and string columns are
// not fed to the model.
func (a *Adapter) Predict(ctx context.Context, input tensor.ModelInput) (predictor.Output, error) {
	select {
	case <-ctx.Done():
		return nil, jamserr.Deadline("tensorflow: predict canceled before native call")
	default:
	}

	batchSize, err := input.BatchSize()
	if err != nil {
		return nil, err
	}

	feeds := map[tf.Output]*tf.Tensor{}
	names, floats := input.Floats()
	for i, name := range names {
		t, err := tf.NewTensor(floats[i])
		if err != nil {
			return nil, jamserr.BadInput(fmt.Sprintf("tensorflow: feature %q could not be tensorized", name), err)
		}
		op, ok := a.model.Graph.Operation(name)
		if !ok {
			return nil, jamserr.BadInput(fmt.Sprintf("tensorflow: signature has no input named %q", name), nil)
		}
		feeds[tf.Output{Op: op, Index: 0}] = t
	}

	outOp, ok := a.model.Graph.Operation("StatefulPartitionedCall")
	if !ok {
		return nil, jamserr.LoadError("tensorflow: saved model missing default output op", nil)
	}

	results, err := a.model.Session.Run(feeds, []tf.Output{{Op: outOp, Index: 0}}, nil)
	if err != nil {
		return nil, jamserr.InferenceFailure("tensorflow: session run failed", err)
	}
	if len(results) == 0 {
		return nil, jamserr.InferenceFailure("tensorflow: session returned no outputs", nil)
	}

	raw, ok := results[0].Value().([][]float32)
	if !ok {
		return nil, jamserr.InferenceFailure("tensorflow: unexpected output tensor shape", nil)
	}
	out := make(predictor.Output, batchSize)
	for i := range out {
		row := make([]float64, len(raw[i]))
		for j, v := range raw[i] {
			row[j] = float64(v)
		}
		out[i] = row
	}
	return out, nil
}

// Close releases the underlying TensorFlow session.
func (a *Adapter) Close() error {
	if a.model == nil || a.model.Session == nil {
		return nil
	}
	return a.model.Session.Close()
}
