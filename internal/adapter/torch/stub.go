//go:build !jams_torch

// Package torch adapts a TorchScript module to the predictor.Predictor
// capability. This file is the no-cgo stub compiled when the 'jams_torch'
// build tag is NOT set. The real adapter lives in torch.go.
package torch

import (
	"context"

	"jamsd/internal/jamserr"
	"jamsd/internal/predictor"
	"jamsd/internal/tensor"
)

type stubAdapter struct{}

// New always fails: Torch support not built (missing 'jams_torch' build tag).
func New(path string) (predictor.Predictor, error) {
	return nil, jamserr.LoadError("torch support not built (missing 'jams_torch' build tag)", nil)
}

func (stubAdapter) Predict(ctx context.Context, input tensor.ModelInput) (predictor.Output, error) {
	return nil, jamserr.InferenceFailure("torch support not built (missing 'jams_torch' build tag)", nil)
}

func (stubAdapter) Close() error { return nil }
