//go:build !jams_lightgbm

// Package lightgbm adapts a LightGBM text model (Booster) to the
// predictor.Predictor capability. This file is the stub compiled when the
// 'jams_lightgbm' build tag is NOT set. The real adapter lives in
// lightgbm.go.
package lightgbm

import (
	"context"

	"jamsd/internal/jamserr"
	"jamsd/internal/predictor"
	"jamsd/internal/tensor"
)

type stubAdapter struct{}

// New always fails: LightGBM support not built (missing 'jams_lightgbm'
// build tag).
func New(path string) (predictor.Predictor, error) {
	return nil, jamserr.LoadError("lightgbm support not built (missing 'jams_lightgbm' build tag)", nil)
}

func (stubAdapter) Predict(ctx context.Context, input tensor.ModelInput) (predictor.Output, error) {
	return nil, jamserr.InferenceFailure("lightgbm support not built (missing 'jams_lightgbm' build tag)", nil)
}

func (stubAdapter) Close() error { return nil }
