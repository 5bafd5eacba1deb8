//go:build !jams_catboost

// Package catboost adapts a CatBoost CBM model file to the
// predictor.Predictor capability. This file is the no-cgo stub compiled
// when the 'jams_catboost' build tag is NOT set. The real adapter lives in
// catboost.go.
package catboost

import (
	"context"

	"jamsd/internal/jamserr"
	"jamsd/internal/predictor"
	"jamsd/internal/tensor"
)

type stubAdapter struct{}

// New always fails: CatBoost support not built (missing 'jams_catboost'
// build tag).
func New(path string) (predictor.Predictor, error) {
	return nil, jamserr.LoadError("catboost support not built (missing 'jams_catboost' build tag)", nil)
}

func (stubAdapter) Predict(ctx context.Context, input tensor.ModelInput) (predictor.Output, error) {
	return nil, jamserr.InferenceFailure("catboost support not built (missing 'jams_catboost' build tag)", nil)
}

func (stubAdapter) Close() error { return nil }
