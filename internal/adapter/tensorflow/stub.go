//go:build !jams_tensorflow

// Package tensorflow adapts a TensorFlow SavedModel bundle to the
// predictor.Predictor capability. This file is the no-cgo stub compiled
// when the 'jams_tensorflow' build tag is NOT set, keeping default builds
// and CI cgo-free. The real adapter lives in tensorflow.go.
package tensorflow

import (
	"context"

	"jamsd/internal/jamserr"
	"jamsd/internal/predictor"
	"jamsd/internal/tensor"
)

type stubAdapter struct{}

// New always fails: TensorFlow support not built (missing 'jams_tensorflow'
// build tag). This avoids any mocked prediction behavior in production
// binaries built without cgo support.
func New(path string) (predictor.Predictor, error) {
	return nil, jamserr.LoadError("tensorflow support not built (missing 'jams_tensorflow' build tag)", nil)
}

func (stubAdapter) Predict(ctx context.Context, input tensor.ModelInput) (predictor.Output, error) {
	return nil, jamserr.InferenceFailure("tensorflow support not built (missing 'jams_tensorflow' build tag)", nil)
}

func (stubAdapter) Close() error { return nil }
