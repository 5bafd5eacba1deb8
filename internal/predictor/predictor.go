// Package predictor defines the uniform capability every framework adapter
// implements (spec §4.B): consume a tensor batch, return a 2-D numeric
// output. Grounded on the teacher's adapter_iface.go InferenceAdapter/
// InferSession split, collapsed here into a single interface since
// predictors have no separate "start a session" step distinct from
// construction.
package predictor

import (
	"context"

	"jamsd/internal/tensor"
)

// Output is the 2-D numeric result of a prediction: outer dimension is the
// batch size, inner dimension is per-row scores.
type Output [][]float64

// Predictor is an opaque handle to a loaded native model (spec §3/§4.B).
// ctx is accepted for idiomatic cancellation plumbing, but implementations
// that call a blocking native function only honor it before the call
// starts — native prediction is not a suspension point (spec §5).
type Predictor interface {
	Predict(ctx context.Context, input tensor.ModelInput) (Output, error)
	Close() error
}
