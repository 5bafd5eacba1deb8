//go:build jams_lightgbm

// Package lightgbm adapts a LightGBM text model (Booster) to the
// predictor.Predictor capability. Unlike the other three adapters this one
// needs no cgo: github.com/dmitryikh/leaves is a pure-Go LightGBM/XGBoost
// scorer, so this file has no native link step, but it is still gated
// behind the 'jams_lightgbm' build tag to keep the four adapters' texture
// consistent and the default build minimal (documented in DESIGN.md).
package lightgbm

import (
	"context"
	"fmt"

	"github.com/dmitryikh/leaves"

	"jamsd/internal/jamserr"
	"jamsd/internal/predictor"
	"jamsd/internal/tensor"
)

// Adapter wraps a leaves.Ensemble loaded from a LightGBM text model file.
// leaves' Predict is reentrant, so no interior lock is required.
type Adapter struct {
	model *leaves.Ensemble
}

// New loads the LightGBM text model at path.
func New(path string) (predictor.Predictor, error) {
	model, err := leaves.LGEnsembleFromFile(path, false)
	if err != nil {
		return nil, jamserr.LoadError(fmt.Sprintf("lightgbm: failed to load booster at %q", path), err)
	}
	return &Adapter{model: model}, nil
}

// Predict assembles a dense 2-D matrix of numeric columns, parsing string
// columns to numeric where the booster expects numeric encodings, and calls
// the bulk predict API.
func (a *Adapter) Predict(ctx context.Context, input tensor.ModelInput) (predictor.Output, error) {
	select {
	case <-ctx.Done():
		return nil, jamserr.Deadline("lightgbm: predict canceled before native call")
	default:
	}

	batchSize, err := input.BatchSize()
	if err != nil {
		return nil, err
	}

	floatNames, floatCols := input.Floats()
	intNames, intCols := input.Ints()
	strNames, strCols := input.Strings()
	numFeatures := len(floatNames) + len(intNames) + len(strNames)
	if numFeatures == 0 {
		return nil, jamserr.BadInput("lightgbm: input has no columns", nil)
	}

	rows := make([]float64, batchSize*numFeatures)
	for row := 0; row < batchSize; row++ {
		base := row * numFeatures
		idx := 0
		for i := range floatNames {
			rows[base+idx] = floatCols[i][row]
			idx++
		}
		for i := range intNames {
			rows[base+idx] = float64(intCols[i][row])
			idx++
		}
		for i := range strNames {
			var parsed float64
			if _, err := fmt.Sscanf(strCols[i][row], "%g", &parsed); err != nil {
				return nil, jamserr.BadInput(fmt.Sprintf("lightgbm: feature %q value %q is not numeric-encodable", strNames[i], strCols[i][row]), err)
			}
			rows[base+idx] = parsed
			idx++
		}
	}

	nOut := a.model.NOutputGroups()
	preds := make([]float64, batchSize*nOut)
	if err := a.model.PredictDense(rows, batchSize, numFeatures, preds, 0, 1); err != nil {
		return nil, jamserr.InferenceFailure("lightgbm: bulk predict failed", err)
	}

	out := make(predictor.Output, batchSize)
	for row := 0; row < batchSize; row++ {
		r := make([]float64, nOut)
		copy(r, preds[row*nOut:(row+1)*nOut])
		out[row] = r
	}
	return out, nil
}

// Close is a no-op: leaves.Ensemble holds no native resources.
func (a *Adapter) Close() error { return nil }
