// Package adapter selects the concrete framework adapter for a
// types.Framework, keeping the registry and startup loader free of a type
// switch on concrete adapter types (spec §9 "no inheritance, no
// downcasting").
package adapter

import (
	"fmt"

	"jamsd/internal/adapter/catboost"
	"jamsd/internal/adapter/lightgbm"
	"jamsd/internal/adapter/tensorflow"
	"jamsd/internal/adapter/torch"
	"jamsd/internal/jamserr"
	"jamsd/internal/predictor"
	"jamsd/pkg/types"
)

// Build constructs the predictor for fw from the unpacked artifact at path.
func Build(fw types.Framework, path string) (predictor.Predictor, error) {
	switch fw {
	case types.TensorFlow:
		return tensorflow.New(path)
	case types.Torch:
		return torch.New(path)
	case types.CatBoost:
		return catboost.New(path)
	case types.LightGBM:
		return lightgbm.New(path)
	default:
		return nil, jamserr.LoadError(fmt.Sprintf("adapter: unknown framework %q", fw), nil)
	}
}
