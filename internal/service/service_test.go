package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"jamsd/internal/dispatcher"
	"jamsd/internal/predictor"
	"jamsd/internal/registry"
	"jamsd/internal/tensor"
	"jamsd/pkg/types"
)

type echoPredictor struct{}

func (echoPredictor) Predict(ctx context.Context, input tensor.ModelInput) (predictor.Output, error) {
	n, _ := input.BatchSize()
	out := make(predictor.Output, n)
	for i := range out {
		out[i] = []float64{float64(i)}
	}
	return out, nil
}

func (echoPredictor) Close() error { return nil }

func newTestService(t *testing.T) *Service {
	t.Helper()
	reg := registry.New(zerolog.Nop())
	disp := dispatcher.New(reg, 1, 4, zerolog.Nop())
	meta := registry.NewModel("titanic", "catboost", "/scratch/titanic")
	require.NoError(t, reg.Insert("titanic", meta, echoPredictor{}, ""))
	return New(reg, disp, nil)
}

func TestService_ListModelsReportsTotalAndEntries(t *testing.T) {
	svc := newTestService(t)
	resp := svc.ListModels()
	require.Equal(t, 1, resp.Total)
	require.Len(t, resp.Models, 1)
	require.Equal(t, "titanic", resp.Models[0].Name)
}

func TestService_PredictReturnsJSONPredictionsPayload(t *testing.T) {
	svc := newTestService(t)
	out, err := svc.Predict(context.Background(), "titanic", `{"age": [22.0, 23.8]}`)
	require.NoError(t, err)

	var payload types.PredictionsPayload
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	require.Len(t, payload.Predictions, 2)
}

func TestService_PredictUnknownModelIsNotFound(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.Predict(context.Background(), "missing", `{"age": [22.0]}`)
	require.Error(t, err)
}

func TestService_ReadyDefaultsFalseUntilSet(t *testing.T) {
	svc := newTestService(t)
	require.False(t, svc.Ready())
	svc.SetReady(true)
	require.True(t, svc.Ready())
}
