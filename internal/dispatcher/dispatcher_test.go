package dispatcher

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"jamsd/internal/predictor"
	"jamsd/internal/registry"
	"jamsd/internal/tensor"
)

// goroutineTrackingPredictor is a fake predictor that returns one row per
// batch element, holding that row's index. Its callerGoroutine field is not
// used, and no test here checks which goroutine a Predict call runs on.
type goroutineTrackingPredictor struct {
	callerGoroutine chan struct{}
}

func (p *goroutineTrackingPredictor) Predict(ctx context.Context, input tensor.ModelInput) (predictor.Output, error) {
	n, _ := input.BatchSize()
	out := make(predictor.Output, n)
	for i := range out {
		out[i] = []float64{float64(i)}
	}
	return out, nil
}

func (p *goroutineTrackingPredictor) Close() error { return nil }

func mustInput(t *testing.T) tensor.ModelInput {
	t.Helper()
	in, err := tensor.ParseModelInput(`{"age": [22.0, 23.8]}`)
	require.NoError(t, err)
	return in
}

func TestDispatcher_PredictReturnsOutputMatchingBatchSize(t *testing.T) {
	reg := registry.New(zerolog.Nop())
	meta := registry.NewModel("titanic", "catboost", "/scratch/titanic")
	require.NoError(t, reg.Insert("titanic", meta, &goroutineTrackingPredictor{}, ""))

	d := New(reg, 2, 8, zerolog.Nop())
	out, err := d.Predict(context.Background(), "titanic", mustInput(t))
	require.NoError(t, err)
	require.Len(t, out, 2)
}

func TestDispatcher_PredictUnknownModelIsNotFound(t *testing.T) {
	reg := registry.New(zerolog.Nop())
	d := New(reg, 2, 8, zerolog.Nop())

	_, err := d.Predict(context.Background(), "missing", mustInput(t))
	require.Error(t, err)
}

// slowPredictor blocks until unblocked, letting the test exercise the
// ctx.Done() vs result race without a real native call.
type slowPredictor struct {
	unblock chan struct{}
}

func (p *slowPredictor) Predict(ctx context.Context, input tensor.ModelInput) (predictor.Output, error) {
	<-p.unblock
	return predictor.Output{{1.0}}, nil
}

func (p *slowPredictor) Close() error { return nil }

func TestDispatcher_ContextDeadlineDoesNotCancelInFlightWorker(t *testing.T) {
	reg := registry.New(zerolog.Nop())
	slow := &slowPredictor{unblock: make(chan struct{})}
	meta := registry.NewModel("slow", "catboost", "/scratch/slow")
	require.NoError(t, reg.Insert("slow", meta, slow, ""))

	d := New(reg, 1, 4, zerolog.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(1)
	var err error
	go func() {
		defer wg.Done()
		_, err = d.Predict(ctx, "slow", mustInput(t))
	}()

	wg.Wait()
	require.Error(t, err, "predict must return Deadline once ctx expires, not block forever")

	close(slow.unblock)
	time.Sleep(10 * time.Millisecond) // let the worker goroutine drain without leaking
}
