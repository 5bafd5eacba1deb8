// Package dispatcher bridges async request handlers to a fixed-size CPU
// worker pool (spec §4.H): it is the only place that couples async I/O and
// blocking native inference. Generalizes the teacher's per-instance
// admission channels (internal/manager/queue_admission.go's genCh/queueCh
// pair) into one pool shared across every model, since spec §4.H sizes the
// pool from configuration rather than per-model.
package dispatcher

import (
	"context"

	"github.com/rs/zerolog"

	"jamsd/internal/jamserr"
	"jamsd/internal/registry"
	"jamsd/internal/tensor"
	"jamsd/pkg/types"
)

// predictResult carries a worker's outcome back to the waiting caller via a
// one-shot channel, the same shape as the teacher's oneshot-over-channel
// pattern in inference.go.
type predictResult struct {
	output [][]float64
	err    error
}

type job struct {
	ctx    context.Context
	handle *registry.Handle
	input  tensor.ModelInput
	result chan predictResult
}

// Dispatcher owns the bounded CPU worker pool. No goroutine outside the
// pool ever calls into a framework adapter directly (spec §4.H/§9).
type Dispatcher struct {
	registry *registry.Registry
	jobs     chan job
	log      zerolog.Logger
}

// New constructs a Dispatcher with numWorkers fixed goroutines draining a
// buffered job queue, matching spec §4.H's default of 2.
func New(reg *registry.Registry, numWorkers, queueDepth int, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = 2
	}
	if queueDepth <= 0 {
		queueDepth = numWorkers * 4
	}
	d := &Dispatcher{registry: reg, jobs: make(chan job, queueDepth), log: log}
	for i := 0; i < numWorkers; i++ {
		go d.worker()
	}
	return d
}

func (d *Dispatcher) worker() {
	for j := range d.jobs {
		out, err := j.handle.Predictor().Predict(j.ctx, j.input)
		j.handle.Release()
		select {
		case j.result <- predictResult{output: out, err: err}:
		default:
			// Caller already gave up on ctx.Done(); the worker still ran
			// to completion and its result is discarded (spec §5 "no safe
			// way to preempt FFI").
		}
	}
}

// Predict looks up the predictor for modelName and runs the prediction for
// the already-parsed input on the worker pool, returning the raw output
// matrix.
//
//  1. registry.Get is async-friendly and wait-free in the common case.
//  2. If the job queue is full, this returns a Deadline error immediately
//     rather than growing the queue unbounded.
//  3. A context deadline firing while a job is queued or running yields
//     Deadline without canceling the worker.
func (d *Dispatcher) Predict(ctx context.Context, modelName string, input tensor.ModelInput) ([][]float64, error) {
	handle, err := d.registry.Get(modelName)
	if err != nil {
		return nil, err
	}

	j := job{ctx: ctx, handle: handle, input: input, result: make(chan predictResult, 1)}
	select {
	case d.jobs <- j:
	default:
		handle.Release()
		return nil, jamserr.Deadline("dispatcher: worker pool queue is full")
	}

	select {
	case res := <-j.result:
		return res.output, res.err
	case <-ctx.Done():
		return nil, jamserr.Deadline("dispatcher: predict canceled while awaiting worker")
	}
}

// ModelFramework is a small lookup helper for transports that need the
// framework of a model before dispatching (e.g. to validate an artifact
// name), avoiding a second registry import at the call site.
func (d *Dispatcher) ModelFramework(modelName string) (types.Framework, error) {
	h, err := d.registry.Get(modelName)
	if err != nil {
		return "", err
	}
	defer h.Release()
	return types.Framework(h.Metadata.Framework), nil
}
