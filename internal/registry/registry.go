// Package registry implements the Model Registry (spec §4.F): a
// thread-safe map of model_name -> (predictor, metadata) with the
// concurrency guarantees of spec §5. Generalizes the teacher's
// Manager.instances map[string]*Instance guarded by one sync.RWMutex
// (internal/manager/manager.go, ensure.go) into N independently-locked
// shards so that unrelated models never contend, and wraps each predictor
// in a refcounted handle since Go has no Arc-style drop glue (spec §9).
package registry

import (
	"hash/fnv"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"jamsd/internal/jamserr"
	"jamsd/internal/metrics"
	"jamsd/internal/predictor"
	"jamsd/pkg/types"
)

const defaultShardCount = 16

// entry is one registry slot: the public metadata plus a refcounted handle
// on the live predictor.
type entry struct {
	metadata types.Model
	ref      *refPredictor
}

// refPredictor keeps a predictor alive as long as any holder — the registry
// itself, or a Handle returned by Get — still references it (spec §4.F/§9
// "predictor lives as long as the longest holder"). scratch is the root of
// the unpacked artifact this predictor was built from; it is owned by the
// predictor and removed alongside it (spec §5 "scratch directories... are
// owned by the entry they produce").
type refPredictor struct {
	p       predictor.Predictor
	scratch string
	count   atomic.Int32
}

func newRefPredictor(p predictor.Predictor, scratch string) *refPredictor {
	r := &refPredictor{p: p, scratch: scratch}
	r.count.Store(1) // registry's own reference
	return r
}

func (r *refPredictor) acquire() { r.count.Add(1) }

// release drops one reference, closing the native predictor and removing
// its scratch directory when the last holder releases it.
func (r *refPredictor) release() {
	if r.count.Add(-1) == 0 {
		_ = r.p.Close()
		if r.scratch != "" {
			_ = os.RemoveAll(r.scratch)
		}
	}
}

// Handle is a live reference to a predictor, handed out by Get. Callers
// MUST call Release when done with it.
type Handle struct {
	Metadata types.Model
	ref      *refPredictor
}

// Predictor exposes the underlying predictor.Predictor for the dispatcher
// to call Predict against.
func (h *Handle) Predictor() predictor.Predictor { return h.ref.p }

// Release must be called exactly once when the caller is done with the
// handle (spec §4.F shared-ownership rule).
func (h *Handle) Release() { h.ref.release() }

type shard struct {
	mu      sync.RWMutex
	entries map[string]*entry
	loading map[string]struct{}
}

// Registry is a sharded concurrent map of active models.
type Registry struct {
	shards []*shard
	log    zerolog.Logger
}

// New constructs an empty Registry with the default shard count.
func New(log zerolog.Logger) *Registry {
	r := &Registry{shards: make([]*shard, defaultShardCount), log: log}
	for i := range r.shards {
		r.shards[i] = &shard{entries: map[string]*entry{}, loading: map[string]struct{}{}}
	}
	return r
}

func (r *Registry) shardFor(name string) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(name))
	return r.shards[h.Sum32()%uint32(len(r.shards))]
}

// Get returns a handle on the live predictor for name. The caller must call
// Release on the returned handle. This is a single shard-local read and is
// wait-free in the common case (spec §4.F).
func (r *Registry) Get(name string) (*Handle, error) {
	s := r.shardFor(name)
	s.mu.RLock()
	e, ok := s.entries[name]
	if ok {
		e.ref.acquire()
	}
	s.mu.RUnlock()
	if !ok {
		return nil, jamserr.NotFound(name)
	}
	return &Handle{Metadata: e.metadata, ref: e.ref}, nil
}

// List returns a point-in-time snapshot of every entry's metadata (spec
// §4.F, §5 "list() returns a point-in-time snapshot").
func (r *Registry) List() []types.Model {
	var out []types.Model
	for _, s := range r.shards {
		s.mu.RLock()
		for _, e := range s.entries {
			out = append(out, e.metadata)
		}
		s.mu.RUnlock()
	}
	return out
}

// beginLoad reserves the per-name "loading" marker so concurrent Add calls
// for the same name race deterministically: the loser observes
// AlreadyPresent (spec §8 property 6). The caller must call endLoad when
// done, on both success and failure.
func (s *shard) beginLoad(name string, requireAbsent bool) (func(), error) {
	s.mu.Lock()
	if requireAbsent {
		if _, present := s.entries[name]; present {
			s.mu.Unlock()
			return nil, jamserr.AlreadyPresent(name)
		}
	}
	if _, loading := s.loading[name]; loading {
		s.mu.Unlock()
		return nil, jamserr.AlreadyPresent(name)
	}
	s.loading[name] = struct{}{}
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.loading, name)
		s.mu.Unlock()
	}, nil
}

// Insert inserts a newly built entry. Used by Add for a brand new name.
// Fails with AlreadyPresent if the name already exists, per spec §4.F.
func (r *Registry) Insert(name string, meta types.Model, p predictor.Predictor, scratch string) error {
	s := r.shardFor(name)
	endLoad, err := s.beginLoad(name, true)
	if err != nil {
		return err
	}
	defer endLoad()

	s.mu.Lock()
	if _, present := s.entries[name]; present {
		s.mu.Unlock()
		_ = p.Close()
		metrics.ModelLoadsTotal.WithLabelValues("failure").Inc()
		return jamserr.AlreadyPresent(name)
	}
	s.entries[name] = &entry{metadata: meta, ref: newRefPredictor(p, scratch)}
	s.mu.Unlock()
	metrics.ModelLoadsTotal.WithLabelValues("success").Inc()
	r.log.Info().Str("component", "registry").Str("model_name", name).Str("framework", meta.Framework).Msg("model loaded")
	return nil
}

// Replace atomically swaps the entry for name to a newly built predictor
// (update path). Any prediction already in flight against the old
// predictor continues to completion because it holds its own reference
// (spec §4.F "update" semantics).
func (r *Registry) Replace(name string, meta types.Model, p predictor.Predictor, scratch string) error {
	s := r.shardFor(name)
	endLoad, err := s.beginLoad(name, false)
	if err != nil {
		return err
	}
	defer endLoad()

	s.mu.Lock()
	old := s.entries[name]
	s.entries[name] = &entry{metadata: meta, ref: newRefPredictor(p, scratch)}
	s.mu.Unlock()

	if old != nil {
		old.ref.release()
	}
	metrics.ModelLoadsTotal.WithLabelValues("success").Inc()
	r.log.Info().Str("component", "registry").Str("model_name", name).Str("framework", meta.Framework).Msg("model replaced")
	return nil
}

// Delete removes the entry for name. Previously-handed-out predictor
// references remain valid until their holder calls Release (spec §4.F).
func (r *Registry) Delete(name string) error {
	s := r.shardFor(name)
	s.mu.Lock()
	old, ok := s.entries[name]
	if !ok {
		s.mu.Unlock()
		return jamserr.NotFound(name)
	}
	delete(s.entries, name)
	s.mu.Unlock()

	old.ref.release()
	metrics.ModelEvictionsTotal.Inc()
	r.log.Info().Str("component", "registry").Str("model_name", name).Msg("model deleted")
	return nil
}

// Has reports whether name is currently present, without acquiring a
// predictor reference. Used by the poller's diffing pass.
func (r *Registry) Has(name string) bool {
	s := r.shardFor(name)
	s.mu.RLock()
	_, ok := s.entries[name]
	s.mu.RUnlock()
	return ok
}

// NewModel builds the public metadata struct stamped with the current wall
// clock time (spec §3 "last_updated is assigned at load time").
func NewModel(name string, fw types.Framework, path string) types.Model {
	return types.Model{
		Name:        name,
		Framework:   string(fw),
		Path:        path,
		LastUpdated: time.Now().UTC().Format(time.RFC3339),
	}
}
