package registry

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"jamsd/internal/predictor"
	"jamsd/internal/store"
	"jamsd/internal/tensor"
)

// fakeStore is an in-memory store.Driver used to exercise the loader
// without touching a real filesystem/object-store backend.
type fakeStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newFakeStore() *fakeStore { return &fakeStore{objects: map[string][]byte{}} }

func (f *fakeStore) put(key string, data []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = data
}

func (f *fakeStore) remove(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key)
}

func (f *fakeStore) List(ctx context.Context) ([]store.Artifact, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]store.Artifact, 0, len(f.objects))
	for k, v := range f.objects {
		out = append(out, store.Artifact{Key: k, Size: int64(len(v))})
	}
	return out, nil
}

func (f *fakeStore) Fetch(ctx context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[key]
	if !ok {
		return nil, os.ErrNotExist
	}
	return data, nil
}

func (f *fakeStore) Exists(ctx context.Context, key string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.objects[key]
	return ok, nil
}

// fakePredictor satisfies predictor.Predictor for tests that don't need a
// real framework adapter.
type fakePredictor struct {
	closed bool
}

func (p *fakePredictor) Predict(ctx context.Context, input tensor.ModelInput) (predictor.Output, error) {
	n, _ := input.BatchSize()
	out := make(predictor.Output, n)
	for i := range out {
		out[i] = []float64{1.0}
	}
	return out, nil
}

func (p *fakePredictor) Close() error { p.closed = true; return nil }

func emptyTarGz(t *testing.T) []byte {
	t.Helper()
	buf := new(bytes.Buffer)
	gw := gzip.NewWriter(buf)
	tw := tar.NewWriter(gw)
	require.NoError(t, tw.Close())
	require.NoError(t, gw.Close())
	return buf.Bytes()
}

func TestLoader_LoadAll_SkipsMalformedArtifactKeys(t *testing.T) {
	fs := newFakeStore()
	fs.put("not-an-artifact.zip", []byte("garbage"))
	reg := New(zerolog.Nop())
	l := &Loader{Store: fs, Registry: reg, ScratchRoot: t.TempDir(), Log: zerolog.Nop()}

	require.NoError(t, l.LoadAll(context.Background()))
	require.Empty(t, reg.List())
}

func TestLoader_Reconcile_SkipsPerModelFailuresWithoutAborting(t *testing.T) {
	fs := newFakeStore()
	reg := New(zerolog.Nop())
	l := &Loader{Store: fs, Registry: reg, ScratchRoot: t.TempDir(), Log: zerolog.Nop()}

	// Default (no build-tag) builds have no real adapter, so this valid
	// artifact key fails at the build step; the tick must still return no
	// error and leave the registry empty rather than aborting (spec §4.G
	// "failures on one model do not abort the tick").
	fs.put("catboost-titanic.tar.gz", emptyTarGz(t))

	require.NoError(t, l.Reconcile(context.Background()))
	require.Empty(t, reg.List())
}

func TestLoader_AddByArtifactKey_ResolvesModelNameToStoreKey(t *testing.T) {
	fs := newFakeStore()
	fs.put("catboost-titanic.tar.gz", emptyTarGz(t))
	reg := New(zerolog.Nop())
	l := &Loader{Store: fs, Registry: reg, ScratchRoot: t.TempDir(), Log: zerolog.Nop()}

	// AddModel's HTTP/gRPC body carries "<framework>-<name>" with no store
	// suffix (spec §6 POST /api/models); AddByArtifactKey must append
	// store.ArtifactSuffix itself before fetching. A fetch-not-found error
	// here would mean the key was never resolved; the default (no build-tag)
	// adapter build failure below confirms the fetch succeeded instead.
	err := l.AddByArtifactKey(context.Background(), "catboost-titanic")
	require.Error(t, err)
	require.NotErrorIs(t, err, os.ErrNotExist)
}

func TestLoader_AddByArtifactKey_RejectsUnknownFrameworkPrefix(t *testing.T) {
	fs := newFakeStore()
	reg := New(zerolog.Nop())
	l := &Loader{Store: fs, Registry: reg, ScratchRoot: t.TempDir(), Log: zerolog.Nop()}

	err := l.AddByArtifactKey(context.Background(), "cobol-titanic")
	require.Error(t, err)
}

func TestLoader_Reconcile_RemovesModelsGoneFromStore(t *testing.T) {
	fs := newFakeStore()
	reg := New(zerolog.Nop())
	meta := NewModel("titanic", "catboost", filepath.Join(t.TempDir(), "titanic"))
	require.NoError(t, reg.Insert("titanic", meta, &fakePredictor{}, ""))

	l := &Loader{Store: fs, Registry: reg, ScratchRoot: t.TempDir(), Log: zerolog.Nop()}
	require.NoError(t, l.Reconcile(context.Background()))
	require.Empty(t, reg.List())
}
