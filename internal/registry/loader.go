// Package registry: startup loader and the diff-and-apply reconciliation
// logic shared by the startup loader and the poller (spec §4.I, §4.G).
// Generalizes the teacher's LoadDir (a one-shot directory scan building a
// []types.Model from *.gguf filenames) into a full fetch+unpack+build
// pipeline against a pluggable store.Driver.
package registry

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"jamsd/internal/adapter"
	"jamsd/internal/jamserr"
	"jamsd/internal/predictor"
	"jamsd/internal/store"
	"jamsd/internal/unpack"
)

// loadAllConcurrency bounds how many artifacts LoadAll fetches/unpacks/builds
// at once. Startup fetches may hit a remote store (S3, Azure Blob), so
// loading the whole set sequentially would leave network latency on the
// critical path for no reason; each artifact is independent so the limit
// only exists to avoid hammering the store with one request per model.
const loadAllConcurrency = 8

// Loader fetches, unpacks, and builds predictors for artifacts named by a
// store.Driver, then applies them to a Registry. It is used both for the
// one-shot startup reconciliation (spec §4.I) and for every poller tick
// (spec §4.G), since both follow the same diff-and-apply path.
type Loader struct {
	Store       store.Driver
	Registry    *Registry
	ScratchRoot string
	Log         zerolog.Logger
}

// LoadAll performs one full synchronous reconciliation against an empty
// registry: list the store, parse every key, skip malformed/duplicate
// entries with a warning, and build+insert every model (spec §4.I). A
// total-store failure aborts with Fatal so startup does not proceed with
// an empty registry silently.
func (l *Loader) LoadAll(ctx context.Context) error {
	artifacts, err := l.Store.List(ctx)
	if err != nil {
		return jamserr.Fatal("registry: failed to list store", err)
	}

	parsed := parseAndDedup(artifacts, l.Log)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(loadAllConcurrency)
	for _, a := range parsed {
		a := a
		g.Go(func() error {
			if err := l.buildAndInsert(gctx, a); err != nil {
				l.Log.Warn().Str("component", "startup_loader").Str("model_name", a.ModelName).
					Str("framework", string(a.Framework)).Err(err).Msg("failed to load model at startup")
			}
			return nil
		})
	}
	_ = g.Wait()
	return nil
}

// Reconcile is the poller's per-tick diff-and-apply pass (spec §4.G):
// compute additions/removals/updates against the registry's current keys,
// and apply each independently so one bad artifact cannot abort the tick.
func (l *Loader) Reconcile(ctx context.Context) error {
	artifacts, err := l.Store.List(ctx)
	if err != nil {
		return err
	}
	parsed := parseAndDedup(artifacts, l.Log)

	seen := make(map[string]struct{}, len(parsed))
	for _, a := range parsed {
		seen[a.ModelName] = struct{}{}
		if l.Registry.Has(a.ModelName) {
			if err := l.buildAndReplace(ctx, a); err != nil {
				l.Log.Warn().Str("component", "poller").Str("model_name", a.ModelName).
					Str("framework", string(a.Framework)).Err(err).Msg("poll update failed")
			}
			continue
		}
		if err := l.buildAndInsert(ctx, a); err != nil {
			l.Log.Warn().Str("component", "poller").Str("model_name", a.ModelName).
				Str("framework", string(a.Framework)).Err(err).Msg("poll add failed")
		}
	}

	for _, m := range l.Registry.List() {
		if _, ok := seen[m.Name]; !ok {
			if err := l.Registry.Delete(m.Name); err != nil {
				l.Log.Warn().Str("component", "poller").Str("model_name", m.Name).
					Err(err).Msg("poll removal failed")
			}
		}
	}
	return nil
}

// AddByArtifactKey fetches, unpacks, and builds a model named
// "<framework>-<name>" (spec §6 POST /api/models body, no store suffix) and
// inserts it as a brand-new entry (management API add path, spec §4.F
// "add"). The store key is formed by appending the artifact suffix, the
// same convention every driver's List advertises and original_source's
// filesystem.rs:107 applies when resolving a model name to a store key.
func (l *Loader) AddByArtifactKey(ctx context.Context, modelName string) error {
	a, err := store.ParseArtifactName(modelName + store.ArtifactSuffix)
	if err != nil {
		return err
	}
	return l.buildAndInsert(ctx, a)
}

// UpdateByModelName re-fetches whatever artifact in the store currently
// parses to modelName and atomically replaces the registry entry
// (management API update path, spec §4.F "update").
func (l *Loader) UpdateByModelName(ctx context.Context, modelName string) error {
	artifacts, err := l.Store.List(ctx)
	if err != nil {
		return jamserr.LoadError("registry: failed to list store", err)
	}
	for _, raw := range artifacts {
		a, err := store.ParseArtifactName(raw.Key)
		if err != nil {
			continue
		}
		if a.ModelName == modelName {
			return l.buildAndReplace(ctx, a)
		}
	}
	return jamserr.NotFound(modelName)
}

func (l *Loader) buildAndInsert(ctx context.Context, a store.ArtifactName) error {
	p, scratch, err := l.fetchUnpackBuild(ctx, a)
	if err != nil {
		return err
	}
	meta := NewModel(a.ModelName, a.Framework, scratch)
	if err := l.Registry.Insert(a.ModelName, meta, p, scratch); err != nil {
		_ = p.Close()
		return err
	}
	return nil
}

func (l *Loader) buildAndReplace(ctx context.Context, a store.ArtifactName) error {
	p, scratch, err := l.fetchUnpackBuild(ctx, a)
	if err != nil {
		return err
	}
	meta := NewModel(a.ModelName, a.Framework, scratch)
	if err := l.Registry.Replace(a.ModelName, meta, p, scratch); err != nil {
		_ = p.Close()
		return err
	}
	return nil
}

// fetchUnpackBuild is the fetch -> unpack -> adapter.Build pipeline shared
// by every insert/replace path.
func (l *Loader) fetchUnpackBuild(ctx context.Context, a store.ArtifactName) (predictor.Predictor, string, error) {
	data, err := l.Store.Fetch(ctx, a.Key)
	if err != nil {
		return nil, "", jamserr.LoadError("registry: failed to fetch artifact "+a.Key, err)
	}
	scratch, err := unpack.Unpack(data, l.ScratchRoot, a.Key)
	if err != nil {
		return nil, "", err
	}
	p, err := adapter.Build(a.Framework, scratch)
	if err != nil {
		return nil, "", err
	}
	return p, scratch, nil
}

// parseAndDedup parses every artifact key, skipping malformed entries with
// a warning (spec §3 "non-matching entries are skipped with a warning") and
// applying the poller's tie-break rule: the first artifact in list() order
// to parse to a given model name wins; later duplicates are skipped with a
// warning (spec §4.G).
func parseAndDedup(artifacts []store.Artifact, log zerolog.Logger) []store.ArtifactName {
	seen := make(map[string]struct{}, len(artifacts))
	out := make([]store.ArtifactName, 0, len(artifacts))
	for _, raw := range artifacts {
		a, err := store.ParseArtifactName(raw.Key)
		if err != nil {
			log.Warn().Str("component", "loader").Str("key", raw.Key).Err(err).Msg("skipping malformed artifact key")
			continue
		}
		if _, dup := seen[a.ModelName]; dup {
			log.Warn().Str("component", "loader").Str("model_name", a.ModelName).
				Str("key", raw.Key).Msg("duplicate model name in store, skipping")
			continue
		}
		seen[a.ModelName] = struct{}{}
		out = append(out, a)
	}
	return out
}
