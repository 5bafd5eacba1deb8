// Package store defines the artifact store capability (spec §4.D) and the
// artifact naming convention shared by all three drivers and the poller.
// Grounded on original_source/jams-core/src/model_store/mod.rs's ModelStore
// enum dispatch, expressed here as a Go interface instead of a tagged union
// since Go has no sum types.
package store

import (
	"context"
	"strings"

	"jamsd/internal/jamserr"
	"jamsd/pkg/types"
)

// Artifact is the store-agnostic record the poller uses to enumerate
// available models (spec §3 StoreArtifact).
type Artifact struct {
	Key         string
	ETagOrMTime string
	Size        int64
}

// Driver is implemented by each backing store. Drivers never mutate the
// store: list/fetch/exists are read-only operations.
type Driver interface {
	// List enumerates every object in the store, regardless of whether its
	// key matches the artifact naming convention.
	List(ctx context.Context) ([]Artifact, error)
	// Fetch retrieves the raw bytes for key.
	Fetch(ctx context.Context, key string) ([]byte, error)
	// Exists reports whether key is present without fetching it.
	Exists(ctx context.Context, key string) (bool, error)
}

// ArtifactName is a key's parsed <framework>-<model_name>.tar.gz shape.
type ArtifactName struct {
	Key       string
	Framework types.Framework
	ModelName string
}

// ArtifactSuffix is the store key suffix every driver's List advertises and
// every artifact name is parsed against (spec §3).
const ArtifactSuffix = ".tar.gz"

// ParseArtifactName splits a store key on its framework prefix and strips
// the .tar.gz suffix, folding "pytorch" into the Torch framework (spec §3).
// Keys that don't match the pattern are rejected with BadInput so callers
// can log-and-skip per spec §4.D/§4.G.
func ParseArtifactName(key string) (ArtifactName, error) {
	if !strings.HasSuffix(key, ArtifactSuffix) {
		return ArtifactName{}, jamserr.BadInput("artifact key missing .tar.gz suffix: "+key, nil)
	}
	trimmed := strings.TrimSuffix(key, ArtifactSuffix)
	idx := strings.IndexByte(trimmed, '-')
	if idx <= 0 || idx == len(trimmed)-1 {
		return ArtifactName{}, jamserr.BadInput("artifact key missing <framework>- prefix: "+key, nil)
	}
	prefix, name := trimmed[:idx], trimmed[idx+1:]
	fw, ok := types.ParseFramework(prefix)
	if !ok {
		return ArtifactName{}, jamserr.BadInput("artifact key has unknown framework prefix: "+key, nil)
	}
	if name == "" {
		return ArtifactName{}, jamserr.BadInput("artifact key missing model name: "+key, nil)
	}
	return ArtifactName{Key: key, Framework: fw, ModelName: name}, nil
}
