// Package local implements store.Driver over a plain filesystem directory,
// generalizing the teacher's internal/registry/loader.go LoadDir (which
// scanned for *.gguf) to the <fw>-<name>.tar.gz artifact convention.
package local

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"jamsd/internal/common/fsutil"
	"jamsd/internal/store"
)

// Driver lists and reads artifacts from a directory on disk.
type Driver struct {
	dir string
}

// New returns a Driver rooted at dir, expanding a leading '~'.
func New(dir string) (*Driver, error) {
	abs, err := fsutil.ExpandHome(dir)
	if err != nil {
		return nil, fmt.Errorf("local store: %w", err)
	}
	abs, err = filepath.Abs(abs)
	if err != nil {
		return nil, fmt.Errorf("local store: abs path: %w", err)
	}
	return &Driver{dir: abs}, nil
}

// List scans the directory non-recursively for regular files.
func (d *Driver) List(ctx context.Context) ([]store.Artifact, error) {
	entries, err := os.ReadDir(d.dir)
	if err != nil {
		return nil, fmt.Errorf("local store: read dir: %w", err)
	}
	out := make([]store.Artifact, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, store.Artifact{
			Key:         e.Name(),
			ETagOrMTime: info.ModTime().UTC().Format("20060102T150405.000000000"),
			Size:        info.Size(),
		})
	}
	return out, nil
}

// Fetch reads the file named key from the store directory.
func (d *Driver) Fetch(ctx context.Context, key string) ([]byte, error) {
	if strings.ContainsAny(key, "/\\") {
		return nil, fmt.Errorf("local store: key %q must not contain path separators", key)
	}
	return os.ReadFile(filepath.Join(d.dir, key))
}

// Exists reports whether key is present without reading its contents.
func (d *Driver) Exists(ctx context.Context, key string) (bool, error) {
	if strings.ContainsAny(key, "/\\") {
		return false, fmt.Errorf("local store: key %q must not contain path separators", key)
	}
	return fsutil.PathExists(filepath.Join(d.dir, key)), nil
}
