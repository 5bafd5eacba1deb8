// Package unpack extracts gzipped-tar model artifacts to a collision-safe
// scratch directory (spec §4.E). Grounded on
// original_source/jams-core/src/model_store/common.rs's
// save_and_unpack_tarball/unpack_tarball/cleanup, using the stdlib
// archive/tar + compress/gzip instead of flate2+tar since Go's standard
// library already covers this with no loss of functionality (see
// DESIGN.md).
package unpack

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"jamsd/internal/jamserr"
)

// Unpack extracts the gzipped-tar blob data into a unique directory under
// scratchRoot named "<artifactName>-<uuid>", guaranteeing no collision
// between concurrent unpacks of the same artifact (spec §4.E). On any
// extraction failure the scratch directory is removed and the error is
// returned.
func Unpack(data []byte, scratchRoot, artifactName string) (string, error) {
	dest := filepath.Join(scratchRoot, fmt.Sprintf("%s-%s", artifactName, uuid.NewString()))
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return "", jamserr.LoadError("unpack: failed to create scratch directory", err)
	}

	if err := extractTarGz(data, dest); err != nil {
		_ = os.RemoveAll(dest)
		return "", jamserr.LoadError(fmt.Sprintf("unpack: failed to extract %q", artifactName), err)
	}
	return dest, nil
}

func extractTarGz(data []byte, dest string) error {
	gz, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("open gzip stream: %w", err)
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read tar header: %w", err)
		}

		target, err := sanitizedJoin(dest, hdr.Name)
		if err != nil {
			return err
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("mkdir %q: %w", target, err)
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return fmt.Errorf("mkdir %q: %w", filepath.Dir(target), err)
			}
			f, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, os.FileMode(hdr.Mode)&0o777)
			if err != nil {
				return fmt.Errorf("create %q: %w", target, err)
			}
			if _, err := io.Copy(f, tr); err != nil {
				f.Close()
				return fmt.Errorf("write %q: %w", target, err)
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("close %q: %w", target, err)
			}
		default:
			// symlinks and other entry types are skipped; trained model
			// bundles never contain them.
		}
	}
}

// sanitizedJoin guards against zip-slip path traversal in a hostile tar
// header.
func sanitizedJoin(dest, name string) (string, error) {
	target := filepath.Join(dest, name)
	rel, err := filepath.Rel(dest, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("unpack: tar entry %q escapes scratch directory", name)
	}
	return target, nil
}
