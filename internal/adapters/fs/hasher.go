// Package fs provides filesystem-backed adapters: output fingerprinting
// for the up-to-date check.
package fs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/weld/internal/core/ports"
	"go.trai.ch/zerr"
)

// Hasher implements ports.Hasher using xxhash.
type Hasher struct{}

// NewHasher creates a new Hasher.
func NewHasher() ports.Hasher {
	return &Hasher{}
}

// OutputFingerprint computes a stable fingerprint over the given output
// files, resolved relative to dir. Paths are canonicalized by sorting so
// declaration order does not change the result. A missing file
// contributes a distinct marker, so deleting an output invalidates the
// fingerprint instead of failing the check.
func (h *Hasher) OutputFingerprint(dir string, outputs []string) (string, error) {
	sorted := make([]string, len(outputs))
	copy(sorted, outputs)
	slices.Sort(sorted)

	digest := xxhash.New()
	for _, out := range sorted {
		_, _ = digest.WriteString(out)
		_, _ = digest.WriteString("\x00")
		if err := hashFile(digest, filepath.Join(dir, out)); err != nil {
			return "", err
		}
	}
	return fmt.Sprintf("%016x", digest.Sum64()), nil
}

func hashFile(digest *xxhash.Digest, path string) error {
	f, err := os.Open(path) //nolint:gosec // path comes from the build definition
	if os.IsNotExist(err) {
		_, _ = digest.WriteString("absent\x00")
		return nil
	}
	if err != nil {
		return zerr.Wrap(err, "failed to open output file")
	}
	defer func() { _ = f.Close() }()

	if _, err := io.Copy(digest, f); err != nil {
		return zerr.Wrap(err, "failed to hash output file")
	}
	_, _ = digest.WriteString("\x00")
	return nil
}
