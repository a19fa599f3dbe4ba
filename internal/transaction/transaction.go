// Package transaction stages declared output files in a private
// temporary directory and promotes them to their final paths only once
// the work producing them has fully succeeded. A final output path is
// only ever written via atomic rename; a crash or failed run leaves it
// exactly as it was before the call.
package transaction

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/chapmanb/bcbio.run/internal/fileinfo"
	"github.com/chapmanb/bcbio.run/internal/paths"
)

// DefaultPrefix names transaction directories so stray ones are
// recognizable during cleanup or debugging.
const DefaultPrefix = "txtmp"

// OutputKey is the slot name used by single-output transactions.
const OutputKey = "out"

// CreateTempDir creates a uniquely named directory under rootDir,
// creating rootDir itself if needed. Uniqueness comes from the
// platform's atomic temp-name creation, so concurrent transactions
// under one root never collide.
func CreateTempDir(rootDir, prefix string) (string, error) {
	if err := os.MkdirAll(rootDir, 0o755); err != nil {
		return "", fmt.Errorf("transaction: create staging root %s: %w", rootDir, err)
	}
	dir, err := os.MkdirTemp(rootDir, prefix)
	if err != nil {
		return "", fmt.Errorf("transaction: create staging dir under %s: %w", rootDir, err)
	}
	return dir, nil
}

// StageFiles allocates a transaction directory next to the first staged
// key's target and returns a copy of fi where every key in keys points
// inside it, keeping the original base file name. Keys outside keys are
// untouched. The caller owns the returned directory and must remove it.
func StageFiles(fi *fileinfo.FileInfo, keys []string) (*fileinfo.FileInfo, string, error) {
	if len(keys) == 0 {
		return nil, "", ErrNoTransactionKeys
	}
	first, ok := fi.Get(keys[0])
	if !ok || first == "" {
		return nil, "", ErrNoParentDir
	}
	txDir, err := CreateTempDir(filepath.Dir(first), DefaultPrefix)
	if err != nil {
		return nil, "", err
	}
	staged := fi.Clone()
	for _, key := range keys {
		p, ok := fi.Get(key)
		if !ok || p == "" {
			os.RemoveAll(txDir)
			return nil, "", fmt.Errorf("%w: %q", ErrKeyNotMapped, key)
		}
		staged.Set(key, filepath.Join(txDir, filepath.Base(p)))
	}
	return staged, txDir, nil
}

// PromoteFiles renames each staged key to its final path from fi, then
// renames any present side-extension files (staged path + ext) next to
// it. Renames are atomic on the same volume; across volumes the file is
// copied to a temp name in the destination directory and renamed into
// place, so a half-written destination is never observable.
func PromoteFiles(staged, fi *fileinfo.FileInfo, keys, sideExts []string) error {
	for _, key := range keys {
		from, ok := staged.Get(key)
		if !ok {
			return fmt.Errorf("%w: %q", ErrKeyNotMapped, key)
		}
		to, ok := fi.Get(key)
		if !ok {
			return fmt.Errorf("%w: %q", ErrKeyNotMapped, key)
		}
		if err := renameFile(from, to); err != nil {
			return err
		}
		for _, ext := range sideExts {
			if paths.Exists(from + ext) {
				if err := renameFile(from+ext, to+ext); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// WithFile runs fn against a staged path for output, promoting the
// result (and side-extension files) to output only when fn returns nil.
// The transaction directory is removed on every exit path.
func WithFile(output string, sideExts []string, fn func(staged string) error) error {
	fi := fileinfo.FromPairs(OutputKey, output)
	return WithFiles(fi, []string{OutputKey}, sideExts, func(staged *fileinfo.FileInfo, _ string) error {
		return fn(staged.Path(OutputKey))
	})
}

// WithFiles is the multi-output form of WithFile: all keys share one
// transaction directory and appear at their final paths as a set, only
// after fn succeeds. An empty key set degenerates to calling fn with fi
// unchanged and no staging.
func WithFiles(fi *fileinfo.FileInfo, keys, sideExts []string, fn func(staged *fileinfo.FileInfo, txDir string) error) error {
	if len(keys) == 0 {
		return fn(fi, "")
	}
	staged, txDir, err := StageFiles(fi, keys)
	if err != nil {
		return err
	}
	defer os.RemoveAll(txDir)
	if err := fn(staged, txDir); err != nil {
		return err
	}
	return PromoteFiles(staged, fi, keys, sideExts)
}
