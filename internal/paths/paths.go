package paths

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// zipExts are compressed-file extensions stripped by RemoveZipExt,
// longest match first.
var zipExts = []string{".gz", ".bz2", ".zip", ".xz"}

// AddFilePart inserts a part before the extension of a file name:
// AddFilePart("test.txt", "add") == "test-add.txt". Directories are
// preserved.
func AddFilePart(path, part string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "-" + part + ext
}

// FileRoot strips the final extension from a path, keeping directories:
// FileRoot("/full/test.txt") == "/full/test".
func FileRoot(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path))
}

// RemoveZipExt strips a trailing compression extension, plus a ".tar"
// left behind by compound archive names: "test.tar.gz" becomes "test",
// "test.txt.gz" becomes "test.txt".
func RemoveZipExt(path string) string {
	for _, ext := range zipExts {
		if strings.HasSuffix(path, ext) {
			path = strings.TrimSuffix(path, ext)
			break
		}
	}
	return strings.TrimSuffix(path, ".tar")
}

// Exists reports whether path exists at all.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// IsDirectory reports whether path exists and is a directory.
func IsDirectory(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// FileSize returns the size of path in bytes, or -1 when it cannot be
// determined.
func FileSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return -1
	}
	return info.Size()
}

// ModifiedTime returns the last-modified time of path. The zero time is
// returned when the path cannot be queried.
func ModifiedTime(path string) time.Time {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}
