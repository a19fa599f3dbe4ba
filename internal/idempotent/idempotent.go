package idempotent

import (
	"github.com/chapmanb/bcbio.run/internal/paths"
)

// NeedsRun reports whether a step producing the given outputs still has
// to execute: true unless every path exists with non-zero size. A
// zero-byte file counts as not yet produced, covering a process killed
// before it wrote any bytes.
func NeedsRun(outputs ...string) bool {
	if len(outputs) == 0 {
		return true
	}
	for _, p := range outputs {
		if paths.FileSize(p) <= 0 {
			return true
		}
	}
	return false
}

// NeedsRunGroups flattens nested output groupings before evaluating
// them as one set.
func NeedsRunGroups(groups ...[]string) bool {
	var flat []string
	for _, g := range groups {
		flat = append(flat, g...)
	}
	return NeedsRun(flat...)
}

// IsUpToDate reports whether derived is at least as new as parent,
// judged by last-modified time. Missing files are never up to date.
// Not combined with NeedsRun; callers wanting both check both.
func IsUpToDate(derived, parent string) bool {
	if !paths.Exists(derived) || !paths.Exists(parent) {
		return false
	}
	return !paths.ModifiedTime(derived).Before(paths.ModifiedTime(parent))
}
