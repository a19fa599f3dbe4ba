package fileinfo

// FileInfo is an ordered mapping from symbolic output-slot keys to file
// paths. Call sites refer to output files by role ("out", "index")
// rather than literal path; the transaction layer rewrites a subset of
// slots into a staging directory without the caller needing to track
// which is which. Keys are unique and preserve insertion order.
type FileInfo struct {
	keys  []string
	paths map[string]string
}

// New returns an empty FileInfo.
func New() *FileInfo {
	return &FileInfo{paths: make(map[string]string)}
}

// FromPairs builds a FileInfo from alternating key, path arguments.
// Odd trailing arguments are ignored.
func FromPairs(pairs ...string) *FileInfo {
	fi := New()
	for i := 0; i+1 < len(pairs); i += 2 {
		fi.Set(pairs[i], pairs[i+1])
	}
	return fi
}

// Set maps key to path, appending the key to the order on first use.
func (fi *FileInfo) Set(key, path string) {
	if _, ok := fi.paths[key]; !ok {
		fi.keys = append(fi.keys, key)
	}
	fi.paths[key] = path
}

// Get returns the path mapped to key.
func (fi *FileInfo) Get(key string) (string, bool) {
	p, ok := fi.paths[key]
	return p, ok
}

// Path returns the path mapped to key, or "" when absent.
func (fi *FileInfo) Path(key string) string {
	return fi.paths[key]
}

// Keys returns the keys in insertion order.
func (fi *FileInfo) Keys() []string {
	out := make([]string, len(fi.keys))
	copy(out, fi.keys)
	return out
}

// Len returns the number of mapped keys.
func (fi *FileInfo) Len() int {
	return len(fi.keys)
}

// Clone returns an independent copy preserving key order.
func (fi *FileInfo) Clone() *FileInfo {
	out := New()
	for _, k := range fi.keys {
		out.Set(k, fi.paths[k])
	}
	return out
}

// SubstituteKeys replaces each argument token that names a key in fi
// with its mapped path. Tokens that are not known keys pass through
// unchanged. The input slice is not modified.
func SubstituteKeys(args []string, fi *FileInfo) []string {
	out := make([]string, len(args))
	for i, arg := range args {
		if p, ok := fi.Get(arg); ok {
			out[i] = p
			continue
		}
		out[i] = arg
	}
	return out
}
