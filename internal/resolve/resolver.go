package resolve

import (
	"path/filepath"
)

// DefaultSearchDirs are the conventional source directories probed, in
// order, when a reported path matches nothing directly. First hit wins;
// when two directories hold a same-named file the earlier one is chosen.
var DefaultSearchDirs = []string{"src", "lib", "app", "components"}

// Resolver maps a record's reported path onto a concrete workspace file.
// It holds no state of its own beyond its inputs; all filesystem access
// goes through the injected exists predicate, so it is testable without
// touching disk.
type Resolver struct {
	root       string
	exists     func(string) bool
	searchDirs []string
}

// New creates a Resolver for the given workspace root. The exists predicate
// is typically (*ExistenceCache).Exists. A nil or empty searchDirs falls
// back to DefaultSearchDirs.
func New(root string, exists func(string) bool, searchDirs []string) *Resolver {
	if len(searchDirs) == 0 {
		searchDirs = DefaultSearchDirs
	}
	return &Resolver{root: root, exists: exists, searchDirs: searchDirs}
}

// Resolve tries, in order:
//
//  1. the reported path verbatim, when absolute;
//  2. the reported path joined onto the workspace root;
//  3. the bare filename under each conventional source directory.
//
// The ladder is biased toward skipping a file over matching the wrong one:
// a miss at every rung reports not-found and the record is dropped upstream.
func (r *Resolver) Resolve(reported string) (string, bool) {
	if reported == "" {
		return "", false
	}

	if filepath.IsAbs(reported) {
		clean := filepath.Clean(reported)
		if r.exists(clean) {
			return clean, true
		}
	}

	joined := filepath.Join(r.root, reported)
	if r.exists(joined) {
		return joined, true
	}

	base := filepath.Base(reported)
	for _, dir := range r.searchDirs {
		candidate := filepath.Join(r.root, dir, base)
		if r.exists(candidate) {
			return candidate, true
		}
	}

	return "", false
}
