// Package store owns the record/identity/handle associations for one
// reconciliation session.
package store

import (
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"covlens/internal/lcov"
)

// Ratio is a covered/total pair for one coverage dimension.
type Ratio struct {
	Covered int
	Total   int
}

// Percent returns the ratio as a percentage, 0 when nothing was found.
func (r Ratio) Percent() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Covered) / float64(r.Total) * 100
}

// Summary is the handle issued for one resolved record. The host may echo
// the handle back later, with no accompanying path, to get detail for its
// record; the embedded key is what survives that round trip. Handles are
// owned by the Store and die with the session that issued them.
type Summary struct {
	key  string // engine-generated, never derived from the record
	Path string

	Lines Ratio
	// Branches and Functions are nil when the record reported none.
	Branches  *Ratio
	Functions *Ratio
}

// Key returns the opaque identity key carried by the handle.
func (s *Summary) Key() string { return s.key }

// Store is the bidirectional record map for the in-flight session. All
// three maps are cleared by BeginSession; a handle from a previous session
// misses afterwards, by design of the session contract.
type Store struct {
	mu      sync.RWMutex
	byPath  map[string]*lcov.Record
	byKey   map[string]*lcov.Record
	aliases map[string]string // echoed identity -> stored path, memoized fallback hits
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		byPath:  make(map[string]*lcov.Record),
		byKey:   make(map[string]*lcov.Record),
		aliases: make(map[string]string),
	}
}

// BeginSession discards every association from the previous load. It must
// run before each reconciliation pass; skipping it would leak resolution
// state from the previous report into the next.
func (s *Store) BeginSession() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byPath = make(map[string]*lcov.Record)
	s.byKey = make(map[string]*lcov.Record)
	s.aliases = make(map[string]string)
}

// Put records the identity→record association and issues a fresh handle.
// A second Put for the same path overwrites the first (duplicate SF entries
// are last-write-wins); the superseded handle keeps answering with the old
// record until the session ends, but the path now maps to the new one.
func (s *Store) Put(path string, rec *lcov.Record) *Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	sum := &Summary{
		key:   uuid.NewString(),
		Path:  path,
		Lines: Ratio{Covered: rec.Lines.Hit, Total: rec.Lines.Found},
	}
	if rec.Branches.Found > 0 {
		sum.Branches = &Ratio{Covered: rec.Branches.Hit, Total: rec.Branches.Found}
	}
	if rec.Functions.Found > 0 {
		sum.Functions = &Ratio{Covered: rec.Functions.Hit, Total: rec.Functions.Found}
	}

	s.byPath[path] = rec
	s.byKey[sum.key] = rec
	return sum
}

// LookupByHandle returns the record a handle was issued for. It never
// consults paths, so it works for handles echoed back bare.
func (s *Store) LookupByHandle(h *Summary) (*lcov.Record, bool) {
	if h == nil {
		return nil, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.byKey[h.key]
	return rec, ok
}

// LookupByPath returns the record stored under the given identity. The host
// may construct the identity independently, so an exact miss falls back to
// suffix matching, then separator/case-normalized suffix matching, then
// filename-only matching, in that order. A fallback hit is memoized under
// the queried identity so the next lookup is exact.
func (s *Store) LookupByPath(path string) (*lcov.Record, bool) {
	s.mu.RLock()
	if rec, ok := s.byPath[path]; ok {
		s.mu.RUnlock()
		return rec, true
	}
	if stored, ok := s.aliases[path]; ok {
		rec, ok := s.byPath[stored]
		s.mu.RUnlock()
		return rec, ok
	}
	stored, ok := s.matchFallback(path)
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}

	s.mu.Lock()
	s.aliases[path] = stored
	rec, ok := s.byPath[stored]
	s.mu.Unlock()
	return rec, ok
}

// matchFallback scans stored paths in sorted order so ties resolve
// deterministically. Caller holds at least the read lock.
func (s *Store) matchFallback(query string) (string, bool) {
	paths := make([]string, 0, len(s.byPath))
	for p := range s.byPath {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, p := range paths {
		if suffixEither(p, query) {
			return p, true
		}
	}

	nq := normalizePath(query)
	for _, p := range paths {
		if suffixEither(normalizePath(p), nq) {
			return p, true
		}
	}

	base := strings.ToLower(filepath.Base(query))
	for _, p := range paths {
		if strings.ToLower(filepath.Base(p)) == base {
			return p, true
		}
	}

	return "", false
}

// suffixEither reports whether one path ends with the other on a path
// segment boundary. The shorter side is usually the workspace-relative
// spelling of the longer one; boundary alignment keeps "b.c" from matching
// "lib.c".
func suffixEither(a, b string) bool {
	return segmentSuffix(a, b) || segmentSuffix(b, a)
}

func segmentSuffix(whole, tail string) bool {
	if whole == "" || tail == "" || !strings.HasSuffix(whole, tail) {
		return false
	}
	if len(whole) == len(tail) {
		return true
	}
	sep := whole[len(whole)-len(tail)-1]
	return sep == '/' || sep == '\\'
}

func normalizePath(p string) string {
	return strings.ToLower(strings.ReplaceAll(p, "\\", "/"))
}

// Records returns the currently stored records keyed by resolved path.
// Duplicate SF entries are already collapsed, so aggregating over this map
// never double-counts.
func (s *Store) Records() map[string]*lcov.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]*lcov.Record, len(s.byPath))
	for p, r := range s.byPath {
		out[p] = r
	}
	return out
}

// Len returns the number of stored identities.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byPath)
}
