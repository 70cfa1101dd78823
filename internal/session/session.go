// Package session orchestrates one load-and-resolve pass over a set of
// coverage records.
package session

import (
	"context"
	"sort"
	"sync"

	"covlens/internal/aggregate"
	"covlens/internal/detail"
	"covlens/internal/lcov"
	"covlens/internal/logger"
	"covlens/internal/resolve"
	"covlens/internal/store"
)

// State is the session lifecycle state.
type State int

const (
	// StateIdle means no load has run yet.
	StateIdle State = iota
	// StateResolving means a load is walking the record list.
	StateResolving
	// StatePopulated means the last load completed.
	StatePopulated
	// StateAborted means the last load observed cancellation mid-pass.
	// Records stored before the abort stay queryable.
	StateAborted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateResolving:
		return "resolving"
	case StatePopulated:
		return "populated"
	case StateAborted:
		return "aborted"
	}
	return "unknown"
}

// Result is what one load yields: a handle per resolved record plus the
// aggregate totals. Dropped counts records whose reported path matched no
// existing file; they are absent from both Summaries and Totals.
type Result struct {
	Summaries []*store.Summary
	Totals    aggregate.Totals
	Resolved  int
	Dropped   int
}

// Config carries the session's collaborators and knobs.
type Config struct {
	// SearchDirs overrides the conventional source directories probed by
	// the path resolver. Empty means resolve.DefaultSearchDirs.
	SearchDirs []string

	// Exists overrides the filesystem probe, for tests. Nil means a fresh
	// os.Stat-backed existence cache per load.
	Exists func(string) bool
}

// Session runs reconciliation passes and serves detail requests against the
// most recent pass. One Session must not run two loads concurrently; the
// caller serializes loads, normally by cancelling an in-flight pass first.
type Session struct {
	cfg   Config
	store *store.Store

	mu    sync.Mutex
	state State
}

// New creates an idle session.
func New(cfg Config) *Session {
	return &Session{cfg: cfg, store: store.New()}
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Load resolves every record against root and populates the store, clearing
// whatever the previous load left behind. Handles issued by earlier loads
// are invalid afterwards.
//
// Cancellation is observed between records: on ctx done, the partial result
// built so far is returned together with ctx.Err(), and already-stored
// records remain queryable. Nothing is rolled back.
func (s *Session) Load(ctx context.Context, records []*lcov.Record, root string) (*Result, error) {
	s.setState(StateResolving)
	s.store.BeginSession()

	exists := s.cfg.Exists
	if exists == nil {
		// Fresh cache per pass, never shared across loads.
		exists = resolve.NewExistenceCache().Exists
	}
	resolver := resolve.New(root, exists, s.cfg.SearchDirs)

	res := &Result{}
	// Duplicate SF entries overwrite in the store; track summaries by path
	// so the superseded handle is also dropped from the result.
	byPath := make(map[string]int)

	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			s.setState(StateAborted)
			s.finish(res)
			logger.Warn("Load aborted after %d records", res.Resolved)
			return res, err
		}

		path, ok := resolver.Resolve(rec.SourceFile)
		if !ok {
			res.Dropped++
			logger.Debug("No file matches %q, record dropped", rec.SourceFile)
			continue
		}

		sum := s.store.Put(path, rec)
		if i, dup := byPath[path]; dup {
			res.Summaries[i] = sum
		} else {
			byPath[path] = len(res.Summaries)
			res.Summaries = append(res.Summaries, sum)
		}
		res.Resolved++
	}

	s.finish(res)
	s.setState(StatePopulated)
	logger.Info("Resolved %d/%d records (%.2f%% line coverage)",
		len(res.Summaries), len(records), res.Totals.Percentage)
	return res, nil
}

// finish aggregates over the store so overwritten duplicates count once.
func (s *Session) finish(res *Result) {
	stored := s.store.Records()
	recs := make([]*lcov.Record, 0, len(stored))
	for _, r := range stored {
		recs = append(recs, r)
	}
	res.Totals = aggregate.Compute(recs)

	sort.Slice(res.Summaries, func(i, j int) bool {
		return res.Summaries[i].Path < res.Summaries[j].Path
	})
}

// Details materializes detail items for a previously issued handle. A stale
// or foreign handle, or a session that never loaded, yields an empty slice;
// missing detail is an expected condition, not an error.
func (s *Session) Details(h *store.Summary) []detail.Item {
	if s.State() == StateIdle {
		return nil
	}
	rec, ok := s.store.LookupByHandle(h)
	if !ok {
		return nil
	}
	return detail.Synthesize(rec)
}

// DetailsForFile materializes detail items for a file identity, which need
// not be byte-identical to the stored one (the store's fallback matching
// applies). Same empty-on-miss semantics as Details.
func (s *Session) DetailsForFile(path string) []detail.Item {
	if s.State() == StateIdle {
		return nil
	}
	rec, ok := s.store.LookupByPath(path)
	if !ok {
		return nil
	}
	return detail.Synthesize(rec)
}

// Record exposes the stored record for a file identity, with the same
// fallback matching as DetailsForFile.
func (s *Session) Record(path string) (*lcov.Record, bool) {
	if s.State() == StateIdle {
		return nil, false
	}
	return s.store.LookupByPath(path)
}

func (s *Session) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}
