package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"covlens/internal/lcov"
)

func record(path string, found, hit int) *lcov.Record {
	return &lcov.Record{
		SourceFile: path,
		Lines:      lcov.LineCoverage{Found: found, Hit: hit},
	}
}

func TestStore_PutAndLookup(t *testing.T) {
	s := New()
	s.BeginSession()

	rec := record("src/a.c", 10, 7)
	sum := s.Put("/ws/src/a.c", rec)
	require.NotNil(t, sum)
	assert.NotEmpty(t, sum.Key())
	assert.Equal(t, "/ws/src/a.c", sum.Path)
	assert.Equal(t, Ratio{Covered: 7, Total: 10}, sum.Lines)
	assert.Nil(t, sum.Branches)
	assert.Nil(t, sum.Functions)

	// Identity and handle lookups hand back the same record object.
	byPath, ok := s.LookupByPath("/ws/src/a.c")
	require.True(t, ok)
	byHandle, ok := s.LookupByHandle(sum)
	require.True(t, ok)
	assert.Same(t, rec, byPath)
	assert.Same(t, rec, byHandle)
}

func TestStore_OptionalRatios(t *testing.T) {
	s := New()
	s.BeginSession()

	rec := record("a.c", 4, 2)
	rec.Branches = lcov.BranchCoverage{Found: 6, Hit: 3}
	rec.Functions = lcov.FunctionCoverage{Found: 2, Hit: 1}

	sum := s.Put("/ws/a.c", rec)
	require.NotNil(t, sum.Branches)
	assert.Equal(t, Ratio{Covered: 3, Total: 6}, *sum.Branches)
	require.NotNil(t, sum.Functions)
	assert.Equal(t, Ratio{Covered: 1, Total: 2}, *sum.Functions)
	assert.InDelta(t, 50.0, sum.Lines.Percent(), 0.001)
}

func TestStore_HandleSurvivesWithoutPath(t *testing.T) {
	s := New()
	s.BeginSession()

	sum := s.Put("/ws/a.c", record("a.c", 1, 1))

	// The host echoes back only the handle; no path accompanies it.
	bare := sum
	bare.Path = ""
	rec, ok := s.LookupByHandle(bare)
	assert.True(t, ok)
	assert.NotNil(t, rec)
}

func TestStore_BeginSessionInvalidatesHandles(t *testing.T) {
	s := New()
	s.BeginSession()
	sum := s.Put("/ws/a.c", record("a.c", 1, 1))

	s.BeginSession()

	_, ok := s.LookupByHandle(sum)
	assert.False(t, ok, "handle from previous session must miss")
	_, ok = s.LookupByPath("/ws/a.c")
	assert.False(t, ok)
	assert.Equal(t, 0, s.Len())

	// Idempotent: a second clear with nothing in between stays empty.
	s.BeginSession()
	_, ok = s.LookupByPath("/ws/a.c")
	assert.False(t, ok)
}

func TestStore_DuplicatePathLastWriteWins(t *testing.T) {
	s := New()
	s.BeginSession()

	first := record("a.c", 10, 1)
	second := record("a.c", 10, 9)
	s.Put("/ws/a.c", first)
	s.Put("/ws/a.c", second)

	rec, ok := s.LookupByPath("/ws/a.c")
	require.True(t, ok)
	assert.Same(t, second, rec)
	assert.Equal(t, 1, s.Len())
}

func TestStore_FallbackMatching(t *testing.T) {
	s := New()
	s.BeginSession()
	rec := record("src/util.ts", 5, 5)
	s.Put("/ws/src/util.ts", rec)

	t.Run("should match a relative suffix", func(t *testing.T) {
		got, ok := s.LookupByPath("src/util.ts")
		require.True(t, ok)
		assert.Same(t, rec, got)
	})

	t.Run("should match across separator and case differences", func(t *testing.T) {
		got, ok := s.LookupByPath(`SRC\Util.ts`)
		require.True(t, ok)
		assert.Same(t, rec, got)
	})

	t.Run("should match by filename alone", func(t *testing.T) {
		got, ok := s.LookupByPath("/somewhere/else/util.ts")
		require.True(t, ok)
		assert.Same(t, rec, got)
	})

	t.Run("should miss an unrelated path", func(t *testing.T) {
		_, ok := s.LookupByPath("/ws/src/other.ts")
		assert.False(t, ok)
	})

	t.Run("should not suffix-match across a segment boundary", func(t *testing.T) {
		// "til.ts" is a textual suffix of util.ts but not a path suffix;
		// only the basename pass may match, and the basenames differ.
		_, ok := s.LookupByPath("til.ts")
		assert.False(t, ok)
	})
}

func TestStore_FallbackHitIsMemoized(t *testing.T) {
	s := New()
	s.BeginSession()
	s.Put("/ws/src/util.ts", record("src/util.ts", 1, 1))

	_, ok := s.LookupByPath("src/util.ts")
	require.True(t, ok)

	s.mu.RLock()
	alias, memoized := s.aliases["src/util.ts"]
	s.mu.RUnlock()
	assert.True(t, memoized)
	assert.Equal(t, "/ws/src/util.ts", alias)
}

func TestStore_FallbackTieBreakIsDeterministic(t *testing.T) {
	s := New()
	s.BeginSession()
	s.Put("/ws/lib/util.ts", record("lib/util.ts", 1, 1))
	s.Put("/ws/src/util.ts", record("src/util.ts", 1, 1))

	// Filename-only match: stored paths are scanned in sorted order.
	for i := 0; i < 5; i++ {
		got, ok := s.LookupByPath("/elsewhere/util.ts")
		require.True(t, ok)
		want, _ := s.LookupByPath("/ws/lib/util.ts")
		assert.Same(t, want, got)
	}
}
