// Package resolve matches reported coverage paths to files in a workspace.
package resolve

import (
	"os"

	lru "github.com/hashicorp/golang-lru/v2"
)

// cacheSize bounds one session's probe memo. A single tracefile rarely
// produces more than a few thousand distinct candidate paths.
const cacheSize = 4096

// ExistenceCache memoizes filesystem existence probes. One instance belongs
// to exactly one reconciliation pass; it is never shared across passes, so
// files created or deleted between loads are observed on the next load.
type ExistenceCache struct {
	probes *lru.Cache[string, bool]
	probe  func(string) bool
}

// NewExistenceCache returns a cache backed by os.Stat.
func NewExistenceCache() *ExistenceCache {
	return newExistenceCache(func(path string) bool {
		info, err := os.Stat(path)
		return err == nil && !info.IsDir()
	})
}

func newExistenceCache(probe func(string) bool) *ExistenceCache {
	c, err := lru.New[string, bool](cacheSize)
	if err != nil {
		// lru.New only fails for a non-positive size.
		panic(err)
	}
	return &ExistenceCache{probes: c, probe: probe}
}

// Exists reports whether path names an existing regular file. The first call
// per distinct path hits the filesystem; repeats are served from the cache.
func (c *ExistenceCache) Exists(path string) bool {
	if hit, ok := c.probes.Get(path); ok {
		return hit
	}
	exists := c.probe(path)
	c.probes.Add(path, exists)
	return exists
}
