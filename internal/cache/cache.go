// Package cache provides a bounded in-memory cache of assistant answers,
// keyed by normalised question text and workspace.
//
// Entries expire after a TTL and the oldest entry is evicted when the
// cache is full. Nothing invalidates entries when the underlying index
// changes - a cached answer may cite since-deleted content until it
// expires. Callers that mutate the index aggressively can use Invalidate.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/growthpilot-cli/internal/core/domain"
)

// Default bounds.
const (
	DefaultMaxEntries = 5000
	DefaultTTL        = 4 * time.Hour
)

// Entry is a cached answer with its citations.
type Entry struct {
	Answer      string
	Sources     []domain.Source
	WorkspaceID string
	storedAt    time.Time
}

// Stats describes the cache's current occupancy.
type Stats struct {
	TotalEntries   int
	MaxEntries     int
	TTL            time.Duration
	OldestEntryAge time.Duration
	AverageAge     time.Duration
}

// QueryCache caches answers per (question, workspace). Safe for
// concurrent use.
type QueryCache struct {
	mu         sync.Mutex
	entries    map[string]*Entry
	maxEntries int
	ttl        time.Duration
	now        func() time.Time
}

// Option configures the cache.
type Option func(*QueryCache)

// WithMaxEntries overrides the entry bound.
func WithMaxEntries(n int) Option {
	return func(c *QueryCache) {
		if n > 0 {
			c.maxEntries = n
		}
	}
}

// WithTTL overrides the entry lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(c *QueryCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// withClock injects a clock for tests.
func withClock(now func() time.Time) Option {
	return func(c *QueryCache) {
		c.now = now
	}
}

// New creates a query cache with the default bounds.
func New(opts ...Option) *QueryCache {
	c := &QueryCache{
		entries:    make(map[string]*Entry),
		maxEntries: DefaultMaxEntries,
		ttl:        DefaultTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// key hashes the normalised question and workspace. Case and surrounding
// whitespace do not affect the key, so "What's our pricing?" and
// " what's our pricing? " share an entry.
func key(question, workspaceID string) string {
	if workspaceID == "" {
		workspaceID = "global"
	}
	raw := strings.ToLower(strings.TrimSpace(question + "_" + workspaceID))
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// Get returns the cached entry for the question, or nil when absent or
// expired. Expired entries are removed on access.
func (c *QueryCache) Get(question, workspaceID string) *Entry {
	k := key(question, workspaceID)

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[k]
	if !ok {
		return nil
	}

	if c.now().Sub(entry.storedAt) > c.ttl {
		delete(c.entries, k)
		return nil
	}

	return entry
}

// Set stores an answer, evicting the oldest entry when the cache is full.
func (c *QueryCache) Set(question, answer string, sources []domain.Source, workspaceID string) {
	k := key(question, workspaceID)

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[k]; !exists && len(c.entries) >= c.maxEntries {
		c.evictOldest()
	}

	c.entries[k] = &Entry{
		Answer:      answer,
		Sources:     sources,
		WorkspaceID: workspaceID,
		storedAt:    c.now(),
	}
}

// evictOldest removes the entry with the earliest store time (caller must
// hold the lock).
func (c *QueryCache) evictOldest() {
	var oldestKey string
	var oldestTime time.Time

	for k, entry := range c.entries {
		if oldestKey == "" || entry.storedAt.Before(oldestTime) {
			oldestKey = k
			oldestTime = entry.storedAt
		}
	}

	if oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}

// Invalidate drops every entry for the workspace, or the whole cache when
// workspaceID is empty.
func (c *QueryCache) Invalidate(workspaceID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if workspaceID == "" {
		c.entries = make(map[string]*Entry)
		return
	}

	for k, entry := range c.entries {
		if entry.WorkspaceID == workspaceID {
			delete(c.entries, k)
		}
	}
}

// Len returns the number of cached entries, expired ones included.
func (c *QueryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns occupancy and age information.
func (c *QueryCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	var oldest, total time.Duration
	for _, entry := range c.entries {
		age := now.Sub(entry.storedAt)
		total += age
		if age > oldest {
			oldest = age
		}
	}

	var avg time.Duration
	if len(c.entries) > 0 {
		avg = total / time.Duration(len(c.entries))
	}

	return Stats{
		TotalEntries:   len(c.entries),
		MaxEntries:     c.maxEntries,
		TTL:            c.ttl,
		OldestEntryAge: oldest,
		AverageAge:     avg,
	}
}
