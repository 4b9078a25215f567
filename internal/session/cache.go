package session

import (
	"sync"
	"time"

	"github.com/talkershq/talkers/internal/types"
)

// Entry is the in-process state for one active conversation. AllMessages and
// Stats are populated lazily by the corpus loader; the entry mutex serializes
// population so concurrent turns for one session do not race on it.
type Entry struct {
	sync.Mutex

	Session      types.ChatSession
	AllMessages  []types.Message
	Stats        *types.StatisticalProfile
	Truncated    bool
	lastActivity time.Time
}

// Loaded reports whether the corpus cache has been populated.
func (e *Entry) Loaded() bool {
	return len(e.AllMessages) > 0 || e.Stats != nil
}

// Cache is a bounded TTL cache of session entries. Entries idle longer than
// the TTL are dropped; when full, the longest-idle entry is evicted. The
// durable store remains the source of truth, so eviction only costs a reload.
type Cache struct {
	mu         sync.Mutex
	entries    map[string]*Entry
	maxEntries int
	ttl        time.Duration
	nowFunc    func() time.Time
}

// NewCache returns a Cache bounded to maxEntries with the given idle TTL.
func NewCache(maxEntries int, ttl time.Duration) *Cache {
	if maxEntries <= 0 {
		maxEntries = 512
	}
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Cache{
		entries:    make(map[string]*Entry),
		maxEntries: maxEntries,
		ttl:        ttl,
		nowFunc:    time.Now,
	}
}

// Get returns the cached entry for sessionID, or nil.
func (c *Cache) Get(sessionID string) *Entry {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[sessionID]
	if !ok {
		return nil
	}
	if c.nowFunc().Sub(entry.lastActivity) > c.ttl {
		delete(c.entries, sessionID)
		return nil
	}
	entry.lastActivity = c.nowFunc()
	return entry
}

// Put stores an entry for sessionID, evicting the longest-idle entry first
// when the cache is full.
func (c *Cache) Put(sessionID string, entry *Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.nowFunc()
	for id, e := range c.entries {
		if now.Sub(e.lastActivity) > c.ttl {
			delete(c.entries, id)
		}
	}

	if _, ok := c.entries[sessionID]; !ok && len(c.entries) >= c.maxEntries {
		var oldestID string
		var oldest time.Time
		for id, e := range c.entries {
			if oldestID == "" || e.lastActivity.Before(oldest) {
				oldestID = id
				oldest = e.lastActivity
			}
		}
		delete(c.entries, oldestID)
	}

	entry.lastActivity = now
	c.entries[sessionID] = entry
}

// Len reports the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
