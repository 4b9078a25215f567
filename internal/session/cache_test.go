package session

import (
	"testing"
	"time"

	"github.com/talkershq/talkers/internal/types"
)

func newEntry(sessionID string) *Entry {
	return &Entry{Session: types.ChatSession{SessionID: sessionID}}
}

func TestCacheGetMiss(t *testing.T) {
	cache := NewCache(4, time.Minute)
	if cache.Get("nope") != nil {
		t.Fatal("expected nil on miss")
	}
}

func TestCachePutGet(t *testing.T) {
	cache := NewCache(4, time.Minute)
	cache.Put("s1", newEntry("s1"))

	entry := cache.Get("s1")
	if entry == nil || entry.Session.SessionID != "s1" {
		t.Fatalf("unexpected entry: %#v", entry)
	}
}

func TestCacheEvictsLongestIdleWhenFull(t *testing.T) {
	now := time.Unix(1000, 0)
	cache := NewCache(2, time.Hour)
	cache.nowFunc = func() time.Time { return now }

	cache.Put("s1", newEntry("s1"))
	now = now.Add(time.Second)
	cache.Put("s2", newEntry("s2"))
	now = now.Add(time.Second)

	// Touch s1 so s2 becomes the longest idle.
	if cache.Get("s1") == nil {
		t.Fatal("s1 should be cached")
	}
	now = now.Add(time.Second)
	cache.Put("s3", newEntry("s3"))

	if cache.Get("s2") != nil {
		t.Fatal("s2 should have been evicted")
	}
	if cache.Get("s1") == nil || cache.Get("s3") == nil {
		t.Fatal("s1 and s3 should survive")
	}
	if cache.Len() != 2 {
		t.Fatalf("cache should stay bounded, got %d", cache.Len())
	}
}

func TestCacheTTLExpiry(t *testing.T) {
	now := time.Unix(1000, 0)
	cache := NewCache(4, time.Minute)
	cache.nowFunc = func() time.Time { return now }

	cache.Put("s1", newEntry("s1"))
	now = now.Add(2 * time.Minute)

	if cache.Get("s1") != nil {
		t.Fatal("expired entry should be dropped")
	}
}

func TestEntryLoaded(t *testing.T) {
	entry := newEntry("s1")
	if entry.Loaded() {
		t.Fatal("fresh entry must not be loaded")
	}
	entry.Stats = &types.StatisticalProfile{}
	if !entry.Loaded() {
		t.Fatal("entry with stats must count as loaded")
	}
}
