package corpus

import (
	"context"
	"fmt"
	"testing"

	"github.com/talkershq/talkers/internal/session"
	"github.com/talkershq/talkers/internal/types"
	"github.com/talkershq/talkers/internal/vectorstore"
)

// fakeStore serves Scroll from an in-memory point slice with the same offset
// semantics as the postgres adapter.
type fakeStore struct {
	points      []types.VectorPoint
	scrollCalls int
	failAtCall  int // 1-based; 0 disables
}

func (s *fakeStore) CreateCollection(ctx context.Context, name string, dims int, metric vectorstore.DistanceMetric) error {
	return nil
}

func (s *fakeStore) Upsert(ctx context.Context, name string, points []types.VectorPoint) error {
	return nil
}

func (s *fakeStore) Search(ctx context.Context, name string, vector []float32, limit int, threshold float64) ([]types.RetrievalResult, error) {
	return nil, nil
}

func (s *fakeStore) Scroll(ctx context.Context, name string, limit, offset int) (*vectorstore.ScrollPage, error) {
	s.scrollCalls++
	if s.failAtCall > 0 && s.scrollCalls == s.failAtCall {
		return nil, fmt.Errorf("store unavailable")
	}

	end := offset + limit
	if end > len(s.points) {
		end = len(s.points)
	}
	page := &vectorstore.ScrollPage{Points: s.points[offset:end]}
	if end < len(s.points) {
		next := end
		page.NextOffset = &next
	}
	return page, nil
}

func (s *fakeStore) DeleteCollection(ctx context.Context, name string) error {
	return nil
}

func makePoints(n int) []types.VectorPoint {
	points := make([]types.VectorPoint, 0, n)
	for i := 0; i < n; i++ {
		points = append(points, types.VectorPoint{
			ID:      fmt.Sprintf("p%d", i),
			Payload: types.Message{Content: fmt.Sprintf("message %d", i)},
		})
	}
	return points
}

func TestEnsureLoadedExhaustiveEnumeration(t *testing.T) {
	store := &fakeStore{points: makePoints(600)}
	loader := NewLoader(store, 250, 0)
	entry := &session.Entry{}

	loader.EnsureLoaded(context.Background(), entry, "person_a")

	// ceil(600/250) = 3 pages.
	if store.scrollCalls != 3 {
		t.Fatalf("expected 3 scroll calls, got %d", store.scrollCalls)
	}
	if len(entry.AllMessages) != 600 {
		t.Fatalf("expected 600 messages, got %d", len(entry.AllMessages))
	}
	if entry.Truncated {
		t.Fatal("corpus should not be truncated")
	}
	if entry.Stats == nil {
		t.Fatal("stats should be computed on population")
	}
	if entry.AllMessages[0].Content != "message 0" || entry.AllMessages[599].Content != "message 599" {
		t.Fatal("messages out of order")
	}
}

func TestEnsureLoadedPopulatesOnce(t *testing.T) {
	store := &fakeStore{points: makePoints(10)}
	loader := NewLoader(store, 250, 0)
	entry := &session.Entry{}

	loader.EnsureLoaded(context.Background(), entry, "person_a")
	calls := store.scrollCalls
	loader.EnsureLoaded(context.Background(), entry, "person_a")

	if store.scrollCalls != calls {
		t.Fatalf("second call should be a no-op, scroll calls went %d -> %d", calls, store.scrollCalls)
	}
	if len(entry.AllMessages) != 10 {
		t.Fatalf("expected 10 messages, got %d", len(entry.AllMessages))
	}
}

func TestEnsureLoadedKeepsPartialCorpusOnFailure(t *testing.T) {
	store := &fakeStore{points: makePoints(600), failAtCall: 2}
	loader := NewLoader(store, 250, 0)
	entry := &session.Entry{}

	loader.EnsureLoaded(context.Background(), entry, "person_a")

	if len(entry.AllMessages) != 250 {
		t.Fatalf("expected partial corpus of 250, got %d", len(entry.AllMessages))
	}
	if entry.Stats == nil {
		t.Fatal("stats should still be computed over the partial corpus")
	}
}

func TestEnsureLoadedPageCapTruncates(t *testing.T) {
	store := &fakeStore{points: makePoints(600)}
	loader := NewLoader(store, 250, 2)
	entry := &session.Entry{}

	loader.EnsureLoaded(context.Background(), entry, "person_a")

	if store.scrollCalls != 2 {
		t.Fatalf("expected 2 scroll calls under page cap, got %d", store.scrollCalls)
	}
	if len(entry.AllMessages) != 500 {
		t.Fatalf("expected 500 messages under cap, got %d", len(entry.AllMessages))
	}
	if !entry.Truncated {
		t.Fatal("expected truncated flag when page cap trips")
	}
}

func TestEnsureLoadedSkipsEmptyPayloads(t *testing.T) {
	points := makePoints(3)
	points[1].Payload.Content = ""
	store := &fakeStore{points: points}
	loader := NewLoader(store, 250, 0)
	entry := &session.Entry{}

	loader.EnsureLoaded(context.Background(), entry, "person_a")

	if len(entry.AllMessages) != 2 {
		t.Fatalf("expected empty-content point to be skipped, got %d messages", len(entry.AllMessages))
	}
}
