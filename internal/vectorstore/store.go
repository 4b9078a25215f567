// Package vectorstore provides a uniform interface over the vector database
// used to hold a person's embedded message history.
package vectorstore

import (
	"context"
	"errors"

	"github.com/talkershq/talkers/internal/types"
)

// ErrCollectionNotFound is returned when an operation addresses a collection
// that was never created.
var ErrCollectionNotFound = errors.New("collection not found")

// DistanceMetric selects how the backend compares vectors.
type DistanceMetric string

const (
	DistanceCosine DistanceMetric = "cosine"
	DistanceL2     DistanceMetric = "l2"
	DistanceDot    DistanceMetric = "dot"
)

// ScrollPage is one page of a full-collection enumeration. NextOffset is nil
// once the collection is exhausted.
type ScrollPage struct {
	Points     []types.VectorPoint
	NextOffset *int
}

// Store abstracts the vector database. Every backend exposes a different
// pagination and scoring convention; implementations normalize them so
// callers never depend on backend semantics. Search scores are similarities
// in [0,1] regardless of the configured metric.
type Store interface {
	// CreateCollection is idempotent: a no-op if the name already maps to a
	// collection.
	CreateCollection(ctx context.Context, name string, dimensions int, metric DistanceMetric) error

	// Upsert writes all points, overwriting by ID. No-op on empty input.
	Upsert(ctx context.Context, name string, points []types.VectorPoint) error

	// Search returns up to limit nearest neighbors with similarity >=
	// threshold, ordered by descending similarity.
	Search(ctx context.Context, name string, vector []float32, limit int, threshold float64) ([]types.RetrievalResult, error)

	// Scroll pages through the collection in stable insertion order.
	Scroll(ctx context.Context, name string, limit, offset int) (*ScrollPage, error)

	// DeleteCollection is idempotent and swallows "not found".
	DeleteCollection(ctx context.Context, name string) error
}
