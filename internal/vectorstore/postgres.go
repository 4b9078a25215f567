package vectorstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/talkershq/talkers/internal/types"
)

// collectionModel maps to the collections table. Each collection holds one
// person's embedded message set.
type collectionModel struct {
	ID         int    `gorm:"primaryKey"`
	Name       string `gorm:"uniqueIndex"`
	Dimensions int
	Metric     string
}

func (collectionModel) TableName() string {
	return "collections"
}

// pointModel maps to the points table. Seq is a bigserial so Scroll iterates
// in insertion order, stable across reloads.
type pointModel struct {
	ID           string `gorm:"primaryKey"`
	CollectionID int    `gorm:"index"`
	Seq          int64  `gorm:"autoIncrement"`
	Content      string
	Timestamp    string
	Sender       string
	Embedding    *pgvector.Vector `gorm:"type:vector"`
}

func (pointModel) TableName() string {
	return "points"
}

// PostgresStore implements Store on PostgreSQL with the pgvector extension.
type PostgresStore struct {
	db *gorm.DB
}

// NewPostgresStore returns a PostgresStore over an open gorm handle.
func NewPostgresStore(db *gorm.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) CreateCollection(ctx context.Context, name string, dimensions int, metric DistanceMetric) error {
	var existing collectionModel
	err := s.db.WithContext(ctx).Where("name = ?", name).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to look up collection %q: %w", name, err)
	}

	record := collectionModel{Name: name, Dimensions: dimensions, Metric: string(metric)}
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return fmt.Errorf("failed to create collection %q: %w", name, err)
	}
	return nil
}

func (s *PostgresStore) Upsert(ctx context.Context, name string, points []types.VectorPoint) error {
	if len(points) == 0 {
		return nil
	}

	collection, err := s.lookup(ctx, name)
	if err != nil {
		return err
	}

	records := make([]pointModel, 0, len(points))
	for _, p := range points {
		id := p.ID
		if id == "" {
			id = uuid.NewString()
		}
		var vector *pgvector.Vector
		if len(p.Vector) > 0 {
			v := pgvector.NewVector(p.Vector)
			vector = &v
		}
		records = append(records, pointModel{
			ID:           id,
			CollectionID: collection.ID,
			Content:      p.Payload.Content,
			Timestamp:    p.Payload.Timestamp,
			Sender:       p.Payload.Sender,
			Embedding:    vector,
		})
	}

	err = s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(&records).Error
	if err != nil {
		return fmt.Errorf("failed to upsert %d points into %q: %w", len(records), name, err)
	}
	return nil
}

func (s *PostgresStore) Search(ctx context.Context, name string, vector []float32, limit int, threshold float64) ([]types.RetrievalResult, error) {
	if len(vector) == 0 {
		return nil, nil
	}

	collection, err := s.lookup(ctx, name)
	if err != nil {
		return nil, err
	}

	// Cosine distance is in [0,2]; 1-d maps it to [-1,1] and the threshold
	// filter plus clamp keep the reported similarity inside [0,1].
	query := `
		SELECT content, 1 - (embedding <=> $1) AS score
		FROM points
		WHERE collection_id = $2
		  AND embedding IS NOT NULL
		  AND 1 - (embedding <=> $1) >= $3
		ORDER BY score DESC
		LIMIT $4`

	var results []types.RetrievalResult
	if err := s.db.WithContext(ctx).
		Raw(query, pgvector.NewVector(vector), collection.ID, threshold, limit).
		Scan(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to search collection %q: %w", name, err)
	}

	for i := range results {
		results[i].Score = clampScore(results[i].Score)
	}
	return results, nil
}

func (s *PostgresStore) Scroll(ctx context.Context, name string, limit, offset int) (*ScrollPage, error) {
	collection, err := s.lookup(ctx, name)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 250
	}

	var records []pointModel
	if err := s.db.WithContext(ctx).
		Where("collection_id = ?", collection.ID).
		Order("seq ASC").
		Limit(limit).
		Offset(offset).
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to scroll collection %q at offset %d: %w", name, offset, err)
	}

	page := &ScrollPage{Points: make([]types.VectorPoint, 0, len(records))}
	for _, r := range records {
		point := types.VectorPoint{
			ID: r.ID,
			Payload: types.Message{
				Content:   r.Content,
				Timestamp: r.Timestamp,
				Sender:    r.Sender,
			},
		}
		if r.Embedding != nil {
			point.Vector = r.Embedding.Slice()
		}
		page.Points = append(page.Points, point)
	}

	if len(records) == limit {
		var total int64
		if err := s.db.WithContext(ctx).Model(&pointModel{}).
			Where("collection_id = ?", collection.ID).
			Count(&total).Error; err != nil {
			return nil, fmt.Errorf("failed to count collection %q: %w", name, err)
		}
		if int64(offset+limit) < total {
			next := offset + limit
			page.NextOffset = &next
		}
	}
	return page, nil
}

func (s *PostgresStore) DeleteCollection(ctx context.Context, name string) error {
	collection, err := s.lookup(ctx, name)
	if err != nil {
		if errors.Is(err, ErrCollectionNotFound) {
			return nil
		}
		return err
	}

	if err := s.db.WithContext(ctx).Where("collection_id = ?", collection.ID).Delete(&pointModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete points of %q: %w", name, err)
	}
	if err := s.db.WithContext(ctx).Delete(&collectionModel{}, collection.ID).Error; err != nil {
		return fmt.Errorf("failed to delete collection %q: %w", name, err)
	}
	return nil
}

func (s *PostgresStore) lookup(ctx context.Context, name string) (*collectionModel, error) {
	var collection collectionModel
	err := s.db.WithContext(ctx).Where("name = ?", name).First(&collection).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrCollectionNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up collection %q: %w", name, err)
	}
	return &collection, nil
}

func clampScore(score float64) float64 {
	switch {
	case score < 0:
		return 0
	case score > 1:
		return 1
	default:
		return score
	}
}
