// Package embedding converts message text into vectors for similarity search.
package embedding

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v5"
	"google.golang.org/genai"
)

// ErrUnavailable marks an embedding failure after retries are exhausted.
// Callers treat it as a degraded-turn signal, not a fatal error.
var ErrUnavailable = errors.New("embedding service unavailable")

// Embedder turns text into a fixed-dimension vector.
type Embedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
	EmbedDocument(ctx context.Context, text string) ([]float32, error)
}

// Dimensions is the fixed embedding size shared with the vector store.
const Dimensions = 768

const maxRetries = 3

// GenAIEmbedder embeds text with the Gemini embedding API.
type GenAIEmbedder struct {
	client *genai.Client
	model  string
}

// NewGenAIEmbedder creates a Gemini-backed embedder.
func NewGenAIEmbedder(ctx context.Context, apiKey, modelName string) (*GenAIEmbedder, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("google api key is required for embeddings")
	}
	if modelName == "" {
		modelName = "text-embedding-004"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &GenAIEmbedder{
		client: client,
		model:  modelName,
	}, nil
}

func (e *GenAIEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return e.embed(ctx, text, "RETRIEVAL_QUERY")
}

func (e *GenAIEmbedder) EmbedDocument(ctx context.Context, text string) ([]float32, error) {
	return e.embed(ctx, text, "RETRIEVAL_DOCUMENT")
}

func (e *GenAIEmbedder) embed(ctx context.Context, text, taskType string) ([]float32, error) {
	if text == "" {
		return nil, nil
	}

	operation := func() ([]float32, error) {
		return e.embedOnce(ctx, text, taskType)
	}

	values, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(maxRetries),
		backoff.WithMaxElapsedTime(10*time.Second))
	if err != nil {
		slog.Error("embedding failed after retries", "model", e.model, "error", err.Error())
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return values, nil
}

func (e *GenAIEmbedder) embedOnce(ctx context.Context, text, taskType string) ([]float32, error) {
	resp, err := e.client.Models.EmbedContent(ctx, e.model, genai.Text(text), &genai.EmbedContentConfig{
		TaskType:             taskType,
		OutputDimensionality: func() *int32 { v := int32(Dimensions); return &v }(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to embed content: %w", err)
	}
	if resp == nil || len(resp.Embeddings) == 0 || resp.Embeddings[0] == nil {
		return nil, fmt.Errorf("empty embedding response")
	}

	values := resp.Embeddings[0].Values
	if len(values) == Dimensions {
		return values, nil
	}
	if len(values) > Dimensions {
		slog.Warn("embedding dimensions exceed target, truncating", "actual", len(values), "target", Dimensions, "model", e.model)
		return values[:Dimensions], nil
	}
	return nil, backoff.Permanent(fmt.Errorf("embedding dimensions mismatch: got %d want %d", len(values), Dimensions))
}
