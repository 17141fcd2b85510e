package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

var ErrUnknownStrategy = errors.New("unknown scoring strategy")

type ScorerOptions struct {
	Strategy          string
	Timeout           time.Duration
	GeminiAPIKey      string
	EmbeddingModel    string
	HuggingFaceAPIKey string
	HuggingFaceURL    string
}

// NewScorer builds the scorer for opts.Strategy ("embedding" or "remote").
// The embedder is non-nil only for the embedding strategy.
func NewScorer(ctx context.Context, opts ScorerOptions, logger *zap.Logger) (Scorer, TextEmbedder, error) {
	switch opts.Strategy {
	case "embedding":
		gemini, err := NewGeminiService(ctx, opts.GeminiAPIKey, opts.EmbeddingModel, opts.Timeout, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("initialise embedding model: %w", err)
		}
		scorer := NewEmbeddingScorer(gemini, logger)
		return scorer, scorer, nil
	case "remote":
		return NewHuggingFaceService(HuggingFaceOptions{
			APIKey:  opts.HuggingFaceAPIKey,
			URL:     opts.HuggingFaceURL,
			Timeout: opts.Timeout,
		}, logger), nil, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, opts.Strategy)
	}
}
