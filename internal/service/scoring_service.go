package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/fadilmartias/resume-matcher/internal/model"
)

var (
	ErrDimensionMismatch = errors.New("embedding dimensions differ")
	ErrZeroVector        = errors.New("embedding has zero magnitude")
)

// ScoringTarget is the job description a resume is scored against. Embedding
// is the stored job embedding, if any.
type ScoringTarget struct {
	Text      string
	Embedding []float32
}

// ScoreResult carries either a similarity or the reason no score could be computed.
type ScoreResult struct {
	Similarity float64
	Status     string
	Reason     string
}

func (r ScoreResult) OK() bool {
	return r.Status == model.ScoreStatusScored
}

func scored(similarity float64) ScoreResult {
	return ScoreResult{Similarity: similarity, Status: model.ScoreStatusScored}
}

func scoreFailed(format string, args ...any) ScoreResult {
	return ScoreResult{Status: model.ScoreStatusFailed, Reason: fmt.Sprintf(format, args...)}
}

// Scorer is a scoring oracle. Implementations never return a bare zero for a
// failure; they report Status ScoreStatusFailed instead.
type Scorer interface {
	Name() string
	Score(ctx context.Context, resumeText string, target ScoringTarget) ScoreResult
}

// TextEmbedder is implemented by scorers that can precompute a job embedding.
type TextEmbedder interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
}

// CosineSimilarity returns a value in [-1, 1].
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d", ErrDimensionMismatch, len(a), len(b))
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0, ErrZeroVector
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	return math.Max(-1, math.Min(1, sim)), nil
}
