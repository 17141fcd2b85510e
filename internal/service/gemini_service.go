package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

const maxEmbeddingInput = 10000

type GeminiServiceInterface interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

type embedContentClient interface {
	EmbedContent(ctx context.Context, model string, contents []*genai.Content, config *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error)
}

// GeminiService produces text embeddings. It is built once at startup and
// handed to whoever needs it.
type GeminiService struct {
	models         embedContentClient
	model          string
	requestTimeout time.Duration
	logger         *zap.Logger
}

func NewGeminiService(ctx context.Context, apiKey, model string, requestTimeout time.Duration, logger *zap.Logger) (*GeminiService, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("GEMINI_API_KEY not set")
	}
	if strings.TrimSpace(model) == "" {
		return nil, errors.New("embedding model name cannot be empty")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &GeminiService{
		models:         client.Models,
		model:          model,
		requestTimeout: requestTimeout,
		logger:         logger,
	}, nil
}

func (s *GeminiService) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	trimmedText := strings.TrimSpace(text)
	if trimmedText == "" {
		return nil, fmt.Errorf("text for embedding cannot be empty")
	}

	if len(trimmedText) > maxEmbeddingInput {
		s.logger.Warn("embedding input exceeds limit, truncating",
			zap.Int("length", len(trimmedText)), zap.Int("limit", maxEmbeddingInput))
		trimmedText = strings.ToValidUTF8(trimmedText[:maxEmbeddingInput], "")
	}

	if s.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.requestTimeout)
		defer cancel()
	}

	content := []*genai.Content{genai.NewContentFromText(trimmedText, genai.RoleUser)}
	result, err := s.models.EmbedContent(ctx, s.model, content, nil)
	if err != nil {
		return nil, fmt.Errorf("generate embedding failed: %w", err)
	}

	embeddings, err := validateEmbeddingResponse(result)
	if err != nil {
		return nil, fmt.Errorf("invalid embedding response: %w", err)
	}
	return embeddings, nil
}

func validateEmbeddingResponse(resp *genai.EmbedContentResponse) ([]float32, error) {
	if resp == nil {
		return nil, fmt.Errorf("response is nil")
	}

	if len(resp.Embeddings) == 0 || resp.Embeddings[0] == nil {
		return nil, fmt.Errorf("no embeddings returned")
	}

	embeddings := resp.Embeddings[0].Values

	if len(embeddings) == 0 {
		return nil, fmt.Errorf("embedding vector is empty")
	}

	for i, val := range embeddings {
		if math.IsNaN(float64(val)) || math.IsInf(float64(val), 0) {
			return nil, fmt.Errorf("invalid embedding value at index %d: %v", i, val)
		}
	}

	return embeddings, nil
}

// EmbeddingScorer scores by cosine similarity of embeddings.
type EmbeddingScorer struct {
	embeddings GeminiServiceInterface
	logger     *zap.Logger
}

func NewEmbeddingScorer(embeddings GeminiServiceInterface, logger *zap.Logger) *EmbeddingScorer {
	return &EmbeddingScorer{embeddings: embeddings, logger: logger}
}

func (s *EmbeddingScorer) Name() string {
	return "embedding"
}

func (s *EmbeddingScorer) EmbedText(ctx context.Context, text string) ([]float32, error) {
	return s.embeddings.GenerateEmbedding(ctx, text)
}

func (s *EmbeddingScorer) Score(ctx context.Context, resumeText string, target ScoringTarget) ScoreResult {
	resumeVec, err := s.embeddings.GenerateEmbedding(ctx, resumeText)
	if err != nil {
		s.logger.Error("resume embedding failed", zap.Error(err))
		return scoreFailed("resume embedding: %v", err)
	}

	jobVec := target.Embedding
	if len(jobVec) != len(resumeVec) {
		// Missing, or stored under a different model.
		jobVec, err = s.embeddings.GenerateEmbedding(ctx, target.Text)
		if err != nil {
			s.logger.Error("job description embedding failed", zap.Error(err))
			return scoreFailed("job description embedding: %v", err)
		}
	}

	sim, err := CosineSimilarity(resumeVec, jobVec)
	if err != nil {
		s.logger.Error("cosine similarity failed", zap.Error(err))
		return scoreFailed("similarity: %v", err)
	}
	return scored(sim)
}
