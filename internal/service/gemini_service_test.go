package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/fadilmartias/resume-matcher/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

const (
	goJob          = "Senior backend engineer, Go and distributed systems"
	goResume       = "5 years Go, Kubernetes, distributed tracing"
	designerResume = "graphic design and Photoshop"
)

// Fixed sample embeddings standing in for a live model.
var sampleEmbeddings = map[string][]float32{
	goJob:          {0.82, 0.51, 0.10, 0.05},
	goResume:       {0.78, 0.58, 0.12, 0.02},
	designerResume: {0.05, 0.10, 0.90, 0.40},
}

type fakeEmbedClient struct {
	vectors map[string][]float32
	err     error
	calls   []string
}

func (f *fakeEmbedClient) EmbedContent(_ context.Context, model string, contents []*genai.Content, _ *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error) {
	text := contents[0].Parts[0].Text
	f.calls = append(f.calls, text)
	if f.err != nil {
		return nil, f.err
	}
	vec, ok := f.vectors[text]
	if !ok {
		return &genai.EmbedContentResponse{}, nil
	}
	return &genai.EmbedContentResponse{Embeddings: []*genai.ContentEmbedding{{Values: vec}}}, nil
}

func newTestGeminiService(client *fakeEmbedClient) *GeminiService {
	return &GeminiService{models: client, model: "gemini-embedding-001", logger: zap.NewNop()}
}

func TestGenerateEmbedding(t *testing.T) {
	client := &fakeEmbedClient{vectors: sampleEmbeddings}
	svc := newTestGeminiService(client)

	vec, err := svc.GenerateEmbedding(context.Background(), "  "+goResume+"\n")
	require.NoError(t, err)
	assert.Equal(t, sampleEmbeddings[goResume], vec)
	assert.Equal(t, []string{goResume}, client.calls, "input is trimmed before embedding")
}

func TestGenerateEmbeddingRejectsBadInputAndOutput(t *testing.T) {
	client := &fakeEmbedClient{vectors: map[string][]float32{"nan": {float32(math.NaN())}}}
	svc := newTestGeminiService(client)

	_, err := svc.GenerateEmbedding(context.Background(), "   ")
	assert.Error(t, err)
	assert.Empty(t, client.calls, "empty text never reaches the api")

	_, err = svc.GenerateEmbedding(context.Background(), "unknown text")
	assert.ErrorContains(t, err, "no embeddings returned")

	_, err = svc.GenerateEmbedding(context.Background(), "nan")
	assert.ErrorContains(t, err, "invalid embedding value")
}

func TestGenerateEmbeddingTruncatesLongInput(t *testing.T) {
	client := &fakeEmbedClient{vectors: map[string][]float32{}}
	svc := newTestGeminiService(client)

	_, _ = svc.GenerateEmbedding(context.Background(), strings.Repeat("a", maxEmbeddingInput+50))
	require.Len(t, client.calls, 1)
	assert.Len(t, client.calls[0], maxEmbeddingInput)
}

func TestEmbeddingScorerRanksRelevantResumeHigher(t *testing.T) {
	scorer := NewEmbeddingScorer(newTestGeminiService(&fakeEmbedClient{vectors: sampleEmbeddings}), zap.NewNop())
	target := ScoringTarget{Text: goJob}

	relevant := scorer.Score(context.Background(), goResume, target)
	unrelated := scorer.Score(context.Background(), designerResume, target)

	require.True(t, relevant.OK())
	require.True(t, unrelated.OK())
	assert.Greater(t, relevant.Similarity, unrelated.Similarity+0.3)
}

func TestEmbeddingScorerIsDeterministic(t *testing.T) {
	scorer := NewEmbeddingScorer(newTestGeminiService(&fakeEmbedClient{vectors: sampleEmbeddings}), zap.NewNop())
	target := ScoringTarget{Text: goJob}

	first := scorer.Score(context.Background(), goResume, target)
	second := scorer.Score(context.Background(), goResume, target)
	assert.Equal(t, first, second)
}

func TestEmbeddingScorerUsesStoredJobEmbedding(t *testing.T) {
	client := &fakeEmbedClient{vectors: sampleEmbeddings}
	scorer := NewEmbeddingScorer(newTestGeminiService(client), zap.NewNop())

	result := scorer.Score(context.Background(), goResume, ScoringTarget{Text: goJob, Embedding: sampleEmbeddings[goJob]})
	require.True(t, result.OK())
	assert.Equal(t, []string{goResume}, client.calls)
}

func TestEmbeddingScorerReEmbedsStaleJobEmbedding(t *testing.T) {
	client := &fakeEmbedClient{vectors: sampleEmbeddings}
	scorer := NewEmbeddingScorer(newTestGeminiService(client), zap.NewNop())

	result := scorer.Score(context.Background(), goResume, ScoringTarget{Text: goJob, Embedding: []float32{1, 2}})
	require.True(t, result.OK())
	assert.Equal(t, []string{goResume, goJob}, client.calls)
}

func TestEmbeddingScorerReportsFailure(t *testing.T) {
	client := &fakeEmbedClient{err: errors.New("quota exceeded")}
	scorer := NewEmbeddingScorer(newTestGeminiService(client), zap.NewNop())

	result := scorer.Score(context.Background(), goResume, ScoringTarget{Text: goJob})
	assert.False(t, result.OK())
	assert.Equal(t, model.ScoreStatusFailed, result.Status)
	assert.Contains(t, result.Reason, "quota exceeded")
	assert.Zero(t, result.Similarity)
}
