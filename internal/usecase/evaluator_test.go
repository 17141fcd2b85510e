package usecase

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/fadilmartias/resume-matcher/internal/model"
	"github.com/fadilmartias/resume-matcher/internal/service"
	"github.com/fadilmartias/resume-matcher/internal/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMatchPercentage(t *testing.T) {
	tests := []struct {
		name       string
		similarity float64
		expected   float64
	}{
		{name: "typical", similarity: 0.83124, expected: 83.12},
		{name: "rounds half up", similarity: 0.45678, expected: 45.68},
		{name: "perfect", similarity: 1, expected: 100},
		{name: "above one clamps", similarity: 1.0000002, expected: 100},
		{name: "negative clamps", similarity: -0.4, expected: 0},
		{name: "nan", similarity: math.NaN(), expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, MatchPercentage(tt.similarity), 1e-9)
		})
	}
}

func writeResume(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestEvaluate(t *testing.T) {
	evaluator := NewEvaluator(util.NewTextExtractor(false, zap.NewNop()), keywordScorer{}, service.NewSkillTagger(), zap.NewNop())
	target := service.ScoringTarget{Text: "python docker"}

	evaluation, err := evaluator.Evaluate(context.Background(), writeResume(t, "cv.txt", "Python and Docker, some SQL"), target)
	require.NoError(t, err)
	assert.Equal(t, 100.0, evaluation.MatchPercentage)
	assert.Equal(t, model.ScoreStatusScored, evaluation.ScoreStatus)
	assert.Equal(t, "Docker, Python, Sql", evaluation.Skills)
}

func TestEvaluateScoringFailureKeepsDocument(t *testing.T) {
	evaluator := NewEvaluator(util.NewTextExtractor(false, zap.NewNop()), keywordScorer{fail: true}, service.NewSkillTagger(), zap.NewNop())

	evaluation, err := evaluator.Evaluate(context.Background(), writeResume(t, "cv.txt", "Figma"), service.ScoringTarget{Text: "design"})
	require.NoError(t, err)
	assert.Zero(t, evaluation.MatchPercentage)
	assert.Equal(t, model.ScoreStatusFailed, evaluation.ScoreStatus)
	assert.NotEmpty(t, evaluation.ScoreError)
	assert.Equal(t, "Figma", evaluation.Skills)
}

func TestEvaluateWithoutTagger(t *testing.T) {
	evaluator := NewEvaluator(util.NewTextExtractor(false, zap.NewNop()), keywordScorer{}, nil, zap.NewNop())

	evaluation, err := evaluator.Evaluate(context.Background(), writeResume(t, "cv.txt", "Python"), service.ScoringTarget{Text: "python"})
	require.NoError(t, err)
	assert.Equal(t, model.SkillsNotAvailable, evaluation.Skills)
}

func TestEvaluateExtractionFailure(t *testing.T) {
	evaluator := NewEvaluator(util.NewTextExtractor(false, zap.NewNop()), keywordScorer{}, nil, zap.NewNop())

	_, err := evaluator.Evaluate(context.Background(), writeResume(t, "cv.png", "not text"), service.ScoringTarget{Text: "python"})
	require.ErrorIs(t, err, util.ErrUnsupportedFormat)
}

func TestPrepareTarget(t *testing.T) {
	ctx := context.Background()

	t.Run("embeds once when nothing stored", func(t *testing.T) {
		scorer := &embeddingScorer{}
		evaluator := NewEvaluator(nil, scorer, nil, zap.NewNop())

		target := evaluator.PrepareTarget(ctx, "go developer", nil)
		assert.Equal(t, []float32{1, 0, 0}, target.Embedding)
		assert.Equal(t, []string{"go developer"}, scorer.embedded)
	})

	t.Run("keeps stored embedding", func(t *testing.T) {
		scorer := &embeddingScorer{}
		evaluator := NewEvaluator(nil, scorer, nil, zap.NewNop())

		target := evaluator.PrepareTarget(ctx, "go developer", []float32{0, 1})
		assert.Equal(t, []float32{0, 1}, target.Embedding)
		assert.Empty(t, scorer.embedded)
	})

	t.Run("embedding failure leaves target empty", func(t *testing.T) {
		scorer := &embeddingScorer{err: errors.New("quota exceeded")}
		evaluator := NewEvaluator(nil, scorer, nil, zap.NewNop())

		target := evaluator.PrepareTarget(ctx, "go developer", nil)
		assert.Nil(t, target.Embedding)
		assert.Equal(t, "go developer", target.Text)
	})

	t.Run("text only scorer", func(t *testing.T) {
		evaluator := NewEvaluator(nil, keywordScorer{}, nil, zap.NewNop())

		target := evaluator.PrepareTarget(ctx, "go developer", nil)
		assert.Nil(t, target.Embedding)
	})
}
