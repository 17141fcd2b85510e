package usecase

import (
	"context"
	"math"

	"github.com/fadilmartias/resume-matcher/internal/model"
	"github.com/fadilmartias/resume-matcher/internal/service"
	"go.uber.org/zap"
)

type TextExtractor interface {
	Extract(path string) (string, error)
}

// Evaluation is the outcome of scoring one readable document.
type Evaluation struct {
	MatchPercentage float64
	ScoreStatus     string
	ScoreError      string
	Skills          string
}

// Evaluator runs extract, score and tag for a single file.
type Evaluator struct {
	extractor TextExtractor
	scorer    service.Scorer
	tagger    *service.SkillTagger
	logger    *zap.Logger
}

// NewEvaluator wires the pipeline stages. A nil tagger disables skill tagging.
func NewEvaluator(extractor TextExtractor, scorer service.Scorer, tagger *service.SkillTagger, logger *zap.Logger) *Evaluator {
	return &Evaluator{extractor: extractor, scorer: scorer, tagger: tagger, logger: logger}
}

func (e *Evaluator) ScorerName() string {
	return e.scorer.Name()
}

// PrepareTarget builds the scoring target for a job, embedding the text once
// up front when the scorer needs an embedding and none is stored.
func (e *Evaluator) PrepareTarget(ctx context.Context, text string, stored []float32) service.ScoringTarget {
	target := service.ScoringTarget{Text: text, Embedding: stored}
	embedder, ok := e.scorer.(service.TextEmbedder)
	if !ok || len(stored) > 0 {
		return target
	}

	vec, err := embedder.EmbedText(ctx, text)
	if err != nil {
		e.logger.Warn("could not embed job description, scorer will retry per document", zap.Error(err))
		return target
	}
	target.Embedding = vec
	return target
}

// Evaluate returns an error only when the document cannot be turned into
// text. Scoring failures are reported inside the Evaluation.
func (e *Evaluator) Evaluate(ctx context.Context, path string, target service.ScoringTarget) (*Evaluation, error) {
	text, err := e.extractor.Extract(path)
	if err != nil {
		return nil, err
	}

	result := e.scorer.Score(ctx, text, target)
	evaluation := &Evaluation{
		ScoreStatus: result.Status,
		ScoreError:  result.Reason,
		Skills:      model.SkillsNotAvailable,
	}
	if result.OK() {
		evaluation.MatchPercentage = MatchPercentage(result.Similarity)
	}
	if e.tagger != nil {
		evaluation.Skills = e.tagger.TagString(text)
	}
	return evaluation, nil
}

// MatchPercentage maps a similarity onto [0, 100] rounded to two decimals.
// Negative similarities clamp to 0.
func MatchPercentage(similarity float64) float64 {
	if math.IsNaN(similarity) {
		return 0
	}
	clamped := math.Max(0, math.Min(1, similarity))
	return math.Round(clamped*100*100) / 100
}
