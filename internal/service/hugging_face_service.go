package service

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/fadilmartias/resume-matcher/internal/logger"
	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

const maxLoggedBody = 300

type HuggingFaceOptions struct {
	APIKey  string
	URL     string
	Timeout time.Duration
}

// HuggingFaceService scores through a hosted sentence-similarity endpoint.
type HuggingFaceService struct {
	client *resty.Client
	apiKey string
	url    string
	logger *zap.Logger
}

func NewHuggingFaceService(opts HuggingFaceOptions, log *zap.Logger) *HuggingFaceService {
	apiKey := strings.TrimSpace(opts.APIKey)
	if apiKey == "" {
		log.Warn("HUGGINGFACE_API_KEY not set, remote scores will be reported as failed")
	}

	client := resty.New().
		SetTimeout(opts.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &HuggingFaceService{
		client: client,
		apiKey: apiKey,
		url:    opts.URL,
		logger: log,
	}
}

func (s *HuggingFaceService) Name() string {
	return "remote"
}

func (s *HuggingFaceService) Score(ctx context.Context, resumeText string, target ScoringTarget) ScoreResult {
	if s.apiKey == "" {
		s.logger.Error("HUGGINGFACE_API_KEY environment variable not set")
		return scoreFailed("inference credential not configured")
	}

	payload := map[string]any{
		"inputs": map[string]any{
			"source_sentence": target.Text,
			"sentences":       []string{resumeText},
		},
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetAuthToken(s.apiKey).
		SetBody(payload).
		Post(s.url)
	if err != nil {
		s.logger.Error("inference request failed", zap.String("url", s.url), zap.Error(err))
		return scoreFailed("inference request failed: %v", err)
	}

	if resp.StatusCode() != http.StatusOK {
		s.logger.Error("inference api error",
			zap.Int("status", resp.StatusCode()),
			zap.String("body", logger.ClipBody(resp.String(), maxLoggedBody)),
		)
		return scoreFailed("inference api returned status %d", resp.StatusCode())
	}

	body := resp.Body()
	first := gjson.GetBytes(body, "0")
	if !gjson.ValidBytes(body) || first.Type != gjson.Number {
		s.logger.Error("unexpected inference response",
			zap.String("body", logger.ClipBody(resp.String(), maxLoggedBody)))
		return scoreFailed("unexpected inference response")
	}

	return scored(first.Float())
}
