package config

import (
	"strings"
	"sync"
	"time"
)

const (
	StrategyEmbedding = "embedding"
	StrategyRemote    = "remote"
)

type MatchingConfig struct {
	Strategy       string
	ScoringTimeout time.Duration
	SkillTagging   bool
	OCREnabled     bool
	// MatchRateLimit caps POST /match requests per client per minute.
	MatchRateLimit int
}

var (
	matchingConfig *MatchingConfig
	matchingOnce   sync.Once
)

func LoadMatchingConfig() *MatchingConfig {
	matchingOnce.Do(func() {
		matchingConfig = &MatchingConfig{
			Strategy:       strings.ToLower(strings.TrimSpace(getEnv("SCORING_STRATEGY", StrategyRemote))),
			ScoringTimeout: getEnvDuration("SCORING_TIMEOUT", 60*time.Second),
			SkillTagging:   getEnvBool("SKILL_TAGGING_ENABLED", true),
			OCREnabled:     getEnvBool("PDF_OCR_ENABLED", false),
			MatchRateLimit: getEnvInt("MATCH_RATE_LIMIT", 10),
		}
	})
	return matchingConfig
}
