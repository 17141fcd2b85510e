package dto

import (
	"time"

	"github.com/google/uuid"
)

type CandidateDTO struct {
	ID              uuid.UUID `json:"id"`
	Filename        string    `json:"filename"`
	MatchPercentage float64   `json:"match_percentage"`
	Skills          string    `json:"skills"`
	ScoreStatus     string    `json:"score_status"` // "scored" or "scoring_failed"
	ScoreError      string    `json:"score_error,omitempty"`
	Archived        bool      `json:"archived"`
	Timestamp       time.Time `json:"timestamp"`
	JobID           uuid.UUID `json:"job_id"`
}

type SkippedDocumentDTO struct {
	Filename string `json:"filename"`
	Reason   string `json:"reason"`
}

type MatchSummaryDTO struct {
	Processed int                  `json:"processed"`
	Submitted int                  `json:"submitted"`
	Skipped   []SkippedDocumentDTO `json:"skipped"`
}
