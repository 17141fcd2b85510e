package model

import (
	"time"

	"github.com/google/uuid"
)

// SkillsNotAvailable is written when tagging is disabled or nothing matched.
const SkillsNotAvailable = "N/A"

const (
	ScoreStatusScored = "scored"
	ScoreStatusFailed = "scoring_failed"
)

type Candidate struct {
	ID              uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Filename        string    `gorm:"type:text;not null" json:"filename"`
	MatchPercentage float64   `gorm:"type:double precision;not null;index" json:"match_percentage"`
	Skills          string    `gorm:"type:text" json:"skills"`
	ScoreStatus     string    `gorm:"type:varchar(32);not null;default:scored" json:"score_status"`
	ScoreError      string    `gorm:"type:text" json:"score_error,omitempty"`
	ArchiveKey      string    `gorm:"type:text" json:"-"`
	Timestamp       time.Time `gorm:"not null" json:"timestamp"`
	JobID           uuid.UUID `gorm:"type:uuid;not null;index" json:"job_id"`
}

func (c *Candidate) TableName() string {
	return "candidates"
}
