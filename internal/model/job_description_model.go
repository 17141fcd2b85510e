package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

// EmbeddingDimensions matches the output size of gemini-embedding-001.
const EmbeddingDimensions = 3072

type JobDescription struct {
	ID          uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title       string           `gorm:"type:text;not null" json:"title"`
	Description string           `gorm:"type:text;not null" json:"description"`
	Embedding   *pgvector.Vector `gorm:"type:vector(3072)" json:"-"`
	Candidates  []Candidate      `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

func (j *JobDescription) TableName() string {
	return "job_descriptions"
}

// EmbeddingValues returns the stored embedding, or nil when none was computed.
func (j *JobDescription) EmbeddingValues() []float32 {
	if j.Embedding == nil {
		return nil
	}
	return j.Embedding.Slice()
}
