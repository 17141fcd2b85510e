package dto

import (
	"time"

	"github.com/google/uuid"
)

type JobDescriptionDTO struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	HasEmbedding bool      `json:"has_embedding"`
	CreatedAt    time.Time `json:"created_at"`
}

type CreateJobDescriptionRequest struct {
	Title       string `json:"title" form:"title"`
	Description string `json:"description" form:"description"`
}

type RankingsDTO struct {
	Job        JobDescriptionDTO `json:"job"`
	Candidates []CandidateDTO    `json:"candidates"`
}
