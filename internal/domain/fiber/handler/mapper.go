package handler

import (
	"github.com/fadilmartias/resume-matcher/internal/dto"
	"github.com/fadilmartias/resume-matcher/internal/model"
	"github.com/fadilmartias/resume-matcher/internal/usecase"
)

func toJobDescriptionDTO(job *model.JobDescription) dto.JobDescriptionDTO {
	return dto.JobDescriptionDTO{
		ID:           job.ID,
		Title:        job.Title,
		Description:  job.Description,
		HasEmbedding: job.Embedding != nil,
		CreatedAt:    job.CreatedAt,
	}
}

func toCandidateDTO(c *model.Candidate) dto.CandidateDTO {
	return dto.CandidateDTO{
		ID:              c.ID,
		Filename:        c.Filename,
		MatchPercentage: c.MatchPercentage,
		Skills:          c.Skills,
		ScoreStatus:     c.ScoreStatus,
		ScoreError:      c.ScoreError,
		Archived:        c.ArchiveKey != "",
		Timestamp:       c.Timestamp,
		JobID:           c.JobID,
	}
}

func toMatchSummaryDTO(summary *usecase.MatchSummary) dto.MatchSummaryDTO {
	skipped := make([]dto.SkippedDocumentDTO, 0, len(summary.Skipped))
	for _, s := range summary.Skipped {
		skipped = append(skipped, dto.SkippedDocumentDTO{Filename: s.Filename, Reason: s.Reason})
	}
	return dto.MatchSummaryDTO{
		Processed: summary.Processed,
		Submitted: summary.Submitted,
		Skipped:   skipped,
	}
}
