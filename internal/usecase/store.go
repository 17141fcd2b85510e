package usecase

import (
	"context"
	"errors"

	"github.com/fadilmartias/resume-matcher/internal/model"
	"github.com/fadilmartias/resume-matcher/internal/repository"
	"github.com/google/uuid"
)

var (
	ErrJobNotFound       = errors.New("job description not found")
	ErrCandidateNotFound = errors.New("candidate not found")
	ErrResumeNotArchived = errors.New("resume was not archived")
	ErrNoDocuments       = errors.New("no resume file uploaded")
)

// JobStore is satisfied by repository.JobDescriptionRepository. FindByID
// reports a missing row as repository.ErrNotFound.
type JobStore interface {
	Create(ctx context.Context, job *model.JobDescription) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.JobDescription, error)
	List(ctx context.Context) ([]model.JobDescription, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CandidateStore is satisfied by repository.CandidateRepository.
type CandidateStore interface {
	Create(ctx context.Context, candidate *model.Candidate) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Candidate, error)
	ListByJob(ctx context.Context, jobID uuid.UUID, offset, limit int) ([]model.Candidate, error)
	CountByJob(ctx context.Context, jobID uuid.UUID) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// findJob treats a malformed id the same as an unknown one.
func findJob(ctx context.Context, jobs JobStore, rawID string) (*model.JobDescription, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, ErrJobNotFound
	}
	job, err := jobs.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrJobNotFound
	}
	if err != nil {
		return nil, err
	}
	return job, nil
}
