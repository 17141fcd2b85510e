package usecase

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/fadilmartias/resume-matcher/internal/model"
	"github.com/fadilmartias/resume-matcher/internal/repository"
	"github.com/fadilmartias/resume-matcher/internal/response"
	"github.com/fadilmartias/resume-matcher/internal/service"
	"github.com/fadilmartias/resume-matcher/internal/util"
	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"go.uber.org/zap"
)

const (
	DefaultRankingPageSize = 100
	MaxRankingPageSize     = 500
)

type JobUsecaseInterface interface {
	Create(ctx context.Context, title, description string) (*model.JobDescription, error)
	List(ctx context.Context) ([]model.JobDescription, error)
	Get(ctx context.Context, jobID string) (*model.JobDescription, error)
	Rankings(ctx context.Context, jobID string, page, pageSize int) (*Rankings, error)
	DeleteJob(ctx context.Context, jobID string) error
	DeleteCandidate(ctx context.Context, candidateID string) (redirectTo string, err error)
	CandidateResume(ctx context.Context, candidateID string) (*ResumeFile, error)
}

type Rankings struct {
	Job        *model.JobDescription
	Candidates []model.Candidate
	Pagination *response.Pagination
}

type ResumeFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

type JobUsecase struct {
	jobs       JobStore
	candidates CandidateStore
	embedder   service.TextEmbedder
	archive    service.ResumeArchiveInterface
	logger     *zap.Logger
	now        func() time.Time
}

// NewJobUsecase builds the job description workflows. embedder may be nil,
// in which case descriptions are stored without a precomputed embedding.
func NewJobUsecase(jobs JobStore, candidates CandidateStore, embedder service.TextEmbedder, archive service.ResumeArchiveInterface, logger *zap.Logger) *JobUsecase {
	if archive == nil {
		archive = service.NopResumeArchive{}
	}
	return &JobUsecase{
		jobs:       jobs,
		candidates: candidates,
		embedder:   embedder,
		archive:    archive,
		logger:     logger,
		now:        time.Now,
	}
}

func (uc *JobUsecase) Create(ctx context.Context, title, description string) (*model.JobDescription, error) {
	title = strings.TrimSpace(title)
	fieldErrors := map[string]string{}
	if title == "" {
		fieldErrors["title"] = "title is required"
	}
	if strings.TrimSpace(description) == "" {
		fieldErrors["description"] = "description is required"
	}
	if len(fieldErrors) > 0 {
		return nil, util.NewFormError("title and description are required", fieldErrors)
	}

	now := uc.now().UTC()
	job := &model.JobDescription{
		ID:          uuid.New(),
		Title:       title,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if uc.embedder != nil {
		job.Embedding = uc.embedDescription(ctx, title, description)
	}

	if err := uc.jobs.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("create job description: %w", err)
	}
	uc.logger.Info("job description created", zap.String("job_id", job.ID.String()), zap.String("title", title))
	return job, nil
}

// embedDescription returns nil when the vector cannot be stored; scoring then
// embeds the description on demand.
func (uc *JobUsecase) embedDescription(ctx context.Context, title, description string) *pgvector.Vector {
	vec, err := uc.embedder.EmbedText(ctx, description)
	if err != nil {
		uc.logger.Warn("job description stored without embedding", zap.String("title", title), zap.Error(err))
		return nil
	}
	if len(vec) != model.EmbeddingDimensions {
		uc.logger.Warn("job description stored without embedding, dimension does not fit the column",
			zap.String("title", title),
			zap.Int("dimensions", len(vec)),
			zap.Int("column_dimensions", model.EmbeddingDimensions),
		)
		return nil
	}
	embedding := pgvector.NewVector(vec)
	return &embedding
}

func (uc *JobUsecase) List(ctx context.Context) ([]model.JobDescription, error) {
	jobs, err := uc.jobs.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list job descriptions: %w", err)
	}
	return jobs, nil
}

func (uc *JobUsecase) Get(ctx context.Context, jobID string) (*model.JobDescription, error) {
	return findJob(ctx, uc.jobs, jobID)
}

// Rankings returns the job's candidates best match first. page is 1-based.
func (uc *JobUsecase) Rankings(ctx context.Context, jobID string, page, pageSize int) (*Rankings, error) {
	job, err := findJob(ctx, uc.jobs, jobID)
	if err != nil {
		return nil, err
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultRankingPageSize
	}
	if pageSize > MaxRankingPageSize {
		pageSize = MaxRankingPageSize
	}

	total, err := uc.candidates.CountByJob(ctx, job.ID)
	if err != nil {
		return nil, fmt.Errorf("count candidates: %w", err)
	}
	candidates, err := uc.candidates.ListByJob(ctx, job.ID, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}

	return &Rankings{
		Job:        job,
		Candidates: candidates,
		Pagination: response.NewPagination(page, pageSize, total),
	}, nil
}

// DeleteJob removes the job and all of its candidates. Unknown ids are a no-op.
func (uc *JobUsecase) DeleteJob(ctx context.Context, jobID string) error {
	id, err := uuid.Parse(jobID)
	if err != nil {
		return nil
	}
	if err := uc.jobs.Delete(ctx, id); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("delete job description: %w", err)
	}
	return nil
}

// DeleteCandidate removes one candidate and returns where the caller should
// go next: the owning job's rankings, or the home page when the candidate
// does not exist.
func (uc *JobUsecase) DeleteCandidate(ctx context.Context, candidateID string) (string, error) {
	id, err := uuid.Parse(candidateID)
	if err != nil {
		return "/", nil
	}

	candidate, err := uc.candidates.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return "/", nil
	}
	if err != nil {
		return "", fmt.Errorf("find candidate: %w", err)
	}

	if err := uc.candidates.Delete(ctx, candidate.ID); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return "", fmt.Errorf("delete candidate: %w", err)
	}

	if _, err := uc.jobs.FindByID(ctx, candidate.JobID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "/", nil
		}
		return "", fmt.Errorf("find job description: %w", err)
	}
	return "/rankings/" + candidate.JobID.String(), nil
}

func (uc *JobUsecase) CandidateResume(ctx context.Context, candidateID string) (*ResumeFile, error) {
	id, err := uuid.Parse(candidateID)
	if err != nil {
		return nil, ErrCandidateNotFound
	}

	candidate, err := uc.candidates.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrCandidateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find candidate: %w", err)
	}
	if candidate.ArchiveKey == "" || !uc.archive.Enabled() {
		return nil, ErrResumeNotArchived
	}

	data, contentType, err := uc.archive.Fetch(ctx, candidate.ArchiveKey)
	if err != nil {
		return nil, fmt.Errorf("fetch archived resume: %w", err)
	}
	return &ResumeFile{
		Filename:    path.Base(candidate.Filename),
		ContentType: contentType,
		Data:        data,
	}, nil
}
