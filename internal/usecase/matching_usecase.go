package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/fadilmartias/resume-matcher/internal/model"
	"github.com/fadilmartias/resume-matcher/internal/service"
	"github.com/fadilmartias/resume-matcher/internal/util"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Upload is one file part of a /match request.
type Upload struct {
	Filename string
	Open     func() (io.ReadCloser, error)
}

type SkippedDocument struct {
	Filename string
	Reason   string
}

type MatchSummary struct {
	Processed  int
	Submitted  int
	Skipped    []SkippedDocument
	Candidates []model.Candidate
}

func (s *MatchSummary) Message() string {
	return fmt.Sprintf("Successfully processed %d of %d resumes.", s.Processed, s.Submitted)
}

type MatchingUsecaseInterface interface {
	MatchBatch(ctx context.Context, jobID string, uploads []Upload) (*MatchSummary, error)
}

type MatchingUsecase struct {
	jobs       JobStore
	candidates CandidateStore
	evaluator  *Evaluator
	archive    service.ResumeArchiveInterface
	events     service.EventPublisherInterface
	uploadDir  string
	logger     *zap.Logger
	now        func() time.Time
}

func NewMatchingUsecase(
	jobs JobStore,
	candidates CandidateStore,
	evaluator *Evaluator,
	archive service.ResumeArchiveInterface,
	events service.EventPublisherInterface,
	uploadDir string,
	logger *zap.Logger,
) *MatchingUsecase {
	if archive == nil {
		archive = service.NopResumeArchive{}
	}
	if events == nil {
		events = service.NopEventPublisher{}
	}
	return &MatchingUsecase{
		jobs:       jobs,
		candidates: candidates,
		evaluator:  evaluator,
		archive:    archive,
		events:     events,
		uploadDir:  uploadDir,
		logger:     logger,
		now:        time.Now,
	}
}

// MatchBatch scores every upload against the job and stores one candidate
// per readable document. Unreadable documents are skipped and reported in
// the summary. A storage failure aborts the batch; rows already written stay.
func (uc *MatchingUsecase) MatchBatch(ctx context.Context, jobID string, uploads []Upload) (*MatchSummary, error) {
	if !hasNamedUpload(uploads) {
		return nil, ErrNoDocuments
	}

	job, err := findJob(ctx, uc.jobs, jobID)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(uc.uploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	target := uc.evaluator.PrepareTarget(ctx, job.Description, job.EmbeddingValues())
	summary := &MatchSummary{
		Submitted:  len(uploads),
		Skipped:    []SkippedDocument{},
		Candidates: []model.Candidate{},
	}

	for _, upload := range uploads {
		if upload.Filename == "" {
			continue
		}

		candidate, skipReason, err := uc.processUpload(ctx, job, target, upload)
		if err != nil {
			return nil, err
		}
		if skipReason != "" {
			uc.logger.Warn("skipping resume",
				zap.String("filename", upload.Filename), zap.String("reason", skipReason))
			summary.Skipped = append(summary.Skipped, SkippedDocument{Filename: upload.Filename, Reason: skipReason})
			continue
		}

		summary.Processed++
		summary.Candidates = append(summary.Candidates, *candidate)
	}

	uc.logger.Info("match batch finished",
		zap.String("job_id", job.ID.String()),
		zap.String("scorer", uc.evaluator.ScorerName()),
		zap.Int("processed", summary.Processed),
		zap.Int("submitted", summary.Submitted),
	)
	return summary, nil
}

func (uc *MatchingUsecase) processUpload(ctx context.Context, job *model.JobDescription, target service.ScoringTarget, upload Upload) (*model.Candidate, string, error) {
	path, err := uc.saveTransient(upload)
	if err != nil {
		return nil, fmt.Sprintf("could not save upload: %v", err), nil
	}
	defer func() {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			uc.logger.Warn("failed to remove transient upload", zap.String("path", path), zap.Error(err))
		}
	}()

	evaluation, err := uc.evaluator.Evaluate(ctx, path, target)
	if err != nil {
		return nil, extractionFailureReason(err), nil
	}

	candidate := &model.Candidate{
		ID:              uuid.New(),
		Filename:        upload.Filename,
		MatchPercentage: evaluation.MatchPercentage,
		Skills:          evaluation.Skills,
		ScoreStatus:     evaluation.ScoreStatus,
		ScoreError:      evaluation.ScoreError,
		Timestamp:       uc.now().UTC(),
		JobID:           job.ID,
	}

	if uc.archive.Enabled() {
		key, err := uc.archive.Store(ctx, job.ID, upload.Filename, path)
		if err != nil {
			uc.logger.Warn("resume archive failed", zap.String("filename", upload.Filename), zap.Error(err))
		} else {
			candidate.ArchiveKey = key
		}
	}

	if err := uc.candidates.Create(ctx, candidate); err != nil {
		return nil, "", fmt.Errorf("insert candidate %q: %w", upload.Filename, err)
	}

	if err := uc.events.PublishCandidateScored(ctx, candidate); err != nil {
		uc.logger.Warn("publish candidate event failed", zap.String("candidate_id", candidate.ID.String()), zap.Error(err))
	}
	return candidate, "", nil
}

var safeExtension = regexp.MustCompile(`^\.[a-z0-9]{1,8}$`)

// saveTransient copies the upload under a generated name so client file
// names never reach the filesystem. Only the extension is preserved.
func (uc *MatchingUsecase) saveTransient(upload Upload) (path string, err error) {
	ext := strings.ToLower(filepath.Ext(upload.Filename))
	if !safeExtension.MatchString(ext) {
		ext = ""
	}

	src, err := upload.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	dst, err := os.CreateTemp(uc.uploadDir, "resume-*"+ext)
	if err != nil {
		return "", err
	}
	defer func() {
		if cerr := dst.Close(); cerr != nil && err == nil {
			err = cerr
		}
		if err != nil {
			os.Remove(dst.Name())
		}
	}()

	if _, err = io.Copy(dst, src); err != nil {
		return "", err
	}
	return dst.Name(), nil
}

// extractionFailureReason keeps transient paths out of client-facing reasons.
func extractionFailureReason(err error) string {
	for _, known := range []error{util.ErrUnsupportedFormat, util.ErrUnreadableDocument, util.ErrEmptyDocument} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	return "text extraction failed"
}

func hasNamedUpload(uploads []Upload) bool {
	for _, u := range uploads {
		if u.Filename != "" {
			return true
		}
	}
	return false
}
