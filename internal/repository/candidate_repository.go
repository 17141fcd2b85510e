package repository

import (
	"context"
	"errors"

	"github.com/fadilmartias/resume-matcher/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CandidateRepository struct {
	db *gorm.DB
}

func NewCandidateRepository(db *gorm.DB) *CandidateRepository {
	return &CandidateRepository{db}
}

func (r *CandidateRepository) Create(ctx context.Context, candidate *model.Candidate) error {
	return r.db.WithContext(ctx).Create(candidate).Error
}

func (r *CandidateRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Candidate, error) {
	var c model.Candidate
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListByJob returns one page of a job's candidates, best match first.
func (r *CandidateRepository) ListByJob(ctx context.Context, jobID uuid.UUID, offset, limit int) ([]model.Candidate, error) {
	var candidates []model.Candidate
	err := r.db.WithContext(ctx).
		Where("job_id = ?", jobID).
		Order("match_percentage DESC").
		Order(`"timestamp" ASC`).
		Offset(offset).
		Limit(limit).
		Find(&candidates).Error
	return candidates, err
}

func (r *CandidateRepository) CountByJob(ctx context.Context, jobID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Candidate{}).Where("job_id = ?", jobID).Count(&count).Error
	return count, err
}

func (r *CandidateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Candidate{}, "id = ?", id).Error
}
