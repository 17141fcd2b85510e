package repository

import (
	"context"
	"errors"

	"github.com/fadilmartias/resume-matcher/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("record not found")

type JobDescriptionRepository struct {
	db *gorm.DB
}

func NewJobDescriptionRepository(db *gorm.DB) *JobDescriptionRepository {
	return &JobDescriptionRepository{db}
}

func (r *JobDescriptionRepository) Create(ctx context.Context, job *model.JobDescription) error {
	return r.db.WithContext(ctx).Create(job).Error
}

func (r *JobDescriptionRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.JobDescription, error) {
	var j model.JobDescription
	err := r.db.WithContext(ctx).First(&j, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &j, nil
}

func (r *JobDescriptionRepository) List(ctx context.Context) ([]model.JobDescription, error) {
	var jobs []model.JobDescription
	err := r.db.WithContext(ctx).Order("title").Order("created_at").Find(&jobs).Error
	return jobs, err
}

// Delete removes the job and its candidates in one transaction. Deleting a
// missing job is not an error.
func (r *JobDescriptionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("job_id = ?", id).Delete(&model.Candidate{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.JobDescription{}, "id = ?", id).Error
	})
}
