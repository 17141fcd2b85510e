package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/fadilmartias/resume-matcher/internal/model"
	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// openTestDB connects to TEST_DATABASE_DSN, a throwaway postgres with the
// pgvector extension available. Tests are skipped when it is unset.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	t.Cleanup(func() {
		db.Exec("TRUNCATE candidates, job_descriptions")
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func createJob(t *testing.T, repo *JobDescriptionRepository, title string) *model.JobDescription {
	t.Helper()
	job := &model.JobDescription{ID: uuid.New(), Title: title, Description: title + " description"}
	require.NoError(t, repo.Create(context.Background(), job))
	return job
}

func TestJobDescriptionRepository(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	repo := NewJobDescriptionRepository(db)

	embedding := pgvector.NewVector(make([]float32, model.EmbeddingDimensions))
	job := &model.JobDescription{ID: uuid.New(), Title: "Platform", Description: "Go", Embedding: &embedding}
	require.NoError(t, repo.Create(ctx, job))
	createJob(t, repo, "Analytics")

	found, err := repo.FindByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, "Platform", found.Title)
	assert.Len(t, found.EmbeddingValues(), model.EmbeddingDimensions)

	jobs, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, "Analytics", jobs[0].Title)

	_, err = repo.FindByID(ctx, uuid.New())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCandidateRepositoryRanking(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	jobs := NewJobDescriptionRepository(db)
	candidates := NewCandidateRepository(db)

	job := createJob(t, jobs, "Backend")
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, pct := range []float64{40, 80, 80, 95.5} {
		require.NoError(t, candidates.Create(ctx, &model.Candidate{
			ID:              uuid.New(),
			Filename:        []string{"low", "tie-first", "tie-second", "top"}[i] + ".pdf",
			MatchPercentage: pct,
			Skills:          model.SkillsNotAvailable,
			ScoreStatus:     model.ScoreStatusScored,
			Timestamp:       base.Add(time.Duration(i) * time.Minute),
			JobID:           job.ID,
		}))
	}

	ranked, err := candidates.ListByJob(ctx, job.ID, 0, 10)
	require.NoError(t, err)
	var order []string
	for _, c := range ranked {
		order = append(order, c.Filename)
	}
	assert.Equal(t, []string{"top.pdf", "tie-first.pdf", "tie-second.pdf", "low.pdf"}, order)

	count, err := candidates.CountByJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)

	page, err := candidates.ListByJob(ctx, job.ID, 3, 10)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "low.pdf", page[0].Filename)
}

func TestCandidateRequiresExistingJob(t *testing.T) {
	db := openTestDB(t)
	candidates := NewCandidateRepository(db)

	err := candidates.Create(context.Background(), &model.Candidate{
		ID:          uuid.New(),
		Filename:    "orphan.pdf",
		ScoreStatus: model.ScoreStatusScored,
		Timestamp:   time.Now(),
		JobID:       uuid.New(),
	})
	require.Error(t, err)
}

func TestDeleteJobCascades(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	jobs := NewJobDescriptionRepository(db)
	candidates := NewCandidateRepository(db)

	doomed := createJob(t, jobs, "Doomed")
	kept := createJob(t, jobs, "Kept")
	for _, jobID := range []uuid.UUID{doomed.ID, doomed.ID, kept.ID} {
		require.NoError(t, candidates.Create(ctx, &model.Candidate{
			ID: uuid.New(), Filename: "cv.pdf", ScoreStatus: model.ScoreStatusScored, Timestamp: time.Now(), JobID: jobID,
		}))
	}

	require.NoError(t, jobs.Delete(ctx, doomed.ID))
	require.NoError(t, jobs.Delete(ctx, doomed.ID))

	_, err := jobs.FindByID(ctx, doomed.ID)
	require.ErrorIs(t, err, ErrNotFound)

	n, err := candidates.CountByJob(ctx, doomed.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = candidates.CountByJob(ctx, kept.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
