package usecase

import (
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/fadilmartias/resume-matcher/internal/model"
	"github.com/fadilmartias/resume-matcher/internal/repository"
	"github.com/fadilmartias/resume-matcher/internal/service"
	"github.com/google/uuid"
)

type memStore struct {
	mu         sync.Mutex
	jobs       map[uuid.UUID]model.JobDescription
	candidates map[uuid.UUID]model.Candidate
	failInsert error
}

func newMemStore() *memStore {
	return &memStore{
		jobs:       map[uuid.UUID]model.JobDescription{},
		candidates: map[uuid.UUID]model.Candidate{},
	}
}

type memJobStore struct{ *memStore }

type memCandidateStore struct{ *memStore }

func (s memJobStore) Create(_ context.Context, job *model.JobDescription) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	s.jobs[job.ID] = *job
	return nil
}

func (s memJobStore) FindByID(_ context.Context, id uuid.UUID) (*model.JobDescription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &job, nil
}

func (s memJobStore) List(context.Context) ([]model.JobDescription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	jobs := make([]model.JobDescription, 0, len(s.jobs))
	for _, j := range s.jobs {
		jobs = append(jobs, j)
	}
	sort.Slice(jobs, func(i, k int) bool { return jobs[i].Title < jobs[k].Title })
	return jobs, nil
}

func (s memJobStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.jobs[id]; !ok {
		return repository.ErrNotFound
	}
	for cid, c := range s.candidates {
		if c.JobID == id {
			delete(s.candidates, cid)
		}
	}
	delete(s.jobs, id)
	return nil
}

func (s memCandidateStore) Create(_ context.Context, c *model.Candidate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failInsert != nil {
		return s.failInsert
	}
	if _, ok := s.jobs[c.JobID]; !ok {
		return errors.New("foreign key violation")
	}
	s.candidates[c.ID] = *c
	return nil
}

func (s memCandidateStore) FindByID(_ context.Context, id uuid.UUID) (*model.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.candidates[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (s memCandidateStore) all(jobID uuid.UUID) []model.Candidate {
	var out []model.Candidate
	for _, c := range s.candidates {
		if c.JobID == jobID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, k int) bool {
		if out[i].MatchPercentage != out[k].MatchPercentage {
			return out[i].MatchPercentage > out[k].MatchPercentage
		}
		return out[i].Timestamp.Before(out[k].Timestamp)
	})
	return out
}

func (s memCandidateStore) ListByJob(_ context.Context, jobID uuid.UUID, offset, limit int) ([]model.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := s.all(jobID)
	if offset >= len(all) {
		return []model.Candidate{}, nil
	}
	return all[offset:min(offset+limit, len(all))], nil
}

func (s memCandidateStore) CountByJob(_ context.Context, jobID uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.all(jobID))), nil
}

func (s memCandidateStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.candidates[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.candidates, id)
	return nil
}

// keywordScorer scores by the share of job keywords found in the resume.
type keywordScorer struct {
	fail bool
}

func (keywordScorer) Name() string { return "keyword" }

func (s keywordScorer) Score(_ context.Context, resumeText string, target service.ScoringTarget) service.ScoreResult {
	if s.fail {
		return service.ScoreResult{Status: model.ScoreStatusFailed, Reason: "inference credential not configured"}
	}
	words := strings.Fields(strings.ToLower(target.Text))
	if len(words) == 0 {
		return service.ScoreResult{Status: model.ScoreStatusScored}
	}
	resume := strings.ToLower(resumeText)
	hits := 0
	for _, w := range words {
		if strings.Contains(resume, w) {
			hits++
		}
	}
	return service.ScoreResult{Similarity: float64(hits) / float64(len(words)), Status: model.ScoreStatusScored}
}

// embeddingScorer records how often the job text is embedded. Vectors have
// dims entries (3 when unset).
type embeddingScorer struct {
	keywordScorer
	mu       sync.Mutex
	embedded []string
	err      error
	dims     int
}

func (s *embeddingScorer) EmbedText(_ context.Context, text string) ([]float32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.embedded = append(s.embedded, text)
	if s.err != nil {
		return nil, s.err
	}
	if s.dims == 0 {
		return []float32{1, 0, 0}, nil
	}
	vec := make([]float32, s.dims)
	vec[0] = 1
	return vec, nil
}

type fakeArchive struct {
	enabled bool
	err     error
	objects map[string][]byte
}

func (a *fakeArchive) Enabled() bool { return a.enabled }

func (a *fakeArchive) Store(_ context.Context, jobID uuid.UUID, filename, _ string) (string, error) {
	if a.err != nil {
		return "", a.err
	}
	key := "resumes/" + jobID.String() + "/" + filename
	if a.objects == nil {
		a.objects = map[string][]byte{}
	}
	a.objects[key] = []byte("stored " + filename)
	return key, nil
}

func (a *fakeArchive) Fetch(_ context.Context, key string) ([]byte, string, error) {
	data, ok := a.objects[key]
	if !ok {
		return nil, "", errors.New("no such key")
	}
	return data, "application/pdf", nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []uuid.UUID
	err    error
}

func (p *fakePublisher) PublishCandidateScored(_ context.Context, c *model.Candidate) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, c.ID)
	return nil
}

func (p *fakePublisher) Close() error { return nil }

func textUpload(name, content string) Upload {
	return Upload{
		Filename: name,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(content)), nil
		},
	}
}
