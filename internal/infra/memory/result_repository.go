package memory

import (
	"context"
	"sync"

	"exam-portal/internal/domain"
)

// ResultRepository is an append-only in-memory implementation of app.ResultRepository.
type ResultRepository struct {
	mu      sync.RWMutex
	results []domain.Result
}

func NewResultRepository() *ResultRepository {
	return &ResultRepository{}
}

func (r *ResultRepository) SaveResult(_ context.Context, result domain.Result) error {
	result.SubjectWiseAnalysis = append([]domain.SubjectStat(nil), result.SubjectWiseAnalysis...)
	r.mu.Lock()
	r.results = append(r.results, result)
	r.mu.Unlock()
	return nil
}

func (r *ResultRepository) ResultsByLearner(_ context.Context, learnerID string) ([]domain.Result, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	results := make([]domain.Result, 0)
	for _, res := range r.results {
		if res.LearnerID == learnerID {
			results = append(results, res)
		}
	}
	return results, nil
}

func (r *ResultRepository) AllResults(_ context.Context) ([]domain.Result, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domain.Result(nil), r.results...), nil
}
