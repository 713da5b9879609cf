package app

import (
	"context"
	"fmt"

	"exam-portal/internal/domain"
)

// ResultRepository persists graded results. Save appends; there is no uniqueness on (learner, test).
type ResultRepository interface {
	SaveResult(ctx context.Context, result domain.Result) error
	// ResultsByLearner and AllResults return results in creation order.
	ResultsByLearner(ctx context.Context, learnerID string) ([]domain.Result, error)
	AllResults(ctx context.Context) ([]domain.Result, error)
}

// ResultStore records immutable grading outcomes and joins them with test titles.
type ResultStore struct {
	results ResultRepository
	tests   TestRepository
}

func NewResultStore(results ResultRepository, tests TestRepository) *ResultStore {
	return &ResultStore{results: results, tests: tests}
}

func (s *ResultStore) Save(ctx context.Context, result domain.Result) error {
	if err := s.results.SaveResult(ctx, result); err != nil {
		return fmt.Errorf("save result: %w", err)
	}
	return nil
}

// FindByLearner returns every result of learnerID with its test title, resolved in one batch.
func (s *ResultStore) FindByLearner(ctx context.Context, learnerID string) ([]domain.ResultWithTitle, error) {
	results, err := s.results.ResultsByLearner(ctx, learnerID)
	if err != nil {
		return nil, fmt.Errorf("find results: %w", err)
	}
	if len(results) == 0 {
		return []domain.ResultWithTitle{}, nil
	}

	ids := make([]string, 0, len(results))
	seen := make(map[string]struct{}, len(results))
	for _, r := range results {
		if _, ok := seen[r.TestID]; ok {
			continue
		}
		seen[r.TestID] = struct{}{}
		ids = append(ids, r.TestID)
	}
	titles, err := s.tests.TestTitles(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve test titles: %w", err)
	}

	joined := make([]domain.ResultWithTitle, 0, len(results))
	for _, r := range results {
		joined = append(joined, domain.ResultWithTitle{Result: r, TestTitle: titles[r.TestID]})
	}
	return joined, nil
}

// FindAll returns every stored result.
func (s *ResultStore) FindAll(ctx context.Context) ([]domain.Result, error) {
	results, err := s.results.AllResults(ctx)
	if err != nil {
		return nil, fmt.Errorf("find all results: %w", err)
	}
	return results, nil
}
