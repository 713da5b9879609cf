package memory

import (
	"context"
	"fmt"
	"sync"

	"exam-portal/internal/domain"
)

// TestRepository is an in-memory implementation of app.TestRepository.
type TestRepository struct {
	mu    sync.RWMutex
	order []string
	tests map[string]domain.TestDefinition
}

func NewTestRepository(seed ...domain.TestDefinition) *TestRepository {
	r := &TestRepository{tests: make(map[string]domain.TestDefinition)}
	for _, t := range seed {
		_ = r.CreateTest(context.Background(), t)
	}
	return r
}

func (r *TestRepository) CreateTest(_ context.Context, test domain.TestDefinition) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tests[test.ID]; ok {
		return fmt.Errorf("test %s already exists", test.ID)
	}
	r.tests[test.ID] = cloneTest(test)
	r.order = append(r.order, test.ID)
	return nil
}

func (r *TestRepository) ListTests(_ context.Context, branch domain.Branch) ([]domain.TestDefinition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tests := make([]domain.TestDefinition, 0, len(r.order))
	for _, id := range r.order {
		t := r.tests[id]
		if branch != "" && t.Branch != branch {
			continue
		}
		tests = append(tests, cloneTest(t))
	}
	return tests, nil
}

func (r *TestRepository) GetTest(_ context.Context, testID string) (domain.TestDefinition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tests[testID]
	if !ok {
		return domain.TestDefinition{}, domain.ErrTestNotFound
	}
	return cloneTest(t), nil
}

func (r *TestRepository) TestTitles(_ context.Context, testIDs []string) (map[string]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	titles := make(map[string]string, len(testIDs))
	for _, id := range testIDs {
		if t, ok := r.tests[id]; ok {
			titles[id] = t.Title
		}
	}
	return titles, nil
}

func cloneTest(t domain.TestDefinition) domain.TestDefinition {
	questions := make([]domain.Question, len(t.Questions))
	for i, q := range t.Questions {
		q.Options = append([]domain.Option(nil), q.Options...)
		questions[i] = q
	}
	t.Questions = questions
	return t
}
