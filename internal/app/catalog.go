package app

import (
	"context"
	"fmt"
	"time"

	"exam-portal/internal/domain"
	"github.com/google/uuid"
)

// TestRepository abstracts where test definitions live (in-memory, Postgres, Redis).
type TestRepository interface {
	CreateTest(ctx context.Context, test domain.TestDefinition) error
	// ListTests returns definitions in creation order; an empty branch means all branches.
	ListTests(ctx context.Context, branch domain.Branch) ([]domain.TestDefinition, error)
	// GetTest returns domain.ErrTestNotFound when the id does not resolve.
	GetTest(ctx context.Context, testID string) (domain.TestDefinition, error)
	// TestTitles resolves many ids in one round trip; unknown ids are absent from the map.
	TestTitles(ctx context.Context, testIDs []string) (map[string]string, error)
}

// Catalog owns test definitions and guards the answer key.
type Catalog struct {
	tests TestRepository
	newID func() string
	now   func() time.Time
}

func NewCatalog(tests TestRepository) *Catalog {
	return &Catalog{tests: tests, newID: uuid.NewString, now: time.Now}
}

// CreateTest validates and stores a new definition authored by authorID.
func (c *Catalog) CreateTest(ctx context.Context, authorID string, in domain.NewTest) (domain.TestDefinition, error) {
	if err := validateStruct("invalid test definition", in); err != nil {
		return domain.TestDefinition{}, err
	}

	test := domain.TestDefinition{
		ID:        c.newID(),
		Title:     in.Title,
		Branch:    in.Branch,
		Duration:  in.Duration,
		Questions: make([]domain.Question, 0, len(in.Questions)),
		CreatedBy: authorID,
		CreatedAt: c.now().UTC(),
	}
	for _, nq := range in.Questions {
		q := domain.Question{
			ID:      nq.ID,
			Text:    nq.Text,
			Subject: nq.Subject,
			Marks:   nq.Marks,
			Options: make([]domain.Option, 0, len(nq.Options)),
		}
		if q.ID == "" {
			q.ID = c.newID()
		}
		if q.Marks == 0 {
			q.Marks = 1
		}
		for _, no := range nq.Options {
			opt := domain.Option{ID: no.ID, Text: no.Text, IsCorrect: no.IsCorrect}
			if opt.ID == "" {
				opt.ID = c.newID()
			}
			q.Options = append(q.Options, opt)
		}
		test.Questions = append(test.Questions, q)
	}

	if err := c.tests.CreateTest(ctx, test); err != nil {
		return domain.TestDefinition{}, fmt.Errorf("create test: %w", err)
	}
	return test, nil
}

// ListTests returns redacted definitions, optionally filtered by branch.
func (c *Catalog) ListTests(ctx context.Context, branch domain.Branch) ([]domain.PublicTest, error) {
	if branch != "" && !branch.Valid() {
		return nil, domain.NewValidationError("invalid branch filter", domain.FieldError{
			Field:   "branch",
			Message: "branch must be one of CE, IT, ME, EE, EC, CIVIL",
		})
	}
	tests, err := c.tests.ListTests(ctx, branch)
	if err != nil {
		return nil, fmt.Errorf("list tests: %w", err)
	}
	public := make([]domain.PublicTest, 0, len(tests))
	for _, t := range tests {
		public = append(public, t.Redact())
	}
	return public, nil
}

// TestForGrading returns the full definition, answer key included. Never expose it to callers.
func (c *Catalog) TestForGrading(ctx context.Context, testID string) (domain.TestDefinition, error) {
	test, err := c.tests.GetTest(ctx, testID)
	if err != nil {
		return domain.TestDefinition{}, err
	}
	return test, nil
}
