package memory

import (
	"context"
	"errors"
	"testing"

	"exam-portal/internal/domain"
)

func TestTestRepositoryFiltersByBranch(t *testing.T) {
	ctx := context.Background()
	repo := NewTestRepository(sampleTest("t1", domain.BranchCE), sampleTest("t2", domain.BranchIT), sampleTest("t3", domain.BranchCE))

	all, err := repo.ListTests(ctx, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 || all[0].ID != "t1" || all[2].ID != "t3" {
		t.Fatalf("expected creation order t1,t2,t3, got %+v", all)
	}

	ce, _ := repo.ListTests(ctx, domain.BranchCE)
	if len(ce) != 2 {
		t.Fatalf("expected 2 CE tests, got %d", len(ce))
	}
}

func TestTestRepositoryGetAndTitles(t *testing.T) {
	ctx := context.Background()
	repo := NewTestRepository(sampleTest("t1", domain.BranchCE))

	if _, err := repo.GetTest(ctx, "missing"); !errors.Is(err, domain.ErrTestNotFound) {
		t.Fatalf("expected ErrTestNotFound, got %v", err)
	}

	got, err := repo.GetTest(ctx, "t1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	got.Questions[0].Options[0].IsCorrect = false
	again, _ := repo.GetTest(ctx, "t1")
	if !again.Questions[0].Options[0].IsCorrect {
		t.Fatalf("stored definition was mutated through a returned copy")
	}

	titles, err := repo.TestTitles(ctx, []string{"t1", "missing"})
	if err != nil {
		t.Fatalf("titles: %v", err)
	}
	if len(titles) != 1 || titles["t1"] != "Test t1" {
		t.Fatalf("unexpected titles %v", titles)
	}
}

func TestTestRepositoryRejectsDuplicateID(t *testing.T) {
	repo := NewTestRepository(sampleTest("t1", domain.BranchCE))
	if err := repo.CreateTest(context.Background(), sampleTest("t1", domain.BranchIT)); err == nil {
		t.Fatalf("expected duplicate id error")
	}
}

func sampleTest(id string, branch domain.Branch) domain.TestDefinition {
	return domain.TestDefinition{
		ID:       id,
		Title:    "Test " + id,
		Branch:   branch,
		Duration: 30,
		Questions: []domain.Question{
			{
				ID:      "q1",
				Text:    "What is 2 + 2?",
				Subject: "Maths",
				Marks:   1,
				Options: []domain.Option{
					{ID: "o1", Text: "4", IsCorrect: true},
					{ID: "o2", Text: "5"},
				},
			},
		},
	}
}
