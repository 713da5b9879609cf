package app_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"exam-portal/internal/app"
	"exam-portal/internal/domain"
	"exam-portal/internal/infra/memory"
)

func TestGradeSubjectBreakdown(t *testing.T) {
	tests := []struct {
		name     string
		answers  []domain.Answer
		score    int
		analysis []domain.SubjectStat
	}{
		{
			name:    "one right one wrong",
			answers: []domain.Answer{{QuestionID: "Q1", OptionID: "A"}, {QuestionID: "Q2", OptionID: "C"}},
			score:   2,
			analysis: []domain.SubjectStat{
				{Subject: "DS", Correct: 1, Incorrect: 0, Score: 2},
				{Subject: "OS", Correct: 0, Incorrect: 1, Score: 0},
			},
		},
		{
			name:    "empty answers",
			answers: nil,
			score:   0,
			analysis: []domain.SubjectStat{
				{Subject: "DS", Correct: 0, Incorrect: 1, Score: 0},
				{Subject: "OS", Correct: 0, Incorrect: 1, Score: 0},
			},
		},
		{
			name:    "all correct",
			answers: []domain.Answer{{QuestionID: "Q2", OptionID: "B"}, {QuestionID: "Q1", OptionID: "A"}},
			score:   5,
			analysis: []domain.SubjectStat{
				{Subject: "DS", Correct: 1, Incorrect: 0, Score: 2},
				{Subject: "OS", Correct: 1, Incorrect: 0, Score: 3},
			},
		},
		{
			name:    "first duplicate wins",
			answers: []domain.Answer{{QuestionID: "Q1", OptionID: "X"}, {QuestionID: "Q1", OptionID: "A"}},
			score:   0,
			analysis: []domain.SubjectStat{
				{Subject: "DS", Correct: 0, Incorrect: 1, Score: 0},
				{Subject: "OS", Correct: 0, Incorrect: 1, Score: 0},
			},
		},
		{
			name:    "unknown question ignored",
			answers: []domain.Answer{{QuestionID: "Q9", OptionID: "A"}, {QuestionID: "Q2", OptionID: "B"}},
			score:   3,
			analysis: []domain.SubjectStat{
				{Subject: "DS", Correct: 0, Incorrect: 1, Score: 0},
				{Subject: "OS", Correct: 1, Incorrect: 0, Score: 3},
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			score, total, analysis := app.Grade(twoSubjectTest(), tc.answers)
			if score != tc.score || total != 5 {
				t.Fatalf("expected score=%d total=5, got score=%d total=%d", tc.score, score, total)
			}
			if !reflect.DeepEqual(analysis, tc.analysis) {
				t.Fatalf("expected analysis %+v, got %+v", tc.analysis, analysis)
			}
		})
	}
}

func TestGradeBucketsFollowFirstAppearance(t *testing.T) {
	test := domain.TestDefinition{
		ID: "mixed",
		Questions: []domain.Question{
			question("q1", "OS", 1, "a"),
			question("q2", "DS", 1, "a"),
			question("q3", "OS", 2, "a"),
			question("q4", "Algo", 1, "a"),
			question("q5", "DS", 4, "a"),
		},
	}
	answers := []domain.Answer{{QuestionID: "q3", OptionID: "a"}, {QuestionID: "q5", OptionID: "b"}}

	score, total, analysis := app.Grade(test, answers)
	if score != 2 || total != 9 {
		t.Fatalf("expected score=2 total=9, got %d/%d", score, total)
	}
	subjects := []string{}
	answered := 0
	for _, s := range analysis {
		subjects = append(subjects, s.Subject)
		answered += s.Correct + s.Incorrect
	}
	if !reflect.DeepEqual(subjects, []string{"OS", "DS", "Algo"}) {
		t.Fatalf("expected first-appearance order, got %v", subjects)
	}
	if answered != len(test.Questions) {
		t.Fatalf("expected %d tallied questions, got %d", len(test.Questions), answered)
	}
}

func TestGradeSubmissionPersistsEachAttempt(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(twoSubjectTest())

	sub := domain.Submission{
		LearnerID: "u1",
		TestID:    "test-1",
		Answers:   []domain.Answer{{QuestionID: "Q1", OptionID: "A"}, {QuestionID: "Q2", OptionID: "C"}},
		TimeTaken: 12,
	}
	first, err := env.grader.GradeSubmission(ctx, sub)
	if err != nil {
		t.Fatalf("grade: %v", err)
	}
	if first.Score != 2 || first.TotalMarks != 5 || first.TimeTaken != 12 || first.LearnerID != "u1" {
		t.Fatalf("unexpected result %+v", first)
	}
	second, err := env.grader.GradeSubmission(ctx, sub)
	if err != nil {
		t.Fatalf("grade again: %v", err)
	}
	if first.ID == second.ID {
		t.Fatalf("expected distinct result ids")
	}

	mine, err := env.results.FindByLearner(ctx, "u1")
	if err != nil {
		t.Fatalf("find by learner: %v", err)
	}
	if len(mine) != 2 {
		t.Fatalf("expected 2 results, got %d", len(mine))
	}
	if mine[0].TestTitle != "Data structures and OS" {
		t.Fatalf("expected joined title, got %q", mine[0].TestTitle)
	}
	if env.listener.calls != 2 {
		t.Fatalf("expected listener notified twice, got %d", env.listener.calls)
	}
}

func TestGradeSubmissionUnknownTest(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(twoSubjectTest())

	_, err := env.grader.GradeSubmission(ctx, domain.Submission{LearnerID: "u1", TestID: "missing"})
	if !errors.Is(err, domain.ErrTestNotFound) {
		t.Fatalf("expected ErrTestNotFound, got %v", err)
	}
	all, _ := env.results.FindAll(ctx)
	if len(all) != 0 {
		t.Fatalf("expected no result written, got %d", len(all))
	}
	if env.listener.calls != 0 {
		t.Fatalf("listener must not fire on failure")
	}
}

func TestGradeSubmissionValidatesPayload(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(twoSubjectTest())

	cases := map[string]domain.Submission{
		"missing test id":  {LearnerID: "u1"},
		"missing learner":  {TestID: "test-1"},
		"negative time":    {LearnerID: "u1", TestID: "test-1", TimeTaken: -1},
		"answer no option": {LearnerID: "u1", TestID: "test-1", Answers: []domain.Answer{{QuestionID: "Q1"}}},
	}
	for name, sub := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := env.grader.GradeSubmission(ctx, sub)
			if !domain.IsValidation(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
	all, _ := env.results.FindAll(ctx)
	if len(all) != 0 {
		t.Fatalf("expected no result written, got %d", len(all))
	}
}

func TestGradeSubmissionListenerFailureDoesNotFail(t *testing.T) {
	ctx := context.Background()
	tests := memory.NewTestRepository(twoSubjectTest())
	store := app.NewResultStore(memory.NewResultRepository(), tests)
	grader := app.NewGrader(app.NewCatalog(tests), store, failingListener{})

	if _, err := grader.GradeSubmission(ctx, domain.Submission{LearnerID: "u1", TestID: "test-1"}); err != nil {
		t.Fatalf("expected listener failure to be swallowed, got %v", err)
	}
}

type testEnv struct {
	catalog  *app.Catalog
	results  *app.ResultStore
	grader   *app.Grader
	listener *countingListener
}

func newTestEnv(seed ...domain.TestDefinition) testEnv {
	tests := memory.NewTestRepository(seed...)
	catalog := app.NewCatalog(tests)
	store := app.NewResultStore(memory.NewResultRepository(), tests)
	listener := &countingListener{}
	return testEnv{
		catalog:  catalog,
		results:  store,
		grader:   app.NewGrader(catalog, store, listener),
		listener: listener,
	}
}

type countingListener struct {
	calls int
}

func (l *countingListener) ResultGraded(context.Context, domain.Result) error {
	l.calls++
	return nil
}

type failingListener struct{}

func (failingListener) ResultGraded(context.Context, domain.Result) error {
	return errors.New("broker down")
}

// twoSubjectTest: Q1 (DS, 2 marks, key A) and Q2 (OS, 3 marks, key B).
func twoSubjectTest() domain.TestDefinition {
	return domain.TestDefinition{
		ID:       "test-1",
		Title:    "Data structures and OS",
		Branch:   domain.BranchCE,
		Duration: 30,
		Questions: []domain.Question{
			{
				ID: "Q1", Text: "Stack order?", Subject: "DS", Marks: 2,
				Options: []domain.Option{{ID: "A", Text: "LIFO", IsCorrect: true}, {ID: "C", Text: "FIFO"}},
			},
			{
				ID: "Q2", Text: "Which is a scheduler?", Subject: "OS", Marks: 3,
				Options: []domain.Option{{ID: "C", Text: "TCP"}, {ID: "B", Text: "CFS", IsCorrect: true}},
			},
		},
	}
}

func question(id, subject string, marks int, correct string) domain.Question {
	return domain.Question{
		ID:      id,
		Text:    "question " + id,
		Subject: subject,
		Marks:   marks,
		Options: []domain.Option{
			{ID: "a", Text: "A", IsCorrect: correct == "a"},
			{ID: "b", Text: "B", IsCorrect: correct == "b"},
		},
	}
}
