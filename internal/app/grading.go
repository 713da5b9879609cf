package app

import (
	"context"
	"log"
	"time"

	"exam-portal/internal/domain"
	"github.com/google/uuid"
)

// ResultListener is notified after a Result has been persisted. Errors are logged, never returned to the submitter.
type ResultListener interface {
	ResultGraded(ctx context.Context, result domain.Result) error
}

// Grader scores submissions against the catalog's answer key and records the outcome.
type Grader struct {
	catalog   *Catalog
	results   *ResultStore
	listeners []ResultListener
	newID     func() string
	now       func() time.Time
}

func NewGrader(catalog *Catalog, results *ResultStore, listeners ...ResultListener) *Grader {
	return &Grader{
		catalog:   catalog,
		results:   results,
		listeners: listeners,
		newID:     uuid.NewString,
		now:       time.Now,
	}
}

// GradeSubmission scores sub and persists a new Result. Nothing is written unless scoring succeeds.
func (g *Grader) GradeSubmission(ctx context.Context, sub domain.Submission) (domain.Result, error) {
	if err := validateStruct("invalid submission", sub); err != nil {
		return domain.Result{}, err
	}

	test, err := g.catalog.TestForGrading(ctx, sub.TestID)
	if err != nil {
		return domain.Result{}, err
	}

	score, total, analysis := Grade(test, sub.Answers)
	result := domain.Result{
		ID:                  g.newID(),
		LearnerID:           sub.LearnerID,
		TestID:              test.ID,
		Score:               score,
		TotalMarks:          total,
		TimeTaken:           sub.TimeTaken,
		SubjectWiseAnalysis: analysis,
		CreatedAt:           g.now().UTC(),
	}
	if err := g.results.Save(ctx, result); err != nil {
		return domain.Result{}, err
	}

	for _, l := range g.listeners {
		if err := l.ResultGraded(ctx, result); err != nil {
			log.Printf("result %s listener failed: %v", result.ID, err)
		}
	}
	return result, nil
}

// Grade compares answers to the answer key of test. For duplicate answers to one question the
// first in submission order counts; a skipped question counts as incorrect. Subject buckets
// appear in the order their subject first occurs in the question sequence.
func Grade(test domain.TestDefinition, answers []domain.Answer) (score, totalMarks int, analysis []domain.SubjectStat) {
	selected := make(map[string]string, len(answers))
	for _, a := range answers {
		if _, seen := selected[a.QuestionID]; !seen {
			selected[a.QuestionID] = a.OptionID
		}
	}

	analysis = make([]domain.SubjectStat, 0)
	bucket := make(map[string]int)
	for _, q := range test.Questions {
		idx, ok := bucket[q.Subject]
		if !ok {
			idx = len(analysis)
			bucket[q.Subject] = idx
			analysis = append(analysis, domain.SubjectStat{Subject: q.Subject})
		}

		totalMarks += q.Marks

		optionID, answered := selected[q.ID]
		correctID, hasKey := correctOption(q)
		if answered && hasKey && optionID == correctID {
			score += q.Marks
			analysis[idx].Correct++
			analysis[idx].Score += q.Marks
		} else {
			analysis[idx].Incorrect++
		}
	}
	return score, totalMarks, analysis
}

// correctOption returns the first option flagged correct.
func correctOption(q domain.Question) (string, bool) {
	for _, opt := range q.Options {
		if opt.IsCorrect {
			return opt.ID, true
		}
	}
	return "", false
}
