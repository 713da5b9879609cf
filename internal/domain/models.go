package domain

import "time"

// Branch is the engineering discipline a test or learner belongs to.
type Branch string

const (
	BranchCE    Branch = "CE"
	BranchIT    Branch = "IT"
	BranchME    Branch = "ME"
	BranchEE    Branch = "EE"
	BranchEC    Branch = "EC"
	BranchCivil Branch = "CIVIL"
)

// Branches lists every accepted branch in display order.
var Branches = []Branch{BranchCE, BranchIT, BranchME, BranchEE, BranchEC, BranchCivil}

// Valid reports whether b is one of Branches.
func (b Branch) Valid() bool {
	for _, known := range Branches {
		if b == known {
			return true
		}
	}
	return false
}

// Role is the caller's role as asserted by the identity provider.
type Role string

const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

// Caller is the authenticated identity attached to every request.
type Caller struct {
	UserID string
	Role   Role
}

// IsAdmin reports whether the caller may author tests.
func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdmin
}

// Option represents a possible answer for a question.
type Option struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
}

// Question models an MCQ question with exactly one correct option.
type Question struct {
	ID      string   `json:"id"`
	Text    string   `json:"text"`
	Subject string   `json:"subject"`
	Marks   int      `json:"marks"`
	Options []Option `json:"options"`
}

// TestDefinition is an administrator-authored mock test, answer key included.
type TestDefinition struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Branch    Branch     `json:"branch"`
	Duration  int        `json:"duration"` // minutes
	Questions []Question `json:"questions"`
	CreatedBy string     `json:"createdBy"`
	CreatedAt time.Time  `json:"createdAt"`
}

// PublicOption is an Option without the answer key.
type PublicOption struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// PublicQuestion is a Question whose options carry no answer key.
type PublicQuestion struct {
	ID      string         `json:"id"`
	Text    string         `json:"text"`
	Subject string         `json:"subject"`
	Marks   int            `json:"marks"`
	Options []PublicOption `json:"options"`
}

// PublicTest is the listing view of a TestDefinition.
type PublicTest struct {
	ID        string           `json:"id"`
	Title     string           `json:"title"`
	Branch    Branch           `json:"branch"`
	Duration  int              `json:"duration"`
	Questions []PublicQuestion `json:"questions"`
	CreatedBy string           `json:"createdBy"`
	CreatedAt time.Time        `json:"createdAt"`
}

// Redact drops the answer key.
func (t TestDefinition) Redact() PublicTest {
	questions := make([]PublicQuestion, 0, len(t.Questions))
	for _, q := range t.Questions {
		options := make([]PublicOption, 0, len(q.Options))
		for _, opt := range q.Options {
			options = append(options, PublicOption{ID: opt.ID, Text: opt.Text})
		}
		questions = append(questions, PublicQuestion{
			ID:      q.ID,
			Text:    q.Text,
			Subject: q.Subject,
			Marks:   q.Marks,
			Options: options,
		})
	}
	return PublicTest{
		ID:        t.ID,
		Title:     t.Title,
		Branch:    t.Branch,
		Duration:  t.Duration,
		Questions: questions,
		CreatedBy: t.CreatedBy,
		CreatedAt: t.CreatedAt,
	}
}

// NewOption is the authoring payload for an Option.
type NewOption struct {
	ID        string `json:"id,omitempty" yaml:"id"`
	Text      string `json:"text" yaml:"text" validate:"required"`
	IsCorrect bool   `json:"isCorrect" yaml:"isCorrect"`
}

// NewQuestion is the authoring payload for a Question. Marks defaults to 1 when zero.
type NewQuestion struct {
	ID      string      `json:"id,omitempty" yaml:"id"`
	Text    string      `json:"text" yaml:"text" validate:"required"`
	Subject string      `json:"subject" yaml:"subject" validate:"required"`
	Marks   int         `json:"marks" yaml:"marks" validate:"gte=0"`
	Options []NewOption `json:"options" yaml:"options" validate:"required,min=1,dive"`
}

// NewTest is the authoring payload for a TestDefinition.
type NewTest struct {
	Title     string        `json:"title" yaml:"title" validate:"required"`
	Branch    Branch        `json:"branch" yaml:"branch" validate:"required,branch"`
	Duration  int           `json:"duration" yaml:"duration" validate:"required,gt=0"`
	Questions []NewQuestion `json:"questions" yaml:"questions" validate:"required,min=1,dive"`
}

// Answer is one selected option in a submission.
type Answer struct {
	QuestionID string `json:"questionId" validate:"required"`
	OptionID   string `json:"optionId" validate:"required"`
}

// Submission is a learner's answer sheet for one test. Skipped questions are absent.
type Submission struct {
	LearnerID string   `json:"learnerId" validate:"required"`
	TestID    string   `json:"testId" validate:"required"`
	Answers   []Answer `json:"answers" validate:"dive"`
	TimeTaken int      `json:"timeTaken" validate:"gte=0"` // minutes
}

// SubjectStat is the per-subject tally inside a Result.
type SubjectStat struct {
	Subject   string `json:"subject"`
	Correct   int    `json:"correct"`
	Incorrect int    `json:"incorrect"`
	Score     int    `json:"score"`
}

// Result is the immutable outcome of grading one submission.
type Result struct {
	ID                  string        `json:"id"`
	LearnerID           string        `json:"learnerId"`
	TestID              string        `json:"testId"`
	Score               int           `json:"score"`
	TotalMarks          int           `json:"totalMarks"`
	TimeTaken           int           `json:"timeTaken"`
	SubjectWiseAnalysis []SubjectStat `json:"subjectWiseAnalysis"`
	CreatedAt           time.Time     `json:"createdAt"`
}

// ResultWithTitle is a Result joined with its test's title.
type ResultWithTitle struct {
	Result
	TestTitle string `json:"testTitle"`
}

// LearnerProfile is the identity collaborator's view of a learner.
type LearnerProfile struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Branch Branch `json:"branch"`
}

// LeaderboardEntry is one ranked learner.
type LeaderboardEntry struct {
	LearnerID         string  `json:"learnerId"`
	AverageScore      float64 `json:"averageScore"`
	AveragePercentage float64 `json:"averagePercentage"`
	TotalTests        int     `json:"totalTests"`
	Name              string  `json:"name"`
	Branch            Branch  `json:"branch"`
}
