package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"exam-portal/internal/domain"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// ResultRepository appends graded results; nothing is ever updated in place.
type ResultRepository struct {
	pool *pgxpool.Pool
}

func NewResultRepository(pool *pgxpool.Pool) *ResultRepository {
	return &ResultRepository{pool: pool}
}

const resultColumns = `id, learner_id, test_id, score, total_marks, time_taken, subject_analysis, created_at`

func (r *ResultRepository) SaveResult(ctx context.Context, result domain.Result) error {
	analysis, err := json.Marshal(result.SubjectWiseAnalysis)
	if err != nil {
		return fmt.Errorf("marshal analysis: %w", err)
	}
	_, err = r.pool.Exec(ctx,
		`INSERT INTO results (`+resultColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		result.ID, result.LearnerID, result.TestID, result.Score, result.TotalMarks, result.TimeTaken, analysis, result.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert result: %w", err)
	}
	return nil
}

func (r *ResultRepository) ResultsByLearner(ctx context.Context, learnerID string) ([]domain.Result, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+resultColumns+` FROM results WHERE learner_id = $1 ORDER BY seq`, learnerID)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	return collectResults(rows)
}

func (r *ResultRepository) AllResults(ctx context.Context) ([]domain.Result, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+resultColumns+` FROM results ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	return collectResults(rows)
}

func collectResults(rows pgx.Rows) ([]domain.Result, error) {
	defer rows.Close()
	results := make([]domain.Result, 0)
	for rows.Next() {
		var (
			res domain.Result
			raw []byte
		)
		if err := rows.Scan(&res.ID, &res.LearnerID, &res.TestID, &res.Score, &res.TotalMarks, &res.TimeTaken, &raw, &res.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		if err := json.Unmarshal(raw, &res.SubjectWiseAnalysis); err != nil {
			return nil, fmt.Errorf("unmarshal analysis: %w", err)
		}
		results = append(results, res)
	}
	return results, rows.Err()
}
