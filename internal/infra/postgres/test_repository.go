package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"exam-portal/internal/domain"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// TestRepository stores test definitions with the question bank as JSONB.
type TestRepository struct {
	pool *pgxpool.Pool
}

func NewTestRepository(pool *pgxpool.Pool) *TestRepository {
	return &TestRepository{pool: pool}
}

const testColumns = `id, title, branch, duration, questions, created_by, created_at`

func (r *TestRepository) CreateTest(ctx context.Context, test domain.TestDefinition) error {
	questions, err := json.Marshal(test.Questions)
	if err != nil {
		return fmt.Errorf("marshal questions: %w", err)
	}
	_, err = r.pool.Exec(ctx,
		`INSERT INTO tests (`+testColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		test.ID, test.Title, string(test.Branch), test.Duration, questions, test.CreatedBy, test.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert test: %w", err)
	}
	return nil
}

func (r *TestRepository) ListTests(ctx context.Context, branch domain.Branch) ([]domain.TestDefinition, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+testColumns+` FROM tests WHERE ($1 = '' OR branch = $1) ORDER BY seq`,
		string(branch),
	)
	if err != nil {
		return nil, fmt.Errorf("query tests: %w", err)
	}
	defer rows.Close()

	tests := make([]domain.TestDefinition, 0)
	for rows.Next() {
		test, err := scanTest(rows)
		if err != nil {
			return nil, err
		}
		tests = append(tests, test)
	}
	return tests, rows.Err()
}

func (r *TestRepository) GetTest(ctx context.Context, testID string) (domain.TestDefinition, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+testColumns+` FROM tests WHERE id = $1`, testID)
	test, err := scanTest(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.TestDefinition{}, domain.ErrTestNotFound
	}
	return test, err
}

func (r *TestRepository) TestTitles(ctx context.Context, testIDs []string) (map[string]string, error) {
	titles := make(map[string]string, len(testIDs))
	if len(testIDs) == 0 {
		return titles, nil
	}
	rows, err := r.pool.Query(ctx, `SELECT id, title FROM tests WHERE id = ANY($1)`, testIDs)
	if err != nil {
		return nil, fmt.Errorf("query test titles: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id, title string
		if err := rows.Scan(&id, &title); err != nil {
			return nil, fmt.Errorf("scan test title: %w", err)
		}
		titles[id] = title
	}
	return titles, rows.Err()
}

func scanTest(row pgx.Row) (domain.TestDefinition, error) {
	var (
		test   domain.TestDefinition
		branch string
		raw    []byte
	)
	if err := row.Scan(&test.ID, &test.Title, &branch, &test.Duration, &raw, &test.CreatedBy, &test.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.TestDefinition{}, err
		}
		return domain.TestDefinition{}, fmt.Errorf("scan test: %w", err)
	}
	test.Branch = domain.Branch(branch)
	if err := json.Unmarshal(raw, &test.Questions); err != nil {
		return domain.TestDefinition{}, fmt.Errorf("unmarshal questions: %w", err)
	}
	return test, nil
}
