package postgres

import (
	"context"
	"fmt"

	"exam-portal/internal/domain"
	"github.com/jackc/pgx/v4/pgxpool"
)

// ProfileDirectory reads learner profiles from the learners table maintained by the identity service.
type ProfileDirectory struct {
	pool *pgxpool.Pool
}

func NewProfileDirectory(pool *pgxpool.Pool) *ProfileDirectory {
	return &ProfileDirectory{pool: pool}
}

func (d *ProfileDirectory) Profiles(ctx context.Context, learnerIDs []string) (map[string]domain.LearnerProfile, error) {
	profiles := make(map[string]domain.LearnerProfile, len(learnerIDs))
	if len(learnerIDs) == 0 {
		return profiles, nil
	}
	rows, err := d.pool.Query(ctx, `SELECT id, name, branch FROM learners WHERE id = ANY($1)`, learnerIDs)
	if err != nil {
		return nil, fmt.Errorf("query learners: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var p domain.LearnerProfile
		var branch string
		if err := rows.Scan(&p.ID, &p.Name, &branch); err != nil {
			return nil, fmt.Errorf("scan learner: %w", err)
		}
		p.Branch = domain.Branch(branch)
		profiles[p.ID] = p
	}
	return profiles, rows.Err()
}

// PutProfile upserts a learner; used by the seed command and tests.
func (d *ProfileDirectory) PutProfile(ctx context.Context, p domain.LearnerProfile) error {
	_, err := d.pool.Exec(ctx,
		`INSERT INTO learners (id, name, branch) VALUES ($1, $2, $3)
		 ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, branch = EXCLUDED.branch`,
		p.ID, p.Name, string(p.Branch),
	)
	if err != nil {
		return fmt.Errorf("upsert learner: %w", err)
	}
	return nil
}
