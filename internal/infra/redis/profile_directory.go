package redis

import (
	"context"
	"fmt"

	"exam-portal/internal/domain"
	"github.com/redis/go-redis/v9"
)

// ProfileDirectory reads learner profiles stored as HSET exam:learner:{id} name {name} branch {branch}.
type ProfileDirectory struct {
	client *redis.Client
}

func NewProfileDirectory(client *redis.Client) *ProfileDirectory {
	return &ProfileDirectory{client: client}
}

func (d *ProfileDirectory) Profiles(ctx context.Context, learnerIDs []string) (map[string]domain.LearnerProfile, error) {
	profiles := make(map[string]domain.LearnerProfile, len(learnerIDs))
	if len(learnerIDs) == 0 {
		return profiles, nil
	}

	cmds := make([]*redis.MapStringStringCmd, len(learnerIDs))
	_, err := d.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, id := range learnerIDs {
			cmds[i] = pipe.HGetAll(ctx, d.key(id))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load learners: %w", err)
	}
	for i, cmd := range cmds {
		fields := cmd.Val()
		if len(fields) == 0 {
			continue
		}
		profiles[learnerIDs[i]] = domain.LearnerProfile{
			ID:     learnerIDs[i],
			Name:   fields["name"],
			Branch: domain.Branch(fields["branch"]),
		}
	}
	return profiles, nil
}

// PutProfile upserts a learner; used by the seed command and tests.
func (d *ProfileDirectory) PutProfile(ctx context.Context, p domain.LearnerProfile) error {
	if err := d.client.HSet(ctx, d.key(p.ID), "name", p.Name, "branch", string(p.Branch)).Err(); err != nil {
		return fmt.Errorf("store learner: %w", err)
	}
	return nil
}

func (d *ProfileDirectory) key(learnerID string) string {
	return "exam:learner:" + learnerID
}
