package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"exam-portal/internal/domain"
	"github.com/redis/go-redis/v9"
)

// ResultRepository appends results to two lists in one MULTI block:
//
//	RPUSH exam:results {json}
//	RPUSH exam:results:learner:{learnerID} {json}
type ResultRepository struct {
	client *redis.Client
}

func NewResultRepository(client *redis.Client) *ResultRepository {
	return &ResultRepository{client: client}
}

const resultsKey = "exam:results"

func (r *ResultRepository) SaveResult(ctx context.Context, result domain.Result) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, resultsKey, data)
		pipe.RPush(ctx, r.learnerKey(result.LearnerID), data)
		return nil
	})
	if err != nil {
		return fmt.Errorf("append result: %w", err)
	}
	return nil
}

func (r *ResultRepository) ResultsByLearner(ctx context.Context, learnerID string) ([]domain.Result, error) {
	return r.load(ctx, r.learnerKey(learnerID))
}

func (r *ResultRepository) AllResults(ctx context.Context) ([]domain.Result, error) {
	return r.load(ctx, resultsKey)
}

func (r *ResultRepository) load(ctx context.Context, key string) ([]domain.Result, error) {
	values, err := r.client.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("load results: %w", err)
	}
	results := make([]domain.Result, 0, len(values))
	for _, raw := range values {
		var res domain.Result
		if err := json.Unmarshal([]byte(raw), &res); err != nil {
			return nil, fmt.Errorf("unmarshal result: %w", err)
		}
		results = append(results, res)
	}
	return results, nil
}

func (r *ResultRepository) learnerKey(learnerID string) string {
	return resultsKey + ":learner:" + learnerID
}
