package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"exam-portal/internal/domain"
	"github.com/redis/go-redis/v9"
)

// TestRepository keeps definitions in Redis, written together in one transaction:
//
//	HSET  exam:tests {testID} {json}
//	RPUSH exam:tests:order {testID}
//	RPUSH exam:tests:branch:{branch} {testID}
type TestRepository struct {
	client *redis.Client
}

func NewTestRepository(client *redis.Client) *TestRepository {
	return &TestRepository{client: client}
}

const (
	testsKey = "exam:tests"

	createAttempts = 3
)

// CreateTest writes the definition and both index entries in one MULTI under WATCH on the definitions hash.
func (r *TestRepository) CreateTest(ctx context.Context, test domain.TestDefinition) error {
	data, err := json.Marshal(test)
	if err != nil {
		return fmt.Errorf("marshal test: %w", err)
	}

	create := func(tx *redis.Tx) error {
		exists, err := tx.HExists(ctx, testsKey, test.ID).Result()
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("test %s already exists", test.ID)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, testsKey, test.ID, data)
			pipe.RPush(ctx, r.orderKey(), test.ID)
			pipe.RPush(ctx, r.branchKey(test.Branch), test.ID)
			return nil
		})
		return err
	}

	for i := 0; i < createAttempts; i++ {
		err := r.client.Watch(ctx, create, testsKey)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return fmt.Errorf("store test: %w", err)
		}
		return nil
	}
	return fmt.Errorf("store test %s: definitions changed concurrently", test.ID)
}

func (r *TestRepository) ListTests(ctx context.Context, branch domain.Branch) ([]domain.TestDefinition, error) {
	key := r.orderKey()
	if branch != "" {
		key = r.branchKey(branch)
	}
	ids, err := r.client.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list test ids: %w", err)
	}
	tests := make([]domain.TestDefinition, 0, len(ids))
	if len(ids) == 0 {
		return tests, nil
	}
	values, err := r.client.HMGet(ctx, testsKey, ids...).Result()
	if err != nil {
		return nil, fmt.Errorf("load tests: %w", err)
	}
	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		var test domain.TestDefinition
		if err := json.Unmarshal([]byte(raw), &test); err != nil {
			return nil, fmt.Errorf("unmarshal test: %w", err)
		}
		tests = append(tests, test)
	}
	return tests, nil
}

func (r *TestRepository) GetTest(ctx context.Context, testID string) (domain.TestDefinition, error) {
	raw, err := r.client.HGet(ctx, testsKey, testID).Bytes()
	if err == redis.Nil {
		return domain.TestDefinition{}, domain.ErrTestNotFound
	}
	if err != nil {
		return domain.TestDefinition{}, fmt.Errorf("load test: %w", err)
	}
	var test domain.TestDefinition
	if err := json.Unmarshal(raw, &test); err != nil {
		return domain.TestDefinition{}, fmt.Errorf("unmarshal test: %w", err)
	}
	return test, nil
}

func (r *TestRepository) TestTitles(ctx context.Context, testIDs []string) (map[string]string, error) {
	titles := make(map[string]string, len(testIDs))
	if len(testIDs) == 0 {
		return titles, nil
	}
	values, err := r.client.HMGet(ctx, testsKey, testIDs...).Result()
	if err != nil {
		return nil, fmt.Errorf("load tests: %w", err)
	}
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		var head struct {
			Title string `json:"title"`
		}
		if err := json.Unmarshal([]byte(raw), &head); err != nil {
			return nil, fmt.Errorf("unmarshal test: %w", err)
		}
		titles[testIDs[i]] = head.Title
	}
	return titles, nil
}

func (r *TestRepository) orderKey() string {
	return testsKey + ":order"
}

func (r *TestRepository) branchKey(branch domain.Branch) string {
	return testsKey + ":branch:" + string(branch)
}
