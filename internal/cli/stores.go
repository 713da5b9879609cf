package cli

import (
	"context"
	"fmt"
	"log"

	"exam-portal/internal/app"
	"exam-portal/internal/config"
	"exam-portal/internal/domain"
	"exam-portal/internal/infra/memory"
	"exam-portal/internal/infra/postgres"
	infraredis "exam-portal/internal/infra/redis"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
)

// profileStore is a ProfileDirectory that can also be seeded.
type profileStore interface {
	app.ProfileDirectory
	PutProfile(ctx context.Context, p domain.LearnerProfile) error
}

type stores struct {
	tests    app.TestRepository
	results  app.ResultRepository
	profiles profileStore
	close    func()
}

// openStores builds the repositories for the configured backend.
func openStores(ctx context.Context, cfg config.Config) (*stores, error) {
	switch cfg.Backend() {
	case config.BackendPostgres:
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		return &stores{
			tests:    postgres.NewTestRepository(pool),
			results:  postgres.NewResultRepository(pool),
			profiles: postgres.NewProfileDirectory(pool),
			close:    pool.Close,
		}, nil
	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		return &stores{
			tests:    infraredis.NewTestRepository(client),
			results:  infraredis.NewResultRepository(client),
			profiles: infraredis.NewProfileDirectory(client),
			close:    func() { _ = client.Close() },
		}, nil
	default:
		log.Printf("using in-memory store; data is lost on exit")
		return &stores{
			tests:    memory.NewTestRepository(sampleTests()...),
			results:  memory.NewResultRepository(),
			profiles: memory.NewProfileDirectory(),
			close:    func() {},
		}, nil
	}
}

// sampleTests seeds the in-memory backend with one demo test.
func sampleTests() []domain.TestDefinition {
	return []domain.TestDefinition{
		{
			ID:        "demo-ce-1",
			Title:     "CE fundamentals",
			Branch:    domain.BranchCE,
			Duration:  10,
			CreatedBy: "system",
			Questions: []domain.Question{
				{
					ID:      "q1",
					Text:    "Which data structure is LIFO?",
					Subject: "Data Structures",
					Marks:   1,
					Options: []domain.Option{
						{ID: "o1", Text: "Queue"},
						{ID: "o2", Text: "Stack", IsCorrect: true},
						{ID: "o3", Text: "Heap"},
					},
				},
				{
					ID:      "q2",
					Text:    "Which layer does TCP belong to?",
					Subject: "Computer Networks",
					Marks:   2,
					Options: []domain.Option{
						{ID: "o1", Text: "Network"},
						{ID: "o2", Text: "Transport", IsCorrect: true},
					},
				},
			},
		},
	}
}
