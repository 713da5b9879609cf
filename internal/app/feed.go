package app

import (
	"context"
	"sync"
	"time"

	"exam-portal/internal/domain"
)

// LeaderboardUpdate is pushed to feed subscribers.
type LeaderboardUpdate struct {
	Entries   []domain.LeaderboardEntry `json:"entries"`
	UpdatedAt time.Time                 `json:"updatedAt"`
}

// LeaderboardFeed pushes a freshly computed leaderboard to subscribers after every graded result.
// It recomputes only while someone is subscribed.
type LeaderboardFeed struct {
	board *Leaderboard
	now   func() time.Time

	mu          sync.Mutex
	subscribers map[chan LeaderboardUpdate]struct{}
}

func NewLeaderboardFeed(board *Leaderboard) *LeaderboardFeed {
	return &LeaderboardFeed{
		board:       board,
		now:         time.Now,
		subscribers: make(map[chan LeaderboardUpdate]struct{}),
	}
}

// Subscribe returns a channel primed with the current leaderboard.
// The caller must invoke the returned cancel function to avoid leaks.
func (f *LeaderboardFeed) Subscribe(ctx context.Context) (<-chan LeaderboardUpdate, func(), error) {
	f.mu.Lock()
	initial, err := f.snapshot(ctx)
	if err != nil {
		f.mu.Unlock()
		return nil, nil, err
	}
	ch := make(chan LeaderboardUpdate, 8)
	ch <- initial
	f.subscribers[ch] = struct{}{}
	f.mu.Unlock()

	cancel := func() {
		f.mu.Lock()
		if _, ok := f.subscribers[ch]; ok {
			delete(f.subscribers, ch)
			close(ch)
		}
		f.mu.Unlock()
	}
	return ch, cancel, nil
}

// ResultGraded recomputes and broadcasts the leaderboard.
func (f *LeaderboardFeed) ResultGraded(ctx context.Context, _ domain.Result) error {
	if f.subscriberCount() == 0 {
		return nil
	}
	update, err := f.snapshot(ctx)
	if err != nil {
		return err
	}
	f.broadcast(update)
	return nil
}

func (f *LeaderboardFeed) subscriberCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subscribers)
}

func (f *LeaderboardFeed) snapshot(ctx context.Context) (LeaderboardUpdate, error) {
	entries, err := f.board.Compute(ctx, DefaultLeaderboardSize)
	if err != nil {
		return LeaderboardUpdate{}, err
	}
	return LeaderboardUpdate{Entries: entries, UpdatedAt: f.now().UTC()}, nil
}

func (f *LeaderboardFeed) broadcast(update LeaderboardUpdate) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for ch := range f.subscribers {
		select {
		case ch <- update:
		default:
			// slow subscriber: drop the oldest pending update, keep the latest
			select {
			case <-ch:
			default:
			}
			ch <- update
		}
	}
}
