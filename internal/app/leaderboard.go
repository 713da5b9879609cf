package app

import (
	"context"
	"fmt"
	"sort"

	"exam-portal/internal/domain"
)

// DefaultLeaderboardSize is the number of entries returned when no size is requested.
const DefaultLeaderboardSize = 10

// ProfileDirectory resolves learner profiles from the identity collaborator.
type ProfileDirectory interface {
	// Profiles resolves many ids in one round trip; unknown ids are absent from the map.
	Profiles(ctx context.Context, learnerIDs []string) (map[string]domain.LearnerProfile, error)
}

// Leaderboard ranks learners by their mean raw score across all results.
// Every call rescans the result store, so a result saved before the call starts is always counted.
type Leaderboard struct {
	results  *ResultStore
	profiles ProfileDirectory
}

func NewLeaderboard(results *ResultStore, profiles ProfileDirectory) *Leaderboard {
	return &Leaderboard{results: results, profiles: profiles}
}

// Compute returns at most topN entries sorted by average score, highest first.
func (l *Leaderboard) Compute(ctx context.Context, topN int) ([]domain.LeaderboardEntry, error) {
	if topN <= 0 {
		topN = DefaultLeaderboardSize
	}
	return l.compute(ctx, topN)
}

type learnerTally struct {
	learnerID  string
	scoreSum   int
	percentSum float64
	count      int
}

func (l *Leaderboard) compute(ctx context.Context, topN int) ([]domain.LeaderboardEntry, error) {
	results, err := l.results.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	// Groups keep the order in which learners first appear in the scan.
	tallies := make([]*learnerTally, 0)
	byLearner := make(map[string]*learnerTally)
	for _, r := range results {
		t, ok := byLearner[r.LearnerID]
		if !ok {
			t = &learnerTally{learnerID: r.LearnerID}
			byLearner[r.LearnerID] = t
			tallies = append(tallies, t)
		}
		t.scoreSum += r.Score
		if r.TotalMarks > 0 {
			t.percentSum += float64(r.Score) * 100 / float64(r.TotalMarks)
		}
		t.count++
	}
	if len(tallies) == 0 {
		return []domain.LeaderboardEntry{}, nil
	}

	ids := make([]string, 0, len(tallies))
	for _, t := range tallies {
		ids = append(ids, t.learnerID)
	}
	profiles, err := l.profiles.Profiles(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve learner profiles: %w", err)
	}

	entries := make([]domain.LeaderboardEntry, 0, len(tallies))
	for _, t := range tallies {
		profile, ok := profiles[t.learnerID]
		if !ok {
			// learners unknown to the identity collaborator are not ranked
			continue
		}
		entries = append(entries, domain.LeaderboardEntry{
			LearnerID:         t.learnerID,
			AverageScore:      float64(t.scoreSum) / float64(t.count),
			AveragePercentage: t.percentSum / float64(t.count),
			TotalTests:        t.count,
			Name:              profile.Name,
			Branch:            profile.Branch,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].AverageScore > entries[j].AverageScore
	})
	if len(entries) > topN {
		entries = entries[:topN]
	}
	return entries, nil
}
