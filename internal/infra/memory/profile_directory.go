package memory

import (
	"context"
	"sync"

	"exam-portal/internal/domain"
)

// ProfileDirectory is a static learner directory (useful for tests/demos).
type ProfileDirectory struct {
	mu       sync.RWMutex
	profiles map[string]domain.LearnerProfile
}

func NewProfileDirectory(profiles ...domain.LearnerProfile) *ProfileDirectory {
	d := &ProfileDirectory{profiles: make(map[string]domain.LearnerProfile, len(profiles))}
	for _, p := range profiles {
		d.profiles[p.ID] = p
	}
	return d
}

// PutProfile adds or replaces a profile.
func (d *ProfileDirectory) PutProfile(_ context.Context, profile domain.LearnerProfile) error {
	d.mu.Lock()
	d.profiles[profile.ID] = profile
	d.mu.Unlock()
	return nil
}

func (d *ProfileDirectory) Profiles(_ context.Context, learnerIDs []string) (map[string]domain.LearnerProfile, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	found := make(map[string]domain.LearnerProfile, len(learnerIDs))
	for _, id := range learnerIDs {
		if p, ok := d.profiles[id]; ok {
			found[id] = p
		}
	}
	return found, nil
}
