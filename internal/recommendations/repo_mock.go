package recommendations

import (
	"context"
	"slices"
	"sync"

	"github.com/spartacus-fitness/backend/internal/profiles"
)

type repoMock struct {
	mu             sync.Mutex
	members        []int
	cohortWorkouts []CohortWorkout

	findCalls int
	listCalls int

	errFind error
	errList error
}

func newRepoMock() *repoMock {
	return &repoMock{}
}

func (m *repoMock) FindCohortMembers(_ context.Context, _ int, _ string, _, _ int) ([]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.findCalls++
	if m.errFind != nil {
		return nil, m.errFind
	}
	return m.members, nil
}

func (m *repoMock) ListCohortWorkouts(_ context.Context, memberIDs []int) ([]CohortWorkout, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls++
	if m.errList != nil {
		return nil, m.errList
	}
	listed := make([]CohortWorkout, 0)
	for _, cw := range m.cohortWorkouts {
		if slices.Contains(memberIDs, cw.OwnerID) {
			listed = append(listed, cw)
		}
	}
	return listed, nil
}

type profilesMock struct {
	profiles map[int]profiles.Profile
}

func (m *profilesMock) Get(_ context.Context, userID int) (*profiles.Profile, error) {
	p, ok := m.profiles[userID]
	if !ok {
		return nil, profiles.ErrProfileNotFound
	}
	return &p, nil
}
