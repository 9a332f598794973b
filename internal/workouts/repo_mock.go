package workouts

import (
	"context"
	"sync"
)

type repoMock struct {
	mu       sync.Mutex
	workouts map[int]SavedWorkout
	nextID   int

	errAdd  error
	errList error
}

func newRepoMock() *repoMock {
	return &repoMock{
		workouts: make(map[int]SavedWorkout),
		nextID:   1,
	}
}

func (m *repoMock) Add(_ context.Context, workout SavedWorkout) (*SavedWorkout, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.errAdd != nil {
		return nil, m.errAdd
	}
	workout.ID = m.nextID
	m.nextID++
	m.workouts[workout.ID] = workout
	return &workout, nil
}

func (m *repoMock) Get(_ context.Context, id int) (*SavedWorkout, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.workouts[id]
	if !ok {
		return nil, ErrWorkoutNotFound
	}
	return &w, nil
}

func (m *repoMock) ListByUser(_ context.Context, userID int) ([]SavedWorkout, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.errList != nil {
		return nil, m.errList
	}
	listed := make([]SavedWorkout, 0)
	for _, w := range m.workouts {
		if w.UserID == userID {
			listed = append(listed, w)
		}
	}
	return listed, nil
}
