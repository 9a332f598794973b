package stats

import (
	"context"
	"time"
)

type repoMock struct {
	logDates          []time.Time
	favoriteMuscle    *string
	topEquipment      *string
	topWorkout        *TopWorkout
	distinctExercises int
	savedWorkouts     int

	errLogDates error
}

func (m *repoMock) LogDates(_ context.Context, _ int) ([]time.Time, error) {
	if m.errLogDates != nil {
		return nil, m.errLogDates
	}
	return m.logDates, nil
}

func (m *repoMock) FavoriteMuscle(_ context.Context, _ int) (*string, error) {
	return m.favoriteMuscle, nil
}

func (m *repoMock) TopEquipment(_ context.Context, _ int) (*string, error) {
	return m.topEquipment, nil
}

func (m *repoMock) TopWorkout(_ context.Context, _ int) (*TopWorkout, error) {
	return m.topWorkout, nil
}

func (m *repoMock) DistinctExercises(_ context.Context, _ int) (int, error) {
	return m.distinctExercises, nil
}

func (m *repoMock) SavedWorkoutsCount(_ context.Context, _ int) (int, error) {
	return m.savedWorkouts, nil
}
