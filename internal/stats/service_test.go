package stats

import (
	"context"
	"testing"
	"time"

	"github.com/spartacus-fitness/backend/internal/dates"
	"github.com/spartacus-fitness/backend/internal/profiles"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func strPtr(s string) *string      { return &s }
func floatPtr(f float64) *float64  { return &f }
func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type profilesMock struct {
	profile *profiles.Profile
}

func (m *profilesMock) Get(_ context.Context, _ int) (*profiles.Profile, error) {
	if m.profile == nil {
		return nil, profiles.ErrProfileNotFound
	}
	return m.profile, nil
}

func TestStreak(t *testing.T) {
	today := day(2024, 5, 17)

	testCases := []struct {
		name     string
		logDates []time.Time
		want     int
	}{
		{
			name: "no logs",
			want: 0,
		},
		{
			name:     "today only",
			logDates: []time.Time{day(2024, 5, 17)},
			want:     1,
		},
		{
			name: "five days ending today",
			logDates: []time.Time{
				day(2024, 5, 17), day(2024, 5, 16), day(2024, 5, 15),
				day(2024, 5, 14), day(2024, 5, 13),
			},
			want: 5,
		},
		{
			name: "today not logged yet, streak is zero",
			logDates: []time.Time{
				day(2024, 5, 16), day(2024, 5, 15), day(2024, 5, 14),
			},
			want: 0,
		},
		{
			name: "gap breaks the streak",
			logDates: []time.Time{
				day(2024, 5, 17), day(2024, 5, 16), day(2024, 5, 15),
				// 14th missed
				day(2024, 5, 13), day(2024, 5, 12),
			},
			want: 3,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, streak(tc.logDates, today))
		})
	}
}

func TestTopDay(t *testing.T) {
	assert.Nil(t, topDay(nil))

	// 2024-05-17 is a Friday, 2024-05-13 a Monday
	got := topDay([]time.Time{
		day(2024, 5, 17), day(2024, 5, 10), // two Fridays
		day(2024, 5, 13), // one Monday
	})
	require.NotNil(t, got)
	assert.Equal(t, "Friday", *got)

	// one of each: earlier weekday wins, week starting Monday
	got = topDay([]time.Time{day(2024, 5, 17), day(2024, 5, 13)})
	require.NotNil(t, got)
	assert.Equal(t, "Monday", *got)
}

func TestBMI(t *testing.T) {
	got := bmi(floatPtr(80), floatPtr(180))
	require.NotNil(t, got)
	assert.Equal(t, 24.7, *got)

	assert.Nil(t, bmi(nil, floatPtr(180)))
	assert.Nil(t, bmi(floatPtr(80), nil))
	assert.Nil(t, bmi(floatPtr(80), floatPtr(0)))
}

func TestService_ComputeStats(t *testing.T) {
	repo := &repoMock{
		logDates: []time.Time{
			day(2024, 5, 17), day(2024, 5, 16), day(2024, 5, 10),
		},
		favoriteMuscle:    strPtr("chest"),
		topEquipment:      strPtr("barbell"),
		topWorkout:        &TopWorkout{Name: "Push Day", Times: 2},
		distinctExercises: 4,
		savedWorkouts:     3,
	}
	svc := NewService(
		repo,
		&profilesMock{profile: &profiles.Profile{UserID: 1, Weight: floatPtr(80), Height: floatPtr(180)}},
		dates.NewProviderWithNow(func() time.Time {
			return time.Date(2024, 5, 17, 19, 0, 0, 0, time.UTC)
		}),
	)

	userStats, err := svc.ComputeStats(t.Context(), 1)
	require.NoError(t, err)

	assert.Equal(t, 3, userStats.TotalLogged)
	assert.Equal(t, 2, userStats.WorkoutStreak)
	require.NotNil(t, userStats.FirstLogged)
	assert.Equal(t, day(2024, 5, 10), *userStats.FirstLogged)
	require.NotNil(t, userStats.LastLogged)
	assert.Equal(t, day(2024, 5, 17), *userStats.LastLogged)
	assert.Equal(t, "chest", *userStats.FavoriteMuscle)
	assert.Equal(t, "barbell", *userStats.TopEquipment)
	assert.Equal(t, "Push Day", userStats.TopWorkout.Name)
	assert.Equal(t, 4, userStats.DistinctExercises)
	assert.Equal(t, 3, userStats.SavedWorkouts)
	require.NotNil(t, userStats.BMI)
	assert.Equal(t, 24.7, *userStats.BMI)
}

func TestService_ComputeStats_NoLogs(t *testing.T) {
	svc := NewService(
		&repoMock{savedWorkouts: 1},
		&profilesMock{profile: &profiles.Profile{UserID: 1}},
		dates.NewProvider(),
	)

	userStats, err := svc.ComputeStats(t.Context(), 1)
	require.NoError(t, err)

	assert.Zero(t, userStats.TotalLogged)
	assert.Zero(t, userStats.WorkoutStreak)
	assert.Nil(t, userStats.FirstLogged)
	assert.Nil(t, userStats.LastLogged)
	assert.Nil(t, userStats.FavoriteMuscle)
	assert.Nil(t, userStats.TopWorkout)
	assert.Nil(t, userStats.TopDay)
	assert.Nil(t, userStats.BMI)
	assert.Equal(t, 1, userStats.SavedWorkouts)
}

func TestService_ComputeStats_NoProfile(t *testing.T) {
	svc := NewService(
		&repoMock{},
		&profilesMock{},
		dates.NewProvider(),
	)

	userStats, err := svc.ComputeStats(t.Context(), 1)
	require.NoError(t, err)
	assert.Nil(t, userStats.BMI)
}
