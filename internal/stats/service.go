package stats

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/spartacus-fitness/backend/internal/dates"
	"github.com/spartacus-fitness/backend/internal/profiles"
	"github.com/spartacus-fitness/backend/internal/telemetry/tracing"
)

type statsRepo interface {
	LogDates(ctx context.Context, userID int) ([]time.Time, error)
	FavoriteMuscle(ctx context.Context, userID int) (*string, error)
	TopEquipment(ctx context.Context, userID int) (*string, error)
	TopWorkout(ctx context.Context, userID int) (*TopWorkout, error)
	DistinctExercises(ctx context.Context, userID int) (int, error)
	SavedWorkoutsCount(ctx context.Context, userID int) (int, error)
}

type profileGetter interface {
	Get(ctx context.Context, userID int) (*profiles.Profile, error)
}

type Service struct {
	repo         statsRepo
	profilesRepo profileGetter
	dateProvider *dates.Provider
}

func NewService(repo statsRepo, profilesRepo profileGetter, dateProvider *dates.Provider) *Service {
	return &Service{
		repo:         repo,
		profilesRepo: profilesRepo,
		dateProvider: dateProvider,
	}
}

// ComputeStats assembles the full personal stats payload for the user.
// A user with no logs gets a valid zero payload, not an error.
func (s *Service) ComputeStats(ctx context.Context, userID int) (_ *UserStats, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "stats.compute")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	logDates, err := s.repo.LogDates(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get log dates: %w", err)
	}

	userStats := &UserStats{
		TotalLogged:   len(logDates),
		WorkoutStreak: streak(logDates, s.dateProvider.Today()),
		TopDay:        topDay(logDates),
	}

	if len(logDates) > 0 {
		first := logDates[len(logDates)-1]
		last := logDates[0]
		userStats.FirstLogged = &first
		userStats.LastLogged = &last

		if userStats.FavoriteMuscle, err = s.repo.FavoriteMuscle(ctx, userID); err != nil {
			return nil, fmt.Errorf("get favorite muscle: %w", err)
		}
		if userStats.TopEquipment, err = s.repo.TopEquipment(ctx, userID); err != nil {
			return nil, fmt.Errorf("get top equipment: %w", err)
		}
		if userStats.TopWorkout, err = s.repo.TopWorkout(ctx, userID); err != nil {
			return nil, fmt.Errorf("get top workout: %w", err)
		}
		if userStats.DistinctExercises, err = s.repo.DistinctExercises(ctx, userID); err != nil {
			return nil, fmt.Errorf("get distinct exercises: %w", err)
		}
	}

	if userStats.SavedWorkouts, err = s.repo.SavedWorkoutsCount(ctx, userID); err != nil {
		return nil, fmt.Errorf("get saved workouts count: %w", err)
	}

	profile, err := s.profilesRepo.Get(ctx, userID)
	if err != nil && !errors.Is(err, profiles.ErrProfileNotFound) {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	if profile != nil {
		userStats.BMI = bmi(profile.Weight, profile.Height)
	}

	return userStats, nil
}

// streak counts consecutive logged days ending today; a day without a log
// breaks it, so an unlogged today means zero. Dates must come in newest
// first.
func streak(logDates []time.Time, today time.Time) int {
	expected := today
	count := 0
	for _, d := range logDates {
		if !dates.SameDate(d, expected) {
			break
		}
		count++
		expected = expected.AddDate(0, 0, -1)
	}
	return count
}

// topDay is the weekday the user logs on most often. Ties go to the
// earlier weekday, with the week starting on Monday.
func topDay(logDates []time.Time) *string {
	if len(logDates) == 0 {
		return nil
	}

	var counts [7]int
	for _, d := range logDates {
		counts[d.Weekday()]++
	}

	best := time.Monday
	for i := 0; i < 7; i++ {
		// Monday..Saturday then Sunday
		day := time.Weekday((int(time.Monday) + i) % 7)
		if counts[day] > counts[best] {
			best = day
		}
	}

	name := best.String()
	return &name
}

// bmi is weight in kg over squared height in meters, one decimal.
func bmi(weightKg, heightCm *float64) *float64 {
	if weightKg == nil || heightCm == nil || *heightCm <= 0 || *weightKg <= 0 {
		return nil
	}
	heightM := *heightCm / 100
	v := math.Round(*weightKg/(heightM*heightM)*10) / 10
	return &v
}
