package workoutlog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spartacus-fitness/backend/internal/dates"
	"github.com/spartacus-fitness/backend/internal/telemetry/metrics"
	"github.com/spartacus-fitness/backend/internal/telemetry/tracing"
	"github.com/spartacus-fitness/backend/internal/workouts"
)

type logRepo interface {
	Insert(ctx context.Context, record LogRecord) (*LogRecord, error)
	LatestLogDate(ctx context.Context, userID int) (*time.Time, error)
	ListLogDates(ctx context.Context, userID int) ([]time.Time, error)
}

type savedWorkoutsGetter interface {
	Get(ctx context.Context, id int) (*workouts.SavedWorkout, error)
}

type Service struct {
	repo           logRepo
	workoutsRepo   savedWorkoutsGetter
	dateProvider   *dates.Provider
	metricsManager *metrics.Manager
}

func NewService(
	repo logRepo,
	workoutsRepo savedWorkoutsGetter,
	dateProvider *dates.Provider,
	metricsManager *metrics.Manager,
) *Service {
	return &Service{
		repo:           repo,
		workoutsRepo:   workoutsRepo,
		dateProvider:   dateProvider,
		metricsManager: metricsManager,
	}
}

// Log records a completed workout for the user. The workout must exist and
// belong to the user; at most one log per calendar day is accepted. The
// cheap "already logged" pre-check handles the common case, the unique
// index in the repo handles the race.
func (s *Service) Log(ctx context.Context, userID, workoutID int) (_ *LogRecord, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "workoutlog.log")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	workout, err := s.workoutsRepo.Get(ctx, workoutID)
	if err != nil {
		return nil, err
	}
	if workout.UserID != userID {
		// do not reveal that the workout exists for someone else
		return nil, workouts.ErrWorkoutNotFound
	}

	latest, err := s.repo.LatestLogDate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get latest log date: %w", err)
	}

	today := s.dateProvider.Today()
	if latest != nil && dates.SameDate(*latest, today) {
		s.metricsManager.CounterDailyLimitRejections.Inc()
		return nil, ErrAlreadyLoggedToday
	}

	record, err := s.repo.Insert(ctx, LogRecord{
		UserID:    userID,
		WorkoutID: workoutID,
		LogDate:   today,
		LoggedAt:  s.dateProvider.Now(),
	})
	if err != nil {
		if errors.Is(err, ErrAlreadyLoggedToday) {
			s.metricsManager.CounterDailyLimitRejections.Inc()
		}
		return nil, err
	}

	s.metricsManager.CounterWorkoutsLogged.Inc()

	return record, nil
}

// LogDates returns the user's log dates, newest first.
func (s *Service) LogDates(ctx context.Context, userID int) ([]time.Time, error) {
	return s.repo.ListLogDates(ctx, userID)
}
