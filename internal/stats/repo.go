package stats

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spartacus-fitness/backend/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// LogDates returns the user's workout log dates, newest first.
func (r *Repo) LogDates(ctx context.Context, userID int) (_ []time.Time, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.stats.logdates")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	rows, err := r.db.Query(
		ctx,
		`SELECT log_date FROM workout_logs WHERE user_id = $1 ORDER BY log_date DESC;`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	logDates := make([]time.Time, 0)
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		logDates = append(logDates, d.UTC())
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return logDates, nil
}

// FavoriteMuscle is the muscle appearing most often in the exercise
// snapshots of the user's logged workouts. Ties go to the alphabetically
// first label.
func (r *Repo) FavoriteMuscle(ctx context.Context, userID int) (*string, error) {
	return r.topSnapshotLabel(ctx, userID, "muscle")
}

// TopEquipment is the most used equipment type, counted the same way.
func (r *Repo) TopEquipment(ctx context.Context, userID int) (*string, error) {
	return r.topSnapshotLabel(ctx, userID, "equipmentType")
}

func (r *Repo) topSnapshotLabel(ctx context.Context, userID int, field string) (_ *string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.stats.topsnapshotlabel")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.Int("user.id", userID),
		attribute.String("field", field),
	)

	// counts come from the snapshots stored at save time, so renamed or
	// deleted catalog entries cannot skew history
	var label string
	err = r.db.QueryRow(
		ctx,
		`SELECT ex->>$2 AS label
			FROM workout_logs wl
			JOIN saved_workouts sw ON sw.id = wl.workout_id
			CROSS JOIN LATERAL jsonb_array_elements(sw.workout_data) ex
			WHERE wl.user_id = $1 AND COALESCE(ex->>$2, '') <> ''
			GROUP BY label
			ORDER BY COUNT(*) DESC, label ASC
			LIMIT 1;`,
		userID, field,
	).Scan(&label)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &label, nil
}

// TopWorkout is the user's most logged workout, ties broken by name.
func (r *Repo) TopWorkout(ctx context.Context, userID int) (_ *TopWorkout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.stats.topworkout")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	var top TopWorkout
	err = r.db.QueryRow(
		ctx,
		`SELECT sw.name, COUNT(*) AS c
			FROM workout_logs wl
			JOIN saved_workouts sw ON sw.id = wl.workout_id
			WHERE wl.user_id = $1
			GROUP BY sw.name
			ORDER BY c DESC, sw.name ASC
			LIMIT 1;`,
		userID,
	).Scan(&top.Name, &top.Times)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &top, nil
}

// DistinctExercises counts the distinct exercises across the user's logged
// workouts, where distinct means the full snapshot identity.
func (r *Repo) DistinctExercises(ctx context.Context, userID int) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.stats.distinctexercises")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	var count int
	err = r.db.QueryRow(
		ctx,
		`SELECT COUNT(DISTINCT (ex->>'name', ex->>'muscle', ex->>'difficulty',
				ex->>'equipmentType', ex->>'equipmentSubtype', ex->>'instructions'))
			FROM workout_logs wl
			JOIN saved_workouts sw ON sw.id = wl.workout_id
			CROSS JOIN LATERAL jsonb_array_elements(sw.workout_data) ex
			WHERE wl.user_id = $1;`,
		userID,
	).Scan(&count)
	if err != nil {
		return 0, err
	}

	return count, nil
}

// SavedWorkoutsCount counts the user's saved workouts.
func (r *Repo) SavedWorkoutsCount(ctx context.Context, userID int) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.stats.savedworkoutscount")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	var count int
	err = r.db.QueryRow(
		ctx,
		`SELECT COUNT(*) FROM saved_workouts WHERE user_id = $1;`,
		userID,
	).Scan(&count)
	if err != nil {
		return 0, err
	}

	return count, nil
}
