package workouts

import (
	"context"
	"encoding/json"
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

func (r *Repo) Add(ctx context.Context, workout SavedWorkout) (_ *SavedWorkout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	exercisesJson, err := json.Marshal(workout.Exercises)
	if err != nil {
		return nil, fmt.Errorf("marshal exercises: %w", err)
	}

	err = r.db.QueryRow(
		ctx,
		`INSERT INTO saved_workouts
				(user_id, name, workout_data, body_parts_worked, created_at)
				VALUES ($1, $2, $3, $4, $5)
			RETURNING id;`,
		workout.UserID, workout.Name, exercisesJson, workout.BodyPartsWorked, workout.CreatedAt,
	).Scan(&workout.ID)
	if err != nil {
		return nil, fmt.Errorf("insert saved workout: %w", err)
	}

	span.SetAttributes(attribute.Int("workout.id", workout.ID))

	return &workout, nil
}

func (r *Repo) Get(ctx context.Context, id int) (_ *SavedWorkout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("workout.id", id))

	rows, err := r.db.Query(
		ctx,
		`SELECT id, user_id, name, workout_data, body_parts_worked, created_at
			FROM saved_workouts
			WHERE id = $1;`,
		id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	workouts, err := r.rows2workouts(rows)
	if err != nil {
		return nil, err
	}

	if len(workouts) != 1 {
		return nil, ErrWorkoutNotFound
	}

	return &workouts[0], nil
}

// ListByUser returns the user's saved workouts, newest first.
func (r *Repo) ListByUser(ctx context.Context, userID int) (_ []SavedWorkout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.listbyuser")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	rows, err := r.db.Query(
		ctx,
		`SELECT id, user_id, name, workout_data, body_parts_worked, created_at
			FROM saved_workouts
			WHERE user_id = $1
			ORDER BY created_at DESC;`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return r.rows2workouts(rows)
}

func (r *Repo) rows2workouts(rows pgx.Rows) ([]SavedWorkout, error) {
	var workouts []SavedWorkout
	for rows.Next() {
		var id int
		var userID int
		var name string
		var exercisesBytes []byte
		var bodyParts []string
		var createdAt time.Time
		if err := rows.Scan(&id, &userID, &name, &exercisesBytes, &bodyParts, &createdAt); err != nil {
			return nil, err
		}

		w := SavedWorkout{
			ID:              id,
			UserID:          userID,
			Name:            name,
			BodyPartsWorked: bodyParts,
			CreatedAt:       createdAt,
		}

		if len(exercisesBytes) > 0 {
			if err := json.Unmarshal(exercisesBytes, &w.Exercises); err != nil {
				return nil, fmt.Errorf("unmarshal exercises for workout %d: %w", id, err)
			}
		}
		if w.BodyPartsWorked == nil {
			w.BodyPartsWorked = []string{}
		}

		workouts = append(workouts, w)
	}

	if workouts == nil {
		workouts = make([]SavedWorkout, 0)
	}

	if err := rows.Err(); err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	return workouts, nil
}
