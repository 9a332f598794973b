package recommendations

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spartacus-fitness/backend/internal/telemetry/tracing"
	"github.com/spartacus-fitness/backend/internal/workouts"

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

// FindCohortMembers returns the ids of users matching the caller's gender
// with age inside [minAge, maxAge], excluding the caller. Users with no
// saved workouts have nothing to contribute and are filtered out here.
func (r *Repo) FindCohortMembers(
	ctx context.Context,
	callerID int,
	gender string,
	minAge, maxAge int,
) (_ []int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.recommendations.findcohortmembers")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", callerID))

	rows, err := r.db.Query(
		ctx,
		`SELECT u.id
			FROM users u
			JOIN profiles p ON p.user_id = u.id
			WHERE u.id <> $1
				AND p.gender = $2
				AND p.age BETWEEN $3 AND $4
				AND EXISTS (SELECT 1 FROM saved_workouts sw WHERE sw.user_id = u.id);`,
		callerID, gender, minAge, maxAge,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	members := make([]int, 0)
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		members = append(members, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("cohort.size", len(members)))

	return members, nil
}

// ListCohortWorkouts returns all saved workouts of the given users, joined
// with the owner's username and age.
func (r *Repo) ListCohortWorkouts(ctx context.Context, memberIDs []int) (_ []CohortWorkout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.recommendations.listcohortworkouts")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if len(memberIDs) == 0 {
		return []CohortWorkout{}, nil
	}

	rows, err := r.db.Query(
		ctx,
		`SELECT sw.id, sw.user_id, u.username, p.age, sw.name, sw.workout_data, sw.body_parts_worked, sw.created_at
			FROM saved_workouts sw
			JOIN users u ON u.id = sw.user_id
			JOIN profiles p ON p.user_id = sw.user_id
			WHERE sw.user_id = ANY($1);`,
		memberIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	cohortWorkouts := make([]CohortWorkout, 0)
	for rows.Next() {
		var cw CohortWorkout
		var exercisesBytes []byte
		var createdAt time.Time
		if err := rows.Scan(
			&cw.ID, &cw.OwnerID, &cw.OwnerUsername, &cw.OwnerAge,
			&cw.Name, &exercisesBytes, &cw.BodyPartsWorked, &createdAt,
		); err != nil {
			return nil, err
		}
		cw.CreatedAt = createdAt.UTC()

		if len(exercisesBytes) > 0 {
			if err := json.Unmarshal(exercisesBytes, &cw.Exercises); err != nil {
				return nil, fmt.Errorf("unmarshal exercises for workout %d: %w", cw.ID, err)
			}
		}
		if cw.Exercises == nil {
			cw.Exercises = []workouts.ExerciseSnapshot{}
		}
		if cw.BodyPartsWorked == nil {
			cw.BodyPartsWorked = []string{}
		}

		cohortWorkouts = append(cohortWorkouts, cw)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return cohortWorkouts, nil
}
