//go:build integration_test || all_tests

package recommendations

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/spartacus-fitness/backend/internal/db"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRepoSetup(t *testing.T) (*Repo, func()) {
	t.Helper()

	timeoutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	host := os.Getenv("POSTGRES_HOST")
	if host == "" {
		host = "localhost"
	}
	t.Logf("using postgres host: %s", host)

	dbPool, err := db.NewDBPool(timeoutCtx, db.NewDBPoolParams{
		DBHost:         host,
		DBPort:         "5432",
		DBName:         "spartacus_fitness",
		TracingEnabled: false,
	})
	require.NoError(t, err)

	return NewRepo(dbPool), func() {
		dbPool.Close()
	}
}

// usernames carry a fixed prefix so cleanup touches only this test's rows;
// profiles and saved workouts go with them through the FK cascade
func deleteCohortFixtures(ctx context.Context, repo *Repo) error {
	_, err := repo.db.Exec(ctx, `DELETE FROM users WHERE username LIKE 'cohort-%';`)
	return err
}

func seedCohortUser(
	ctx context.Context, t *testing.T, repo *Repo,
	username, gender string, age int, withWorkout bool,
) int {
	t.Helper()

	var userID int
	err := repo.db.QueryRow(
		ctx,
		`INSERT INTO users (username, email, password)
			VALUES ($1, $2, 'x') RETURNING id;`,
		username, fmt.Sprintf("%s@example.com", username),
	).Scan(&userID)
	require.NoError(t, err)

	_, err = repo.db.Exec(
		ctx,
		`INSERT INTO profiles (user_id, gender, age) VALUES ($1, $2, $3);`,
		userID, gender, age,
	)
	require.NoError(t, err)

	if withWorkout {
		_, err = repo.db.Exec(
			ctx,
			`INSERT INTO saved_workouts (user_id, name, workout_data, body_parts_worked)
				VALUES ($1, 'Push Day', '[{"name":"Bench Press","muscle":"chest","difficulty":"intermediate","equipmentType":"barbell"}]', '{chest}');`,
			userID,
		)
		require.NoError(t, err)
	}

	return userID
}

func TestRepo_FindCohortMembers(t *testing.T) {
	repo, shutdown := testRepoSetup(t)
	defer shutdown()

	ctx := context.Background()
	require.NoError(t, deleteCohortFixtures(ctx, repo))

	// caller is a 30 year old male, window is 25..35
	callerID := seedCohortUser(ctx, t, repo, "cohort-caller", "male", 30, true)
	lowerBound := seedCohortUser(ctx, t, repo, "cohort-lower", "male", 25, true)
	upperBound := seedCohortUser(ctx, t, repo, "cohort-upper", "male", 35, true)
	seedCohortUser(ctx, t, repo, "cohort-too-old", "male", 36, true)
	seedCohortUser(ctx, t, repo, "cohort-too-young", "male", 24, true)
	seedCohortUser(ctx, t, repo, "cohort-other-gender", "female", 30, true)
	seedCohortUser(ctx, t, repo, "cohort-no-workouts", "male", 30, false)

	members, err := repo.FindCohortMembers(ctx, callerID, "male", 25, 35)
	require.NoError(t, err)

	// the caller, the out-of-window users, the other gender and the user
	// without saved workouts are all filtered out
	assert.ElementsMatch(t, []int{lowerBound, upperBound}, members)

	cohortWorkouts, err := repo.ListCohortWorkouts(ctx, members)
	require.NoError(t, err)
	require.Len(t, cohortWorkouts, 2)
	for _, cw := range cohortWorkouts {
		assert.Contains(t, members, cw.OwnerID)
		assert.Equal(t, "Push Day", cw.Name)
		require.Len(t, cw.Exercises, 1)
		assert.Equal(t, "Bench Press", cw.Exercises[0].Name)
	}

	require.NoError(t, deleteCohortFixtures(ctx, repo))
}
