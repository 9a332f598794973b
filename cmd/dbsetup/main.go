package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"time"

	"github.com/spartacus-fitness/backend/internal/db"
	"github.com/spartacus-fitness/backend/internal/workouts"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

// creates the schema and optionally seeds fake users with workouts and
// logs, so the recommendation and stats endpoints have data to chew on
func main() {
	dbHost := flag.String("db-host", "localhost", "postgres host")
	dbPort := flag.String("db-port", "5432", "postgres port")
	dbName := flag.String("db-name", "spartacus_fitness", "postgres database name")
	seedUsers := flag.Int("seed", 0, "number of fake users to seed (0 disables seeding)")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost: *dbHost,
		DBPort: *dbPort,
		DBName: *dbName,
	})
	if err != nil {
		log.Fatalf("new db pool: %s", err)
	}
	defer dbPool.Close()

	if err := createSchema(ctx, dbPool); err != nil {
		log.Fatalf("create schema: %s", err)
	}
	log.Println("schema created")

	if *seedUsers > 0 {
		if err := seed(ctx, dbPool, *seedUsers); err != nil {
			log.Fatalf("seed: %s", err)
		}
		log.Printf("seeded %d users", *seedUsers)
	}
}

func createSchema(ctx context.Context, dbPool *pgxpool.Pool) error {
	statements := []string{
		// owned by the external auth system; this service only ever reads
		// id and username, the rest is here so a standalone dev database
		// looks like the real one
		`CREATE TABLE IF NOT EXISTS users (
			id SERIAL PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			email TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			last_login TIMESTAMPTZ,
			is_admin BOOLEAN NOT NULL DEFAULT FALSE,
			is_logged_in BOOLEAN NOT NULL DEFAULT FALSE
		);`,
		`CREATE TABLE IF NOT EXISTS profiles (
			user_id INTEGER PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
			gender TEXT,
			age INTEGER,
			weight DOUBLE PRECISION,
			height DOUBLE PRECISION
		);`,
		`CREATE TABLE IF NOT EXISTS saved_workouts (
			id SERIAL PRIMARY KEY,
			user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			workout_data JSONB NOT NULL DEFAULT '[]',
			body_parts_worked TEXT[] NOT NULL DEFAULT '{}',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE INDEX IF NOT EXISTS saved_workouts_user_id_idx ON saved_workouts (user_id);`,
		`CREATE TABLE IF NOT EXISTS workout_logs (
			id SERIAL PRIMARY KEY,
			user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			workout_id INTEGER NOT NULL REFERENCES saved_workouts(id) ON DELETE CASCADE,
			log_date DATE NOT NULL,
			logged_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		// the daily-limit guard: one log per user per calendar day
		`CREATE UNIQUE INDEX IF NOT EXISTS workout_logs_user_day_idx ON workout_logs (user_id, log_date);`,
		`CREATE INDEX IF NOT EXISTS workout_logs_user_id_idx ON workout_logs (user_id);`,
	}

	for _, stmt := range statements {
		if _, err := dbPool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

var seedExercises = []workouts.ExerciseSnapshot{
	{Name: "Bench Press", Muscle: "chest", Difficulty: "intermediate", EquipmentType: "barbell"},
	{Name: "Squat", Muscle: "quadriceps", Difficulty: "intermediate", EquipmentType: "barbell"},
	{Name: "Deadlift", Muscle: "lower_back", Difficulty: "expert", EquipmentType: "barbell"},
	{Name: "Overhead Press", Muscle: "shoulders", Difficulty: "intermediate", EquipmentType: "barbell"},
	{Name: "Pull Up", Muscle: "lats", Difficulty: "intermediate", EquipmentType: "bodyweight"},
	{Name: "Push Up", Muscle: "chest", Difficulty: "beginner", EquipmentType: "bodyweight"},
	{Name: "Bicep Curl", Muscle: "biceps", Difficulty: "beginner", EquipmentType: "dumbbell"},
	{Name: "Tricep Extension", Muscle: "triceps", Difficulty: "beginner", EquipmentType: "dumbbell"},
	{Name: "Leg Press", Muscle: "quadriceps", Difficulty: "beginner", EquipmentType: "machine"},
	{Name: "Lat Pulldown", Muscle: "lats", Difficulty: "beginner", EquipmentType: "machine"},
}

// age bands make sure every seeded user lands in somebody's cohort window
var seedAgeBands = [][2]int{{18, 25}, {26, 35}, {36, 45}, {46, 60}}

func seed(ctx context.Context, dbPool *pgxpool.Pool, userCount int) error {
	faker := gofakeit.New(0)

	for i := 0; i < userCount; i++ {
		band := seedAgeBands[i%len(seedAgeBands)]
		age := faker.Number(band[0], band[1])
		gender := faker.RandomString([]string{"male", "female"})
		weight := faker.Float64Range(50, 110)
		height := faker.Float64Range(150, 200)

		var userID int
		username := fmt.Sprintf("%s%d", faker.Username(), i)
		if err := dbPool.QueryRow(
			ctx,
			`INSERT INTO users (username, email, password) VALUES ($1, $2, $3) RETURNING id;`,
			username,
			fmt.Sprintf("%s@example.com", username),
			faker.Password(true, true, true, false, false, 24),
		).Scan(&userID); err != nil {
			return fmt.Errorf("insert user: %w", err)
		}

		if _, err := dbPool.Exec(
			ctx,
			`INSERT INTO profiles (user_id, gender, age, weight, height) VALUES ($1, $2, $3, $4, $5);`,
			userID, gender, age, weight, height,
		); err != nil {
			return fmt.Errorf("insert profile: %w", err)
		}

		workoutIDs, err := seedWorkouts(ctx, dbPool, faker, userID)
		if err != nil {
			return err
		}

		if err := seedLogs(ctx, dbPool, faker, userID, workoutIDs); err != nil {
			return err
		}
	}

	return nil
}

func seedWorkouts(
	ctx context.Context,
	dbPool *pgxpool.Pool,
	faker *gofakeit.Faker,
	userID int,
) ([]int, error) {
	workoutCount := faker.Number(1, 4)
	workoutIDs := make([]int, 0, workoutCount)

	for w := 0; w < workoutCount; w++ {
		exerciseCount := faker.Number(2, 5)
		picked := make([]workouts.ExerciseSnapshot, 0, exerciseCount)
		bodyParts := make([]string, 0, exerciseCount)
		seenMuscles := make(map[string]struct{})
		for e := 0; e < exerciseCount; e++ {
			ex := seedExercises[faker.Number(0, len(seedExercises)-1)]
			picked = append(picked, ex)
			if _, ok := seenMuscles[ex.Muscle]; !ok {
				seenMuscles[ex.Muscle] = struct{}{}
				bodyParts = append(bodyParts, ex.Muscle)
			}
		}

		exercisesJson, err := json.Marshal(picked)
		if err != nil {
			return nil, fmt.Errorf("marshal exercises: %w", err)
		}

		createdAt := time.Now().UTC().AddDate(0, 0, -faker.Number(0, 60))
		var workoutID int
		if err := dbPool.QueryRow(
			ctx,
			`INSERT INTO saved_workouts (user_id, name, workout_data, body_parts_worked, created_at)
				VALUES ($1, $2, $3, $4, $5) RETURNING id;`,
			userID,
			fmt.Sprintf("%s Day", faker.RandomString([]string{"Push", "Pull", "Leg", "Upper", "Lower", "Full Body"})),
			exercisesJson, bodyParts, createdAt,
		).Scan(&workoutID); err != nil {
			return nil, fmt.Errorf("insert saved workout: %w", err)
		}
		workoutIDs = append(workoutIDs, workoutID)
	}

	return workoutIDs, nil
}

func seedLogs(
	ctx context.Context,
	dbPool *pgxpool.Pool,
	faker *gofakeit.Faker,
	userID int,
	workoutIDs []int,
) error {
	logCount := faker.Number(0, 20)
	today := time.Now().UTC().Truncate(24 * time.Hour)

	// one log per distinct day, walking backwards from today
	for d := 0; d < logCount; d++ {
		if faker.Number(0, 2) == 0 {
			continue // rest day
		}
		logDate := today.AddDate(0, 0, -d)
		workoutID := workoutIDs[faker.Number(0, len(workoutIDs)-1)]
		if _, err := dbPool.Exec(
			ctx,
			`INSERT INTO workout_logs (user_id, workout_id, log_date, logged_at)
				VALUES ($1, $2, $3, $4);`,
			userID, workoutID, logDate, logDate.Add(time.Duration(faker.Number(6, 21))*time.Hour),
		); err != nil {
			return fmt.Errorf("insert workout log: %w", err)
		}
	}

	return nil
}
