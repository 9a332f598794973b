package recommendations

import (
	"fmt"
	"strings"
	"time"

	"github.com/spartacus-fitness/backend/internal/workouts"
)

const (
	// cohort members are within this many years of the caller's age,
	// in both directions
	cohortAgeWindow = 5

	popularExercisesCap    = 20
	musclePatternsCap      = 10
	recentWorkoutsCap      = 15
	recentWorkoutsLookback = 30 * 24 * time.Hour

	// a muscle-group pattern is noise until this many distinct workouts share it
	musclePatternMinWorkouts = 2
)

// IncompleteProfileError is returned when the caller's profile is missing
// the fields cohort matching needs.
type IncompleteProfileError struct {
	Missing []string
}

func (e IncompleteProfileError) Error() string {
	return fmt.Sprintf("profile incomplete, missing: %s", strings.Join(e.Missing, ", "))
}

// CohortWorkout is a saved workout of a cohort member, joined with just
// enough owner data to build the projections.
type CohortWorkout struct {
	ID              int
	OwnerID         int
	OwnerUsername   string
	OwnerAge        int
	Name            string
	Exercises       []workouts.ExerciseSnapshot
	BodyPartsWorked []string
	CreatedAt       time.Time
}

type UserProfileSummary struct {
	Gender   string `json:"gender"`
	Age      int    `json:"age"`
	AgeRange string `json:"ageRange"`
}

type PopularExercise struct {
	Name          string  `json:"name"`
	Muscle        string  `json:"muscle"`
	Difficulty    string  `json:"difficulty"`
	EquipmentType string  `json:"equipmentType"`
	AvgUserAge    float64 `json:"avgUserAge"`
	UsageCount    int     `json:"usageCount"`
}

type MusclePattern struct {
	MuscleGroups string  `json:"muscleGroups"`
	PatternCount int     `json:"patternCount"`
	AvgUserAge   float64 `json:"avgUserAge"`
}

type RecentWorkout struct {
	Name            string                      `json:"name"`
	CreatedBy       string                      `json:"createdBy"`
	UserAge         int                         `json:"userAge"`
	CreatedAt       time.Time                   `json:"createdAt"`
	NamePopularity  int                         `json:"namePopularity"`
	BodyPartsWorked []string                    `json:"bodyPartsWorked"`
	WorkoutData     []workouts.ExerciseSnapshot `json:"workoutData"`
}

type Response struct {
	UserProfile         UserProfileSummary `json:"userProfile"`
	SimilarUsersCount   int                `json:"similarUsersCount"`
	PopularExercises    []PopularExercise  `json:"popularExercises"`
	PopularMuscleGroups []MusclePattern    `json:"popularMuscleGroups"`
	RecentWorkouts      []RecentWorkout    `json:"recentWorkouts"`
}
