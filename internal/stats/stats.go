package stats

import "time"

type TopWorkout struct {
	Name  string `json:"name"`
	Times int    `json:"times"`
}

// UserStats is the personal analytics payload. Pointer fields stay nil
// until the user has the data to back them: no logs means no favorites,
// no weight or height means no BMI.
type UserStats struct {
	TotalLogged       int         `json:"totalLogged"`
	FirstLogged       *time.Time  `json:"firstLogged"`
	LastLogged        *time.Time  `json:"lastLogged"`
	WorkoutStreak     int         `json:"workoutStreak"`
	FavoriteMuscle    *string     `json:"favoriteMuscle"`
	TopEquipment      *string     `json:"topEquipment"`
	TopWorkout        *TopWorkout `json:"topWorkout"`
	TopDay            *string     `json:"topDay"`
	DistinctExercises int         `json:"distinctExercises"`
	SavedWorkouts     int         `json:"savedWorkouts"`
	BMI               *float64    `json:"bmi"`
}
