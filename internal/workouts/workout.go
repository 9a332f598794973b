package workouts

import (
	"errors"
	"time"
)

var ErrWorkoutNotFound = errors.New("saved workout not found")

// ExerciseSnapshot is an exercise as it was at save time. It is a copy of
// the catalog entry, not a reference: later catalog edits must never change
// what a saved workout says it contains.
type ExerciseSnapshot struct {
	Name             string `json:"name"`
	Muscle           string `json:"muscle"`
	Difficulty       string `json:"difficulty"`
	EquipmentType    string `json:"equipmentType"`
	EquipmentSubtype string `json:"equipmentSubtype,omitempty"`
	Instructions     string `json:"instructions"`
}

// SavedWorkout is immutable after creation; it only goes away when the
// owning user is deleted (FK cascade).
type SavedWorkout struct {
	ID              int                `json:"id"`
	UserID          int                `json:"userId"`
	Name            string             `json:"name"`
	Exercises       []ExerciseSnapshot `json:"exercises"`
	BodyPartsWorked []string           `json:"bodyPartsWorked"`
	CreatedAt       time.Time          `json:"createdAt"`
}
