package workoutlog

import (
	"errors"
	"time"
)

// ErrAlreadyLoggedToday marks a second log attempt on the same calendar day.
// One workout log per user per day, no exceptions.
var ErrAlreadyLoggedToday = errors.New("workout already logged today")

// LogRecord is one completed workout on one calendar day. LogDate is the
// UTC date the daily-limit guard keys on; LoggedAt keeps the full timestamp.
type LogRecord struct {
	ID        int       `json:"id"`
	UserID    int       `json:"userId"`
	WorkoutID int       `json:"workoutId"`
	LogDate   time.Time `json:"logDate"`
	LoggedAt  time.Time `json:"loggedAt"`
}
