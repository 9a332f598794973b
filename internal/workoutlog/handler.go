package workoutlog

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/spartacus-fitness/backend/internal/auth"
	"github.com/spartacus-fitness/backend/internal/workouts"
	"github.com/spartacus-fitness/backend/pkg"

	log "github.com/sirupsen/logrus"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service: service,
	}
}

type logWorkoutRequest struct {
	WorkoutID int `json:"workoutId"`
}

func (handler *Handler) HandleLog(w http.ResponseWriter, r *http.Request) {
	caller, err := auth.CallerFromContext(r.Context())
	if err != nil {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	var req logWorkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("log workout, unmarshal request: %s", err)
		http.Error(w, "log workout failed", http.StatusBadRequest)
		return
	}
	if req.WorkoutID <= 0 {
		http.Error(w, "workoutId is required", http.StatusBadRequest)
		return
	}

	record, err := handler.service.Log(r.Context(), caller.UserID, req.WorkoutID)
	if err != nil {
		switch {
		case errors.Is(err, workouts.ErrWorkoutNotFound):
			http.Error(w, "workout not found", http.StatusNotFound)
		case errors.Is(err, ErrAlreadyLoggedToday):
			http.Error(w, "workout already logged today", http.StatusTooManyRequests)
		default:
			log.Errorf("log workout for user %d: %s", caller.UserID, err)
			http.Error(w, "log workout failed", http.StatusInternalServerError)
		}
		return
	}

	recordJson, err := json.Marshal(record)
	if err != nil {
		log.Errorf("marshal log record: %s", err)
		http.Error(w, "log workout failed", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, recordJson, http.StatusCreated)
}
