package workouts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/spartacus-fitness/backend/internal/auth"
	"github.com/spartacus-fitness/backend/internal/dates"
	"github.com/spartacus-fitness/backend/pkg"

	log "github.com/sirupsen/logrus"
)

type savedWorkoutsRepo interface {
	Add(ctx context.Context, workout SavedWorkout) (*SavedWorkout, error)
	Get(ctx context.Context, id int) (*SavedWorkout, error)
	ListByUser(ctx context.Context, userID int) ([]SavedWorkout, error)
}

type Handler struct {
	repo         savedWorkoutsRepo
	dateProvider *dates.Provider
}

func NewHandler(repo savedWorkoutsRepo, dateProvider *dates.Provider) *Handler {
	return &Handler{
		repo:         repo,
		dateProvider: dateProvider,
	}
}

type saveWorkoutRequest struct {
	Name      string             `json:"name"`
	Exercises []ExerciseSnapshot `json:"exercises"`
	BodyParts []string           `json:"bodyParts"`
}

func (req saveWorkoutRequest) validate() error {
	if strings.TrimSpace(req.Name) == "" {
		return errors.New("workout name is required")
	}
	if len(req.Exercises) == 0 {
		return errors.New("workout needs at least one exercise")
	}
	for i, ex := range req.Exercises {
		if strings.TrimSpace(ex.Name) == "" {
			return fmt.Errorf("exercise %d has no name", i)
		}
	}
	return nil
}

func (handler *Handler) HandleSave(w http.ResponseWriter, r *http.Request) {
	caller, err := auth.CallerFromContext(r.Context())
	if err != nil {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	var req saveWorkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("save workout, unmarshal request: %s", err)
		http.Error(w, "save workout failed", http.StatusBadRequest)
		return
	}

	if err := req.validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.BodyParts == nil {
		req.BodyParts = bodyPartsFromExercises(req.Exercises)
	}

	added, err := handler.repo.Add(r.Context(), SavedWorkout{
		UserID:          caller.UserID,
		Name:            req.Name,
		Exercises:       req.Exercises,
		BodyPartsWorked: req.BodyParts,
		CreatedAt:       handler.dateProvider.Now(),
	})
	if err != nil {
		log.Errorf("save workout for user %d: %s", caller.UserID, err)
		http.Error(w, "save workout failed", http.StatusInternalServerError)
		return
	}

	addedJson, err := json.Marshal(added)
	if err != nil {
		log.Errorf("marshal saved workout: %s", err)
		http.Error(w, "save workout failed", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, addedJson, http.StatusCreated)
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	caller, err := auth.CallerFromContext(r.Context())
	if err != nil {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	workouts, err := handler.repo.ListByUser(r.Context(), caller.UserID)
	if err != nil {
		log.Errorf("list saved workouts for user %d: %s", caller.UserID, err)
		http.Error(w, "list workouts failed", http.StatusInternalServerError)
		return
	}

	workoutsJson, err := json.Marshal(workouts)
	if err != nil {
		log.Errorf("marshal saved workouts: %s", err)
		http.Error(w, "list workouts failed", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, workoutsJson)
}

// bodyPartsFromExercises derives the worked body parts from the exercise
// snapshots when the client did not send them explicitly. Deduplicated,
// original order preserved.
func bodyPartsFromExercises(exercises []ExerciseSnapshot) []string {
	seen := make(map[string]struct{})
	parts := make([]string, 0, len(exercises))
	for _, ex := range exercises {
		if ex.Muscle == "" {
			continue
		}
		if _, ok := seen[ex.Muscle]; ok {
			continue
		}
		seen[ex.Muscle] = struct{}{}
		parts = append(parts, ex.Muscle)
	}
	return parts
}
