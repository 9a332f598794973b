package stats

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/spartacus-fitness/backend/internal/auth"
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

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	caller, err := auth.CallerFromContext(r.Context())
	if err != nil {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	userStats, err := handler.service.ComputeStats(r.Context(), caller.UserID)
	if err != nil {
		log.Errorf("compute stats for user %d: %s", caller.UserID, err)
		http.Error(w, "get stats failed", http.StatusInternalServerError)
		return
	}

	statsJson, err := json.Marshal(userStats)
	if err != nil {
		log.Errorf("marshal stats: %s", err)
		http.Error(w, "get stats failed", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, statsJson)
}

func (handler *Handler) HandleExportCSV(w http.ResponseWriter, r *http.Request) {
	caller, err := auth.CallerFromContext(r.Context())
	if err != nil {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	userStats, err := handler.service.ComputeStats(r.Context(), caller.UserID)
	if err != nil {
		log.Errorf("compute stats for user %d: %s", caller.UserID, err)
		http.Error(w, "export stats failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", pkg.ContentType.CSV)
	w.Header().Set("Content-Disposition", `attachment; filename="workout-stats.csv"`)

	csvWriter := csv.NewWriter(w)
	records := [][]string{
		{"stat", "value"},
		{"totalLogged", strconv.Itoa(userStats.TotalLogged)},
		{"workoutStreak", strconv.Itoa(userStats.WorkoutStreak)},
		{"savedWorkouts", strconv.Itoa(userStats.SavedWorkouts)},
		{"distinctExercises", strconv.Itoa(userStats.DistinctExercises)},
		{"firstLogged", formatDate(userStats.FirstLogged)},
		{"lastLogged", formatDate(userStats.LastLogged)},
		{"favoriteMuscle", stringOrEmpty(userStats.FavoriteMuscle)},
		{"topEquipment", stringOrEmpty(userStats.TopEquipment)},
		{"topDay", stringOrEmpty(userStats.TopDay)},
	}
	if userStats.TopWorkout != nil {
		records = append(records,
			[]string{"topWorkout", userStats.TopWorkout.Name},
			[]string{"topWorkoutTimes", strconv.Itoa(userStats.TopWorkout.Times)},
		)
	}
	if userStats.BMI != nil {
		records = append(records, []string{"bmi", fmt.Sprintf("%.1f", *userStats.BMI)})
	}

	if err := csvWriter.WriteAll(records); err != nil {
		log.Errorf("write stats csv: %s", err)
	}
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
