package leaderboard

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/spartacus-fitness/backend/pkg"

	log "github.com/sirupsen/logrus"
)

type leaderboardRepo interface {
	Top(ctx context.Context) ([]Entry, error)
}

// Handler serves the public leaderboard; no caller identity involved.
type Handler struct {
	repo leaderboardRepo
}

func NewHandler(repo leaderboardRepo) *Handler {
	return &Handler{
		repo: repo,
	}
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	entries, err := handler.repo.Top(r.Context())
	if err != nil {
		log.Errorf("get leaderboard: %s", err)
		http.Error(w, "get leaderboard failed", http.StatusInternalServerError)
		return
	}

	entriesJson, err := json.Marshal(entries)
	if err != nil {
		log.Errorf("marshal leaderboard: %s", err)
		http.Error(w, "get leaderboard failed", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, entriesJson)
}

func (handler *Handler) HandleExportCSV(w http.ResponseWriter, r *http.Request) {
	entries, err := handler.repo.Top(r.Context())
	if err != nil {
		log.Errorf("export leaderboard: %s", err)
		http.Error(w, "export leaderboard failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", pkg.ContentType.CSV)
	w.Header().Set("Content-Disposition", `attachment; filename="leaderboard.csv"`)

	records := [][]string{{"rank", "username", "logs"}}
	for i, e := range entries {
		records = append(records, []string{strconv.Itoa(i + 1), e.Username, strconv.Itoa(e.Logs)})
	}

	if err := csv.NewWriter(w).WriteAll(records); err != nil {
		log.Errorf("write leaderboard csv: %s", err)
	}
}
