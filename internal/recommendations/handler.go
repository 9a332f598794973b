package recommendations

import (
	"encoding/json"
	"errors"
	"net/http"

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

type incompleteProfileResponse struct {
	Error   string   `json:"error"`
	Missing []string `json:"missing"`
}

// emptyCohortResponse mirrors what the web client expects when there is
// nobody comparable to recommend from.
type emptyCohortResponse struct {
	Message         string `json:"message"`
	Recommendations []any  `json:"recommendations"`
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	caller, err := auth.CallerFromContext(r.Context())
	if err != nil {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	resp, err := handler.service.GetRecommendations(r.Context(), caller.UserID)
	if err != nil {
		var incompleteErr IncompleteProfileError
		if errors.As(err, &incompleteErr) {
			respJson, err := json.Marshal(incompleteProfileResponse{
				Error:   "complete your profile to get recommendations",
				Missing: incompleteErr.Missing,
			})
			if err != nil {
				http.Error(w, "internal server error", http.StatusInternalServerError)
				return
			}
			pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusBadRequest)
			return
		}
		log.Errorf("get recommendations for user %d: %s", caller.UserID, err)
		http.Error(w, "get recommendations failed", http.StatusInternalServerError)
		return
	}

	if resp.SimilarUsersCount == 0 {
		respJson, err := json.Marshal(emptyCohortResponse{
			Message:         "no similar users found yet, check back later",
			Recommendations: []any{},
		})
		if err != nil {
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
		pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
		return
	}

	respJson, err := json.Marshal(resp)
	if err != nil {
		log.Errorf("marshal recommendations: %s", err)
		http.Error(w, "get recommendations failed", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
}
