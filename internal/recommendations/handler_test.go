package recommendations

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/spartacus-fitness/backend/internal/auth"
	"github.com/spartacus-fitness/backend/internal/profiles"
	"github.com/spartacus-fitness/backend/internal/workouts"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authedGet(t *testing.T, userID int) *http.Request {
	t.Helper()
	req := httptest.NewRequest("GET", "/api/recommendations", nil)
	ctx := auth.ContextWithCaller(req.Context(), auth.CallerContext{UserID: userID})
	return req.WithContext(ctx)
}

func TestHandler_HandleGet_EmptyCohort(t *testing.T) {
	svc := newTestService(newRepoMock(), map[int]profiles.Profile{
		1: {UserID: 1, Gender: strPtr("male"), Age: intPtr(40)},
	})
	handler := NewHandler(svc)

	rr := httptest.NewRecorder()
	handler.HandleGet(rr, authedGet(t, 1))

	require.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Contains(t, resp, "message")
	assert.JSONEq(t, `[]`, string(resp["recommendations"]))
}

func TestHandler_HandleGet_IncompleteProfile(t *testing.T) {
	svc := newTestService(newRepoMock(), map[int]profiles.Profile{
		1: {UserID: 1, Age: intPtr(40)},
	})
	handler := NewHandler(svc)

	rr := httptest.NewRecorder()
	handler.HandleGet(rr, authedGet(t, 1))

	require.Equal(t, http.StatusBadRequest, rr.Code)

	var resp incompleteProfileResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, []string{"gender"}, resp.Missing)
}

func TestHandler_HandleGet_Unauthenticated(t *testing.T) {
	svc := newTestService(newRepoMock(), map[int]profiles.Profile{})
	handler := NewHandler(svc)

	rr := httptest.NewRecorder()
	handler.HandleGet(rr, httptest.NewRequest("GET", "/api/recommendations", nil))

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestHandler_HandleGet_FullPayload(t *testing.T) {
	repo := newRepoMock()
	repo.members = []int{2}
	repo.cohortWorkouts = []CohortWorkout{
		{
			ID: 1, OwnerID: 2, OwnerUsername: "berta", OwnerAge: 30,
			Name:            "Push Day",
			Exercises:       []workouts.ExerciseSnapshot{benchPress()},
			BodyPartsWorked: []string{"chest"},
			CreatedAt:       time.Date(2024, 5, 16, 12, 0, 0, 0, time.UTC),
		},
	}
	svc := newTestService(repo, map[int]profiles.Profile{
		1: {UserID: 1, Gender: strPtr("female"), Age: intPtr(31)},
	})
	handler := NewHandler(svc)

	rr := httptest.NewRecorder()
	handler.HandleGet(rr, authedGet(t, 1))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var resp Response
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.SimilarUsersCount)
	require.Len(t, resp.RecentWorkouts, 1)
	assert.Equal(t, "berta", resp.RecentWorkouts[0].CreatedBy)
	require.Len(t, resp.RecentWorkouts[0].WorkoutData, 1)
	assert.Equal(t, "Bench Press", resp.RecentWorkouts[0].WorkoutData[0].Name)
}
