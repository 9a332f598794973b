package workoutlog

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/spartacus-fitness/backend/internal/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authedRequest(t *testing.T, body string, userID int) *http.Request {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/log-workout", strings.NewReader(body))
	ctx := auth.ContextWithCaller(req.Context(), auth.CallerContext{UserID: userID})
	return req.WithContext(ctx)
}

func TestHandler_HandleLog(t *testing.T) {
	svc, _ := newTestService(time.Date(2024, 5, 17, 18, 30, 0, 0, time.UTC))
	handler := NewHandler(svc)

	rr := httptest.NewRecorder()
	handler.HandleLog(rr, authedRequest(t, `{"workoutId": 10}`, 42))

	require.Equal(t, http.StatusCreated, rr.Code)

	var record LogRecord
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &record))
	assert.Equal(t, 42, record.UserID)
	assert.Equal(t, 10, record.WorkoutID)
}

func TestHandler_HandleLog_AlreadyLoggedToday(t *testing.T) {
	svc, _ := newTestService(time.Date(2024, 5, 17, 18, 30, 0, 0, time.UTC))
	handler := NewHandler(svc)

	rr := httptest.NewRecorder()
	handler.HandleLog(rr, authedRequest(t, `{"workoutId": 10}`, 42))
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = httptest.NewRecorder()
	handler.HandleLog(rr, authedRequest(t, `{"workoutId": 10}`, 42))
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
}

func TestHandler_HandleLog_WorkoutNotFound(t *testing.T) {
	svc, _ := newTestService(time.Now())
	handler := NewHandler(svc)

	rr := httptest.NewRecorder()
	handler.HandleLog(rr, authedRequest(t, `{"workoutId": 999}`, 42))
	assert.Equal(t, http.StatusNotFound, rr.Code)

	// someone else's workout looks exactly the same from the outside
	rr = httptest.NewRecorder()
	handler.HandleLog(rr, authedRequest(t, `{"workoutId": 11}`, 42))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHandler_HandleLog_BadRequest(t *testing.T) {
	svc, _ := newTestService(time.Now())
	handler := NewHandler(svc)

	for _, body := range []string{`{}`, `{"workoutId": 0}`, `{"workoutId": -3}`, `not json`} {
		rr := httptest.NewRecorder()
		handler.HandleLog(rr, authedRequest(t, body, 42))
		assert.Equal(t, http.StatusBadRequest, rr.Code, "body: %s", body)
	}
}

func TestHandler_HandleLog_Unauthenticated(t *testing.T) {
	svc, _ := newTestService(time.Now())
	handler := NewHandler(svc)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/log-workout", strings.NewReader(`{"workoutId": 10}`))
	handler.HandleLog(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
