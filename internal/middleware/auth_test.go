package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spartacus-fitness/backend/internal/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sessionCheckerMock struct {
	tokens map[string]int
}

func (m *sessionCheckerMock) UserIDForToken(_ context.Context, token string) (int, error) {
	if userID, ok := m.tokens[token]; ok {
		return userID, nil
	}
	return 0, auth.ErrUnauthenticated
}

func authTestSetup(tokens map[string]int) (http.Handler, *int) {
	var seenUserID int
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller, err := auth.CallerFromContext(r.Context())
		if err == nil {
			seenUserID = caller.UserID
		}
		w.WriteHeader(http.StatusOK)
	})

	h := NewAuthMiddlewareHandler(&sessionCheckerMock{tokens: tokens})
	return h.AuthCheck()(next), &seenUserID
}

func TestAuthCheck_ValidCookie(t *testing.T) {
	handler, seenUserID := authTestSetup(map[string]int{"tok-abc": 42})

	req, err := http.NewRequest("GET", "/api/user-stats", nil)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: "sid", Value: "tok-abc"})

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 42, *seenUserID)
}

func TestAuthCheck_ValidHeaderToken(t *testing.T) {
	handler, seenUserID := authTestSetup(map[string]int{"tok-abc": 42})

	req, err := http.NewRequest("GET", "/api/user-stats", nil)
	require.NoError(t, err)
	req.Header.Set("X-SPARTACUS-TOKEN", "tok-abc")

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 42, *seenUserID)
}

func TestAuthCheck_MissingToken(t *testing.T) {
	handler, _ := authTestSetup(nil)

	req, err := http.NewRequest("GET", "/api/user-stats", nil)
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAuthCheck_InvalidToken(t *testing.T) {
	handler, _ := authTestSetup(map[string]int{"tok-abc": 42})

	req, err := http.NewRequest("GET", "/api/user-stats", nil)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: "sid", Value: "tok-wrong"})

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAuthCheck_PublicPath(t *testing.T) {
	handler, _ := authTestSetup(nil)

	req, err := http.NewRequest("GET", "/api/leaderboard", nil)
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestAuthCheck_PublicPathPrefix(t *testing.T) {
	handler, _ := authTestSetup(nil)

	req, err := http.NewRequest("GET", "/export/leaderboard/csv", nil)
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestAuthCheck_Options(t *testing.T) {
	handler, _ := authTestSetup(nil)

	req, err := http.NewRequest("OPTIONS", "/api/log-workout", nil)
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}
