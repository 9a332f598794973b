package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func corsTestHandler() http.Handler {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return Cors()(next)
}

func TestCors_AllowedOrigin(t *testing.T) {
	req, err := http.NewRequest("GET", "/api/leaderboard", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://spartacus.fit")

	rr := httptest.NewRecorder()
	corsTestHandler().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "https://spartacus.fit", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestCors_SameOriginNoHeader(t *testing.T) {
	req, err := http.NewRequest("GET", "/api/leaderboard", nil)
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	corsTestHandler().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestCors_ForbiddenOrigin(t *testing.T) {
	req, err := http.NewRequest("GET", "/api/leaderboard", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://evil.example.com")
	req.Header.Set("User-Agent", "Mozilla/5.0")

	rr := httptest.NewRecorder()
	corsTestHandler().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
}
