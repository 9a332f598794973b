package leaderboard

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type repoMock struct {
	entries []Entry
	err     error
}

func (m *repoMock) Top(_ context.Context) ([]Entry, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.entries, nil
}

func TestHandler_HandleGet(t *testing.T) {
	handler := NewHandler(&repoMock{entries: []Entry{
		{Username: "berta", Logs: 12},
		{Username: "clara", Logs: 7},
	}})

	rr := httptest.NewRecorder()
	handler.HandleGet(rr, httptest.NewRequest("GET", "/api/leaderboard", nil))

	require.Equal(t, http.StatusOK, rr.Code)

	var entries []Entry
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "berta", entries[0].Username)
	assert.Equal(t, 12, entries[0].Logs)
}

func TestHandler_HandleGet_Empty(t *testing.T) {
	handler := NewHandler(&repoMock{})

	rr := httptest.NewRecorder()
	handler.HandleGet(rr, httptest.NewRequest("GET", "/api/leaderboard", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rr.Body.String()))
}

func TestHandler_HandleGet_RepoError(t *testing.T) {
	handler := NewHandler(&repoMock{err: errors.New("db gone")})

	rr := httptest.NewRecorder()
	handler.HandleGet(rr, httptest.NewRequest("GET", "/api/leaderboard", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestHandler_HandleExportCSV(t *testing.T) {
	handler := NewHandler(&repoMock{entries: []Entry{
		{Username: "berta", Logs: 12},
		{Username: "clara", Logs: 7},
	}})

	rr := httptest.NewRecorder()
	handler.HandleExportCSV(rr, httptest.NewRequest("GET", "/export/leaderboard/csv", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/csv", rr.Header().Get("Content-Type"))

	lines := strings.Split(strings.TrimSpace(rr.Body.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "rank,username,logs", lines[0])
	assert.Equal(t, "1,berta,12", lines[1])
	assert.Equal(t, "2,clara,7", lines[2])
}
