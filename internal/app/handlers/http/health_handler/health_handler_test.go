package health_handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

type fakeSessions int

func (f fakeSessions) Active() int { return int(f) }

func serve(t *testing.T, db Pinger) (*httptest.ResponseRecorder, HealthResponse) {
	t.Helper()
	log, _ := test.NewNullLogger()
	rec := httptest.NewRecorder()
	NewHealthHandler(db, fakeSessions(3), log).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	var resp HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return rec, resp
}

func TestHealthOK(t *testing.T) {
	rec, resp := serve(t, fakePinger{})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, HealthResponse{Status: "ok", Database: "ok", ActiveSessions: 3}, resp)
}

func TestHealthDatabaseDown(t *testing.T) {
	rec, resp := serve(t, fakePinger{err: errors.New("connection refused")})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "unavailable", resp.Database)
}
