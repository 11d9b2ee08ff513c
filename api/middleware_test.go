package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/warp/staff-ledger/logger"
)

func TestRequestLogger_LevelByStatusAndRequestID(t *testing.T) {
	// GIVEN: A handler that echoes the request id it sees and fails on /boom
	core, logs := observer.New(zapcore.DebugLevel)
	var seenID string
	h := middleware.RequestID(RequestLogger(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID = logger.RequestID(r.Context())
		if r.URL.Path == "/boom" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	})))

	// WHEN: Two requests are served
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", nil))

	// THEN: 4xx logs at warn, 5xx at error, both tagged with the request id
	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	assert.Equal(t, "http", entries[1].LoggerName)

	fields := entries[1].ContextMap()
	assert.EqualValues(t, http.StatusInternalServerError, fields["status"])
	assert.Equal(t, "/boom", fields["path"])
	assert.NotEmpty(t, seenID)
	assert.Equal(t, seenID, fields["request_id"])
}
