package middleware_test

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alex-user-go/tripplanner/internal/middleware"
)

func TestLogging_AssignsRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	var seenID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID = middleware.RequestID(r.Context())
		middleware.Logger(r.Context()).Info("inside handler")
		w.WriteHeader(http.StatusTeapot)
	})

	w := httptest.NewRecorder()
	middleware.Logging(logger)(next).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/plan", nil))

	require.NotEmpty(t, seenID)
	_, err := uuid.Parse(seenID)
	assert.NoError(t, err)
	assert.Equal(t, seenID, w.Header().Get(middleware.RequestIDHeader))
	assert.Equal(t, http.StatusTeapot, w.Code)

	out := buf.String()
	assert.Contains(t, out, "msg=\"inside handler\" request_id="+seenID)
	assert.Contains(t, out, "status=418")
}

func TestLogging_KeepsIncomingRequestID(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	var seenID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID = middleware.RequestID(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/plan", nil)
	req.Header.Set(middleware.RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	middleware.Logging(logger)(next).ServeHTTP(w, req)

	assert.Equal(t, "abc-123", seenID)
	assert.Equal(t, "abc-123", w.Header().Get(middleware.RequestIDHeader))
}

func TestLogger_OutsideRequest(t *testing.T) {
	assert.Equal(t, slog.Default(), middleware.Logger(context.Background()))
	assert.Empty(t, middleware.RequestID(context.Background()))
}
