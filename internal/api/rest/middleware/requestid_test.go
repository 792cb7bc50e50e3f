package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestIDHandle(t *testing.T) {
	log := zerolog.Nop()
	handler := RequestIDHandle(&log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/entries", nil))
	requestID := recorder.Header().Get("X-Request-ID")
	require.NotEmpty(t, requestID)
	_, err := uuid.Parse(requestID)
	assert.NoError(t, err)
}

func TestRequestIDHandleIsUniquePerRequest(t *testing.T) {
	log := zerolog.Nop()
	handler := RequestIDHandle(&log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	firstRecorder := httptest.NewRecorder()
	handler.ServeHTTP(firstRecorder, httptest.NewRequest(http.MethodGet, "/", nil))
	secondRecorder := httptest.NewRecorder()
	handler.ServeHTTP(secondRecorder, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEqual(t, firstRecorder.Header().Get("X-Request-ID"), secondRecorder.Header().Get("X-Request-ID"))
}
