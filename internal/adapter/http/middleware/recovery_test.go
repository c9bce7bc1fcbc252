package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/payinstr/internal/domain"
)

func TestRecovery_WritesMalformedResult(t *testing.T) {
	var logs bytes.Buffer
	logger := zerolog.New(&logs)

	handler := Recovery(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("secret internal detail")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/payment-instructions", nil))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NotContains(t, rec.Body.String(), "secret internal detail")

	var result domain.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, domain.StatusFailed, result.Status)
	assert.Equal(t, domain.CodeMalformed, result.StatusCode)
	assert.Equal(t, domain.ReasonUnparseable, result.StatusReason)
	assert.Empty(t, result.Accounts)

	assert.Contains(t, logs.String(), "panic recovered")
}

func TestRecovery_PassesThrough(t *testing.T) {
	handler := Recovery(zerolog.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusAccepted, rec.Code)
}
