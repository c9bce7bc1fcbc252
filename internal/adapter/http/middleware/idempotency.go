package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/payinstr/internal/adapter/http/dto"
	"github.com/iho/payinstr/internal/usecase"
)

const (
	// IdempotencyKeyHeader is the header name for idempotency keys.
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyReplayHeader marks a response served from the store.
	IdempotencyReplayHeader = "X-Idempotency-Replay"

	maxIdempotentBodyBytes = 1 << 20

	// storeWriteTimeout bounds Update/Release once the handler has finished.
	storeWriteTimeout = 2 * time.Second
)

// ReplayRecorder counts replayed responses.
type ReplayRecorder interface {
	RecordIdempotencyReplay()
}

// IdempotencyMiddleware replays earlier responses for repeated requests that
// carry the same Idempotency-Key and body.
type IdempotencyMiddleware struct {
	store    usecase.IdempotencyStore
	ttl      time.Duration
	recorder ReplayRecorder
	logger   zerolog.Logger
}

// NewIdempotencyMiddleware creates a new IdempotencyMiddleware. A non-positive
// ttl falls back to usecase.IdempotencyKeyTTL; recorder may be nil.
func NewIdempotencyMiddleware(store usecase.IdempotencyStore, ttl time.Duration, recorder ReplayRecorder, logger zerolog.Logger) *IdempotencyMiddleware {
	if ttl <= 0 {
		ttl = usecase.IdempotencyKeyTTL
	}
	return &IdempotencyMiddleware{
		store:    store,
		ttl:      ttl,
		recorder: recorder,
		logger:   logger,
	}
}

// Wrap wraps an http.Handler with idempotency checking.
func (m *IdempotencyMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Only apply to mutating requests
		if r.Method != http.MethodPost && r.Method != http.MethodPut {
			next.ServeHTTP(w, r)
			return
		}

		key := r.Header.Get(IdempotencyKeyHeader)
		if key == "" {
			next.ServeHTTP(w, r)
			return
		}

		body, err := io.ReadAll(io.LimitReader(r.Body, maxIdempotentBodyBytes+1))
		r.Body = io.NopCloser(bytes.NewReader(body))
		if err != nil || len(body) > maxIdempotentBodyBytes {
			next.ServeHTTP(w, r)
			return
		}

		scoped := scopedKey(key, body)

		exists, cachedResponse, err := m.store.CheckAndSet(r.Context(), scoped, nil, m.ttl)
		if err != nil {
			m.logger.Error().Err(err).Msg("idempotency check failed")
			writeMiddlewareError(w, http.StatusInternalServerError, "idempotency check failed")
			return
		}

		if exists {
			if cachedResponse == nil || string(cachedResponse) == usecase.IdempotencyInFlight {
				writeMiddlewareError(w, http.StatusConflict, "request with this idempotency key is in progress")
				return
			}

			if m.recorder != nil {
				m.recorder.RecordIdempotencyReplay()
			}
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set(IdempotencyReplayHeader, "true")
			w.Write(cachedResponse)
			return
		}

		recorder := &responseRecorder{
			ResponseWriter: w,
			body:           &bytes.Buffer{},
			statusCode:     http.StatusOK,
		}

		completed := false
		defer func() {
			if completed {
				return
			}
			// The handler panicked; free the key before the panic propagates.
			m.release(r.Context(), scoped)
		}()

		next.ServeHTTP(recorder, r)
		completed = true

		if recorder.statusCode >= 200 && recorder.statusCode < 300 {
			ctx, cancel := storeContext(r.Context())
			defer cancel()
			if err := m.store.Update(ctx, scoped, recorder.body.Bytes(), m.ttl); err != nil {
				m.logger.Warn().Err(err).Msg("failed to store idempotent response")
			}
			return
		}

		m.release(r.Context(), scoped)
	})
}

func (m *IdempotencyMiddleware) release(parent context.Context, key string) {
	ctx, cancel := storeContext(parent)
	defer cancel()
	if err := m.store.Release(ctx, key); err != nil {
		m.logger.Warn().Err(err).Msg("failed to release idempotency key")
	}
}

// storeContext detaches from the request so a client that hung up does not leave
// the key stuck in flight until the TTL expires.
func storeContext(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(parent), storeWriteTimeout)
}

// scopedKey binds the client key to the request body so that reusing a key
// with a different body is not answered with a stale response.
func scopedKey(key string, body []byte) string {
	sum := sha256.Sum256(body)
	return key + ":" + hex.EncodeToString(sum[:8])
}

func writeMiddlewareError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{Error: message})
}

type responseRecorder struct {
	http.ResponseWriter
	statusCode int
	body       *bytes.Buffer
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

func (r *responseRecorder) WriteHeader(statusCode int) {
	r.statusCode = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}
