package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/fastprodman/walletsvc/internal/repos/idempotency"
)

const (
	idempotencyHeader    = "Idempotency-Key"
	idempotencyHitHeader = "X-Idempotency-Hit"
)

// responseRecorder copies what the handler writes so it can be cached.
type responseRecorder struct {
	http.ResponseWriter
	statusCode int
	body       bytes.Buffer
}

func (r *responseRecorder) WriteHeader(statusCode int) {
	r.statusCode = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

// inFlightTTL bounds how long a crashed request can hold its key.
const inFlightTTL = time.Minute

// Idempotency replays the stored response for a repeated Idempotency-Key
// from the same caller. The key is reserved before the handler runs, so a
// concurrent duplicate gets 409 instead of executing twice. Responses with
// 5xx status release the key so the client can retry. Store failures let the
// request through.
func Idempotency(store idempotency.Store, ttl time.Duration, log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if store == nil {
			return next
		}

		h := &Handler{log: log}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(idempotencyHeader)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			caller, ok := CallerFrom(r.Context())
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			storeKey := fmt.Sprintf("%s:%d:%s:%s", caller.Role, caller.CustomerID, r.URL.Path, key)
			ctx := r.Context()

			cached, err := store.Get(ctx, storeKey)

			switch {
			case errors.Is(err, idempotency.ErrInFlight):
				h.writeError(w, http.StatusConflict, "request with this Idempotency-Key is still in progress")
				return
			case err != nil:
				log.Error().Err(err).Str("key", key).Msg("idempotency lookup failed")
				next.ServeHTTP(w, r)

				return
			case cached != nil:
				replay(w, cached, key, log)
				return
			}

			reserved, err := store.Reserve(ctx, storeKey, inFlightTTL)
			if err != nil {
				log.Error().Err(err).Str("key", key).Msg("idempotency reserve failed")
				next.ServeHTTP(w, r)

				return
			}

			if !reserved {
				// Lost the race between Get and Reserve.
				cached, err = store.Get(ctx, storeKey)
				if err == nil && cached != nil {
					replay(w, cached, key, log)
					return
				}

				h.writeError(w, http.StatusConflict, "request with this Idempotency-Key is still in progress")

				return
			}

			bg := context.WithoutCancel(ctx)

			rec := &responseRecorder{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(rec, r)

			if rec.statusCode >= http.StatusInternalServerError {
				release(bg, store, storeKey, key, log)
				return
			}

			resp := idempotency.CachedResponse{
				StatusCode: rec.statusCode,
				Headers:    map[string]string{"Content-Type": rec.Header().Get("Content-Type")},
				Body:       rec.body.Bytes(),
			}

			err = store.Save(bg, storeKey, resp, ttl)
			if err != nil {
				log.Error().Err(err).Str("key", key).Msg("idempotency save failed")
				release(bg, store, storeKey, key, log)
			}
		})
	}
}

func replay(w http.ResponseWriter, cached *idempotency.CachedResponse, key string, log zerolog.Logger) {
	log.Info().Str("key", key).Msg("idempotency cache hit")

	for k, v := range cached.Headers {
		w.Header().Set(k, v)
	}

	w.Header().Set(idempotencyHitHeader, "true")
	w.WriteHeader(cached.StatusCode)

	_, err := w.Write(cached.Body)
	if err != nil {
		log.Error().Err(err).Msg("write cached response")
	}
}

func release(ctx context.Context, store idempotency.Store, storeKey, key string, log zerolog.Logger) {
	err := store.Release(ctx, storeKey)
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("idempotency release failed")
	}
}
