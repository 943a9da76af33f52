package idempotency

import (
	"context"
	"errors"
	"time"
)

// ErrInFlight is returned by Get while another request holds the key.
var ErrInFlight = errors.New("idempotent request still in flight")

// CachedResponse is a replayable HTTP response.
type CachedResponse struct {
	StatusCode int               `json:"statusCode"`
	Headers    map[string]string `json:"headers,omitempty"`
	Body       []byte            `json:"body"`
}

// Store keeps responses keyed by idempotency key. Get returns (nil, nil) on a
// miss. Reserve claims a free key for one request; Save replaces the claim
// with the response and Release drops an unanswered claim.
type Store interface {
	Get(ctx context.Context, key string) (*CachedResponse, error)
	Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Save(ctx context.Context, key string, resp CachedResponse, ttl time.Duration) error
	Release(ctx context.Context, key string) error
}
