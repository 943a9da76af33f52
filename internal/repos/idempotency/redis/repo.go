package idempotency

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fastprodman/walletsvc/internal/repos/idempotency"
)

const keyPrefix = "idempotency:"

// inFlight marks a reserved key. It can never be a JSON response.
var inFlight = []byte("in-flight")

// releaseScript deletes the key only while it still holds the marker.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

var _ idempotency.Store = (*idempotencyRepo)(nil)

type idempotencyRepo struct {
	client redis.UniversalClient
}

func New(client redis.UniversalClient) *idempotencyRepo {
	return &idempotencyRepo{client: client}
}

func (r *idempotencyRepo) Get(ctx context.Context, key string) (*idempotency.CachedResponse, error) {
	val, err := r.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil //nolint:nilnil // a miss is not an error
	}

	if err != nil {
		return nil, fmt.Errorf("get idempotency key: %w", err)
	}

	if bytes.Equal(val, inFlight) {
		return nil, idempotency.ErrInFlight
	}

	var resp idempotency.CachedResponse

	err = json.Unmarshal(val, &resp)
	if err != nil {
		return nil, fmt.Errorf("unmarshal cached response: %w", err)
	}

	return &resp, nil
}

func (r *idempotencyRepo) Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := r.client.SetNX(ctx, keyPrefix+key, inFlight, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("reserve idempotency key: %w", err)
	}

	return ok, nil
}

func (r *idempotencyRepo) Save(ctx context.Context, key string, resp idempotency.CachedResponse, ttl time.Duration) error {
	b, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("marshal response: %w", err)
	}

	err = r.client.Set(ctx, keyPrefix+key, b, ttl).Err()
	if err != nil {
		return fmt.Errorf("save idempotency key: %w", err)
	}

	return nil
}

func (r *idempotencyRepo) Release(ctx context.Context, key string) error {
	err := releaseScript.Run(ctx, r.client, []string{keyPrefix + key}, inFlight).Err()
	if err != nil {
		return fmt.Errorf("release idempotency key: %w", err)
	}

	return nil
}
