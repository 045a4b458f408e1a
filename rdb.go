package resource

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisRetriever retrieves a single value of type T stored under a fixed redis key.
// It encapsulates the redis client, the key identifying the resource, and a transcoder
// for decoding the stored payload into the target type. A missing key is reported as a
// retrieval failure rather than an empty success, so a resource backed by this retriever
// lands in the error state when the value has not been written yet.
// All fields are configured during construction and are not modified afterward.
type RedisRetriever[T any] struct {
	transcoder Transcoder[T]
	rdb        redis.UniversalClient
	key        string
}

// redisOptions type defines the functional options pattern used to configure a RedisRetriever instance.
type redisOptions[T any] func(r *RedisRetriever[T])

// WithClient option assigns the redis client used by the RedisRetriever to communicate with redis.
// This client is responsible for executing commands against the redis instance.
// Providing a valid redis client is required for the retriever to function correctly.
// The option stores the client reference directly on the RedisRetriever instance.
func WithClient[T any](rdb redis.UniversalClient) redisOptions[T] {
	return func(r *RedisRetriever[T]) {
		r.rdb = rdb
	}
}

// WithTranscoder option configures the transcoder used to decode the stored payload.
// The transcoder is responsible for transforming raw redis data into the target type.
// Providing a custom transcoder allows callers to control deserialization behavior.
// The configured transcoder is stored on the RedisRetriever for later use during retrieval.
func WithTranscoder[T any](t Transcoder[T]) redisOptions[T] {
	return func(r *RedisRetriever[T]) {
		r.transcoder = t
	}
}

// NewRedisRetriever function constructs a fully configured RedisRetriever instance.
// It applies all provided functional options, validates required dependencies,
// and initializes default values for any optional configuration not explicitly set.
// The function returns an error only when mandatory configuration is missing.
func NewRedisRetriever[T any](key string, opts ...redisOptions[T]) (*RedisRetriever[T], error) {
	if key == "" {
		return nil, ErrEmptyRedisKey
	}

	retriever := &RedisRetriever[T]{key: key}

	for _, opt := range opts {
		opt(retriever)
	}

	if retriever.rdb == nil {
		return nil, ErrEmptyRedisClient
	}

	if retriever.transcoder == nil {
		retriever.transcoder = &defaultTranscoder[T]{}
	}

	return retriever, nil
}

// Retrieve reads the value stored under the configured key and decodes it into T.
// A missing key maps to ErrKeyNotFound, a failed command surfaces as a transport
// failure, and an undecodable payload surfaces as a decode failure. The context
// parameter enables cancellation and timeout management for the redis command.
func (r *RedisRetriever[T]) Retrieve(ctx context.Context) (T, error) {
	var empty T

	payload, err := r.rdb.Get(ctx, r.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return empty, fmt.Errorf("%w: %s", ErrKeyNotFound, r.key)
		}

		return empty, err
	}

	value, err := r.transcoder.Decode(payload)
	if err != nil {
		return empty, fmt.Errorf("decode payload: %w", err)
	}

	return value, nil
}
