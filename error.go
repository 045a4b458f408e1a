package resource

import (
	"errors"
	"fmt"
)

// ErrEmptyRetriever is returned when attempting to create a resource without providing a retriever.
// The retrieval capability is mandatory and must be injected explicitly at construction — relying
// on an ambient default is deliberately unsupported, so construction fails fast when it is missing.
var ErrEmptyRetriever = errors.New("retriever is empty")

// ErrEmptyRedisClient is returned when attempting to create a redis retriever without providing a client.
// The redis client is mandatory for all retrieval operations — construction fails if it is missing.
var ErrEmptyRedisClient = errors.New("redis client is empty")

// ErrEmptyTargetURL is returned when attempting to create an HTTP retriever without a target URL.
// The target is captured at construction and cannot be supplied later, so it must be present up front.
var ErrEmptyTargetURL = errors.New("target url is empty")

// ErrEmptyRedisKey is returned when attempting to create a redis retriever without a target key.
// Like the HTTP target URL, the key is fixed at construction time.
var ErrEmptyRedisKey = errors.New("redis key is empty")

// ErrKeyNotFound is returned by the redis retriever when the configured key holds no value.
// An absent key is a retrieval failure, not an empty success — the caller asked for a resource
// that does not exist at the configured location.
var ErrKeyNotFound = errors.New("key not found")

// ErrResourceClosed is reported when a refetch is requested on a resource after Close.
// A closed resource never mutates its state again, so the attempt settles immediately
// without being applied.
var ErrResourceClosed = errors.New("resource is closed")

// genericFailureMessage is substituted for the failure description when a retrieval
// error carries no text of its own. The error state always exposes a non-empty,
// human-readable message.
const genericFailureMessage = "retrieval failed"

// StatusError describes a protocol failure: the retrieval completed, but the remote
// side signaled an unsuccessful outcome through its status code. It is distinct from
// transport failures (the request never completed) and decode failures (the payload
// was unusable), allowing callers to branch on the failure class with errors.As.
type StatusError struct {
	// Code is the status code reported by the remote side.
	Code int
}

// Error renders the protocol failure as a human-readable message including the status code.
func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code %d", e.Code)
}

// failureMessage derives the human-readable message stored in the error state from a
// retrieval failure. It falls back to a generic description when the cause carries no
// text, so consumers never observe an error state with an empty message.
func failureMessage(err error) string {
	if err == nil || err.Error() == "" {
		return genericFailureMessage
	}

	return err.Error()
}
