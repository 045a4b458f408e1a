package resource

import (
	"context"

	"github.com/rs/zerolog"
)

// options type defines the functional options pattern used to configure a Resource instance.
type options[T any] func(r *Resource[T])

// WithRetriever option injects the retrieval capability the resource invokes on every refetch.
// The retriever carries its own fixed target, so the resource never needs to know what is
// being retrieved, only how to track its lifecycle. Providing a retriever is mandatory —
// construction fails with ErrEmptyRetriever when this option is omitted.
func WithRetriever[T any](ret Retriever[T]) options[T] {
	return func(r *Resource[T]) {
		r.retriever = ret
	}
}

// WithLogger option assigns the logger used to record lifecycle transitions.
// Transitions are logged at debug level and retrieval failures at warn level.
// If this option is not provided, the resource uses a no-op logger and stays silent.
// The logger is stored on the Resource instance and never replaced afterward.
func WithLogger[T any](log zerolog.Logger) options[T] {
	return func(r *Resource[T]) {
		r.log = log
	}
}

// WithName option assigns a name under which the resource appears in log output.
// The name has no behavioral effect; it only helps distinguish resources when several
// share one logger. If this option is not provided, the resource logs without a name.
func WithName[T any](name string) options[T] {
	return func(r *Resource[T]) {
		r.name = name
	}
}

// WithAutoFetch option requests an immediate first retrieval during construction,
// so the resource transitions straight from idle to loading before NewResource returns.
// The provided context bounds that initial attempt only; later refetches carry their own.
// If this option is not provided, the resource stays idle until the first Refetch call.
func WithAutoFetch[T any](ctx context.Context) options[T] {
	return func(r *Resource[T]) {
		r.autoFetchCtx = ctx
	}
}
