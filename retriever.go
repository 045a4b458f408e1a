package resource

import "context"

// Retriever is a generic interface defining a contract for types that retrieve a single
// value of type T from an external source. The target of the retrieval (a URL, a storage
// key, or any other identifier) is captured when the retriever is constructed, so a call
// site only decides *when* to retrieve, never *what*. Implementations must be safe for
// repeated invocation: a Resource re-invokes the same retriever on every refetch.
type Retriever[T any] interface {
	// Retrieve performs one retrieval against the configured target and returns the decoded value.
	// It returns an error when the retrieval cannot complete, completes unsuccessfully, or the
	// payload cannot be decoded into T. The context parameter enables cancellation and timeouts.
	Retrieve(ctx context.Context) (T, error)
}

// RetrieverFunc adapts an ordinary function to the Retriever interface.
// It allows ad-hoc retrieval logic to back a Resource without declaring a new type,
// which is particularly convenient in tests and small integrations.
type RetrieverFunc[T any] func(ctx context.Context) (T, error)

// Retrieve invokes the wrapped function, satisfying the Retriever interface.
func (f RetrieverFunc[T]) Retrieve(ctx context.Context) (T, error) {
	return f(ctx)
}
