package resource

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// Resource tracks the retrieval lifecycle of a single typed value of type T.
// It owns the current State, invokes its injected Retriever on demand, and guarantees
// that observers always see a consistent picture: exactly one phase at a time, results
// applied in start order, and no mutation after Close. The retrieval target itself is
// fixed inside the retriever, so a Resource only ever answers "what is the latest
// known state of this one value, and is an attempt in flight".
//
// A Resource is safe for concurrent use. State writes happen only inside the attempt
// started by the resource itself; external callers can only read and re-trigger.
type Resource[T any] struct {
	retriever    Retriever[T]
	log          zerolog.Logger
	name         string
	autoFetchCtx context.Context

	mu      sync.Mutex
	state   State[T]
	seq     uint64
	cancel  context.CancelFunc
	closed  bool
	subs    map[uint64]func(State[T])
	nextSub uint64
}

// NewResource function constructs a fully configured Resource instance.
// It applies all provided functional options, validates required dependencies,
// and initializes default values for any optional configuration not explicitly set.
// The retriever is the one mandatory dependency and must be injected through
// WithRetriever — the function returns ErrEmptyRetriever when it is missing.
// When auto-fetch was requested, the first retrieval is started before returning,
// so the resource is already loading by the time the caller observes it.
func NewResource[T any](opts ...options[T]) (*Resource[T], error) {
	resource := &Resource[T]{
		log:   zerolog.Nop(),
		state: idleState[T](),
		subs:  make(map[uint64]func(State[T])),
	}

	for _, opt := range opts {
		opt(resource)
	}

	if resource.retriever == nil {
		return nil, ErrEmptyRetriever
	}

	if resource.autoFetchCtx != nil {
		resource.Refetch(resource.autoFetchCtx)
	}

	return resource, nil
}

// State returns a snapshot of the current lifecycle state.
// The returned value is a copy; mutating it has no effect on the resource.
func (r *Resource[T]) State() State[T] {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.state
}

// Subscribe registers a callback invoked after every state transition with a snapshot
// of the new state. It returns a cancel function that removes the subscription; calling
// it more than once is harmless. Callbacks run outside the resource's internal lock,
// so they may call State or Refetch freely. When transitions race, a callback may be
// handed a state that has already been superseded — callbacks that care about the very
// latest value should re-read State.
func (r *Resource[T]) Subscribe(fn func(State[T])) func() {
	r.mu.Lock()
	id := r.nextSub
	r.nextSub++
	r.subs[id] = fn
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		delete(r.subs, id)
		r.mu.Unlock()
	}
}

// Refetch starts a new retrieval attempt against the configured retriever.
// The resource transitions to loading immediately, discarding any previously held
// payload or failure message, and settles to success or error when the attempt
// completes. Failures never escape as panics or returned errors; they are captured
// in the error state with a human-readable message.
//
// Each call supersedes any attempt still in flight: the older attempt is canceled
// and, even if it manages to finish, its result is discarded rather than applied.
// Only the most recently started attempt may write state.
//
// The returned channel delivers exactly one value — the settled outcome of this
// particular attempt — and is then closed. The outcome is delivered even when the
// staleness guard or a concurrent Close prevented it from being applied, so a
// waiter is never left hanging. Refetch on a closed resource settles immediately
// with an error outcome and mutates nothing.
func (r *Resource[T]) Refetch(ctx context.Context) <-chan State[T] {
	done := make(chan State[T], 1)

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		done <- errorState[T](ErrResourceClosed.Error())
		close(done)

		return done
	}

	// Supersede any attempt still in flight. Its token becomes stale the moment
	// the sequence advances, and canceling its context releases the transport early.
	if r.cancel != nil {
		r.cancel()
	}

	attemptCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.seq++
	token := r.seq
	r.state = loadingState[T]()
	subs := r.snapshotSubs()
	r.mu.Unlock()

	r.log.Debug().Str("resource", r.name).Uint64("attempt", token).Msg("retrieval started")
	notify(subs, loadingState[T]())

	go r.execute(attemptCtx, cancel, token, done)

	return done
}

// Close tears the resource down. Any attempt still in flight is canceled and its
// result is silently discarded — the state visible at the moment of Close is the
// state forever. Close is idempotent and safe to call with retrievals pending.
func (r *Resource[T]) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}

	r.closed = true
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}

	r.log.Debug().Str("resource", r.name).Msg("resource closed")
}

// execute runs one retrieval attempt to completion and applies its outcome to the
// resource state, but only while the attempt is still the most recently started one
// and the resource has not been closed in the meantime. The attempt's own outcome is
// always delivered on done regardless of whether it was applied.
func (r *Resource[T]) execute(ctx context.Context, cancel context.CancelFunc, token uint64, done chan<- State[T]) {
	defer cancel()

	value, err := r.retriever.Retrieve(ctx)

	var outcome State[T]
	if err != nil {
		outcome = errorState[T](failureMessage(err))
	} else {
		outcome = successState(value)
	}

	r.mu.Lock()
	applied := !r.closed && token == r.seq
	var subs []func(State[T])
	if applied {
		r.state = outcome
		subs = r.snapshotSubs()
	}
	r.mu.Unlock()

	switch {
	case !applied:
		r.log.Debug().Str("resource", r.name).Uint64("attempt", token).Msg("stale retrieval result discarded")
	case err != nil:
		r.log.Warn().Str("resource", r.name).Uint64("attempt", token).Err(err).Msg("retrieval failed")
		notify(subs, outcome)
	default:
		r.log.Debug().Str("resource", r.name).Uint64("attempt", token).Msg("retrieval succeeded")
		notify(subs, outcome)
	}

	done <- outcome
	close(done)
}

// snapshotSubs copies the current subscriber set so callbacks can be invoked
// after the lock is released. Callers must hold r.mu.
func (r *Resource[T]) snapshotSubs() []func(State[T]) {
	if len(r.subs) == 0 {
		return nil
	}

	subs := make([]func(State[T]), 0, len(r.subs))
	for _, fn := range r.subs {
		subs = append(subs, fn)
	}

	return subs
}

// notify invokes every captured subscriber callback with a snapshot of the new state.
func notify[T any](subs []func(State[T]), state State[T]) {
	for _, fn := range subs {
		fn(state)
	}
}
