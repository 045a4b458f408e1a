package resource

// Phase identifies which point of the retrieval lifecycle a resource is currently in.
// It is the discriminating tag of State: a consumer inspecting the phase alone can
// always tell which of the remaining State fields carry meaningful values.
// The set of phases is closed — a resource is in exactly one of them at any time.
type Phase string

const (
	// PhaseIdle means no retrieval has been started or completed yet.
	PhaseIdle Phase = "idle"
	// PhaseLoading means a retrieval is currently in flight and no payload is available.
	PhaseLoading Phase = "loading"
	// PhaseSuccess means the most recent retrieval completed and its decoded payload is available.
	PhaseSuccess Phase = "success"
	// PhaseError means the most recent retrieval failed and a descriptive message is available.
	PhaseError Phase = "error"
)

// State describes the retrieval lifecycle of a resource at a single observation point.
// Exactly one phase is active at a time, and the payload fields are mutually exclusive:
// Data is populated only in PhaseSuccess and Message is populated only in PhaseError.
// Values are constructed through the helpers below so the exclusivity invariant cannot be broken.
type State[T any] struct {
	// Phase is the lifecycle tag that determines which of the other fields is valid.
	Phase Phase
	// Data holds the decoded payload of the last retrieval. Valid only when Phase is PhaseSuccess.
	Data T
	// Message holds the human-readable failure description. Valid only when Phase is PhaseError.
	Message string
}

// Idle reports whether no retrieval has been attempted on the resource yet.
func (s State[T]) Idle() bool { return s.Phase == PhaseIdle }

// Loading reports whether a retrieval is currently in flight.
func (s State[T]) Loading() bool { return s.Phase == PhaseLoading }

// Success reports whether the last retrieval completed and Data is valid.
func (s State[T]) Success() bool { return s.Phase == PhaseSuccess }

// Failed reports whether the last retrieval failed and Message is valid.
func (s State[T]) Failed() bool { return s.Phase == PhaseError }

// idleState constructs the initial lifecycle state with no payload and no message.
// Every resource begins its life in this state unless auto-fetch is requested.
func idleState[T any]() State[T] {
	return State[T]{Phase: PhaseIdle}
}

// loadingState constructs the in-flight lifecycle state. Any previously held
// payload or message is intentionally dropped — the design discards the last
// known value during reload rather than keeping it visible.
func loadingState[T any]() State[T] {
	return State[T]{Phase: PhaseLoading}
}

// successState constructs the completed lifecycle state carrying the decoded payload.
// The message field is left empty, preserving the mutual exclusivity of the union.
func successState[T any](data T) State[T] {
	return State[T]{Phase: PhaseSuccess, Data: data}
}

// errorState constructs the failed lifecycle state carrying a human-readable message.
// The data field is left at its zero value, preserving the mutual exclusivity of the union.
func errorState[T any](message string) State[T] {
	return State[T]{Phase: PhaseError, Message: message}
}
