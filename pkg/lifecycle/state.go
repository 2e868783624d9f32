package lifecycle

// State is the coarse condition of a lifecycle component.
type State string

const (
	// StateIdle means settled: credentials and caches are usable as-is.
	StateIdle State = "idle"

	// StateLoading means a request is in flight.
	StateLoading State = "loading"

	// StateError means the last operation failed but the session may
	// still recover, e.g. on the next refresh tick.
	StateError State = "error"

	// StateUnauthorized means there is no usable session.
	StateUnauthorized State = "unauthorized"
)

// CombineStates folds several component states into the one a caller
// should act on. Severity wins: an error anywhere surfaces before a
// missing session, which surfaces before an in-flight request.
func CombineStates(states ...State) State {
	combined := StateIdle
	for _, s := range states {
		switch s {
		case StateError:
			return StateError
		case StateUnauthorized:
			combined = StateUnauthorized
		case StateLoading:
			if combined != StateUnauthorized {
				combined = StateLoading
			}
		}
	}
	return combined
}
