package session

// Event is delivered to subscribers after a state change has been applied
type Event int

const (
	EventLogin Event = iota + 1
	EventTokensRefreshed
	EventModeSwitched
	EventApprovalChanged
	EventLogout
	EventHydrated
	// EventEvicted means the registry dropped the store. Listeners holding
	// per-session state keyed by its id should release it.
	EventEvicted
)

func (e Event) String() string {
	switch e {
	case EventLogin:
		return "login"
	case EventTokensRefreshed:
		return "tokens_refreshed"
	case EventModeSwitched:
		return "mode_switched"
	case EventApprovalChanged:
		return "approval_changed"
	case EventLogout:
		return "logout"
	case EventHydrated:
		return "hydrated"
	case EventEvicted:
		return "evicted"
	default:
		return "unknown"
	}
}

// Listener receives store events. It runs synchronously on the writer's
// goroutine and must not call back into the store's setters.
type Listener func(store *Store, event Event)
