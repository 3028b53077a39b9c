package domain

// SessionState is the client's belief about whether, and as whom, it is
// authenticated. Exactly one instance exists per process, owned by the
// session manager; everything else observes it read-only.
//
// The zero value is StateAuthenticating so that a snapshot taken before
// Initialize has settled reads as "not yet known" rather than anonymous —
// this is what keeps routing from bouncing to the login screen during
// startup hydration.
type SessionState int

const (
	// StateAuthenticating: startup identity check or a credential exchange
	// is in flight. Routing decisions must stay pending.
	StateAuthenticating SessionState = iota
	// StateAnonymous: no credentials.
	StateAnonymous
	// StateAuthenticated: credentials are stored and the identity was
	// confirmed by the server.
	StateAuthenticated
	// StateExpired: the server rejected our credentials; they have been
	// purged and the next navigation should head to login.
	StateExpired
)

func (s SessionState) String() string {
	switch s {
	case StateAuthenticating:
		return "authenticating"
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticated:
		return "authenticated"
	case StateExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// SessionSnapshot is a point-in-time copy of the session. Identity is non-nil
// only in StateAuthenticated.
type SessionSnapshot struct {
	State    SessionState
	Identity *User
	// Settled is false until the startup identity check has completed
	// (successfully or not). Callers must treat unsettled snapshots as
	// pending, never as anonymous.
	Settled bool
}

// Role returns the live role, or "" when not authenticated.
func (s SessionSnapshot) Role() Role {
	if s.State != StateAuthenticated || s.Identity == nil {
		return ""
	}
	return s.Identity.Role
}
