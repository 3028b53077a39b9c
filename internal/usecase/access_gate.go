package usecase

import (
	"github.com/mohamedimran-32/jobportal-client/internal/domain"
)

// Decision is what a navigation should do given the current session.
type Decision int

const (
	// DecisionPending: the session has not settled; show a neutral loading
	// state. Never a redirect — that would bounce users to login during
	// startup hydration.
	DecisionPending Decision = iota
	// DecisionRender: the view may be shown.
	DecisionRender
	// DecisionRedirectLogin: no valid session; go to the login screen.
	DecisionRedirectLogin
	// DecisionRedirectFallback: authenticated, but the role does not grant
	// this view; go to the neutral landing view.
	DecisionRedirectFallback
)

func (d Decision) String() string {
	switch d {
	case DecisionRender:
		return "render"
	case DecisionRedirectLogin:
		return "redirect_login"
	case DecisionRedirectFallback:
		return "redirect_fallback"
	default:
		return "pending"
	}
}

// Decide is the routing gate: a pure function of the session snapshot and a
// route's declared role requirement. An empty requirement means any
// authenticated user. This gates UX only — the server's 401/403 answers stay
// authoritative for every mutating call.
func Decide(snap domain.SessionSnapshot, requiredRoles ...domain.Role) Decision {
	if !snap.Settled {
		return DecisionPending
	}

	switch snap.State {
	case domain.StateAuthenticating:
		return DecisionPending
	case domain.StateAnonymous, domain.StateExpired:
		return DecisionRedirectLogin
	case domain.StateAuthenticated:
		if len(requiredRoles) == 0 {
			return DecisionRender
		}
		if snap.Identity == nil {
			return DecisionRedirectLogin
		}
		for _, role := range requiredRoles {
			if snap.Identity.Role == role {
				return DecisionRender
			}
		}
		return DecisionRedirectFallback
	default:
		return DecisionPending
	}
}
