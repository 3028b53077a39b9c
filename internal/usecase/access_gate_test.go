package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mohamedimran-32/jobportal-client/internal/domain"
	"github.com/mohamedimran-32/jobportal-client/internal/usecase"
)

func snapshot(state domain.SessionState, role domain.Role, settled bool) domain.SessionSnapshot {
	snap := domain.SessionSnapshot{State: state, Settled: settled}
	if role != "" {
		snap.Identity = &domain.User{ID: 1, Role: role}
	}
	return snap
}

func TestDecide(t *testing.T) {
	tests := []struct {
		name     string
		snap     domain.SessionSnapshot
		roles    []domain.Role
		expected usecase.Decision
	}{
		{
			name:     "unsettled session is always pending",
			snap:     snapshot(domain.StateAuthenticated, domain.RoleJobSeeker, false),
			roles:    []domain.Role{domain.RoleJobSeeker},
			expected: usecase.DecisionPending,
		},
		{
			name:     "authenticating is pending, never a redirect",
			snap:     snapshot(domain.StateAuthenticating, "", true),
			expected: usecase.DecisionPending,
		},
		{
			name:     "anonymous goes to login",
			snap:     snapshot(domain.StateAnonymous, "", true),
			expected: usecase.DecisionRedirectLogin,
		},
		{
			name:     "expired goes to login",
			snap:     snapshot(domain.StateExpired, "", true),
			expected: usecase.DecisionRedirectLogin,
		},
		{
			name:     "authenticated with no role requirement renders",
			snap:     snapshot(domain.StateAuthenticated, domain.RoleJobSeeker, true),
			expected: usecase.DecisionRender,
		},
		{
			name:     "matching role renders",
			snap:     snapshot(domain.StateAuthenticated, domain.RoleEmployer, true),
			roles:    []domain.Role{domain.RoleEmployer},
			expected: usecase.DecisionRender,
		},
		{
			name:     "any of several roles renders",
			snap:     snapshot(domain.StateAuthenticated, domain.RoleAdmin, true),
			roles:    []domain.Role{domain.RoleEmployer, domain.RoleAdmin},
			expected: usecase.DecisionRender,
		},
		{
			name:     "wrong role falls back, not to login",
			snap:     snapshot(domain.StateAuthenticated, domain.RoleJobSeeker, true),
			roles:    []domain.Role{domain.RoleEmployer},
			expected: usecase.DecisionRedirectFallback,
		},
		{
			name:     "authenticated without identity cannot pass a role gate",
			snap:     snapshot(domain.StateAuthenticated, "", true),
			roles:    []domain.Role{domain.RoleJobSeeker},
			expected: usecase.DecisionRedirectLogin,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, usecase.Decide(tt.snap, tt.roles...))
		})
	}
}
