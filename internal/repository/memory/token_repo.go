package memory

import (
	"context"
	"sync"

	"github.com/mohamedimran-32/jobportal-client/internal/domain"
)

// TokenRepository keeps the credential pair in process memory. Used by tests
// and by CLI runs that opt out of persistence.
type TokenRepository struct {
	mu    sync.Mutex
	creds *domain.Credentials
}

func NewTokenRepository() *TokenRepository {
	return &TokenRepository{}
}

func (r *TokenRepository) Load(_ context.Context) (*domain.Credentials, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.creds == nil {
		return nil, nil
	}
	copied := *r.creds
	return &copied, nil
}

func (r *TokenRepository) Save(_ context.Context, creds domain.Credentials) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.creds = &creds
	return nil
}

func (r *TokenRepository) Clear(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.creds = nil
	return nil
}

var _ domain.TokenRepository = (*TokenRepository)(nil)
