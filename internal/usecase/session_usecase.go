package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/mohamedimran-32/jobportal-client/internal/domain"
	"github.com/mohamedimran-32/jobportal-client/pkg/apperror"
	"github.com/mohamedimran-32/jobportal-client/pkg/validation"
)

// SessionSource is the read-plus-invalidate view of the session that other
// usecases get. Only the SessionManager itself transitions session state;
// Invalidate is the single funnel through which an observed 401 is reported.
type SessionSource interface {
	Snapshot() domain.SessionSnapshot
	Invalidate(ctx context.Context)
}

// SessionManager owns the process-wide authentication state machine and the
// credential lifecycle around it.
type SessionManager struct {
	authAPI  domain.AuthAPI
	tokens   domain.TokenRepository
	validate *validator.Validate
	log      *zap.Logger

	mu       sync.Mutex
	state    domain.SessionState
	identity *domain.User
	settled  bool
}

func NewSessionManager(authAPI domain.AuthAPI, tokens domain.TokenRepository, validate *validator.Validate, log *zap.Logger) *SessionManager {
	return &SessionManager{
		authAPI:  authAPI,
		tokens:   tokens,
		validate: validate,
		log:      log,
		state:    domain.StateAuthenticating,
	}
}

// Snapshot returns a point-in-time copy of the session. Before Initialize
// has completed it reads as unsettled, which routing must treat as pending.
func (s *SessionManager) Snapshot() domain.SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := domain.SessionSnapshot{State: s.state, Settled: s.settled}
	if s.identity != nil {
		identity := *s.identity
		snap.Identity = &identity
	}
	return snap
}

// Initialize settles the session at process start. With no stored
// credentials the session is anonymous immediately and no network call is
// made. With credentials present the identity is re-fetched; any failure
// purges the credentials and lands on anonymous. Either way the session is
// settled when this returns.
func (s *SessionManager) Initialize(ctx context.Context) error {
	creds, err := s.tokens.Load(ctx)
	if err != nil {
		s.transition(domain.StateAnonymous, nil)
		return apperror.Internal(fmt.Errorf("load stored credentials: %w", err))
	}

	if creds == nil {
		s.transition(domain.StateAnonymous, nil)
		return nil
	}

	s.setState(domain.StateAuthenticating)

	user, err := s.authAPI.CurrentUser(ctx)
	if err != nil {
		s.log.Warn("startup identity check failed, purging credentials",
			zap.String("kind", apperror.KindOf(err).String()),
			zap.Error(err))
		s.purge(ctx)
		s.transition(domain.StateAnonymous, nil)
		return err
	}

	s.transition(domain.StateAuthenticated, user)
	return nil
}

// Login exchanges credentials for a token pair. On success both tokens are
// stored atomically and the session becomes authenticated with the identity
// returned alongside the tokens. On failure the session is anonymous and any
// previously stored credentials are left untouched.
func (s *SessionManager) Login(ctx context.Context, email, password string) (*domain.User, error) {
	s.setState(domain.StateAuthenticating)

	result, err := s.authAPI.Login(ctx, email, password)
	if err != nil {
		s.transition(domain.StateAnonymous, nil)
		return nil, err
	}

	return s.establish(ctx, result)
}

// Register validates the profile data client-side, then follows the same
// contract as Login. Role selection is restricted to job_seeker/employer
// before anything is sent; admin is never self-assignable.
func (s *SessionManager) Register(ctx context.Context, input domain.RegisterInput) (*domain.User, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, validation.ToAppError(err)
	}

	s.setState(domain.StateAuthenticating)

	result, err := s.authAPI.Register(ctx, input)
	if err != nil {
		s.transition(domain.StateAnonymous, nil)
		return nil, err
	}

	return s.establish(ctx, result)
}

// Logout invalidates the refresh token server-side on a best-effort basis;
// a failure there is logged and swallowed. Local teardown — credential purge
// and the transition to anonymous — happens unconditionally.
func (s *SessionManager) Logout(ctx context.Context) error {
	creds, loadErr := s.tokens.Load(ctx)

	defer func() {
		s.purge(ctx)
		s.transition(domain.StateAnonymous, nil)
	}()

	if loadErr != nil {
		s.log.Warn("load credentials for logout", zap.Error(loadErr))
		return nil
	}
	if creds == nil {
		return nil
	}

	if err := s.authAPI.Logout(ctx, creds.RefreshToken); err != nil {
		s.log.Warn("server-side logout failed, tearing down locally anyway",
			zap.String("kind", apperror.KindOf(err).String()),
			zap.Error(err))
	}
	return nil
}

// RefreshIdentity re-fetches the identity with the current access token.
// Idempotent; used after any mutation that might change identity fields.
func (s *SessionManager) RefreshIdentity(ctx context.Context) (*domain.User, error) {
	user, err := s.authAPI.CurrentUser(ctx)
	if err != nil {
		if apperror.IsKind(err, apperror.KindAuthRejected) {
			s.Invalidate(ctx)
		}
		return nil, err
	}

	s.transition(domain.StateAuthenticated, user)
	return user, nil
}

// Invalidate is called when any component observes an authoritative 401: the
// credentials are purged and the session moves to expired, so the next
// routing decision redirects to login.
func (s *SessionManager) Invalidate(ctx context.Context) {
	s.log.Info("session invalidated by server rejection")
	s.purge(ctx)
	s.transition(domain.StateExpired, nil)
}

func (s *SessionManager) establish(ctx context.Context, result *domain.AuthResult) (*domain.User, error) {
	if err := s.tokens.Save(ctx, result.Credentials); err != nil {
		s.transition(domain.StateAnonymous, nil)
		return nil, apperror.Internal(fmt.Errorf("store credentials: %w", err))
	}

	s.transition(domain.StateAuthenticated, result.User)
	return result.User, nil
}

func (s *SessionManager) purge(ctx context.Context) {
	if err := s.tokens.Clear(ctx); err != nil {
		s.log.Error("clear stored credentials", zap.Error(err))
	}
}

func (s *SessionManager) setState(state domain.SessionState) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

// transition settles the session in the given state. Identity is cleared in
// the same step whenever credentials are gone: identity never outlives them.
func (s *SessionManager) transition(state domain.SessionState, identity *domain.User) {
	s.mu.Lock()
	s.state = state
	s.identity = identity
	s.settled = true
	s.mu.Unlock()
}

var _ SessionSource = (*SessionManager)(nil)
