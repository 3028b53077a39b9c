package usecase_test

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mohamedimran-32/jobportal-client/internal/apitest"
	"github.com/mohamedimran-32/jobportal-client/internal/domain"
	"github.com/mohamedimran-32/jobportal-client/internal/repository/memory"
	"github.com/mohamedimran-32/jobportal-client/internal/repository/rest"
	"github.com/mohamedimran-32/jobportal-client/internal/usecase"
	"github.com/mohamedimran-32/jobportal-client/pkg/validation"
)

// testEnv wires the full client stack against the in-process API fake, the
// same topology the CLI runs with.
type testEnv struct {
	api     *apitest.Server
	tokens  *memory.TokenRepository
	session *usecase.SessionManager
	jobs    domain.JobAPI
	apps    domain.ApplicationAPI
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	api := apitest.New()
	srv := httptest.NewServer(api.Handler())
	t.Cleanup(srv.Close)

	tokens := memory.NewTokenRepository()
	client := rest.NewClient(srv.URL, 0, tokens, zap.NewNop())

	validate := validator.New()
	validation.RegisterValidators(validate)

	return &testEnv{
		api:     api,
		tokens:  tokens,
		session: usecase.NewSessionManager(rest.NewAuthRepository(client), tokens, validate, zap.NewNop()),
		jobs:    rest.NewJobRepository(client),
		apps:    rest.NewApplicationRepository(client),
	}
}

// authenticateAs stores credentials for a seeded user and settles the
// session, as if a previous run had logged in.
func (e *testEnv) authenticateAs(t *testing.T, user domain.User) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, e.tokens.Save(ctx, e.api.TokensFor(user.ID)))
	require.NoError(t, e.session.Initialize(ctx))
	require.Equal(t, domain.StateAuthenticated, e.session.Snapshot().State)
}

func (e *testEnv) seedSeeker(t *testing.T) domain.User {
	t.Helper()
	return e.api.SeedUser("seeker@example.com", "seeker", "hunter22", domain.RoleJobSeeker)
}

func (e *testEnv) seedEmployer(t *testing.T) domain.User {
	t.Helper()
	return e.api.SeedUser("employer@example.com", "employer", "hunter22", domain.RoleEmployer)
}
