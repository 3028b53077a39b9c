package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohamedimran-32/jobportal-client/internal/domain"
	"github.com/mohamedimran-32/jobportal-client/pkg/apperror"
)

func TestSessionInitialize(t *testing.T) {
	ctx := context.Background()

	t.Run("unsettled before initialize", func(t *testing.T) {
		e := newTestEnv(t)
		snap := e.session.Snapshot()
		assert.False(t, snap.Settled)
		assert.Equal(t, domain.StateAuthenticating, snap.State)
	})

	t.Run("no stored credentials settles anonymous without network", func(t *testing.T) {
		e := newTestEnv(t)
		require.NoError(t, e.session.Initialize(ctx))

		snap := e.session.Snapshot()
		assert.True(t, snap.Settled)
		assert.Equal(t, domain.StateAnonymous, snap.State)
		assert.Nil(t, snap.Identity)
		assert.Zero(t, e.api.Requests())
	})

	t.Run("valid stored credentials restore the identity", func(t *testing.T) {
		e := newTestEnv(t)
		user := e.seedSeeker(t)
		require.NoError(t, e.tokens.Save(ctx, e.api.TokensFor(user.ID)))

		require.NoError(t, e.session.Initialize(ctx))

		snap := e.session.Snapshot()
		assert.Equal(t, domain.StateAuthenticated, snap.State)
		require.NotNil(t, snap.Identity)
		assert.Equal(t, user.ID, snap.Identity.ID)
		assert.Equal(t, domain.RoleJobSeeker, snap.Role())
	})

	t.Run("rejected stored credentials are purged", func(t *testing.T) {
		e := newTestEnv(t)
		user := e.seedSeeker(t)
		require.NoError(t, e.tokens.Save(ctx, e.api.TokensFor(user.ID)))
		e.api.RevokeAccessTokens()

		err := e.session.Initialize(ctx)
		assert.True(t, apperror.IsKind(err, apperror.KindAuthRejected))

		snap := e.session.Snapshot()
		assert.True(t, snap.Settled)
		assert.Equal(t, domain.StateAnonymous, snap.State)

		creds, loadErr := e.tokens.Load(ctx)
		require.NoError(t, loadErr)
		assert.Nil(t, creds)
	})
}

func TestSessionLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("success stores tokens and settles authenticated", func(t *testing.T) {
		e := newTestEnv(t)
		e.seedSeeker(t)
		require.NoError(t, e.session.Initialize(ctx))

		user, err := e.session.Login(ctx, "seeker@example.com", "hunter22")
		require.NoError(t, err)
		assert.Equal(t, "seeker", user.Username)

		snap := e.session.Snapshot()
		assert.Equal(t, domain.StateAuthenticated, snap.State)
		require.NotNil(t, snap.Identity)

		creds, err := e.tokens.Load(ctx)
		require.NoError(t, err)
		require.NotNil(t, creds)
		assert.NotEmpty(t, creds.AccessToken)
		assert.NotEmpty(t, creds.RefreshToken)
	})

	t.Run("failure settles anonymous and keeps prior credentials", func(t *testing.T) {
		e := newTestEnv(t)
		user := e.seedSeeker(t)
		e.authenticateAs(t, user)

		_, err := e.session.Login(ctx, "seeker@example.com", "wrong-password")
		assert.True(t, apperror.IsKind(err, apperror.KindAuthRejected))

		snap := e.session.Snapshot()
		assert.True(t, snap.Settled)
		assert.Equal(t, domain.StateAnonymous, snap.State)
		assert.Nil(t, snap.Identity)

		// A failed login attempt is not a credential revocation.
		creds, loadErr := e.tokens.Load(ctx)
		require.NoError(t, loadErr)
		assert.NotNil(t, creds)
	})
}

func TestSessionRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("success logs the new account in", func(t *testing.T) {
		e := newTestEnv(t)
		require.NoError(t, e.session.Initialize(ctx))

		user, err := e.session.Register(ctx, domain.RegisterInput{
			Email:    "new@example.com",
			Username: "newbie",
			Password: "hunter22",
			Role:     domain.RoleEmployer,
		})
		require.NoError(t, err)
		assert.Equal(t, domain.RoleEmployer, user.Role)
		assert.Equal(t, domain.StateAuthenticated, e.session.Snapshot().State)
	})

	t.Run("admin role is rejected before any request", func(t *testing.T) {
		e := newTestEnv(t)
		require.NoError(t, e.session.Initialize(ctx))

		_, err := e.session.Register(ctx, domain.RegisterInput{
			Email:    "new@example.com",
			Username: "newbie",
			Password: "hunter22",
			Role:     domain.RoleAdmin,
		})
		require.True(t, apperror.IsKind(err, apperror.KindValidation))
		assert.Contains(t, apperror.AsAppError(err).Fields, "role")
		assert.Zero(t, e.api.Requests())
	})

	t.Run("malformed profile is rejected before any request", func(t *testing.T) {
		e := newTestEnv(t)
		require.NoError(t, e.session.Initialize(ctx))

		_, err := e.session.Register(ctx, domain.RegisterInput{
			Email:       "not-an-email",
			Username:    "ab",
			Password:    "short",
			Role:        domain.RoleJobSeeker,
			PhoneNumber: "nope",
		})
		require.True(t, apperror.IsKind(err, apperror.KindValidation))
		fields := apperror.AsAppError(err).Fields
		assert.Contains(t, fields, "email")
		assert.Contains(t, fields, "username")
		assert.Contains(t, fields, "password")
		assert.Contains(t, fields, "phone_number")
		assert.Zero(t, e.api.Requests())
	})
}

func TestSessionLogoutAndInvalidate(t *testing.T) {
	ctx := context.Background()

	t.Run("logout purges credentials and settles anonymous", func(t *testing.T) {
		e := newTestEnv(t)
		user := e.seedSeeker(t)
		e.authenticateAs(t, user)

		require.NoError(t, e.session.Logout(ctx))

		snap := e.session.Snapshot()
		assert.Equal(t, domain.StateAnonymous, snap.State)
		assert.Nil(t, snap.Identity)

		creds, err := e.tokens.Load(ctx)
		require.NoError(t, err)
		assert.Nil(t, creds)
	})

	t.Run("logout tears down locally even when the server is gone", func(t *testing.T) {
		e := newTestEnv(t)
		user := e.seedSeeker(t)
		e.authenticateAs(t, user)
		e.api.RevokeAccessTokens()

		require.NoError(t, e.session.Logout(ctx))
		assert.Equal(t, domain.StateAnonymous, e.session.Snapshot().State)
	})

	t.Run("invalidate purges and settles expired", func(t *testing.T) {
		e := newTestEnv(t)
		user := e.seedSeeker(t)
		e.authenticateAs(t, user)

		e.session.Invalidate(ctx)

		snap := e.session.Snapshot()
		assert.True(t, snap.Settled)
		assert.Equal(t, domain.StateExpired, snap.State)
		assert.Nil(t, snap.Identity)

		creds, err := e.tokens.Load(ctx)
		require.NoError(t, err)
		assert.Nil(t, creds)
	})

	t.Run("refresh identity invalidates on rejection", func(t *testing.T) {
		e := newTestEnv(t)
		user := e.seedSeeker(t)
		e.authenticateAs(t, user)
		e.api.RevokeAccessTokens()

		_, err := e.session.RefreshIdentity(ctx)
		assert.True(t, apperror.IsKind(err, apperror.KindAuthRejected))
		assert.Equal(t, domain.StateExpired, e.session.Snapshot().State)
	})
}
