package usecase_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mohamedimran-32/jobportal-client/internal/domain"
	"github.com/mohamedimran-32/jobportal-client/internal/usecase"
	"github.com/mohamedimran-32/jobportal-client/pkg/apperror"
)

func TestToggle(t *testing.T) {
	ctx := context.Background()

	t.Run("flips confirmed state on then off", func(t *testing.T) {
		e := newTestEnv(t)
		seeker := e.seedSeeker(t)
		employer := e.seedEmployer(t)
		job := e.api.SeedJob(employer.ID, "Backend Engineer", domain.JobStatusActive)
		e.authenticateAs(t, seeker)

		saved := usecase.NewSavedJobs(e.session, e.jobs, zap.NewNop())
		assert.Equal(t, usecase.PhaseIdle, saved.Phase(job.ID))

		result, err := saved.Toggle(ctx, job.ID)
		require.NoError(t, err)
		assert.True(t, result.Changed)
		assert.True(t, result.Saved)
		assert.True(t, saved.Saved(job.ID))
		assert.True(t, e.api.Saved(seeker.ID, job.ID))
		assert.Equal(t, usecase.PhaseSettled, saved.Phase(job.ID))

		result, err = saved.Toggle(ctx, job.ID)
		require.NoError(t, err)
		assert.True(t, result.Changed)
		assert.False(t, result.Saved)
		assert.False(t, saved.Saved(job.ID))
		assert.False(t, e.api.Saved(seeker.ID, job.ID))
	})

	t.Run("non-seeker roles are a silent no-op", func(t *testing.T) {
		e := newTestEnv(t)
		employer := e.seedEmployer(t)
		job := e.api.SeedJob(employer.ID, "Backend Engineer", domain.JobStatusActive)
		e.authenticateAs(t, employer)
		before := e.api.Requests()

		saved := usecase.NewSavedJobs(e.session, e.jobs, zap.NewNop())
		result, err := saved.Toggle(ctx, job.ID)
		require.NoError(t, err)
		assert.False(t, result.Changed)
		assert.Nil(t, result.Rejection)
		assert.Equal(t, before, e.api.Requests())
	})

	t.Run("rejection leaves confirmed state untouched", func(t *testing.T) {
		e := newTestEnv(t)
		seeker := e.seedSeeker(t)
		employer := e.seedEmployer(t)
		job := e.api.SeedJob(employer.ID, "Backend Engineer", domain.JobStatusActive)
		e.authenticateAs(t, seeker)
		e.api.RevokeAccessTokens()

		saved := usecase.NewSavedJobs(e.session, e.jobs, zap.NewNop())
		result, err := saved.Toggle(ctx, job.ID)
		require.NoError(t, err)
		require.NotNil(t, result.Rejection)
		assert.Equal(t, apperror.KindAuthRejected, result.Rejection.Kind)
		assert.False(t, result.Saved)
		assert.False(t, saved.Saved(job.ID))

		// An observed 401 expires the whole session.
		assert.Equal(t, domain.StateExpired, e.session.Snapshot().State)
	})

	t.Run("seeds from the job read model", func(t *testing.T) {
		e := newTestEnv(t)
		seeker := e.seedSeeker(t)
		employer := e.seedEmployer(t)
		job := e.api.SeedJob(employer.ID, "Backend Engineer", domain.JobStatusActive)
		e.api.SeedSaved(seeker.ID, job.ID)
		e.authenticateAs(t, seeker)

		loaded, err := e.jobs.Get(ctx, job.ID)
		require.NoError(t, err)

		saved := usecase.NewSavedJobs(e.session, e.jobs, zap.NewNop())
		saved.SeedFromJob(loaded)
		assert.True(t, saved.Saved(job.ID))

		// The next toggle acts on the seeded truth and unsaves.
		result, err := saved.Toggle(ctx, job.ID)
		require.NoError(t, err)
		assert.False(t, result.Saved)
		assert.False(t, e.api.Saved(seeker.ID, job.ID))
	})
}

// TestToggleSerialized races an even number of toggles on one job. Serialized
// correctly, each toggle observes its predecessor's confirmed state, so the
// server sees a strict save/unsave alternation and the final state matches
// what the same toggles applied one at a time would produce.
func TestToggleSerialized(t *testing.T) {
	ctx := context.Background()
	e := newTestEnv(t)
	seeker := e.seedSeeker(t)
	employer := e.seedEmployer(t)
	job := e.api.SeedJob(employer.ID, "Backend Engineer", domain.JobStatusActive)
	e.authenticateAs(t, seeker)
	e.api.SetDelay(5 * time.Millisecond)

	saved := usecase.NewSavedJobs(e.session, e.jobs, zap.NewNop())

	const toggles = 8
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < toggles; i++ {
		g.Go(func() error {
			result, err := saved.Toggle(gctx, job.ID)
			if err != nil {
				return err
			}
			if result.Rejection != nil {
				return result.Rejection
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.False(t, saved.Saved(job.ID))
	assert.False(t, e.api.Saved(seeker.ID, job.ID))

	ops := e.api.Operations()
	require.Len(t, ops, toggles)
	for i, op := range ops {
		want := fmt.Sprintf("save %d", job.ID)
		if i%2 == 1 {
			want = fmt.Sprintf("unsave %d", job.ID)
		}
		assert.Equal(t, want, op, "operation %d out of order", i)
	}
}
