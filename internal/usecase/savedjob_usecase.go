package usecase

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/mohamedimran-32/jobportal-client/internal/domain"
	"github.com/mohamedimran-32/jobportal-client/pkg/apperror"
)

// MutationPhase is the observable lifecycle of a confirmed-state mutation.
type MutationPhase int

const (
	PhaseIdle MutationPhase = iota
	PhasePending
	PhaseSettled
)

func (p MutationPhase) String() string {
	switch p {
	case PhasePending:
		return "pending"
	case PhaseSettled:
		return "settled"
	default:
		return "idle"
	}
}

// ToggleResult reports the confirmed saved state after a toggle attempt.
// Expected rejections come back in Rejection rather than as an error.
type ToggleResult struct {
	Saved   bool
	Changed bool
	// Rejection is non-nil when the server (or transport) rejected the
	// toggle for an expected reason; the confirmed state is unchanged.
	Rejection *apperror.AppError
}

// SavedJobs governs the saved relation per job for the current session. The
// flag is confirmed state, never optimistic: it flips only after the server
// acknowledges, so a failed call leaves the visible state where it was.
type SavedJobs struct {
	session SessionSource
	jobs    domain.JobAPI
	log     *zap.Logger

	mu     sync.Mutex
	saved  map[int64]bool
	phases map[int64]MutationPhase
	locks  map[int64]*sync.Mutex
}

func NewSavedJobs(session SessionSource, jobs domain.JobAPI, log *zap.Logger) *SavedJobs {
	return &SavedJobs{
		session: session,
		jobs:    jobs,
		log:     log,
		saved:   make(map[int64]bool),
		phases:  make(map[int64]MutationPhase),
		locks:   make(map[int64]*sync.Mutex),
	}
}

// SeedFromJob seeds the confirmed flag from a job read model.
func (s *SavedJobs) SeedFromJob(job *domain.Job) {
	s.Seed(job.ID, job.IsSaved)
}

func (s *SavedJobs) Seed(jobID int64, saved bool) {
	s.mu.Lock()
	s.saved[jobID] = saved
	s.mu.Unlock()
}

// Saved returns the confirmed flag for a job.
func (s *SavedJobs) Saved(jobID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saved[jobID]
}

// Phase returns the mutation phase for a job, for callers that render
// transient state.
func (s *SavedJobs) Phase(jobID int64) MutationPhase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phases[jobID]
}

// Toggle flips the saved relation for a job. Only job seekers save jobs;
// for any other role this is a silent no-op, mirroring the control not being
// offered. Toggles on the same job are serialized: a toggle issued while one
// is in flight waits and then acts on the confirmed state its predecessor
// left behind. Toggles on different jobs interleave freely.
func (s *SavedJobs) Toggle(ctx context.Context, jobID int64) (ToggleResult, error) {
	if s.session.Snapshot().Role() != domain.RoleJobSeeker {
		return ToggleResult{Saved: s.Saved(jobID)}, nil
	}

	keyLock := s.keyLock(jobID)
	keyLock.Lock()
	defer keyLock.Unlock()

	current := s.Saved(jobID)
	s.setPhase(jobID, PhasePending)
	defer s.setPhase(jobID, PhaseSettled)

	var err error
	if current {
		err = s.jobs.Unsave(ctx, jobID)
	} else {
		err = s.jobs.Save(ctx, jobID)
	}

	if err != nil {
		if apperror.IsKind(err, apperror.KindAuthRejected) {
			s.session.Invalidate(ctx)
		}
		if apperror.KindOf(err) == apperror.KindInternal {
			return ToggleResult{Saved: current}, err
		}
		s.log.Debug("toggle rejected",
			zap.Int64("job_id", jobID),
			zap.String("kind", apperror.KindOf(err).String()))
		return ToggleResult{Saved: current, Rejection: apperror.AsAppError(err)}, nil
	}

	s.Seed(jobID, !current)
	return ToggleResult{Saved: !current, Changed: true}, nil
}

func (s *SavedJobs) keyLock(jobID int64) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[jobID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[jobID] = lock
	}
	return lock
}

func (s *SavedJobs) setPhase(jobID int64, phase MutationPhase) {
	s.mu.Lock()
	s.phases[jobID] = phase
	s.mu.Unlock()
}
