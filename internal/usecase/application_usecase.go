package usecase

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/mohamedimran-32/jobportal-client/internal/domain"
	"github.com/mohamedimran-32/jobportal-client/pkg/apperror"
)

// SubmitResult reports the applicant-side outcome of a submission attempt.
// Applied is the confirmed indicator for the job after the call: it becomes
// true on success and on a duplicate conflict, and is untouched by transient
// failures so retrying is safe.
type SubmitResult struct {
	Applied      bool
	Application  *domain.Application
	Applications []domain.Application
	Rejection    *apperror.AppError
}

// StatusUpdateResult reports the poster-side outcome of a status change.
type StatusUpdateResult struct {
	Updated      bool
	Application  *domain.Application
	Applications []domain.Application
	Rejection    *apperror.AppError
}

// ApplicationWorkflow drives the application lifecycle from both viewer
// roles: submission for applicants, status transitions for posters. Neither
// path is optimistic — the UI reflects server-confirmed state only, and the
// affected list is reloaded after a successful mutation instead of being
// reconciled locally.
type ApplicationWorkflow struct {
	session SessionSource
	api     domain.ApplicationAPI
	log     *zap.Logger

	mu      sync.Mutex
	applied map[int64]bool
}

func NewApplicationWorkflow(session SessionSource, api domain.ApplicationAPI, log *zap.Logger) *ApplicationWorkflow {
	return &ApplicationWorkflow{
		session: session,
		api:     api,
		log:     log,
		applied: make(map[int64]bool),
	}
}

// Applied returns the confirmed applied indicator for a job.
func (w *ApplicationWorkflow) Applied(jobID int64) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.applied[jobID]
}

// SeedApplied seeds the indicator, e.g. from a loaded application list.
func (w *ApplicationWorkflow) SeedApplied(jobID int64, applied bool) {
	w.mu.Lock()
	w.applied[jobID] = applied
	w.mu.Unlock()
}

// Submit sends an application for a job. Only job seekers may apply — the
// precondition is checked against the live session role before any network
// traffic. Duplicate detection stays server-side: the client does not
// pre-check with the server, and a conflict answer confirms the applied
// indicator rather than leaving it ambiguous.
func (w *ApplicationWorkflow) Submit(ctx context.Context, jobID int64, coverLetter string) (SubmitResult, error) {
	if w.session.Snapshot().Role() != domain.RoleJobSeeker {
		return SubmitResult{
			Applied:   w.Applied(jobID),
			Rejection: apperror.Forbidden("Only job seekers can apply for jobs"),
		}, nil
	}

	if w.Applied(jobID) {
		return SubmitResult{
			Applied:   true,
			Rejection: apperror.Conflict("You have already applied to this job"),
		}, nil
	}

	app, err := w.api.Create(ctx, jobID, coverLetter)
	if err != nil {
		return w.submitFailed(ctx, jobID, err)
	}

	w.SeedApplied(jobID, true)

	result := SubmitResult{Applied: true, Application: app}
	apps, err := w.Refresh(ctx)
	if err != nil {
		// The submission is confirmed; a failed reload only means the
		// list view is stale until the next fetch.
		w.log.Warn("reload applications after submit", zap.Error(err))
		return result, nil
	}
	result.Applications = apps
	return result, nil
}

func (w *ApplicationWorkflow) submitFailed(ctx context.Context, jobID int64, err error) (SubmitResult, error) {
	kind := apperror.KindOf(err)
	switch kind {
	case apperror.KindInternal:
		return SubmitResult{Applied: w.Applied(jobID)}, err
	case apperror.KindAuthRejected:
		w.session.Invalidate(ctx)
	case apperror.KindConflict:
		// The server says an application already exists; the indicator
		// must settle on true, not stay ambiguous.
		w.SeedApplied(jobID, true)
	}

	w.log.Debug("application submit rejected",
		zap.Int64("job_id", jobID),
		zap.String("kind", kind.String()))
	return SubmitResult{Applied: w.Applied(jobID), Rejection: apperror.AsAppError(err)}, nil
}

// UpdateStatus moves an application to a new status. The client validates
// only that the caller's role may moderate and that the status is a known
// value; transition ordering and job ownership are deliberately left to the
// server — the client is a thin selector.
func (w *ApplicationWorkflow) UpdateStatus(ctx context.Context, applicationID int64, status string) (StatusUpdateResult, error) {
	if !domain.ValidApplicationStatus(status) {
		return StatusUpdateResult{
			Rejection: apperror.Validation("validation failed", map[string][]string{
				"status": {"Invalid status."},
			}),
		}, nil
	}

	if !w.session.Snapshot().Role().CanModerateApplications() {
		return StatusUpdateResult{
			Rejection: apperror.Forbidden("You do not have permission to update this application"),
		}, nil
	}

	app, err := w.api.UpdateStatus(ctx, applicationID, status)
	if err != nil {
		kind := apperror.KindOf(err)
		if kind == apperror.KindInternal {
			return StatusUpdateResult{}, err
		}
		if kind == apperror.KindAuthRejected {
			w.session.Invalidate(ctx)
		}
		w.log.Debug("status update rejected",
			zap.Int64("application_id", applicationID),
			zap.String("kind", kind.String()))
		return StatusUpdateResult{Rejection: apperror.AsAppError(err)}, nil
	}

	result := StatusUpdateResult{Updated: true, Application: app}
	apps, err := w.api.List(ctx)
	if err != nil {
		w.log.Warn("reload applications after status update", zap.Error(err))
		return result, nil
	}
	result.Applications = apps
	return result, nil
}

// Refresh reloads the role-scoped application list and re-seeds the
// applicant's applied indicators from it.
func (w *ApplicationWorkflow) Refresh(ctx context.Context) ([]domain.Application, error) {
	apps, err := w.api.List(ctx)
	if err != nil {
		if apperror.IsKind(err, apperror.KindAuthRejected) {
			w.session.Invalidate(ctx)
		}
		return nil, err
	}

	if w.session.Snapshot().Role() == domain.RoleJobSeeker {
		w.mu.Lock()
		for _, app := range apps {
			w.applied[app.JobID] = true
		}
		w.mu.Unlock()
	}
	return apps, nil
}

// ApplicationsForJob lists a posting's applications for its poster (or an
// admin). Ownership is enforced server-side; the role gate here is the same
// client-side convenience the rest of the workflow applies.
func (w *ApplicationWorkflow) ApplicationsForJob(ctx context.Context, jobID int64) ([]domain.Application, error) {
	if !w.session.Snapshot().Role().CanModerateApplications() {
		return nil, apperror.Forbidden("You do not have permission to view these applications")
	}

	apps, err := w.api.ListForJob(ctx, jobID)
	if err != nil {
		if apperror.IsKind(err, apperror.KindAuthRejected) {
			w.session.Invalidate(ctx)
		}
		return nil, err
	}
	return apps, nil
}
