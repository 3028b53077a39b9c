package domain

import (
	"context"
	"time"
)

// Application statuses. The progression pending → reviewing → shortlisted →
// interview → accepted/rejected is advisory; the client validates set
// membership only and leaves transition legality to the server.
const (
	ApplicationStatusPending     = "pending"
	ApplicationStatusReviewing   = "reviewing"
	ApplicationStatusShortlisted = "shortlisted"
	ApplicationStatusInterview   = "interview"
	ApplicationStatusAccepted    = "accepted"
	ApplicationStatusRejected    = "rejected"
)

// ValidApplicationStatus reports set membership for a status value.
func ValidApplicationStatus(status string) bool {
	switch status {
	case ApplicationStatusPending, ApplicationStatusReviewing,
		ApplicationStatusShortlisted, ApplicationStatusInterview,
		ApplicationStatusAccepted, ApplicationStatusRejected:
		return true
	}
	return false
}

// Application is a job seeker's candidacy for one posting. Created once per
// (job, applicant) pair — the server owns uniqueness; the client never
// assumes creation is an idempotent retry.
type Application struct {
	ID          int64     `json:"id"`
	JobID       int64     `json:"job"`
	Job         *Job      `json:"job_detail,omitempty"`
	ApplicantID int64     `json:"applicant"`
	Applicant   *User     `json:"applicant_detail,omitempty"`
	CoverLetter string    `json:"cover_letter"`
	Status      string    `json:"status"`
	AppliedDate time.Time `json:"applied_date"`
}

// ApplicationAPI is the server's application surface.
type ApplicationAPI interface {
	// Create submits an application. Duplicates come back as a conflict.
	Create(ctx context.Context, jobID int64, coverLetter string) (*Application, error)
	// List returns applications scoped server-side by the caller's role.
	List(ctx context.Context) ([]Application, error)
	// ListForJob returns a posting's applications (poster/admin).
	ListForJob(ctx context.Context, jobID int64) ([]Application, error)
	// UpdateStatus moves an application to the given status (poster/admin).
	UpdateStatus(ctx context.Context, applicationID int64, status string) (*Application, error)
}
