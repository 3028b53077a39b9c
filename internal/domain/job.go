package domain

import (
	"context"
	"errors"
	"time"
)

// Common domain errors
var ErrNotFound = errors.New("resource not found")

// Job posting statuses
const (
	JobStatusDraft    = "draft"
	JobStatusActive   = "active"
	JobStatusRejected = "rejected"
)

// Job types
const (
	JobTypeFullTime   = "full_time"
	JobTypePartTime   = "part_time"
	JobTypeContract   = "contract"
	JobTypeInternship = "internship"
	JobTypeFreelance  = "freelance"
)

// Job is a posting as the server serializes it. Created by an employer or
// admin, mutated by its owner or by moderation, read-only for job seekers.
type Job struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Category     string    `json:"category"`
	Location     string    `json:"location"`
	JobType      string    `json:"job_type"`
	SalaryRange  string    `json:"salary_range"`
	Requirements string    `json:"requirements"`
	PostedBy     *User     `json:"posted_by,omitempty"`
	Status       string    `json:"status"`
	Deadline     *string   `json:"deadline,omitempty"` // YYYY-MM-DD, optional
	IsInternship bool      `json:"is_internship"`
	Remote       bool      `json:"remote"`
	CreatedAt    time.Time `json:"created_at"`

	// IsSaved is part of the read model only when the request carried a
	// bearer token; it seeds the saved-job toggle.
	IsSaved bool `json:"is_saved"`

	ApplicationCount int `json:"application_count"`
}

// JobCreateInput is the employer-side posting payload.
type JobCreateInput struct {
	Title        string  `json:"title" validate:"required,max=200"`
	Description  string  `json:"description" validate:"required"`
	Category     string  `json:"category" validate:"required,max=100"`
	Location     string  `json:"location" validate:"required,max=100"`
	JobType      string  `json:"job_type" validate:"required,oneof=full_time part_time contract internship freelance"`
	Requirements string  `json:"requirements" validate:"required"`
	SalaryMin    float64 `json:"salary_min,omitempty"`
	SalaryMax    float64 `json:"salary_max,omitempty"`
	Deadline     *string `json:"deadline,omitempty"`
	IsInternship bool    `json:"is_internship"`
	Remote       bool    `json:"remote"`
}

// JobAPI is the server's job surface as the client consumes it.
type JobAPI interface {
	// Get reads a single job; is_saved is populated when authenticated.
	Get(ctx context.Context, id int64) (*Job, error)
	// List returns active postings.
	List(ctx context.Context) ([]Job, error)
	// Create posts a new job (employer/admin; server-enforced).
	Create(ctx context.Context, input JobCreateInput) (*Job, error)
	// Save creates the saved-job relation for the current user.
	Save(ctx context.Context, jobID int64) error
	// Unsave destroys the saved-job relation for the current user.
	Unsave(ctx context.Context, jobID int64) error
	// Saved lists the current user's saved jobs.
	Saved(ctx context.Context) ([]Job, error)
}
