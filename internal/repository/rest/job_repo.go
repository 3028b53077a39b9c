package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/mohamedimran-32/jobportal-client/internal/domain"
)

var errMalformedAuth = errors.New("malformed auth response")

type jobRepository struct {
	client *Client
}

// NewJobRepository creates the HTTP-backed job repository.
func NewJobRepository(client *Client) domain.JobAPI {
	return &jobRepository{client: client}
}

func (r *jobRepository) Get(ctx context.Context, id int64) (*domain.Job, error) {
	var job domain.Job
	path := fmt.Sprintf("/jobs/%d/", id)
	if err := r.client.do(ctx, http.MethodGet, path, nil, &job, authOptional); err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *jobRepository) List(ctx context.Context) ([]domain.Job, error) {
	var jobs []domain.Job
	if err := r.client.do(ctx, http.MethodGet, "/jobs/", nil, &jobs, authOptional); err != nil {
		return nil, err
	}
	return jobs, nil
}

func (r *jobRepository) Create(ctx context.Context, input domain.JobCreateInput) (*domain.Job, error) {
	var job domain.Job
	if err := r.client.do(ctx, http.MethodPost, "/jobs/", input, &job, authRequired); err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *jobRepository) Save(ctx context.Context, jobID int64) error {
	path := fmt.Sprintf("/jobs/%d/save/", jobID)
	return r.client.do(ctx, http.MethodPost, path, nil, nil, authRequired)
}

func (r *jobRepository) Unsave(ctx context.Context, jobID int64) error {
	path := fmt.Sprintf("/jobs/%d/save/", jobID)
	return r.client.do(ctx, http.MethodDelete, path, nil, nil, authRequired)
}

func (r *jobRepository) Saved(ctx context.Context) ([]domain.Job, error) {
	var rows []struct {
		Job domain.Job `json:"job"`
	}
	if err := r.client.do(ctx, http.MethodGet, "/jobs/saved/", nil, &rows, authRequired); err != nil {
		return nil, err
	}
	jobs := make([]domain.Job, 0, len(rows))
	for _, row := range rows {
		jobs = append(jobs, row.Job)
	}
	return jobs, nil
}
