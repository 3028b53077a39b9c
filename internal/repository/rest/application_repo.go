package rest

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mohamedimran-32/jobportal-client/internal/domain"
)

type applicationRepository struct {
	client *Client
}

// NewApplicationRepository creates the HTTP-backed application repository.
func NewApplicationRepository(client *Client) domain.ApplicationAPI {
	return &applicationRepository{client: client}
}

func (r *applicationRepository) Create(ctx context.Context, jobID int64, coverLetter string) (*domain.Application, error) {
	body := map[string]any{
		"job":          jobID,
		"cover_letter": coverLetter,
	}
	var app domain.Application
	if err := r.client.do(ctx, http.MethodPost, "/applications/create/", body, &app, authRequired); err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *applicationRepository) List(ctx context.Context) ([]domain.Application, error) {
	var apps []domain.Application
	if err := r.client.do(ctx, http.MethodGet, "/applications/", nil, &apps, authRequired); err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *applicationRepository) ListForJob(ctx context.Context, jobID int64) ([]domain.Application, error) {
	var apps []domain.Application
	path := fmt.Sprintf("/applications/job/%d/", jobID)
	if err := r.client.do(ctx, http.MethodGet, path, nil, &apps, authRequired); err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *applicationRepository) UpdateStatus(ctx context.Context, applicationID int64, status string) (*domain.Application, error) {
	body := map[string]string{"status": status}
	var app domain.Application
	path := fmt.Sprintf("/applications/%d/update-status/", applicationID)
	if err := r.client.do(ctx, http.MethodPut, path, body, &app, authRequired); err != nil {
		return nil, err
	}
	return &app, nil
}
