package rest

import (
	"context"
	"net/http"

	"github.com/mohamedimran-32/jobportal-client/internal/domain"
	"github.com/mohamedimran-32/jobportal-client/pkg/apperror"
)

type authRepository struct {
	client *Client
}

// NewAuthRepository creates the HTTP-backed authentication repository.
func NewAuthRepository(client *Client) domain.AuthAPI {
	return &authRepository{client: client}
}

// authEnvelope is the credential-exchange response: identity and tokens
// arrive together so no follow-up round trip is needed.
type authEnvelope struct {
	User   *domain.User `json:"user"`
	Tokens struct {
		Access  string `json:"access"`
		Refresh string `json:"refresh"`
	} `json:"tokens"`
	Message string `json:"message"`
}

func (r *authRepository) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	body := map[string]string{"email": email, "password": password}

	var envelope authEnvelope
	if err := r.client.do(ctx, http.MethodPost, "/auth/login/", body, &envelope, authNone); err != nil {
		return nil, err
	}
	return toAuthResult(envelope)
}

func (r *authRepository) Register(ctx context.Context, input domain.RegisterInput) (*domain.AuthResult, error) {
	var envelope authEnvelope
	if err := r.client.do(ctx, http.MethodPost, "/auth/register/", input, &envelope, authNone); err != nil {
		return nil, err
	}
	return toAuthResult(envelope)
}

func (r *authRepository) Logout(ctx context.Context, refreshToken string) error {
	body := map[string]string{"refresh_token": refreshToken}
	return r.client.do(ctx, http.MethodPost, "/auth/logout/", body, nil, authRequired)
}

func (r *authRepository) CurrentUser(ctx context.Context) (*domain.User, error) {
	var user domain.User
	if err := r.client.do(ctx, http.MethodGet, "/auth/user/", nil, &user, authRequired); err != nil {
		return nil, err
	}
	return &user, nil
}

func toAuthResult(envelope authEnvelope) (*domain.AuthResult, error) {
	if envelope.User == nil || envelope.Tokens.Access == "" || envelope.Tokens.Refresh == "" {
		return nil, apperror.Internal(errMalformedAuth)
	}
	return &domain.AuthResult{
		User: envelope.User,
		Credentials: domain.Credentials{
			AccessToken:  envelope.Tokens.Access,
			RefreshToken: envelope.Tokens.Refresh,
		},
	}, nil
}
