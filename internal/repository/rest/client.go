package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mohamedimran-32/jobportal-client/internal/domain"
	"github.com/mohamedimran-32/jobportal-client/pkg/apperror"
)

type authMode int

const (
	authNone authMode = iota
	authOptional
	authRequired
)

// Client is the shared HTTP plumbing for the API repositories: bearer
// injection, request correlation, and the wire → apperror mapping. Access
// tokens are read from the token repository per request and held only for
// the duration of the call.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  domain.TokenRepository
	log     *zap.Logger
}

func NewClient(baseURL string, timeout time.Duration, tokens domain.TokenRepository, log *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
		log:     log,
	}
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any, mode authMode) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return apperror.Internal(fmt.Errorf("encode request body: %w", err))
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return apperror.Internal(fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if mode != authNone {
		creds, err := c.tokens.Load(ctx)
		if err != nil {
			return apperror.Internal(fmt.Errorf("load credentials: %w", err))
		}
		switch {
		case creds != nil && creds.AccessToken != "":
			req.Header.Set("Authorization", "Bearer "+creds.AccessToken)
		case mode == authRequired:
			return apperror.AuthRejected("no credentials stored")
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("api transport failure",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err))
		return apperror.Network(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return apperror.Network(err)
	}

	c.log.Debug("api response",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode))

	if resp.StatusCode >= 400 {
		return apperror.FromResponse(resp.StatusCode, data)
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return apperror.Internal(fmt.Errorf("decode %s %s response: %w", method, path, err))
		}
	}
	return nil
}
