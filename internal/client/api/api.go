// Package api implements the HTTP client for the StudyNotes backend:
// authentication, profile management, and topic/note operations.
//
// Cross-cutting policy: every outbound request attaches the currently
// persisted session token (if any) and a request ID. Any response with
// an authentication-failure status triggers the client's auth-failure
// handler exactly once for that response, regardless of which call
// produced it.
package api

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

	"github.com/dmitrijs2005/studynotes/internal/client/models"
	"github.com/dmitrijs2005/studynotes/internal/common"
	"github.com/dmitrijs2005/studynotes/internal/logging"
)

// TokenSource yields the session token to attach to outbound requests.
// An empty token means the request goes out unauthenticated.
type TokenSource interface {
	Token(ctx context.Context) string
}

// AuthFailureHandler is invoked when any backend call is rejected with an
// authentication-failure status. It is the entry point of the global
// session invalidation policy.
type AuthFailureHandler func(ctx context.Context)

// AuthGateway is the remote authentication surface. Pure request/response;
// no local state beyond the connection.
type AuthGateway interface {
	Login(ctx context.Context, email, password string) (*models.Credential, error)
	Register(ctx context.Context, input RegisterInput) (*models.Credential, error)
	Logout(ctx context.Context) error
	FetchProfile(ctx context.Context) (*models.UserProfile, error)
	UpdateProfile(ctx context.Context, patch ProfilePatch) (*models.UserProfile, error)
	ChangePassword(ctx context.Context, oldPassword, newPassword string) (string, error)
}

// Client talks JSON over HTTP to the StudyNotes backend.
type Client struct {
	baseURL       string
	http          *http.Client
	tokens        TokenSource
	onAuthFailure AuthFailureHandler
	log           logging.Logger
}

// NewClient builds a Client for the backend at baseURL. tokens may be nil
// for a client that never authenticates (not the normal case).
func NewClient(baseURL string, timeout time.Duration, tokens TokenSource, log logging.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
		log:     log,
	}
}

// SetAuthFailureHandler installs the global invalidation hook. Set once
// during wiring, before the client is shared.
func (c *Client) SetAuthFailureHandler(fn AuthFailureHandler) {
	c.onAuthFailure = fn
}

// errorBody is the error envelope the backend uses for 4xx responses.
type errorBody struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
}

// do executes one JSON request/response exchange and maps the outcome to
// the error taxonomy: transport failures and 5xx to ErrUnavailable,
// authentication failures to ErrUnauthorized (after firing the handler),
// remaining 4xx to ErrValidation carrying the server message.
func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(common.RequestIDHeaderName, uuid.NewString())
	if c.tokens != nil {
		if token := c.tokens.Token(ctx); token != "" {
			req.Header.Set(common.AuthHeaderName, common.AuthScheme+" "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
		return nil

	case resp.StatusCode == http.StatusUnauthorized:
		c.log.Warn(ctx, "request rejected as unauthenticated", "method", method, "path", path)
		if c.onAuthFailure != nil {
			c.onAuthFailure(ctx)
		}
		return common.ErrUnauthorized

	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: status %d", common.ErrUnavailable, resp.StatusCode)

	default:
		var eb errorBody
		_ = json.NewDecoder(resp.Body).Decode(&eb)
		msg := eb.Error
		if msg == "" {
			msg = eb.Detail
		}
		if msg == "" {
			msg = fmt.Sprintf("status %d", resp.StatusCode)
		}
		return fmt.Errorf("%w: %s", common.ErrValidation, msg)
	}
}
