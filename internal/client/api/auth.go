package api

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/studynotes/internal/client/models"
)

// RegisterInput is the payload for account creation.
type RegisterInput struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	StudyLevel string `json:"study_level,omitempty"`
}

// ProfilePatch carries the editable profile fields. Empty fields are
// omitted and left unchanged by the backend.
type ProfilePatch struct {
	FirstName  string `json:"first_name,omitempty"`
	LastName   string `json:"last_name,omitempty"`
	StudyLevel string `json:"study_level,omitempty"`
}

// credentialResponse is the token+user envelope returned by login and
// register.
type credentialResponse struct {
	Token string             `json:"token"`
	User  models.UserProfile `json:"user"`
}

func (c *Client) Login(ctx context.Context, email, password string) (*models.Credential, error) {
	var resp credentialResponse
	payload := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/users/login/", payload, &resp); err != nil {
		return nil, err
	}
	return &models.Credential{Token: resp.Token, User: resp.User}, nil
}

func (c *Client) Register(ctx context.Context, input RegisterInput) (*models.Credential, error) {
	var resp credentialResponse
	if err := c.do(ctx, http.MethodPost, "/users/register/", input, &resp); err != nil {
		return nil, err
	}
	return &models.Credential{Token: resp.Token, User: resp.User}, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/users/logout/", nil, nil)
}

func (c *Client) FetchProfile(ctx context.Context) (*models.UserProfile, error) {
	var user models.UserProfile
	if err := c.do(ctx, http.MethodGet, "/users/profile/", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) UpdateProfile(ctx context.Context, patch ProfilePatch) (*models.UserProfile, error) {
	var resp struct {
		User models.UserProfile `json:"user"`
	}
	if err := c.do(ctx, http.MethodPut, "/users/profile/update/", patch, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// ChangePassword rotates the session token on the backend and returns the
// replacement token.
func (c *Client) ChangePassword(ctx context.Context, oldPassword, newPassword string) (string, error) {
	var resp struct {
		Token string `json:"token"`
	}
	payload := map[string]string{"old_password": oldPassword, "new_password": newPassword}
	if err := c.do(ctx, http.MethodPost, "/users/change-password/", payload, &resp); err != nil {
		return "", err
	}
	return resp.Token, nil
}
