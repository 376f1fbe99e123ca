package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/ekthaa/customer-client/internal/models"
)

// ErrIncompleteAuth is returned when a login response lacks a token or user.
var ErrIncompleteAuth = errors.New("auth response missing token or user")

// Login signs in and starts the session.
func (c *Client) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", req, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" || resp.User == nil {
		return nil, ErrIncompleteAuth
	}
	if err := c.session.Begin(resp.Token, resp.User); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Register creates an account. When the backend signs the new customer in
// straight away the session is started too.
func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/register", req, &resp); err != nil {
		return nil, err
	}
	if resp.Token != "" && resp.User != nil {
		if err := c.session.Begin(resp.Token, resp.User); err != nil {
			return nil, err
		}
	}
	return &resp, nil
}

// ChangePassword changes the signed-in customer's password.
func (c *Client) ChangePassword(ctx context.Context, req models.ChangePasswordRequest) error {
	return c.doJSON(ctx, http.MethodPost, "/api/auth/change-password", req, nil)
}

// Logout ends the local session. The backend keeps no session state.
func (c *Client) Logout() error {
	if _, err := c.session.End(); err != nil {
		return fmt.Errorf("error logging out: %w", err)
	}
	return nil
}

// Profile fetches the customer profile and refreshes the cached copy.
func (c *Client) Profile(ctx context.Context) (*models.User, error) {
	var resp models.ProfileResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/profile", nil, &resp); err != nil {
		return nil, err
	}
	if err := c.session.UpdateUser(resp.User); err != nil {
		c.logger.Error("%v", err)
	}
	return &resp.User, nil
}

// UpdateProfile saves profile changes and refreshes the cached copy.
func (c *Client) UpdateProfile(ctx context.Context, req models.UpdateProfileRequest) (*models.User, error) {
	var resp models.ProfileResponse
	if err := c.doJSON(ctx, http.MethodPut, "/api/profile", req, &resp); err != nil {
		return nil, err
	}
	if err := c.session.UpdateUser(resp.User); err != nil {
		c.logger.Error("%v", err)
	}
	return &resp.User, nil
}
