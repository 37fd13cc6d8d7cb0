package api

import (
	"context"

	"github.com/nhle/todoterm/internal/model"
)

// RegisterRequest is the request body for account creation.
type RegisterRequest struct {
	Email    string  `json:"email"`
	Username string  `json:"username"`
	Password string  `json:"password"`
	FullName *string `json:"full_name,omitempty"`
}

// LoginRequest is the request body for authentication.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse is the successful login payload.
type AuthResponse struct {
	AccessToken string     `json:"access_token"`
	TokenType   string     `json:"token_type"`
	User        model.User `json:"user"`
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, data RegisterRequest) (*model.User, error) {
	var user model.User
	if err := c.post(ctx, "/auth/register", data, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Login authenticates and returns the bearer token plus profile.
func (c *Client) Login(ctx context.Context, data LoginRequest) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.post(ctx, "/auth/login", data, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Verify probes whether the current token is still accepted.
func (c *Client) Verify(ctx context.Context) error {
	return c.get(ctx, "/auth/verify", nil)
}

// Me fetches the current user's profile.
func (c *Client) Me(ctx context.Context) (*model.User, error) {
	var user model.User
	if err := c.get(ctx, "/auth/me", &user); err != nil {
		return nil, err
	}
	return &user, nil
}
