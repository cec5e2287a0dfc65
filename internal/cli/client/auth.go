package client

import (
	"context"
	"net/http"

	"github.com/quitq-dev/quitq/internal/models"
)

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse represents the login response. Token may carry a "Bearer " prefix.
type LoginResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// Login authenticates against the backend. It does not touch the session.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	var resp LoginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, LoginRequest{Email: email, Password: password}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Register creates a USER or SELLER account and returns the backend's confirmation
func (c *Client) Register(ctx context.Context, user models.User) (string, error) {
	var msg string
	if err := c.do(ctx, http.MethodPost, "/auth/register", nil, user, &msg); err != nil {
		return "", err
	}
	return msg, nil
}

// Logout asks the backend to revoke the current credential
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, nil, nil)
}

// GetUser returns a user profile
func (c *Client) GetUser(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	if err := c.getJSON(ctx, pathf("/users/%d", id), nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser saves a user profile
func (c *Client) UpdateUser(ctx context.Context, user models.User) (*models.User, error) {
	var updated models.User
	if err := c.do(ctx, http.MethodPut, pathf("/users/%d", user.ID), nil, user, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}
