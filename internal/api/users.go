package api

import (
	"context"
	"fmt"
	"net/http"

	"maji/local-app/internal/model"
)

// CreateUser registers a new user
func (c *Client) CreateUser(ctx context.Context, reg model.UserRegistration) (*model.User, error) {
	var user model.User
	if err := c.do(ctx, http.MethodPost, "/Usuario", reg, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ValidateCredentials checks a national ID and password and returns the
// matching user, without password.
func (c *Client) ValidateCredentials(ctx context.Context, creds model.Credentials) (*model.User, error) {
	var user model.User
	if err := c.do(ctx, http.MethodPost, "/Usuario/validar-acceso", creds, &user); err != nil {
		return nil, err
	}
	user.Password = ""
	return &user, nil
}

// GetUser fetches a single user by ID
func (c *Client) GetUser(ctx context.Context, id int) (*model.User, error) {
	var user model.User
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/Usuario/%d", id), nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ListUsers fetches every registered user
func (c *Client) ListUsers(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := c.do(ctx, http.MethodGet, "/Usuario", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}
