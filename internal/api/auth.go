package api

import (
	"context"
	"fmt"
	"net/http"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates and installs the returned session token on the
// client.
func (c *Client) Login(ctx context.Context, username, password string) (*Session, error) {
	var dto loginResponseDTO
	err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", nil,
		loginRequest{Username: username, Password: password}, &dto)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	c.SetToken(dto.Token)
	return &Session{
		Token: dto.Token,
		User:  User{ID: dto.User.ID, Username: dto.User.Username, Email: dto.User.Email},
	}, nil
}

// Register creates an account; the response also embeds a session.
func (c *Client) Register(ctx context.Context, username, email, password string) (*Session, error) {
	var dto loginResponseDTO
	err := c.doJSON(ctx, http.MethodPost, "/api/auth/register", nil,
		registerRequest{Username: username, Email: email, Password: password}, &dto)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	c.SetToken(dto.Token)
	return &Session{
		Token: dto.Token,
		User:  User{ID: dto.User.ID, Username: dto.User.Username, Email: dto.User.Email},
	}, nil
}

// Logout invalidates the server-side session and drops the local token
// regardless of the call's outcome.
func (c *Client) Logout(ctx context.Context) error {
	err := c.doJSON(ctx, http.MethodPost, "/api/auth/logout", nil, nil, nil)
	c.SetToken("")
	if err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// Me returns the account bound to the current session.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var dto userDTO
	if err := c.doJSON(ctx, http.MethodGet, "/api/auth/me", nil, nil, &dto); err != nil {
		return nil, fmt.Errorf("me: %w", err)
	}
	return &User{ID: dto.ID, Username: dto.Username, Email: dto.Email}, nil
}
