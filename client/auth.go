package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
)

// Profile is the authenticated user's summary.
type Profile struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	AccountCount int    `json:"account_count"`
}

// Register creates a user. The server reports business failures such as an
// email already in use with a success status, so the returned message must be shown.
func (c *Client) Register(ctx context.Context, email, password string) (string, error) {
	if email == "" {
		return "", errors.New("email is required")
	}

	q := url.Values{}
	q.Set("email", email)
	q.Set("mdp", password)

	var resp messageResponse
	if err := c.do(ctx, http.MethodPost, "/register?"+q.Encode(), nil, &resp); err != nil {
		return "", err
	}

	c.logger.Debug("user registered", "email", email)
	return resp.Message, nil
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	body := map[string]string{
		"email": email,
		"mdp":   password,
	}

	var resp struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, "/login", body, &resp); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", errors.New("login response did not contain a token")
	}

	c.logger.Debug("logged in", "email", email)
	return resp.Token, nil
}

// Me returns the authenticated user's profile.
func (c *Client) Me(ctx context.Context) (*Profile, error) {
	var resp struct {
		User struct {
			ID    int64  `json:"id"`
			Email string `json:"email"`
		} `json:"user"`
		AccountCount int `json:"Nombre de compte"`
	}
	if err := c.Get(ctx, "/me", &resp); err != nil {
		return nil, err
	}

	return &Profile{
		ID:           resp.User.ID,
		Email:        resp.User.Email,
		AccountCount: resp.AccountCount,
	}, nil
}

// UpdatePassword changes the authenticated user's password.
func (c *Client) UpdatePassword(ctx context.Context, current, next string) (string, error) {
	if next == "" {
		return "", errors.New("new password is required")
	}
	if current == next {
		return "", errors.New("new password must differ from the current one")
	}

	body := map[string]string{
		"old_mdp": current,
		"new_mdp": next,
	}

	var resp messageResponse
	if err := c.do(ctx, http.MethodPut, "/user/password", body, &resp); err != nil {
		return "", fmt.Errorf("failed to update password: %w", err)
	}
	return resp.Message, nil
}
