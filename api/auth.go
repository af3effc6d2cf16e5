package api

import (
	"context"
	"net/http"
	"net/url"
)

// RegisterRequest is the body of POST /auth/register. Registration is
// invite-gated on the server.
type RegisterRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	InviteCode string `json:"invite_code"`
}

// Login exchanges credentials for a bearer token. The endpoint speaks the
// OAuth2 password flow: a form-encoded body with the email in the username
// field. Bad credentials come back as ErrUnauthorized.
func (c *Client) Login(ctx context.Context, email, password string) (Token, error) {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	var tok Token
	if err := c.postForm(ctx, "/auth/login", form, &tok); err != nil {
		return Token{}, err
	}
	return tok, nil
}

// Register creates an account from an invite code.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (User, error) {
	var user User
	if err := c.doJSON(ctx, http.MethodPost, "/auth/register", req, &user); err != nil {
		return User{}, err
	}
	return user, nil
}

// Me returns the account behind the current token. It doubles as the token
// validity probe on startup.
func (c *Client) Me(ctx context.Context) (User, error) {
	var user User
	if err := c.doJSON(ctx, http.MethodGet, "/auth/me", nil, &user); err != nil {
		return User{}, err
	}
	return user, nil
}

// ChangePassword rotates the account password.
func (c *Client) ChangePassword(ctx context.Context, current, next string) error {
	body := struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}{current, next}
	return c.doJSON(ctx, http.MethodPost, "/auth/change-password", body, nil)
}
