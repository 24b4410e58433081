package api

import (
	"context"
	"net/http"

	"github.com/assesskit/assesskit/internal/errors"
	"github.com/assesskit/assesskit/internal/session"
)

// Profile is the account record behind the session.
type Profile struct {
	ID      int    `json:"id"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
	IsStaff bool   `json:"is_staff"`
}

// Admin reports whether the account holds either admin flag. The
// backend distinguishes superusers from staff; both clear the admin
// gate here.
func (p Profile) Admin() bool { return p.IsAdmin || p.IsStaff }

// PrimeCSRF asks the backend to set its CSRF cookie. Called once
// before the first mutating request of a cookie-fresh client.
func (c *Client) PrimeCSRF(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "auth/csrf/", nil, nil)
}

// Login exchanges credentials for a token pair, loads the profile, and
// installs the combined identity into the session.
func (c *Client) Login(ctx context.Context, email, password string) (*session.Identity, error) {
	var tokens struct {
		Access  string `json:"access"`
		Refresh string `json:"refresh"`
	}
	err := c.do(ctx, http.MethodPost, "auth/token/", map[string]string{
		"email":    email,
		"password": password,
	}, &tokens)
	if err != nil {
		if kitErr, ok := err.(*errors.Error); ok && kitErr.Status == http.StatusUnauthorized {
			return nil, errors.Wrap(errors.ErrCodeAuthLoginFailed, "invalid email or password", err).
				WithSuggestion("Check the email and password and try again")
		}
		return nil, err
	}

	// The profile fetch needs the fresh token before the session holds
	// it, so a temporary identity is installed first.
	id := session.Identity{Email: email, AccessToken: tokens.Access, RefreshToken: tokens.Refresh}
	if err := c.session.Login(id); err != nil {
		return nil, err
	}

	profile, err := c.CurrentProfile(ctx)
	if err != nil {
		// A token pair without its profile is a half-login; drop it so
		// the next command does not run under the wrong role.
		if logoutErr := c.session.Logout(); logoutErr != nil {
			c.log.WithError(logoutErr).Warn("clear session after failed profile fetch")
		}
		return nil, err
	}

	id.UserID = profile.ID
	id.Email = profile.Email
	id.IsAdmin = profile.Admin()
	if err := c.session.Login(id); err != nil {
		return nil, err
	}
	return &id, nil
}

// CurrentProfile fetches the account behind the active session.
func (c *Client) CurrentProfile(ctx context.Context) (*Profile, error) {
	var p Profile
	if err := c.do(ctx, http.MethodGet, "auth/profile/", nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProfile changes mutable profile fields.
func (c *Client) UpdateProfile(ctx context.Context, fields map[string]any) (*Profile, error) {
	var p Profile
	if err := c.do(ctx, http.MethodPatch, "auth/profile/", fields, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Register creates a new account. The backend returns the created
// profile; the caller still logs in separately.
func (c *Client) Register(ctx context.Context, email, password string) (*Profile, error) {
	var p Profile
	err := c.do(ctx, http.MethodPost, "auth/register/", map[string]string{
		"email":    email,
		"password": password,
	}, &p)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ChangePassword rotates the session account's password.
func (c *Client) ChangePassword(ctx context.Context, current, next string) error {
	return c.do(ctx, http.MethodPost, "auth/password/change/", map[string]string{
		"old_password": current,
		"new_password": next,
	}, nil)
}

// RequestPasswordReset starts the email-based reset flow.
func (c *Client) RequestPasswordReset(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, "auth/password/reset/", map[string]string{
		"email": email,
	}, nil)
}

// ConfirmPasswordReset completes the reset flow with the emailed token.
func (c *Client) ConfirmPasswordReset(ctx context.Context, token, password string) error {
	return c.do(ctx, http.MethodPost, "auth/password/reset/confirm/", map[string]string{
		"token":    token,
		"password": password,
	}, nil)
}

// Logout clears the local session. The backend's tokens simply expire;
// there is no server-side revocation call.
func (c *Client) Logout() error {
	return c.session.Logout()
}
