package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/assesskit/assesskit/internal/errors"
	"github.com/assesskit/assesskit/internal/log"
	"github.com/assesskit/assesskit/internal/session"
)

const csrfCookieName = "csrftoken"

// Client talks to the assessment backend. It owns the transport
// concerns every endpoint shares: base URL resolution, bearer and CSRF
// headers, JSON codec, error decoding, and the one-shot token refresh
// on a 401.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	session *session.Manager
	log     *log.Logger

	// refreshMu serializes token refresh so concurrent 401s produce a
	// single refresh call.
	refreshMu sync.Mutex
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient overrides the underlying HTTP client. The replacement
// should carry a cookie jar or CSRF-protected calls will fail.
func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) { c.http = h }
}

// WithLogger sets the client's logger.
func WithLogger(l *log.Logger) ClientOption {
	return func(c *Client) { c.log = l.WithGroup("api") }
}

// NewClient builds a client for the given base URL. The URL should end
// with a trailing slash so relative endpoint paths resolve under it.
func NewClient(baseURL string, timeout time.Duration, mgr *session.Manager, opts ...ClientOption) (*Client, error) {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfigInvalid, fmt.Sprintf("invalid base URL %q", baseURL), err)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeAPIRequest, "create cookie jar", err)
	}

	c := &Client{
		baseURL: u,
		http:    &http.Client{Timeout: timeout, Jar: jar},
		session: mgr,
		log:     log.DefaultLogger().WithGroup("api"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the resolved API root.
func (c *Client) BaseURL() string { return c.baseURL.String() }

// do issues one JSON request and decodes the response into out (when
// non-nil). On a 401 it refreshes the access token once and replays
// the request once; a second 401 surfaces as an auth error.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return errors.Wrap(errors.ErrCodeAPIRequest, "encode request body", err)
		}
	}

	if method != http.MethodGet && c.csrfToken() == "" {
		// The backend wants the csrftoken cookie echoed back in a
		// header on every mutating call; fetch it before the first one.
		// Best effort: a backend without CSRF protection has no cookie
		// to hand out and accepts the call anyway.
		if err := c.PrimeCSRF(ctx); err != nil {
			c.log.WithError(err).Debug("csrf priming failed")
		}
	}

	usedToken := c.accessToken()
	resp, err := c.send(ctx, method, path, payload, usedToken)
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusUnauthorized && usedToken != "" {
		drain(resp)
		if err := c.refreshAccess(ctx, usedToken); err != nil {
			return err
		}
		resp, err = c.send(ctx, method, path, payload, c.accessToken())
		if err != nil {
			return err
		}
	}
	defer drain(resp)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.decodeError(resp).Typed()
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(errors.ErrCodeAPIResponse, "decode response body", err)
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, path string, payload []byte, token string) (*http.Response, error) {
	u := c.baseURL.JoinPath(path)
	// JoinPath escapes '?', so query strings ride along separately.
	if i := strings.IndexByte(path, '?'); i >= 0 {
		u = c.baseURL.JoinPath(path[:i])
		u.RawQuery = path[i+1:]
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeAPIRequest, "build request", err)
	}

	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if method != http.MethodGet {
		if csrf := c.csrfToken(); csrf != "" {
			req.Header.Set("X-CSRFToken", csrf)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.Wrap(errors.ErrCodeAPIUnavailable, fmt.Sprintf("%s %s", method, path), err).
			WithSuggestion("Check that the backend is reachable").
			WithSuggestion("Verify the configured base URL")
	}
	return resp, nil
}

// accessToken reads the current access token, empty when logged out.
func (c *Client) accessToken() string {
	if id := c.session.Current(); id != nil {
		return id.AccessToken
	}
	return ""
}

// csrfToken reads the csrftoken cookie the backend set for the API root.
func (c *Client) csrfToken() string {
	for _, cookie := range c.http.Jar.Cookies(c.baseURL) {
		if cookie.Name == csrfCookieName {
			return cookie.Value
		}
	}
	return ""
}

// refreshAccess rotates the access token using the stored refresh
// token. When the observed token no longer matches the session's, a
// concurrent caller already refreshed and nothing happens. A failed
// refresh ends the session: the stored identity is cleared so the next
// command starts from a clean logged-out state.
func (c *Client) refreshAccess(ctx context.Context, usedToken string) error {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	id := c.session.Current()
	if id == nil {
		return errors.NewNotLoggedInError()
	}
	if id.AccessToken != usedToken {
		return nil
	}
	if id.RefreshToken == "" {
		_ = c.session.Logout()
		return errors.NewAuthExpiredError(nil)
	}

	var result struct {
		Access  string `json:"access"`
		Refresh string `json:"refresh"`
	}
	payload, _ := json.Marshal(map[string]string{"refresh": id.RefreshToken})
	resp, err := c.send(ctx, http.MethodPost, "auth/token/refresh/", payload, "")
	if err != nil {
		return err
	}
	defer drain(resp)

	if resp.StatusCode != http.StatusOK {
		apiErr := c.decodeError(resp).Typed()
		if logoutErr := c.session.Logout(); logoutErr != nil {
			c.log.WithError(logoutErr).Warn("clear session after failed refresh")
		}
		return errors.NewAuthExpiredError(apiErr)
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return errors.Wrap(errors.ErrCodeAuthRefreshFailed, "decode refresh response", err)
	}

	c.log.Debug("access token refreshed")
	return c.session.SetTokens(result.Access, result.Refresh)
}

// decodeError turns a non-2xx response into a typed error. DRF error
// bodies come either as {"detail": "..."} or as a field-to-messages
// map; both are preserved.
func (c *Client) decodeError(resp *http.Response) *Error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))

	apiErr := &Error{Status: resp.StatusCode}

	var detail struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &detail); err == nil && detail.Detail != "" {
		apiErr.Detail = detail.Detail
	} else {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(body, &fields); err == nil {
			apiErr.Fields = map[string]string{}
			for name, raw := range fields {
				apiErr.Fields[name] = firstMessage(raw)
			}
		}
	}
	if apiErr.Detail == "" && len(apiErr.Fields) == 0 {
		apiErr.Detail = strings.TrimSpace(string(body))
	}
	return apiErr
}

// firstMessage extracts the leading message from a DRF field error,
// which may be a string or a list of strings.
func firstMessage(raw json.RawMessage) string {
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	var list []string
	if json.Unmarshal(raw, &list) == nil && len(list) > 0 {
		return list[0]
	}
	return strings.TrimSpace(string(raw))
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))
	_ = resp.Body.Close()
}

// Error is a rejected API call: the HTTP status plus whatever the
// backend said about it.
type Error struct {
	Status int
	Detail string
	// Fields maps backend field names to their first error message.
	Fields map[string]string
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Detail
	if msg == "" && len(e.Fields) > 0 {
		msg = fmt.Sprintf("%d field error(s)", len(e.Fields))
	}
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	return fmt.Sprintf("api: %s (status %d)", msg, e.Status)
}

// Typed lifts the API error into the shared error type with a code
// chosen from the status class.
func (e *Error) Typed() *errors.Error {
	code := errors.ErrCodeAPIResponse
	switch {
	case e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden:
		code = errors.ErrCodeAPIRejected
	case e.Status == http.StatusNotFound:
		code = errors.ErrCodeAPINotFound
	case e.Status == http.StatusBadRequest:
		code = errors.ErrCodeAPIRejected
	case e.Status >= 500:
		code = errors.ErrCodeAPIUnavailable
	}

	msg := e.Detail
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	typed := errors.New(code, msg).WithStatus(e.Status)
	for name, fieldMsg := range e.Fields {
		typed = typed.WithField(name, fieldMsg)
	}
	return typed
}

// IsNotFound reports whether err is an API 404.
func IsNotFound(err error) bool {
	return errors.IsCode(err, errors.ErrCodeAPINotFound)
}
