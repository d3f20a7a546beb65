// Package client talks to the coaching service REST API and keeps a
// disposable local projection of the signed-in user and the catalog.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const defaultTimeout = 10 * time.Second

// Client is a thin REST client over the /api routes.
type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithToken starts the client with a bearer token.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// New builds a client for the service rooted at baseURL, e.g. http://localhost:5001.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken replaces the bearer token used for authenticated calls.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Token returns the current bearer token.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *APIError       `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read body: %v", ErrUnreachable, err)
	}

	var env envelope
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil && resp.StatusCode/100 == 2 {
			return fmt.Errorf("decode response: %w", err)
		}
	}

	if resp.StatusCode/100 != 2 {
		apiErr := env.Error
		if apiErr == nil {
			apiErr = &APIError{Message: http.StatusText(resp.StatusCode)}
		}
		apiErr.Status = resp.StatusCode
		return apiErr
	}

	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}

// SendOTP asks the service to deliver a code to identifier. channel is "email" or "phone"; empty infers it.
func (c *Client) SendOTP(ctx context.Context, identifier, channel string) (string, error) {
	var out struct {
		Message string `json:"message"`
	}
	err := c.do(ctx, http.MethodPost, "/api/auth/send-otp", map[string]string{"identifier": identifier, "type": channel}, &out)
	return out.Message, err
}

// VerifyOTP checks a code. Phone identifiers yield a verification token.
func (c *Client) VerifyOTP(ctx context.Context, identifier, code string) (*VerifyResult, error) {
	var out VerifyResult
	if err := c.do(ctx, http.MethodPost, "/api/auth/verify-otp", map[string]string{"identifier": identifier, "otp": code}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates an account.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	var out AuthResult
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login signs in by email or phone and password.
func (c *Client) Login(ctx context.Context, identifier, password string) (*AuthResult, error) {
	var out AuthResult
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", map[string]string{"identifier": identifier, "password": password}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// LoginWithPhone signs in with a phone OTP or a prior verification token.
func (c *Client) LoginWithPhone(ctx context.Context, phone, code, verificationToken string) (*AuthResult, error) {
	body := map[string]string{"phone": phone, "otp": code, "verificationToken": verificationToken}
	var out AuthResult
	if err := c.do(ctx, http.MethodPost, "/api/auth/login-via-phone", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RequestPasswordReset emails a reset code.
func (c *Client) RequestPasswordReset(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, "/api/auth/password/reset/request", map[string]string{"email": email}, nil)
}

// ConfirmPasswordReset applies a new password using the emailed code.
func (c *Client) ConfirmPasswordReset(ctx context.Context, email, code, newPassword string) error {
	body := map[string]string{"email": email, "otp": code, "newPassword": newPassword}
	return c.do(ctx, http.MethodPost, "/api/auth/password/reset/confirm", body, nil)
}

// Me returns the signed-in user.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var out User
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Courses lists the catalog.
func (c *Client) Courses(ctx context.Context) ([]Course, error) {
	var out []Course
	if err := c.do(ctx, http.MethodGet, "/api/courses", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateCourse adds a course.
func (c *Client) CreateCourse(ctx context.Context, in CourseInput) (*Course, error) {
	var out Course
	if err := c.do(ctx, http.MethodPost, "/api/courses", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateCourse replaces a course.
func (c *Client) UpdateCourse(ctx context.Context, id string, in CourseInput) (*Course, error) {
	var out Course
	if err := c.do(ctx, http.MethodPut, "/api/courses/"+url.PathEscape(id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Materials lists uploaded materials, newest first.
func (c *Client) Materials(ctx context.Context) ([]Material, error) {
	var out []Material
	if err := c.do(ctx, http.MethodGet, "/api/materials", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AddMaterial records a material.
func (c *Client) AddMaterial(ctx context.Context, in MaterialInput) (*Material, error) {
	var out Material
	if err := c.do(ctx, http.MethodPost, "/api/materials", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Checkout pays for a course and enrolls the signed-in user.
func (c *Client) Checkout(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error) {
	var out CheckoutResult
	if err := c.do(ctx, http.MethodPost, "/api/payments/checkout", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Users lists every account. Admin only.
func (c *Client) Users(ctx context.Context) ([]User, error) {
	var out []User
	if err := c.do(ctx, http.MethodGet, "/api/users", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteUser removes an account. Admin only.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/users/"+url.PathEscape(id), nil, nil)
}

// SendNotification broadcasts a message to the admin inbox.
func (c *Client) SendNotification(ctx context.Context, subject, message string) error {
	return c.do(ctx, http.MethodPost, "/api/notifications", map[string]string{"subject": subject, "message": message}, nil)
}
