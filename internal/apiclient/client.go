// Package apiclient talks to the MentorIA REST auth API on behalf of the web front-end.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/mentoria/mentoria/internal/metrics"
)

// Endpoint paths of the auth API.
const (
	LoginPath    = "/api/auth/login/"
	RegisterPath = "/api/auth/register/"
	ProfilePath  = "/api/auth/profile/"
	HealthPath   = "/api/health/"
)

const maxResponseBytes = 1 << 20

// Client issues one request per call: no retries, no caching.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a Client for the API rooted at baseURL.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// Login exchanges credentials for a token pair.
func (c *Client) Login(ctx context.Context, creds Credentials) (TokenPair, error) {
	status, body, err := c.do(ctx, http.MethodPost, LoginPath, "", creds)
	if err != nil {
		metrics.ObserveUpstream("login", metrics.OutcomeUnavailable)
		return TokenPair{}, err
	}

	if !isSuccess(status) {
		var discard map[string]any
		if err := json.Unmarshal(body, &discard); err != nil {
			metrics.ObserveUpstream("login", metrics.OutcomeUnavailable)
			return TokenPair{}, fmt.Errorf("%w: decode login error: %v", ErrUnavailable, err)
		}
		metrics.ObserveUpstream("login", metrics.OutcomeRejected)
		return TokenPair{}, ErrInvalidCredentials
	}

	var tokens TokenPair
	if err := json.Unmarshal(body, &tokens); err != nil || !tokens.complete() {
		metrics.ObserveUpstream("login", metrics.OutcomeUnavailable)
		return TokenPair{}, fmt.Errorf("%w: login response without tokens", ErrUnavailable)
	}

	metrics.ObserveUpstream("login", metrics.OutcomeOK)
	return tokens, nil
}

// Register creates an account and returns the token pair nested under "tokens".
func (c *Client) Register(ctx context.Context, reg Registration) (TokenPair, error) {
	if reg.TeacherProfile.GradeLevels == nil {
		reg.TeacherProfile.GradeLevels = []string{}
	}
	if reg.TeacherProfile.Subjects == nil {
		reg.TeacherProfile.Subjects = []string{}
	}

	status, body, err := c.do(ctx, http.MethodPost, RegisterPath, "", reg)
	if err != nil {
		metrics.ObserveUpstream("register", metrics.OutcomeUnavailable)
		return TokenPair{}, err
	}

	if !isSuccess(status) {
		if !json.Valid(body) {
			metrics.ObserveUpstream("register", metrics.OutcomeUnavailable)
			return TokenPair{}, fmt.Errorf("%w: register refused with status %d and a non-JSON body", ErrUnavailable, status)
		}
		metrics.ObserveUpstream("register", metrics.OutcomeRejected)
		return TokenPair{}, &RegistrationError{Status: status, Message: refusalMessage(body)}
	}

	var resp struct {
		Tokens TokenPair `json:"tokens"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		metrics.ObserveUpstream("register", metrics.OutcomeUnavailable)
		return TokenPair{}, fmt.Errorf("%w: decode register response: %v", ErrUnavailable, err)
	}

	if !resp.Tokens.complete() {
		metrics.ObserveUpstream("register", metrics.OutcomeUnavailable)
		return TokenPair{}, fmt.Errorf("%w: register response without tokens", ErrUnavailable)
	}

	metrics.ObserveUpstream("register", metrics.OutcomeOK)
	return resp.Tokens, nil
}

// Profile fetches the user owning accessToken.
func (c *Client) Profile(ctx context.Context, accessToken string) (User, error) {
	status, body, err := c.do(ctx, http.MethodGet, ProfilePath, accessToken, nil)
	if err != nil {
		metrics.ObserveUpstream("profile", metrics.OutcomeUnavailable)
		return User{}, err
	}

	if !isSuccess(status) {
		metrics.ObserveUpstream("profile", metrics.OutcomeRejected)
		return User{}, ErrUnauthorized
	}

	var user User
	if err := json.Unmarshal(body, &user); err != nil {
		metrics.ObserveUpstream("profile", metrics.OutcomeUnavailable)
		return User{}, fmt.Errorf("%w: decode profile: %v", ErrUnavailable, err)
	}

	metrics.ObserveUpstream("profile", metrics.OutcomeOK)
	return user, nil
}

// Health reports whether the API answers its health endpoint with a 2xx.
func (c *Client) Health(ctx context.Context) error {
	status, _, err := c.do(ctx, http.MethodGet, HealthPath, "", nil)
	if err != nil {
		return err
	}
	if !isSuccess(status) {
		return fmt.Errorf("%w: health returned status %d", ErrUnavailable, status)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path, bearer string, payload any) (int, []byte, error) {
	var reader io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %s %s: %v", ErrUnavailable, method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return 0, nil, fmt.Errorf("%w: read %s response: %v", ErrUnavailable, path, err)
	}

	return resp.StatusCode, body, nil
}

// refusalMessage extracts "message" from a refusal body. A list is joined
// with ", "; any other shape yields "".
func refusalMessage(body []byte) string {
	var envelope struct {
		Message json.RawMessage `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Message) == 0 {
		return ""
	}

	var message string
	if err := json.Unmarshal(envelope.Message, &message); err == nil {
		return message
	}

	var entries []any
	if err := json.Unmarshal(envelope.Message, &entries); err != nil {
		return ""
	}
	texts := make([]string, 0, len(entries))
	for _, entry := range entries {
		if text, ok := entry.(string); ok && text != "" {
			texts = append(texts, text)
		}
	}
	return strings.Join(texts, ", ")
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}
