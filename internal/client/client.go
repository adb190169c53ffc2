package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/openfield/pickup/internal/model"
	"github.com/openfield/pickup/internal/services/membership"
)

// Ensure Client can serve as the reconciler's match store
var _ membership.MatchStore = (*Client)(nil)

// Error is an error response from the API, carrying the HTTP status so
// callers can distinguish conflicts, auth failures and missing
// resources.
type Error struct {
	Status  int
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s (%s)", e.Message, e.Code)
	}
	return fmt.Sprintf("HTTP %d: %s", e.Status, e.Message)
}

// StatusCode returns the HTTP status of the error response
func (e *Error) StatusCode() int {
	return e.Status
}

type errorResponse struct {
	Error Error `json:"error"`
}

// Tokens is the access/refresh pair the client authenticates with
type Tokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthResult is the response from authentication endpoints
type AuthResult struct {
	User         User   `json:"user"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// User is an account as the API reports it
type User struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
	Source      string `json:"source"`
}

// Identity converts the API user into an acting identity
func (u User) Identity() model.Identity {
	return model.Identity{
		ID:          u.ID,
		DisplayName: u.DisplayName,
		Username:    u.Username,
		Source:      model.IdentitySource(u.Source),
	}
}

// Client talks to the pickup API. A request that fails with 401 is
// retried once after a token refresh; if the refresh fails too, the
// original 401 surfaces so the caller can re-authenticate.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu     sync.RWMutex
	tokens Tokens

	// onTokens is called whenever the tokens change, so the caller can
	// persist them
	onTokens func(Tokens)
}

// New creates a new API client
func New(baseURL string, tokens Tokens) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		tokens:  tokens,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// OnTokensChanged registers a callback invoked when tokens rotate
func (c *Client) OnTokensChanged(fn func(Tokens)) {
	c.onTokens = fn
}

// SetTokens replaces the client's tokens
func (c *Client) SetTokens(tokens Tokens) {
	c.mu.Lock()
	c.tokens = tokens
	c.mu.Unlock()

	if c.onTokens != nil {
		c.onTokens(tokens)
	}
}

// Tokens returns the client's current tokens
func (c *Client) Tokens() Tokens {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tokens
}

// do performs a request, refreshing tokens once on a 401
func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	err := c.doOnce(ctx, method, path, body, result)
	if err == nil {
		return nil
	}

	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusUnauthorized {
		return err
	}
	if c.Tokens().RefreshToken == "" {
		return err
	}
	if refreshErr := c.refresh(ctx); refreshErr != nil {
		return err
	}

	return c.doOnce(ctx, method, path, body, result)
}

func (c *Client) doOnce(ctx context.Context, method, path string, body, result any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	if token := c.Tokens().AccessToken; token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		apiErr := &Error{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var errResp errorResponse
		if jsonErr := json.Unmarshal(respBody, &errResp); jsonErr == nil && errResp.Error.Code != "" {
			apiErr.Code = errResp.Error.Code
			apiErr.Message = errResp.Error.Message
		}
		return apiErr
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}

	return nil
}

// refresh exchanges the refresh token for a fresh pair
func (c *Client) refresh(ctx context.Context) error {
	var out AuthResult
	err := c.doOnce(ctx, http.MethodPost, "/api/v1/auth/refresh", map[string]string{
		"refresh_token": c.Tokens().RefreshToken,
	}, &out)
	if err != nil {
		return err
	}

	c.SetTokens(Tokens{AccessToken: out.AccessToken, RefreshToken: out.RefreshToken})
	return nil
}

// Refresh forces a token refresh with the held refresh token
func (c *Client) Refresh(ctx context.Context) error {
	return c.refresh(ctx)
}

// Auth endpoints

// Register creates a registered account and adopts its tokens
func (c *Client) Register(ctx context.Context, username, password, displayName string) (*AuthResult, error) {
	var out AuthResult
	err := c.doOnce(ctx, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"username":     username,
		"password":     password,
		"display_name": displayName,
	}, &out)
	if err != nil {
		return nil, err
	}

	c.SetTokens(Tokens{AccessToken: out.AccessToken, RefreshToken: out.RefreshToken})
	return &out, nil
}

// Login authenticates and adopts the returned tokens
func (c *Client) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	var out AuthResult
	err := c.doOnce(ctx, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"username": username,
		"password": password,
	}, &out)
	if err != nil {
		return nil, err
	}

	c.SetTokens(Tokens{AccessToken: out.AccessToken, RefreshToken: out.RefreshToken})
	return &out, nil
}

// GuestLogin creates a guest account and adopts its tokens
func (c *Client) GuestLogin(ctx context.Context, displayName string) (*AuthResult, error) {
	var out AuthResult
	err := c.doOnce(ctx, http.MethodPost, "/api/v1/auth/guest", map[string]string{
		"display_name": displayName,
	}, &out)
	if err != nil {
		return nil, err
	}

	c.SetTokens(Tokens{AccessToken: out.AccessToken, RefreshToken: out.RefreshToken})
	return &out, nil
}

// Me returns the account behind the current access token
func (c *Client) Me(ctx context.Context) (*User, error) {
	var out User
	if err := c.do(ctx, http.MethodGet, "/api/v1/auth/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Health checks the API health endpoint
func (c *Client) Health(ctx context.Context) error {
	return c.doOnce(ctx, http.MethodGet, "/api/v1/health", nil, nil)
}

// Match endpoints, returning raw documents for the normalizer

type matchList struct {
	Matches []json.RawMessage `json:"matches"`
}

// ListMatches fetches all matches as raw documents
func (c *Client) ListMatches(ctx context.Context) ([]json.RawMessage, error) {
	var out matchList
	if err := c.do(ctx, http.MethodGet, "/api/v1/matches", nil, &out); err != nil {
		return nil, err
	}
	return out.Matches, nil
}

// GetMatch fetches one match as a raw document
func (c *Client) GetMatch(ctx context.Context, id string) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/api/v1/matches/"+id, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateMatch saves a match and returns the stored document
func (c *Client) CreateMatch(ctx context.Context, match *model.Match) (json.RawMessage, error) {
	body := map[string]any{
		"title":       match.Title,
		"date":        match.Date,
		"time":        match.Time,
		"location":    match.Location,
		"locationUrl": match.LocationURL,
		"maxPlayers":  match.MaxPlayers,
		"notes":       match.Notes,
	}

	var out json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/api/v1/matches", body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateMatch applies a partial update; only the fields present in
// body are changed
func (c *Client) UpdateMatch(ctx context.Context, id string, body map[string]any) error {
	return c.do(ctx, http.MethodPatch, "/api/v1/matches/"+id, body, nil)
}

// DeleteMatch removes a match
func (c *Client) DeleteMatch(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/matches/"+id, nil, nil)
}

// JoinMatch adds the authenticated user to a match roster
func (c *Client) JoinMatch(ctx context.Context, id string, player model.Player) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/api/v1/matches/"+id+"/join", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// LeaveMatch removes the authenticated user from a match roster
func (c *Client) LeaveMatch(ctx context.Context, id string, player model.Player) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/api/v1/matches/"+id+"/leave", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// KickPlayer removes another player from a match roster
func (c *Client) KickPlayer(ctx context.Context, matchID, playerID string) (json.RawMessage, error) {
	path := fmt.Sprintf("/api/v1/matches/%s/players/%s/kick", matchID, playerID)
	var out json.RawMessage
	if err := c.do(ctx, http.MethodPost, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Admin endpoints

type userList struct {
	Users []User `json:"users"`
}

// ListUsers fetches all accounts (admin only)
func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	var out userList
	if err := c.do(ctx, http.MethodGet, "/api/v1/users", nil, &out); err != nil {
		return nil, err
	}
	return out.Users, nil
}

// DeleteUser removes an account (admin only)
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/users/"+id, nil, nil)
}

// SetUserRole changes an account's role (admin only)
func (c *Client) SetUserRole(ctx context.Context, id, role string) (*User, error) {
	var out User
	err := c.do(ctx, http.MethodPatch, "/api/v1/users/"+id+"/role", map[string]string{
		"role": role,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
