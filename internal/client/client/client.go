package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/client/models"
	"github.com/dmitrijs2005/notekeeper/internal/common"
)

// Client is the API surface the CLI depends on.
type Client interface {
	Register(ctx context.Context, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) error
	Refresh(ctx context.Context) error
	Logout(ctx context.Context) error
	ListNotes(ctx context.Context) ([]*models.Note, error)
	SaveNote(ctx context.Context, note *models.Note) (*models.Note, error)
	DeleteNote(ctx context.Context, id string) error
	Ping(ctx context.Context) error
	LoggedIn() bool
}

type tokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type errorBody struct {
	Message string   `json:"message"`
	Errors  []string `json:"errors"`
}

// HTTPClient is safe for concurrent use.
type HTTPClient struct {
	baseURL string
	http    *http.Client

	mu     sync.Mutex
	tokens tokenPair
}

// NewHTTPClient accepts "host:port" or a full http(s) URL.
func NewHTTPClient(endpoint string, timeout time.Duration) *HTTPClient {
	base := strings.TrimRight(endpoint, "/")
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}
	return &HTTPClient{
		baseURL: base,
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) LoggedIn() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tokens.RefreshToken != ""
}

func (c *HTTPClient) currentTokens() tokenPair {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tokens
}

func (c *HTTPClient) setTokens(p tokenPair) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tokens = p
}

func (c *HTTPClient) Register(ctx context.Context, email, password string) (*models.User, error) {
	var u models.User
	err := c.do(ctx, http.MethodPost, "/auth/register", "", credentials{Email: email, Password: password}, &u)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) error {
	var p tokenPair
	if err := c.do(ctx, http.MethodPost, "/auth/login", "", credentials{Email: email, Password: password}, &p); err != nil {
		return err
	}
	c.setTokens(p)
	return nil
}

// Refresh rotates the stored token pair. A rejected refresh token logs the
// client out.
func (c *HTTPClient) Refresh(ctx context.Context) error {
	cur := c.currentTokens()
	if cur.RefreshToken == "" {
		return ErrNotLoggedIn
	}

	var p tokenPair
	err := c.do(ctx, http.MethodPost, "/auth/refresh", "", refreshRequest{RefreshToken: cur.RefreshToken}, &p)
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			c.setTokens(tokenPair{})
		}
		return err
	}
	c.setTokens(p)
	return nil
}

// Logout revokes the refresh token on the server and forgets the pair
// locally, even when the server call fails.
func (c *HTTPClient) Logout(ctx context.Context) error {
	cur := c.currentTokens()
	if cur.RefreshToken == "" {
		return ErrNotLoggedIn
	}
	c.setTokens(tokenPair{})
	return c.do(ctx, http.MethodPost, "/auth/logout", "", refreshRequest{RefreshToken: cur.RefreshToken}, nil)
}

func (c *HTTPClient) ListNotes(ctx context.Context) ([]*models.Note, error) {
	var notes []*models.Note
	if err := c.authorized(ctx, http.MethodGet, "/notes", nil, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

func (c *HTTPClient) SaveNote(ctx context.Context, note *models.Note) (*models.Note, error) {
	var saved models.Note
	if err := c.authorized(ctx, http.MethodPost, "/notes", note, &saved); err != nil {
		return nil, err
	}
	return &saved, nil
}

func (c *HTTPClient) DeleteNote(ctx context.Context, id string) error {
	return c.authorized(ctx, http.MethodDelete, "/notes/"+url.PathEscape(id), nil, nil)
}

// Ping checks that the server is ready to serve requests.
func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health/ready", "", nil, nil)
}

// authorized sends the request with the access token and retries it once
// after a token refresh when the server answers 401.
func (c *HTTPClient) authorized(ctx context.Context, method, path string, in, out any) error {
	cur := c.currentTokens()
	if cur.AccessToken == "" {
		return ErrNotLoggedIn
	}

	err := c.do(ctx, method, path, cur.AccessToken, in, out)
	if !errors.Is(err, ErrUnauthorized) {
		return err
	}

	if err := c.Refresh(ctx); err != nil {
		return err
	}
	return c.do(ctx, method, path, c.currentTokens().AccessToken, in, out)
}

func (c *HTTPClient) do(ctx context.Context, method, path, access string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if access != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerScheme+" "+access)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("%w: %w", ErrUnavailable, decodeError(resp))
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var b errorBody
	if err := json.NewDecoder(resp.Body).Decode(&b); err == nil {
		switch {
		case len(b.Errors) > 0:
			apiErr.Messages = b.Errors
		case b.Message != "":
			apiErr.Messages = []string{b.Message}
		}
	}
	return apiErr
}
