package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// ErrNoToken is returned by a TokenSource when no credential has been stored yet.
// Requests are then sent unauthenticated and the server decides.
var ErrNoToken = errors.New("no auth token stored")

// TokenSource supplies the bearer token for a single outgoing request.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a TokenSource that always returns the same token.
type StaticToken string

// Token implements TokenSource.
func (s StaticToken) Token(context.Context) (string, error) {
	if s == "" {
		return "", ErrNoToken
	}
	return string(s), nil
}

// StatusError is returned when the API answers with a non-success status.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("request failed with status %d: %s", e.StatusCode, e.Message)
}

// Client is the HTTP client for the banking API.
//
// The token is read from the TokenSource and attached to each request on its own,
// so concurrent calls never observe each other's credentials.
type Client struct {
	baseURL    string
	tokens     TokenSource
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new banking API client.
func NewClient(baseURL string, tokens TokenSource, httpClient *http.Client, logger *slog.Logger) *Client {
	if tokens == nil {
		tokens = StaticToken("")
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &Client{
		baseURL:    baseURL,
		tokens:     tokens,
		httpClient: httpClient,
		logger:     logger,
	}
}

// BaseURL returns the API root this client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Get fetches path and decodes the JSON response body into out.
func (c *Client) Get(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// do sends one request. body, when non-nil, is sent as JSON. out, when non-nil,
// receives the decoded JSON response.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	if err := c.authorize(ctx, req); err != nil {
		return err
	}

	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Debug("api request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"request_id", requestID,
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.parseErrorResponse(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// authorize sets the bearer credential on req.
func (c *Client) authorize(ctx context.Context, req *http.Request) error {
	token, err := c.tokens.Token(ctx)
	if errors.Is(err, ErrNoToken) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read auth token: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return nil
}

// parseErrorResponse attempts to parse an error response from the server.
func (c *Client) parseErrorResponse(resp *http.Response) error {
	var errResp struct {
		Detail  interface{} `json:"detail"`
		Error   string      `json:"error"`
		Message string      `json:"message"`
	}

	body, _ := io.ReadAll(resp.Body)
	statusErr := &StatusError{StatusCode: resp.StatusCode}
	if err := json.Unmarshal(body, &errResp); err != nil {
		statusErr.Message = string(bytes.TrimSpace(body))
		return statusErr
	}

	switch {
	case errResp.Detail != nil:
		if s, ok := errResp.Detail.(string); ok {
			statusErr.Message = s
		} else {
			// FastAPI validation errors come back as a list of objects
			data, _ := json.Marshal(errResp.Detail)
			statusErr.Message = string(data)
		}
	case errResp.Error != "":
		statusErr.Message = errResp.Error
	case errResp.Message != "":
		statusErr.Message = errResp.Message
	default:
		statusErr.Message = string(bytes.TrimSpace(body))
	}
	return statusErr
}

// messageResponse is the `{"message": "..."}` envelope most write endpoints return.
type messageResponse struct {
	Message string `json:"message"`
}

// Ping calls the API root and returns its welcome message.
func (c *Client) Ping(ctx context.Context) (string, error) {
	var resp messageResponse
	if err := c.Get(ctx, "/", &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}
