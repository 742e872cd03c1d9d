// Package rest implements the backend interfaces over HTTP.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/Steerify/Suretruqs-sub000/internal/backend"
)

const defaultTimeout = 15 * time.Second

// TokenFunc returns the current auth token; empty means anonymous.
type TokenFunc func() string

// Client is the shared HTTP core for all resource APIs.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      TokenFunc
}

// NewClient creates the HTTP core for the given backend base URL.
func NewClient(baseURL string, token TokenFunc) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
		token:      token,
	}
}

// errorBody is the backend's error envelope.
type errorBody struct {
	Error string `json:"error"`
}

// do executes one request. A 401 maps to backend.ErrUnauthorized, a 404
// to backend.ErrNotFound; other non-2xx responses carry the server's
// error message. out may be nil for empty responses.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	// Correlates client requests with backend logs.
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return backend.ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		return backend.ErrNotFound
	case resp.StatusCode >= 400:
		var eb errorBody
		if err := json.NewDecoder(resp.Body).Decode(&eb); err == nil && eb.Error != "" {
			return fmt.Errorf("backend: %s (%s %s)", eb.Error, method, path)
		}
		return fmt.Errorf("backend: %s %s returned %d", method, path, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
