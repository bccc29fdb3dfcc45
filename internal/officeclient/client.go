// Package officeclient fetches the tenant's default office from a remote
// assetdesk-compatible API.
package officeclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-faster/errors"

	"github.com/erazemk/assetdesk/internal/model"
)

// DefaultTimeout bounds a single default office request.
const DefaultTimeout = 10 * time.Second

// DefaultOfficePath is the endpoint serving the default office.
const DefaultOfficePath = "/api/offices/default"

// Client calls the default office endpoint.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// New creates a client for baseURL. An empty token sends no Authorization header.
func New(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// DefaultOffice fetches the default office. A 404 means no office is configured
// and returns nil without an error.
func (c *Client) DefaultOffice(ctx context.Context) (*model.Office, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+DefaultOfficePath, nil)
	if err != nil {
		return nil, errors.Wrap(err, "creating office request")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "requesting default office")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, errors.Errorf("default office request failed: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var office model.Office
	if err := json.NewDecoder(resp.Body).Decode(&office); err != nil {
		return nil, errors.Wrap(err, "decoding default office")
	}
	office.Location = model.LocationOffice
	return &office, nil
}
