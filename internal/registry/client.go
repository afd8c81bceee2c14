package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const apiKeyHeader = "x-api-key"

// ErrBadStatus marks an answered-but-unsuccessful upstream response, as
// opposed to not reaching the registry at all.
var ErrBadStatus = errors.New("registry responded non-success")

// Client talks to the upstream artifact registry. The registry scopes
// everything by API key; a request-supplied key overrides the configured
// fallback so the dashboard can inspect other key scopes.
type Client struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		HTTP:    http.DefaultClient,
	}
}

func (c *Client) key(override string) string {
	if override != "" {
		return override
	}
	return c.APIKey
}

type listResponse struct {
	Items []Artifact `json:"items"`
}

// ListArtifacts performs a single GET against the registry. One attempt,
// no retry; the caller decides how to surface failure.
func (c *Client) ListArtifacts(ctx context.Context, apiKey string) ([]Artifact, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/api/keys", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set(apiKeyHeader, c.key(apiKey))

	res, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %d", ErrBadStatus, res.StatusCode)
	}
	var body listResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode registry response: %w", err)
	}
	return body.Items, nil
}

type rawListResponse struct {
	Items []json.RawMessage `json:"items"`
}

// FetchFirst returns the first raw item in the caller's key scope,
// untouched, for the dashboard passthrough. ok is false when the scope
// is empty or the upstream did not answer 2xx.
func (c *Client) FetchFirst(ctx context.Context, apiKey string) (json.RawMessage, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/api/keys", nil)
	if err != nil {
		return nil, false, err
	}
	req.Header.Set(apiKeyHeader, c.key(apiKey))

	res, err := c.HTTP.Do(req)
	if err != nil {
		return nil, false, err
	}
	defer res.Body.Close()

	var body rawListResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, false, fmt.Errorf("decode registry response: %w", err)
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 || len(body.Items) == 0 {
		return nil, false, nil
	}
	return body.Items[0], true, nil
}

// Forward relays a dashboard POST to the registry and hands back the
// upstream status and body verbatim.
func (c *Client) Forward(ctx context.Context, apiKey string, payload []byte) (int, json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/keys", bytes.NewReader(payload))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("content-type", "application/json")
	req.Header.Set(apiKeyHeader, c.key(apiKey))

	res, err := c.HTTP.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer res.Body.Close()

	b, err := io.ReadAll(res.Body)
	if err != nil {
		return 0, nil, err
	}
	return res.StatusCode, b, nil
}
