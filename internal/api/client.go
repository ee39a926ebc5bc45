// Package api is the HTTP client for the detection backend's read-only endpoints.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	EndpointStatus         = "/status"
	EndpointTraffic        = "/traffic"
	EndpointBlocked        = "/blocked"
	EndpointIntegrity      = "/integrity"
	EndpointForceIntegrity = "/force_integrity"
)

// maxBodyBytes bounds a single response body.
const maxBodyBytes = 8 << 20

type Config struct {
	BaseURL string
	Timeout time.Duration
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// NewClientWithHTTP uses the given http.Client as is.
func NewClientWithHTTP(baseURL string, hc *http.Client) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: hc,
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) Status(ctx context.Context) (StatusSnapshot, error) {
	var s StatusSnapshot
	err := c.getJSON(ctx, EndpointStatus, &s)
	return s, err
}

func (c *Client) Traffic(ctx context.Context) ([]ConnectionRecord, error) {
	var records []ConnectionRecord
	if err := c.getJSON(ctx, EndpointTraffic, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (c *Client) Blocked(ctx context.Context) ([]string, error) {
	var ips []string
	if err := c.getJSON(ctx, EndpointBlocked, &ips); err != nil {
		return nil, err
	}
	return ips, nil
}

func (c *Client) Integrity(ctx context.Context) ([]IntegrityEvent, error) {
	var events []IntegrityEvent
	if err := c.getJSON(ctx, EndpointIntegrity, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// ForceIntegrity asks the backend for a synchronous integrity scan.
func (c *Client) ForceIntegrity(ctx context.Context) (ForceScanResponse, error) {
	var resp ForceScanResponse
	err := c.getJSON(ctx, EndpointForceIntegrity, &resp)
	return resp, err
}

func (c *Client) getJSON(ctx context.Context, endpoint string, v any) error {
	url := c.baseURL + endpoint

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &FetchError{Endpoint: endpoint, Kind: KindNetwork, Err: fmt.Errorf("building request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &FetchError{Endpoint: endpoint, Kind: KindNetwork, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return &FetchError{Endpoint: endpoint, Kind: KindStatus, StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(v); err != nil {
		return &FetchError{Endpoint: endpoint, Kind: KindParse, Err: err}
	}

	return nil
}
