package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	loginPath = "/auth/login"

	// maxResponseSize caps how much of a reply is read.
	maxResponseSize = 1 << 20
)

// HTTPClient implements Client over JSON/HTTP.
type HTTPClient struct {
	baseURL string
	timeout time.Duration
	http    *http.Client
}

// NewHTTPClient returns a client for baseURL. A positive timeout bounds each
// request.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		http:    &http.Client{},
	}
}

func (c *HTTPClient) Login(ctx context.Context, cred Credentials) (*LoginResponse, error) {
	payload, err := json.Marshal(loginRequest{
		UserID:       cred.StudentID,
		Password:     string(cred.Password),
		DeviceOS:     cred.Device.OS,
		DeviceModel:  cred.Device.Model,
		DeviceSerial: cred.Device.Serial,
	})
	if err != nil {
		return nil, fmt.Errorf("encode login request: %w", err)
	}

	var out LoginResponse
	if err := c.post(ctx, loginPath, payload, &out); err != nil {
		return nil, err
	}
	if out.Token == "" {
		return nil, fmt.Errorf("%w: no token", ErrMalformedResponse)
	}
	return &out, nil
}

func (c *HTTPClient) post(ctx context.Context, path string, payload []byte, out any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("%w: read response: %w", ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newStatusError(resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	return nil
}
