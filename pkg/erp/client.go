package erp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to the ERP REST API (Frappe-style /api/resource endpoints).
type Client struct {
	HTTPClient *http.Client
	BaseURL    string
	APIKey     string
	APISecret  string
	PageSize   int
}

// APIError is returned for non-2xx responses so callers can inspect the status.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("erp api error: status=%d body=%s", e.Status, e.Body)
	}
	return fmt.Sprintf("erp api error: status=%d", e.Status)
}

func (c Client) doJSON(ctx context.Context, method, path string, query url.Values, reqBody any, respBody any) error {
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: 20 * time.Second}
	}
	base := strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if base == "" {
		return fmt.Errorf("missing erp base url")
	}

	var body io.Reader
	if reqBody != nil {
		var buf bytes.Buffer
		if err := json.NewEncoder(&buf).Encode(reqBody); err != nil {
			return err
		}
		body = &buf
	}

	u := base + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.APIKey != "" {
		req.Header.Set("Authorization", "token "+c.APIKey+":"+c.APISecret)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	b, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return readErr
	}

	// Surface the ERP error body for non-2xx, so callers can see permission errors, etc.
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{Status: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}

	if respBody != nil && len(b) > 0 {
		dec := json.NewDecoder(bytes.NewReader(b))
		dec.UseNumber()
		if err := dec.Decode(respBody); err != nil {
			// Include body for easier debugging (unexpected shape, partial responses, etc).
			return fmt.Errorf("decode erp response failed: %w body=%s", err, string(b))
		}
	}
	return nil
}
