package cm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/misakino/cm-bridge/internal/core/domain"
)

// RequestRecorder observes backend call outcomes. A nil recorder
// disables observation.
type RequestRecorder interface {
	ObserveBackendRequest(operation, status string, duration time.Duration)
}

func (c *Client) get(ctx context.Context, operation, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create %s request: %w", operation, err)
	}
	return c.do(operation, req)
}

func (c *Client) post(ctx context.Context, operation, path string, payload any) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s request: %w", operation, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create %s request: %w", operation, err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(operation, req)
}

func (c *Client) do(operation string, req *http.Request) (*http.Response, error) {
	req.AddCookie(&http.Cookie{Name: "auth_token", Value: c.authToken})

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.record(operation, "transport_error", time.Since(start))
		return nil, domain.WrapTransport(operation, err)
	}
	c.record(operation, strconv.Itoa(resp.StatusCode), time.Since(start))
	return resp, nil
}

func (c *Client) record(operation, status string, duration time.Duration) {
	if c.recorder == nil {
		return
	}
	c.recorder.ObserveBackendRequest(operation, status, duration)
}

func decodeBody(resp *http.Response, operation string, out any) error {
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", operation, err)
	}
	return nil
}

// backendError turns a non-2xx response into a tagged backend error,
// lifting the structured detail field when the body carries one.
func backendError(operation string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))

	var payload struct {
		Detail string `json:"detail"`
	}
	detail := ""
	if err := json.Unmarshal(body, &payload); err == nil {
		detail = payload.Detail
	}
	return &domain.BackendError{
		Op:     operation,
		Status: resp.StatusCode,
		Detail: detail,
	}
}
