package cm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/misakino/cm-bridge/internal/core/domain"
)

// Client is the authenticated wrapper around the cm backend. It holds no
// state beyond configuration, performs no retries and leaves every
// catalog decision to the backend.
type Client struct {
	baseURL    string
	authToken  string
	httpClient *http.Client
	recorder   RequestRecorder
}

func New(baseURL, authToken string, recorder RequestRecorder) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		authToken:  authToken,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		recorder:   recorder,
	}
}

// BaseURL returns the configured backend root, used for building
// user-facing links.
func (c *Client) BaseURL() string { return c.baseURL }

// Ping probes backend connectivity at startup.
func (c *Client) Ping(ctx context.Context) error {
	resp, err := c.get(ctx, "ping", "/api/site/download_status")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return backendError("ping", resp)
	}
	return nil
}

// ProbeExisting reports whether the comic is already catalogued. A 404
// means absent and is not an error.
func (c *Client) ProbeExisting(ctx context.Context, id domain.ExternalID) (domain.ExistsInfo, bool, error) {
	resp, err := c.get(ctx, "probe_existing", fmt.Sprintf("/api/documents/hitomi/get/%d", id))
	if err != nil {
		return domain.ExistsInfo{}, false, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return domain.ExistsInfo{}, false, nil
	case resp.StatusCode >= 300:
		return domain.ExistsInfo{}, false, backendError("probe_existing", resp)
	}

	var payload struct {
		DocumentInfo struct {
			DocumentID int64 `json:"document_id"`
		} `json:"document_info"`
	}
	if err := decodeBody(resp, "probe_existing", &payload); err != nil {
		return domain.ExistsInfo{}, false, err
	}
	return domain.ExistsInfo{DocumentID: payload.DocumentInfo.DocumentID}, true, nil
}

// MissingTags lists the tags that still need manual entry before the
// comic can be submitted. An empty list means the metadata is complete.
func (c *Client) MissingTags(ctx context.Context, id domain.ExternalID) ([]domain.TagRef, error) {
	path := fmt.Sprintf("/api/tags/hitomi/missing_tags?source_document_id=%d", id)
	resp, err := c.get(ctx, "missing_tags", path)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, backendError("missing_tags", resp)
	}
	var tags []domain.TagRef
	if err := decodeBody(resp, "missing_tags", &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

// Submit asks the backend to create a catalog entry for the comic.
func (c *Client) Submit(ctx context.Context, id domain.ExternalID) error {
	payload := map[string]any{
		"source_document_id": fmt.Sprintf("%d", id),
		"inexistent_tags":    map[string]any{},
	}
	resp, err := c.post(ctx, "submit", "/api/documents/hitomi/add", payload)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return backendError("submit", resp)
	}
	return nil
}

// Search queries the backend for candidate matches. Result order is the
// backend's and is preserved.
func (c *Client) Search(ctx context.Context, query string) ([]domain.CandidateResult, error) {
	path := "/api/documents/hitomi/search?search_str=" + url.QueryEscape(query)
	resp, err := c.get(ctx, "search", path)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, backendError("search", resp)
	}
	var results []domain.CandidateResult
	if err := decodeBody(resp, "search", &results); err != nil {
		return nil, err
	}
	return results, nil
}

// DownloadURLs lists the per-page asset URLs for a comic.
func (c *Client) DownloadURLs(ctx context.Context, id domain.ExternalID) (map[string]string, error) {
	path := fmt.Sprintf("/api/site/hitomi/download_urls?hitomi_id=%d", id)
	resp, err := c.get(ctx, "download_urls", path)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, backendError("download_urls", resp)
	}
	var urls map[string]string
	if err := decodeBody(resp, "download_urls", &urls); err != nil {
		return nil, err
	}
	return urls, nil
}
