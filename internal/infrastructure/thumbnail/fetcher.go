package thumbnail

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"golang.org/x/time/rate"

	"github.com/misakino/cm-bridge/internal/core/domain"
)

// maxImageBytes caps a single thumbnail download.
const maxImageBytes = 10 << 20

// PageLister exposes the per-comic asset URL listing; the catalog client
// satisfies it.
type PageLister interface {
	DownloadURLs(ctx context.Context, id domain.ExternalID) (map[string]string, error)
}

// Fetcher downloads the first page image of a comic for use as a search
// result thumbnail. Downloads are rate limited to stay polite towards
// the image host.
type Fetcher struct {
	pages      PageLister
	httpClient *http.Client
	limiter    *rate.Limiter
}

func New(pages PageLister, ratePerSec float64) *Fetcher {
	if ratePerSec <= 0 {
		ratePerSec = 2
	}
	return &Fetcher{
		pages:      pages,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(ratePerSec), 1),
	}
}

// Fetch lists the comic's pages, picks the naturally-first one and
// downloads it with a referer derived from the gallery URL. Any failure
// here degrades one result only; callers must not abort on it.
func (f *Fetcher) Fetch(ctx context.Context, id domain.ExternalID, galleryURL string) ([]byte, error) {
	urls, err := f.pages.DownloadURLs(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(urls) == 0 {
		return nil, fmt.Errorf("no pages listed for %d", id)
	}

	keys := make([]string, 0, len(urls))
	for key := range urls {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return naturalLess(keys[i], keys[j]) })

	return f.download(ctx, urls[keys[0]], galleryURL)
}

func (f *Fetcher) download(ctx context.Context, imageURL, galleryURL string) ([]byte, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create image request: %w", err)
	}
	req.Header.Set("Referer", refererFor(galleryURL))

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("image request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("image status: %s", resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("read image body: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("empty image body")
	}
	return data, nil
}

// refererFor percent-encodes the gallery URL so the header stays valid
// for titles carrying unicode or spaces.
func refererFor(galleryURL string) string {
	parsed, err := url.Parse(galleryURL)
	if err != nil {
		return url.PathEscape(galleryURL)
	}
	return parsed.String()
}
