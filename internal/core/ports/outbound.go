package ports

import (
	"context"

	"github.com/misakino/cm-bridge/internal/core/domain"
)

// CatalogClient is the authenticated wrapper around the cm backend.
// Implementations never retry; transport failures propagate immediately
// and are distinguishable from backend-reported rejections.
type CatalogClient interface {
	Ping(ctx context.Context) error
	ProbeExisting(ctx context.Context, id domain.ExternalID) (domain.ExistsInfo, bool, error)
	MissingTags(ctx context.Context, id domain.ExternalID) ([]domain.TagRef, error)
	Submit(ctx context.Context, id domain.ExternalID) error
	Search(ctx context.Context, query string) ([]domain.CandidateResult, error)
	DownloadURLs(ctx context.Context, id domain.ExternalID) (map[string]string, error)
}

// ThumbnailFetcher retrieves the first page image for a candidate.
type ThumbnailFetcher interface {
	Fetch(ctx context.Context, id domain.ExternalID, galleryURL string) ([]byte, error)
}

// ResultSink receives rendered search results for one conversation.
// SendResult delivers the rich form (text plus attached image);
// SendText delivers plain text and is also the fallback channel.
type ResultSink interface {
	SendResult(ctx context.Context, result domain.RenderedResult) error
	SendText(ctx context.Context, text string) error
}
