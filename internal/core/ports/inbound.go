package ports

import (
	"context"

	"github.com/misakino/cm-bridge/internal/core/domain"
)

// ComicIngestor is the inbound contract for the ingestion decision: given
// a normalized identifier, drive the backend and produce one user-visible
// message.
type ComicIngestor interface {
	Ingest(ctx context.Context, id domain.ExternalID) (string, error)
	Classify(ctx context.Context, id domain.ExternalID) (domain.CatalogState, error)
}

// ComicSearcher is the inbound contract for free-text search: renders
// every candidate into the sink, best-effort thumbnails included.
type ComicSearcher interface {
	Search(ctx context.Context, query string, sink ResultSink) error
}

// ReplyResolver recognizes confirmation replies against previously
// rendered results. Unrelated replies report absence, never an error.
type ReplyResolver interface {
	ResumeID(event domain.ReplyEvent) (domain.ExternalID, bool)
}
