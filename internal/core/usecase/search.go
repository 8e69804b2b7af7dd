package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/misakino/cm-bridge/internal/core/domain"
	"github.com/misakino/cm-bridge/internal/core/ports"
)

const unnamedPlaceholder = "(unnamed)"

// ThumbnailRecorder counts thumbnail fetch outcomes; nil disables it.
type ThumbnailRecorder interface {
	ObserveThumbnail(err error)
}

// SearchUseCase queries the backend and renders every candidate into the
// sink, in backend order, with a best-effort thumbnail per result.
// Results are independent: one result failing never stops the rest or
// the terminating message.
type SearchUseCase struct {
	catalog  ports.CatalogClient
	thumbs   ports.ThumbnailFetcher
	logger   *slog.Logger
	recorder ThumbnailRecorder
}

func NewSearchUseCase(
	catalog ports.CatalogClient,
	thumbs ports.ThumbnailFetcher,
	logger *slog.Logger,
	recorder ThumbnailRecorder,
) *SearchUseCase {
	return &SearchUseCase{
		catalog:  catalog,
		thumbs:   thumbs,
		logger:   logger,
		recorder: recorder,
	}
}

func (uc *SearchUseCase) Search(ctx context.Context, query string, sink ports.ResultSink) error {
	candidates, err := uc.catalog.Search(ctx, query)
	if err != nil {
		return err
	}

	for _, candidate := range candidates {
		uc.sendCandidate(ctx, candidate, sink)
	}

	done := fmt.Sprintf("Search finished, %d result(s).", len(candidates))
	if err := sink.SendText(ctx, done); err != nil {
		uc.logger.Warn("search summary send failed", "error", err)
	}
	return nil
}

func (uc *SearchUseCase) sendCandidate(ctx context.Context, candidate domain.CandidateResult, sink ports.ResultSink) {
	text := RenderResultText(candidate)

	image, err := uc.thumbs.Fetch(ctx, candidate.ID, candidate.GalleryURL)
	if uc.recorder != nil {
		uc.recorder.ObserveThumbnail(err)
	}
	if err != nil {
		uc.logger.Warn("thumbnail fetch failed", "id", int64(candidate.ID), "error", err)
		text += "\n[thumbnail unavailable]"
		image = nil
	}

	result := domain.RenderedResult{Candidate: candidate, Text: text, Image: image}
	if err := sink.SendResult(ctx, result); err != nil {
		uc.logger.Warn("rich send failed, falling back to text", "id", int64(candidate.ID), "error", err)
		if err := sink.SendText(ctx, text+"\n[image delivery failed]"); err != nil {
			uc.logger.Error("fallback send failed, result lost", "id", int64(candidate.ID), "error", err)
		}
	}
}

// RenderResultText serializes a candidate into the marker-prefixed
// newline-field form the confirmation protocol later parses: marker,
// external id, title, then comma-joined classification lists.
func RenderResultText(candidate domain.CandidateResult) string {
	lines := []string{
		domain.ResultMarker,
		strconv.FormatInt(int64(candidate.ID), 10),
		candidate.Title,
		"characters: " + joinNames(candidate.Characters),
		"parody: " + joinNames(candidate.Parodies),
		"tags: " + joinNames(candidate.Tags),
	}
	return strings.Join(lines, "\n")
}

func joinNames(refs []domain.TagRef) string {
	if len(refs) == 0 {
		return "-"
	}
	names := make([]string, 0, len(refs))
	for _, ref := range refs {
		if ref.Name == "" {
			names = append(names, unnamedPlaceholder)
			continue
		}
		names = append(names, ref.Name)
	}
	return strings.Join(names, ", ")
}
