package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/misakino/cm-bridge/internal/core/domain"
)

type thumbsFake struct {
	errFor map[domain.ExternalID]error
}

func (f *thumbsFake) Fetch(_ context.Context, id domain.ExternalID, _ string) ([]byte, error) {
	if err := f.errFor[id]; err != nil {
		return nil, err
	}
	return []byte{0xff, 0xd8}, nil
}

type sinkRecorder struct {
	results    []domain.RenderedResult
	texts      []string
	resultErrs map[int]error
	textErr    error
}

func (s *sinkRecorder) SendResult(_ context.Context, result domain.RenderedResult) error {
	idx := len(s.results)
	s.results = append(s.results, result)
	return s.resultErrs[idx]
}

func (s *sinkRecorder) SendText(_ context.Context, text string) error {
	s.texts = append(s.texts, text)
	return s.textErr
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func twoCandidates() []domain.CandidateResult {
	return []domain.CandidateResult{
		{ID: 11, Title: "first", GalleryURL: "https://img.example/g/11.html",
			Tags: []domain.TagRef{{Name: "one"}, {}}},
		{ID: 22, Title: "second", GalleryURL: "https://img.example/g/22.html",
			Characters: []domain.TagRef{{Name: "alice"}}},
	}
}

func TestSearchThumbnailFailureDegradesOneResultOnly(t *testing.T) {
	catalog := &catalogFake{searchResults: twoCandidates()}
	thumbs := &thumbsFake{errFor: map[domain.ExternalID]error{11: errors.New("fetch refused")}}
	sink := &sinkRecorder{}
	uc := NewSearchUseCase(catalog, thumbs, discardLogger(), nil)

	if err := uc.Search(context.Background(), "query", sink); err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	if len(sink.results) != 2 {
		t.Fatalf("expected 2 results sent, got %d", len(sink.results))
	}
	first, second := sink.results[0], sink.results[1]
	if first.Image != nil {
		t.Fatalf("first result must be text-only after thumbnail failure")
	}
	if !strings.Contains(first.Text, "[thumbnail unavailable]") {
		t.Fatalf("expected failure annotation, got %q", first.Text)
	}
	if second.Image == nil {
		t.Fatalf("second result must carry an image")
	}
	if len(sink.texts) != 1 || !strings.Contains(sink.texts[0], "2 result(s)") {
		t.Fatalf("expected terminating summary, got %v", sink.texts)
	}
}

func TestSearchRichSendFailureFallsBackToText(t *testing.T) {
	catalog := &catalogFake{searchResults: twoCandidates()}
	sink := &sinkRecorder{resultErrs: map[int]error{0: errors.New("send refused")}}
	uc := NewSearchUseCase(catalog, &thumbsFake{}, discardLogger(), nil)

	if err := uc.Search(context.Background(), "query", sink); err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	// fallback text for the first result, then the summary
	if len(sink.texts) != 2 {
		t.Fatalf("expected fallback plus summary, got %v", sink.texts)
	}
	if !strings.Contains(sink.texts[0], "[image delivery failed]") {
		t.Fatalf("expected fallback annotation, got %q", sink.texts[0])
	}
	if len(sink.results) != 2 {
		t.Fatalf("second result must still be sent, got %d sends", len(sink.results))
	}
}

func TestSearchPropagatesBackendError(t *testing.T) {
	catalog := &catalogFake{searchErr: &domain.BackendError{Op: "search", Status: 500, Detail: "index offline"}}
	sink := &sinkRecorder{}
	uc := NewSearchUseCase(catalog, &thumbsFake{}, discardLogger(), nil)

	err := uc.Search(context.Background(), "query", sink)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrBackend) {
		t.Fatalf("expected backend kind, got %v", err)
	}
	if len(sink.results) != 0 && len(sink.texts) != 0 {
		t.Fatalf("nothing may be sent when the search itself fails")
	}
}

func TestRenderResultTextWireShape(t *testing.T) {
	text := RenderResultText(twoCandidates()[0])
	lines := strings.Split(text, "\n")
	if lines[0] != domain.ResultMarker {
		t.Fatalf("first line must be the marker, got %q", lines[0])
	}
	if lines[1] != "11" {
		t.Fatalf("second line must be the external id, got %q", lines[1])
	}
	if lines[2] != "first" {
		t.Fatalf("third line must be the title, got %q", lines[2])
	}
	if !strings.Contains(text, "one, (unnamed)") {
		t.Fatalf("expected placeholder for unnamed entries, got %q", text)
	}
}
