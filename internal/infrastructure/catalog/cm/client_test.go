package cm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/misakino/cm-bridge/internal/core/domain"
)

func TestProbeExistingParsesDocumentID(t *testing.T) {
	var gotCookie string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/documents/hitomi/get/1838383" {
			http.NotFound(w, r)
			return
		}
		if cookie, err := r.Cookie("auth_token"); err == nil {
			gotCookie = cookie.Value
		}
		_, _ = w.Write([]byte(`{"document_info":{"document_id":42}}`))
	}))
	defer server.Close()

	client := New(server.URL, "secret", nil)
	info, found, err := client.ProbeExisting(context.Background(), 1838383)
	if err != nil {
		t.Fatalf("ProbeExisting() error = %v", err)
	}
	if !found {
		t.Fatalf("expected found")
	}
	if info.DocumentID != 42 {
		t.Fatalf("expected document id 42, got %d", info.DocumentID)
	}
	if gotCookie != "secret" {
		t.Fatalf("expected auth_token cookie, got %q", gotCookie)
	}
}

func TestProbeExistingNotFoundIsAbsence(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	client := New(server.URL, "secret", nil)
	_, found, err := client.ProbeExisting(context.Background(), 1)
	if err != nil {
		t.Fatalf("404 must not be an error, got %v", err)
	}
	if found {
		t.Fatalf("404 must report absence")
	}
}

func TestProbeExistingOtherStatusIsBackendError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := New(server.URL, "secret", nil)
	_, _, err := client.ProbeExisting(context.Background(), 1)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrBackend) {
		t.Fatalf("expected backend kind, got %v", err)
	}
}

func TestSearchLiftsDetailField(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"detail":"search index offline"}`))
	}))
	defer server.Close()

	client := New(server.URL, "secret", nil)
	_, err := client.Search(context.Background(), "alice")
	if err == nil {
		t.Fatalf("expected error")
	}
	var backendErr *domain.BackendError
	if !errors.As(err, &backendErr) {
		t.Fatalf("expected BackendError, got %T", err)
	}
	if backendErr.Detail != "search index offline" {
		t.Fatalf("expected lifted detail, got %q", backendErr.Detail)
	}
}

func TestSearchEscapesQueryAndDecodesResults(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("search_str")
		_, _ = w.Write([]byte(`[{"id":11,"title":"first","galleryurl":"https://x/g/11.html","tags":[{"name":"a"}]}]`))
	}))
	defer server.Close()

	client := New(server.URL, "secret", nil)
	results, err := client.Search(context.Background(), "alice in chains")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if gotQuery != "alice in chains" {
		t.Fatalf("expected decoded query roundtrip, got %q", gotQuery)
	}
	if len(results) != 1 || results[0].ID != 11 || results[0].Tags[0].Name != "a" {
		t.Fatalf("unexpected results %+v", results)
	}
}

func TestSubmitSendsExpectedBody(t *testing.T) {
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/documents/hitomi/add" {
			http.NotFound(w, r)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := New(server.URL, "secret", nil)
	if err := client.Submit(context.Background(), 555); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if gotBody["source_document_id"] != "555" {
		t.Fatalf("expected stringified id, got %v", gotBody["source_document_id"])
	}
	if _, ok := gotBody["inexistent_tags"].(map[string]any); !ok {
		t.Fatalf("expected empty inexistent_tags object, got %v", gotBody["inexistent_tags"])
	}
}

func TestTransportFailureIsTaggedDistinctly(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := New(server.URL, "secret", nil)
	err := client.Ping(context.Background())
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrTransport) {
		t.Fatalf("expected transport kind, got %v", err)
	}
	if domain.IsKind(err, domain.ErrBackend) {
		t.Fatalf("transport failure must not look like a backend rejection")
	}
}

func TestDownloadURLsDecodesMapping(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("hitomi_id") != "11" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"page1":"https://x/1.webp","page2":"https://x/2.webp"}`))
	}))
	defer server.Close()

	client := New(server.URL, "secret", nil)
	urls, err := client.DownloadURLs(context.Background(), 11)
	if err != nil {
		t.Fatalf("DownloadURLs() error = %v", err)
	}
	if len(urls) != 2 || urls["page1"] != "https://x/1.webp" {
		t.Fatalf("unexpected mapping %v", urls)
	}
}
