package searcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestFetchExtractorStripsMarkupAndScripts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><head><script>evil()</script></head><body><p>Hello world.</p></body></html>`))
	}))
	defer server.Close()

	extractor := newFetchExtractor()
	text, err := extractor.fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(text, "evil()") {
		t.Errorf("expected script contents to be stripped, got %q", text)
	}
	if !strings.Contains(text, "Hello world.") {
		t.Errorf("expected body text to be preserved, got %q", text)
	}
}

func TestFetchExtractorNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	extractor := newFetchExtractor()
	if _, err := extractor.fetch(context.Background(), server.URL); err == nil {
		t.Error("expected an error on a non-200 response")
	}
}

func TestExtractTextCollapsesWhitespace(t *testing.T) {
	got := extractText("<div>  one\n\n   two  </div>")
	if got != "one two" {
		t.Errorf("expected collapsed whitespace, got %q", got)
	}
}
