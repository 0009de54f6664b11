package extractor

import (
	"context"
	"strings"
	"testing"
)

func TestExtractRejectsUnsupportedExtension(t *testing.T) {
	e := New()
	_, err := e.Extract(context.Background(), "notes.txt")
	if err == nil {
		t.Fatal("expected an error for an unsupported extension")
	}
	if !strings.Contains(err.Error(), "unsupported document format") {
		t.Errorf("expected an unsupported-format error, got %v", err)
	}
}

func TestExtractPropagatesReaderErrorForMissingFile(t *testing.T) {
	e := New()
	_, err := e.Extract(context.Background(), "/nonexistent/path/report.pdf")
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
