// Package extractor adapts local document readers (PDF, DOCX, XLSX) into
// evidence. It is an optional, out-of-band evidence source: nothing in
// the iterative loop invokes it automatically, since documents arrive by
// operator-provided path rather than by query.
package extractor

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"deepresearch/internal/domain"
	"deepresearch/internal/tools"
)

// DocumentExtractor turns a local file into a piece of evidence, fit for
// merging into a run's evidence set via domain.MergeEvidence.
type DocumentExtractor interface {
	Extract(ctx context.Context, path string) (domain.Evidence, error)
}

type fileExtractor struct {
	document *tools.DocumentReadTool
	xlsx     *tools.XLSXReadTool
}

func New() DocumentExtractor {
	return &fileExtractor{
		document: tools.NewDocumentReadTool(),
		xlsx:     tools.NewXLSXReadTool(),
	}
}

func (f *fileExtractor) Extract(ctx context.Context, path string) (domain.Evidence, error) {
	ext := strings.ToLower(filepath.Ext(path))

	var (
		text string
		err  error
	)
	switch ext {
	case ".pdf", ".docx":
		text, err = f.document.Execute(ctx, map[string]interface{}{"path": path})
	case ".xlsx":
		text, err = f.xlsx.Execute(ctx, map[string]interface{}{"path": path})
	default:
		return domain.Evidence{}, fmt.Errorf("unsupported document format: %s", ext)
	}
	if err != nil {
		return domain.Evidence{}, fmt.Errorf("extract %s: %w", path, err)
	}

	excerpt := domain.CapExcerpt(text)
	canonical := "file://" + path
	score := 0.6

	return domain.Evidence{
		ID: domain.Fingerprint("document", canonical, "", 0),
		Source: domain.EvidenceSource{
			URL:       canonical,
			Title:     filepath.Base(path),
			FetchedAt: time.Now().UTC(),
		},
		Excerpt:     excerpt,
		ContentHash: domain.ContentHash(excerpt),
		Score:       &score,
		Tags:        []string{domain.SourceDocument},
		CitKey:      filepath.Base(path),
		ProducedBy:  "document_extractor",
	}, nil
}
