// Package extract turns source files into raw document text. Extractors are
// black boxes from the pipeline's point of view: one source path in, one
// document of plain text out.
package extract

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/ledongthuc/pdf"

	"github.com/mapadoacolhimento/iana/internal/domain"
)

// Extractor produces a document's raw text from a source path.
type Extractor interface {
	Extract(ctx context.Context, path string) (*domain.Document, error)
}

// TextExtractor reads a source file as UTF-8 plain text.
type TextExtractor struct{}

func (e *TextExtractor) Extract(ctx context.Context, path string) (*domain.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return newDocument(path, string(data)), nil
}

// PDFExtractor extracts the plain text of every page of a PDF.
type PDFExtractor struct{}

func (e *PDFExtractor) Extract(ctx context.Context, path string) (*domain.Document, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf %s: %w", path, err)
	}
	defer f.Close()

	body, err := reader.GetPlainText()
	if err != nil {
		return nil, fmt.Errorf("failed to extract pdf text from %s: %w", path, err)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, body); err != nil {
		return nil, fmt.Errorf("failed to read pdf text from %s: %w", path, err)
	}

	return newDocument(path, buf.String()), nil
}

// ForPath selects an extractor by file extension. Unknown extensions are
// treated as plain text.
func ForPath(path string) Extractor {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return &PDFExtractor{}
	}
	return &TextExtractor{}
}

func newDocument(path, text string) *domain.Document {
	return &domain.Document{
		ID:         uuid.NewString(),
		RawText:    text,
		SourcePath: path,
	}
}
