package extractor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Common errors
var (
	ErrExtraction   = errors.New("content extraction failed")
	ErrFileNotFound = errors.New("file not found")
	ErrNoOCRClient  = errors.New("no OCR client configured")
)

// Format identifies a document format variant. The set is closed; unknown
// extensions map to FormatText, the explicit fallback.
type Format string

const (
	FormatText     Format = "txt"
	FormatMarkdown Format = "md"
	FormatPDF      Format = "pdf"
	FormatDocx     Format = "docx"
	FormatPptx     Format = "pptx"
	FormatImage    Format = "image"
)

// FormatForExtension is the pure mapping from a file extension (with or
// without the leading dot) to its format variant.
func FormatForExtension(ext string) Format {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "md", "markdown":
		return FormatMarkdown
	case "pdf":
		return FormatPDF
	case "docx":
		return FormatDocx
	case "pptx":
		return FormatPptx
	case "png", "jpg", "jpeg", "gif", "bmp", "tiff", "webp":
		return FormatImage
	default:
		return FormatText
	}
}

// Result is the outcome of extracting one document.
type Result struct {
	Text      string
	PageCount int
	Metadata  map[string]string
}

// Extractor converts one document format into plain text.
type Extractor interface {
	Extract(ctx context.Context, path string) (*Result, error)
	Format() Format
}

// Registry holds one extractor per format variant and dispatches by file
// extension.
type Registry struct {
	byFormat map[Format]Extractor
}

// NewRegistry creates a registry covering every format variant. The OCR
// client backs the image variant and scanned-PDF fallback and may be nil;
// image extraction then fails with ErrNoOCRClient and textless PDFs come
// back empty.
func NewRegistry(ocr OCRClient) *Registry {
	extractors := []Extractor{
		&TextExtractor{},
		&MarkdownExtractor{},
		&PDFExtractor{OCR: ocr},
		&DocxExtractor{},
		&PptxExtractor{},
		&ImageExtractor{OCR: ocr},
	}
	byFormat := make(map[Format]Extractor, len(extractors))
	for _, e := range extractors {
		byFormat[e.Format()] = e
	}
	return &Registry{byFormat: byFormat}
}

// ForPath returns the extractor for the file's extension.
func (r *Registry) ForPath(path string) Extractor {
	return r.byFormat[FormatForExtension(filepath.Ext(path))]
}

// IsSupported reports whether the extension maps to a non-fallback variant
// or is a recognized text extension.
func (r *Registry) IsSupported(ext string) bool {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "txt", "text", "log":
		return true
	}
	return FormatForExtension(ext) != FormatText
}

// Extract dispatches to the extractor for the file's format variant.
func (r *Registry) Extract(ctx context.Context, path string) (*Result, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtraction, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrExtraction, path)
	}
	return r.ForPath(path).Extract(ctx, path)
}
