package extractor

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFExtractor pulls plain text from PDF files one page at a time. Pages
// whose text cannot be decoded are skipped rather than failing the whole
// document. Scanned PDFs carry no text layer; when an OCR client is
// configured the whole file is handed to it instead of returning nothing.
type PDFExtractor struct {
	OCR OCRClient
}

func (e *PDFExtractor) Format() Format { return FormatPDF }

func (e *PDFExtractor) Extract(ctx context.Context, path string) (*Result, error) {
	result, err := e.textLayer(ctx, path)
	if err != nil {
		return nil, err
	}
	return e.recognizeIfEmpty(ctx, path, result)
}

func (e *PDFExtractor) textLayer(ctx context.Context, path string) (*Result, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %v", ErrExtraction, path, err)
	}
	defer f.Close()

	total := r.NumPage()
	var b strings.Builder
	skipped := 0
	for i := 1; i <= total; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page := r.Page(i)
		if page.V.IsNull() {
			skipped++
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			skipped++
			continue
		}
		b.WriteString(text)
		b.WriteByte('\n')
	}

	meta := map[string]string{"format": string(FormatPDF)}
	if skipped > 0 {
		meta["skipped_pages"] = strconv.Itoa(skipped)
	}
	return &Result{
		Text:      strings.TrimSpace(b.String()),
		PageCount: total,
		Metadata:  meta,
	}, nil
}

// recognizeIfEmpty runs OCR over the file when the text layer came back
// empty and a client is available. Without one the empty result stands.
func (e *PDFExtractor) recognizeIfEmpty(ctx context.Context, path string, result *Result) (*Result, error) {
	if result.Text != "" || e.OCR == nil {
		return result, nil
	}
	text, err := e.OCR.RecognizeText(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("%w: ocr on %s: %v", ErrExtraction, path, err)
	}
	result.Text = strings.TrimSpace(text)
	result.Metadata["ocr"] = "true"
	return result, nil
}
