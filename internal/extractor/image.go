package extractor

import (
	"context"
	"fmt"
	"strings"
)

// OCRClient recognizes text in an image file. Implementations typically
// wrap a remote vision service.
type OCRClient interface {
	RecognizeText(ctx context.Context, path string) (string, error)
}

// ImageExtractor delegates to an OCR client. Without one, image extraction
// fails with ErrNoOCRClient rather than silently returning empty text.
type ImageExtractor struct {
	OCR OCRClient
}

func (e *ImageExtractor) Format() Format { return FormatImage }

func (e *ImageExtractor) Extract(ctx context.Context, path string) (*Result, error) {
	if e.OCR == nil {
		return nil, fmt.Errorf("%w: cannot extract %s", ErrNoOCRClient, path)
	}
	text, err := e.OCR.RecognizeText(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("%w: OCR on %s: %v", ErrExtraction, path, err)
	}
	return &Result{
		Text:      strings.TrimSpace(text),
		PageCount: 1,
		Metadata:  map[string]string{"format": string(FormatImage), "ocr": "true"},
	}, nil
}
