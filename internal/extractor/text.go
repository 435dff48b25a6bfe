package extractor

import (
	"context"
	"fmt"
	"os"
	"unicode/utf8"
)

// TextExtractor reads plain text files. Content that is not valid UTF-8 is
// reinterpreted as Latin-1 so legacy files still yield usable text.
type TextExtractor struct{}

func (e *TextExtractor) Format() Format { return FormatText }

func (e *TextExtractor) Extract(_ context.Context, path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrExtraction, path, err)
	}
	text := string(data)
	if !utf8.Valid(data) {
		text = decodeLatin1(data)
	}
	return &Result{
		Text:      text,
		PageCount: 1,
		Metadata:  map[string]string{"format": string(FormatText)},
	}, nil
}

// decodeLatin1 maps each byte to the Unicode code point of the same value.
func decodeLatin1(data []byte) string {
	runes := make([]rune, len(data))
	for i, b := range data {
		runes[i] = rune(b)
	}
	return string(runes)
}
