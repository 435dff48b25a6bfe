package extractor

import (
	"archive/zip"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatForExtension(t *testing.T) {
	tests := []struct {
		ext  string
		want Format
	}{
		{".md", FormatMarkdown},
		{"markdown", FormatMarkdown},
		{".PDF", FormatPDF},
		{".docx", FormatDocx},
		{".pptx", FormatPptx},
		{".png", FormatImage},
		{".JPEG", FormatImage},
		{".txt", FormatText},
		{".xyz", FormatText},
		{"", FormatText},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatForExtension(tt.ext), "ext %q", tt.ext)
	}
}

func TestTextExtractor(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "note.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello world\nsecond line"), 0o644))

	result, err := (&TextExtractor{}).Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "hello world\nsecond line", result.Text)
	assert.Equal(t, 1, result.PageCount)
}

func TestTextExtractorLatin1Fallback(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "legacy.txt")
	// "café" encoded as Latin-1: 0xE9 is not valid UTF-8.
	require.NoError(t, os.WriteFile(path, []byte{'c', 'a', 'f', 0xE9}, 0o644))

	result, err := (&TextExtractor{}).Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "café", result.Text)
}

func TestMarkdownExtractorStripsSyntax(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.md")
	source := "# Title\n\nSome **bold** and `code` text.\n\n- first\n- second\n\n```\nfenced block\n```\n"
	require.NoError(t, os.WriteFile(path, []byte(source), 0o644))

	result, err := (&MarkdownExtractor{}).Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Contains(t, result.Text, "Title")
	assert.Contains(t, result.Text, "Some bold and code text.")
	assert.Contains(t, result.Text, "first")
	assert.Contains(t, result.Text, "fenced block")
	assert.NotContains(t, result.Text, "#")
	assert.NotContains(t, result.Text, "**")
	assert.NotContains(t, result.Text, "```")
}

func writeZip(t *testing.T, path string, entries map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for name, content := range entries {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
}

func TestDocxExtractor(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.docx")
	documentXML := `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>First paragraph.</w:t></w:r></w:p>
    <w:p><w:r><w:t>Second</w:t></w:r><w:r><w:t xml:space="preserve"> paragraph.</w:t></w:r></w:p>
  </w:body>
</w:document>`
	writeZip(t, path, map[string]string{"word/document.xml": documentXML})

	result, err := (&DocxExtractor{}).Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "First paragraph.\n\nSecond paragraph.", result.Text)
	assert.Equal(t, "2", result.Metadata["paragraphs"])
}

func TestDocxExtractorMissingDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.docx")
	writeZip(t, path, map[string]string{"other.xml": "<x/>"})

	_, err := (&DocxExtractor{}).Extract(context.Background(), path)
	assert.ErrorIs(t, err, ErrExtraction)
}

func TestPptxExtractorSlideOrder(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "deck.pptx")
	slide := func(text string) string {
		return `<?xml version="1.0"?>
<p:sld xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main"
       xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">
  <p:cSld><p:spTree><p:sp><p:txBody>
    <a:p><a:r><a:t>` + text + `</a:t></a:r></a:p>
  </p:txBody></p:sp></p:spTree></p:cSld>
</p:sld>`
	}
	// Entry order in the archive must not matter.
	writeZip(t, path, map[string]string{
		"ppt/slides/slide10.xml": slide("slide ten"),
		"ppt/slides/slide2.xml":  slide("slide two"),
		"ppt/slides/slide1.xml":  slide("slide one"),
	})

	result, err := (&PptxExtractor{}).Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 3, result.PageCount)
	assert.Equal(t, "slide one\n\nslide two\n\nslide ten", result.Text)
}

type fakeOCR struct {
	text string
	err  error
}

func (f *fakeOCR) RecognizeText(_ context.Context, _ string) (string, error) {
	return f.text, f.err
}

func TestImageExtractor(t *testing.T) {
	t.Run("no client configured", func(t *testing.T) {
		_, err := (&ImageExtractor{}).Extract(context.Background(), "scan.png")
		assert.ErrorIs(t, err, ErrNoOCRClient)
	})

	t.Run("client text is trimmed", func(t *testing.T) {
		e := &ImageExtractor{OCR: &fakeOCR{text: "  recognized text \n"}}
		result, err := e.Extract(context.Background(), "scan.png")
		require.NoError(t, err)
		assert.Equal(t, "recognized text", result.Text)
	})

	t.Run("client error wrapped", func(t *testing.T) {
		e := &ImageExtractor{OCR: &fakeOCR{err: errors.New("service down")}}
		_, err := e.Extract(context.Background(), "scan.png")
		assert.ErrorIs(t, err, ErrExtraction)
	})
}

func TestPDFExtractorOCRFallback(t *testing.T) {
	empty := func() *Result {
		return &Result{PageCount: 2, Metadata: map[string]string{"format": string(FormatPDF)}}
	}

	t.Run("textless pdf routed to ocr", func(t *testing.T) {
		e := &PDFExtractor{OCR: &fakeOCR{text: " scanned body \n"}}
		result, err := e.recognizeIfEmpty(context.Background(), "scan.pdf", empty())
		require.NoError(t, err)
		assert.Equal(t, "scanned body", result.Text)
		assert.Equal(t, "true", result.Metadata["ocr"])
		assert.Equal(t, 2, result.PageCount)
	})

	t.Run("no client leaves empty result", func(t *testing.T) {
		e := &PDFExtractor{}
		result, err := e.recognizeIfEmpty(context.Background(), "scan.pdf", empty())
		require.NoError(t, err)
		assert.Empty(t, result.Text)
		assert.NotContains(t, result.Metadata, "ocr")
	})

	t.Run("text layer wins over ocr", func(t *testing.T) {
		withText := empty()
		withText.Text = "text layer content"
		e := &PDFExtractor{OCR: &fakeOCR{text: "never used"}}
		result, err := e.recognizeIfEmpty(context.Background(), "doc.pdf", withText)
		require.NoError(t, err)
		assert.Equal(t, "text layer content", result.Text)
		assert.NotContains(t, result.Metadata, "ocr")
	})

	t.Run("ocr error wrapped", func(t *testing.T) {
		e := &PDFExtractor{OCR: &fakeOCR{err: errors.New("service down")}}
		_, err := e.recognizeIfEmpty(context.Background(), "scan.pdf", empty())
		assert.ErrorIs(t, err, ErrExtraction)
	})
}

func TestRegistryDispatch(t *testing.T) {
	reg := NewRegistry(nil)

	dir := t.TempDir()
	path := filepath.Join(dir, "plain.unknownext")
	require.NoError(t, os.WriteFile(path, []byte("fallback content"), 0o644))

	result, err := reg.Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "fallback content", result.Text)

	_, err = reg.Extract(context.Background(), filepath.Join(dir, "missing.txt"))
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestRegistryIsSupported(t *testing.T) {
	reg := NewRegistry(nil)
	assert.True(t, reg.IsSupported(".md"))
	assert.True(t, reg.IsSupported(".txt"))
	assert.True(t, reg.IsSupported(".pptx"))
	assert.False(t, reg.IsSupported(".exe"))
}
