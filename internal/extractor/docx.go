package extractor

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// DocxExtractor reads the WordprocessingML body of a .docx archive. It
// streams word/document.xml and keeps only run text, turning paragraph
// ends into newlines.
type DocxExtractor struct{}

func (e *DocxExtractor) Format() Format { return FormatDocx }

func (e *DocxExtractor) Extract(ctx context.Context, path string) (*Result, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %v", ErrExtraction, path, err)
	}
	defer zr.Close()

	doc, err := openZipEntry(&zr.Reader, "word/document.xml")
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrExtraction, path, err)
	}
	defer doc.Close()

	text, paragraphs, err := wordMLText(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", ErrExtraction, path, err)
	}

	return &Result{
		Text:      text,
		PageCount: 1,
		Metadata: map[string]string{
			"format":     string(FormatDocx),
			"paragraphs": fmt.Sprintf("%d", paragraphs),
		},
	}, nil
}

func openZipEntry(zr *zip.Reader, name string) (io.ReadCloser, error) {
	for _, f := range zr.File {
		if f.Name == name {
			return f.Open()
		}
	}
	return nil, fmt.Errorf("missing archive entry %s", name)
}

// wordMLText streams a WordprocessingML document, collecting the character
// data of <w:t> runs. Paragraph boundaries become blank lines, explicit
// breaks and tabs become a newline and a space.
func wordMLText(ctx context.Context, r io.Reader) (string, int, error) {
	dec := xml.NewDecoder(r)
	var b strings.Builder
	inText := false
	paragraphs := 0
	for {
		if err := ctx.Err(); err != nil {
			return "", 0, err
		}
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", 0, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "br":
				b.WriteByte('\n')
			case "tab":
				b.WriteByte(' ')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				paragraphs++
				b.WriteString("\n\n")
			}
		case xml.CharData:
			if inText {
				b.Write(t)
			}
		}
	}
	return strings.TrimSpace(b.String()), paragraphs, nil
}
