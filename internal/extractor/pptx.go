package extractor

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var slideEntryRE = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)

// PptxExtractor reads the DrawingML text of every slide in a .pptx archive.
// Slides are processed in numeric order and each slide counts as one page.
type PptxExtractor struct{}

func (e *PptxExtractor) Format() Format { return FormatPptx }

func (e *PptxExtractor) Extract(ctx context.Context, path string) (*Result, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %v", ErrExtraction, path, err)
	}
	defer zr.Close()

	type slideFile struct {
		num  int
		file *zip.File
	}
	var slides []slideFile
	for _, f := range zr.File {
		m := slideEntryRE.FindStringSubmatch(f.Name)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		slides = append(slides, slideFile{num: n, file: f})
	}
	sort.Slice(slides, func(i, j int) bool { return slides[i].num < slides[j].num })

	var b strings.Builder
	for _, s := range slides {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rc, err := s.file.Open()
		if err != nil {
			return nil, fmt.Errorf("%w: %s slide %d: %v", ErrExtraction, path, s.num, err)
		}
		text, err := drawingMLText(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: %s slide %d: %v", ErrExtraction, path, s.num, err)
		}
		if text != "" {
			b.WriteString(text)
			b.WriteString("\n\n")
		}
	}

	return &Result{
		Text:      strings.TrimSpace(b.String()),
		PageCount: len(slides),
		Metadata: map[string]string{
			"format": string(FormatPptx),
			"slides": strconv.Itoa(len(slides)),
		},
	}, nil
}

// drawingMLText collects the character data of <a:t> runs in one slide.
// Paragraph elements become line breaks.
func drawingMLText(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)
	var b strings.Builder
	inText := false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inText = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				b.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				b.Write(t)
			}
		}
	}
	return strings.TrimSpace(b.String()), nil
}
