package extractor

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gmtext "github.com/yuin/goldmark/text"
)

// MarkdownExtractor parses markdown and returns the rendered plain text,
// dropping formatting syntax but keeping block structure as blank lines.
type MarkdownExtractor struct{}

func (e *MarkdownExtractor) Format() Format { return FormatMarkdown }

func (e *MarkdownExtractor) Extract(_ context.Context, path string) (*Result, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrExtraction, path, err)
	}

	md := goldmark.New()
	doc := md.Parser().Parse(gmtext.NewReader(source))

	var b strings.Builder
	err = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		switch node := n.(type) {
		case *ast.Text:
			if entering {
				b.Write(node.Segment.Value(source))
				if node.HardLineBreak() || node.SoftLineBreak() {
					b.WriteByte('\n')
				}
			}
		case *ast.Heading, *ast.Paragraph, *ast.Blockquote:
			if !entering {
				b.WriteString("\n\n")
			}
		case *ast.ListItem:
			if !entering {
				b.WriteByte('\n')
			}
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			if entering {
				lines := n.Lines()
				for i := 0; i < lines.Len(); i++ {
					seg := lines.At(i)
					b.Write(seg.Value(source))
				}
				b.WriteByte('\n')
			}
		case *ast.CodeSpan:
			if entering {
				for c := node.FirstChild(); c != nil; c = c.NextSibling() {
					if t, ok := c.(*ast.Text); ok {
						b.Write(t.Segment.Value(source))
					}
				}
				return ast.WalkSkipChildren, nil
			}
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: walking markdown AST: %v", ErrExtraction, err)
	}

	return &Result{
		Text:      strings.TrimSpace(b.String()),
		PageCount: 1,
		Metadata:  map[string]string{"format": string(FormatMarkdown)},
	}, nil
}
