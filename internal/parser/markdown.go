package parser

import (
	"bytes"
	"io"
	"strings"

	"bookrag/internal/content"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser handles Markdown files using goldmark. Headings map onto
// the same levels the HTML extractor emits; other blocks become paragraphs.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))

	out := &Document{Title: stripExt(filename)}
	sawTitle := false
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if h, ok := n.(*ast.Heading); ok {
			title := string(h.Text(src))
			if !sawTitle && h.Level == 1 && title != "" {
				out.Title = title
				sawTitle = true
			}
			out.Items = append(out.Items, content.Heading{
				Level: h.Level,
				Text:  title,
			})
			continue
		}
		if t := extractText(n, src); t != "" {
			out.Items = append(out.Items, content.Paragraph{Text: t})
		}
	}
	return out, nil
}

// extractText gets the text content of a goldmark AST node, preferring
// inline children and falling back to raw block lines (code blocks).
func extractText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Value(src))
			if t.HardLineBreak() || t.SoftLineBreak() {
				buf.WriteByte('\n')
			}
			continue
		}
		if s := extractText(c, src); s != "" {
			if buf.Len() > 0 {
				buf.WriteByte('\n')
			}
			buf.WriteString(s)
		}
	}
	if buf.Len() == 0 && n.Type() == ast.TypeBlock {
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			buf.Write(seg.Value(src))
		}
	}
	return strings.TrimSpace(buf.String())
}
