package parser

import (
	"io"

	"bookrag/internal/content"
	"bookrag/internal/extractor"
)

// HTMLParser handles standalone HTML files by delegating to the chapter
// extractor.
type HTMLParser struct{}

func (p *HTMLParser) Parse(r io.Reader, filename string) (*Document, error) {
	items, err := extractor.ExtractItems(r)
	if err != nil {
		return nil, err
	}
	return &Document{
		Title: htmlTitle(items, filename),
		Items: items,
	}, nil
}

// htmlTitle uses the first level-1 heading as the document title, falling
// back to the filename.
func htmlTitle(items []content.Element, filename string) string {
	for _, el := range items {
		if h, ok := el.(content.Heading); ok && h.Level == 1 && h.Text != "" {
			return h.Text
		}
	}
	return stripExt(filename)
}
