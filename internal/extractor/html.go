// Package extractor turns one chapter's markup into content items and builds
// the section hierarchy from them.
package extractor

import (
	"fmt"
	"io"
	"strings"

	"bookrag/internal/content"

	"golang.org/x/net/html"
)

// ExtractItems scans a chapter document in document order and classifies
// elements into content items: headings (h1-h6), paragraphs, images and
// spans. A div or li with no block-level children is treated as an implicit
// paragraph, split on blank-line boundaries.
func ExtractItems(r io.Reader) ([]content.Element, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var items []content.Element

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style":
				return
			case "h1", "h2", "h3", "h4", "h5", "h6":
				items = append(items, content.Heading{
					Level: int(n.Data[1] - '0'),
					Text:  textContent(n),
				})
			case "p":
				if t := textContent(n); t != "" {
					items = append(items, content.Paragraph{Text: t})
				}
				// Spans and images nested in the paragraph are still
				// collected as their own items below.
			case "img":
				items = append(items, content.Image{
					Src: attr(n, "src"),
					Alt: attr(n, "alt"),
				})
				return
			case "span":
				items = append(items, content.Span{
					Classes: strings.Fields(attr(n, "class")),
					Text:    textContent(n),
				})
			case "div", "li":
				if !hasBlockChild(n) {
					for _, para := range splitBlankLines(rawText(n)) {
						items = append(items, content.Paragraph{Text: para})
					}
					return
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	if body := findBody(doc); body != nil {
		walk(body)
	} else {
		walk(doc)
	}

	return items, nil
}

var blockTags = map[string]bool{
	"p": true, "div": true, "ul": true, "ol": true, "li": true,
	"table": true, "blockquote": true, "section": true, "article": true,
	"figure": true, "pre": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
}

func hasBlockChild(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && blockTags[c.Data] {
			return true
		}
	}
	return false
}

// textContent returns the whitespace-normalized text of a node and its
// descendants.
func textContent(n *html.Node) string {
	return strings.Join(strings.Fields(rawText(n)), " ")
}

// rawText returns descendant text with original line breaks preserved.
func rawText(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return buf.String()
}

// splitBlankLines breaks text on blank-line boundaries into trimmed,
// whitespace-normalized paragraphs.
func splitBlankLines(text string) []string {
	var paras []string
	var current []string
	flush := func() {
		if len(current) > 0 {
			paras = append(paras, strings.Join(current, " "))
			current = nil
		}
	}
	for _, line := range strings.Split(text, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			flush()
			continue
		}
		current = append(current, strings.Join(fields, " "))
	}
	flush()
	return paras
}

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}

// LinearText extracts the plain text of a chapter document, one line per
// block, for use by the title-resolution fallback.
func LinearText(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}
	var lines []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style":
				return
			case "h1", "h2", "h3", "h4", "h5", "h6", "p", "li":
				if t := textContent(n); t != "" {
					lines = append(lines, t)
				}
				return
			case "div":
				if !hasBlockChild(n) {
					if t := textContent(n); t != "" {
						lines = append(lines, t)
					}
					return
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	if body := findBody(doc); body != nil {
		walk(body)
	} else {
		walk(doc)
	}
	return strings.Join(lines, "\n"), nil
}
