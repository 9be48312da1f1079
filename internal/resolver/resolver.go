// Package resolver determines a chapter's label ("Chapter 12") and title
// from its section hierarchy, with a text-completion fallback for documents
// whose headings carry neither.
package resolver

import (
	"strings"

	"bookrag/internal/content"
)

// Resolution holds the outcome of chapter/title identification. Empty
// strings mean the value was not found.
type Resolution struct {
	Chapter string `json:"chapter"`
	Title   string `json:"title"`
}

// titleSpanClass marks spans some books use for chapter titles instead of
// heading tags.
const titleSpanClass = "heading_break1"

// Identify walks section headings in order looking for a chapter-number
// pattern and a title. The chapter keyword tolerates interleaved whitespace
// ("C H A P T E R") and the number may be spelled out ("Twenty-One"). When
// a heading is nothing but the chapter token, the title is taken from a
// later section. Either value may come back empty.
func Identify(sections []*content.Node) Resolution {
	m := matcher()
	var res Resolution

	for _, sec := range sections {
		heading := strings.Join(strings.Fields(sec.Heading), " ")
		if heading == "" {
			continue
		}

		if loc := m.chapterRe.FindStringSubmatchIndex(heading); loc != nil {
			if res.Chapter == "" {
				num := m.normalizeNumber(heading[loc[2]:loc[3]])
				res.Chapter = "Chapter " + num
			}
			// The entire heading is just the chapter token: look to the
			// next section for a title.
			whole := strings.TrimSpace(heading[loc[0]:loc[1]])
			if strings.EqualFold(heading, whole) {
				continue
			}
		}

		if res.Title == "" {
			res.Title = strings.TrimSpace(m.prefixRe.ReplaceAllString(heading, ""))
		}
		if res.Chapter != "" && res.Title != "" {
			break
		}
	}

	if res.Title == "" {
		res.Title = titleFromSpans(sections)
	}
	return res
}

// titleFromSpans scans section content for a span styled as a chapter title.
func titleFromSpans(sections []*content.Node) string {
	var scan func(children []content.Element) string
	scan = func(children []content.Element) string {
		for _, el := range children {
			switch v := el.(type) {
			case content.Span:
				if v.HasClass(titleSpanClass) {
					if t := strings.TrimSpace(v.Text); t != "" {
						return t
					}
				}
			case *content.Node:
				if t := scan(v.Children); t != "" {
					return t
				}
			}
		}
		return ""
	}
	for _, sec := range sections {
		if t := scan(sec.Children); t != "" {
			return t
		}
	}
	return ""
}

// Complete reports whether both chapter and title were found.
func (r Resolution) Complete() bool {
	return r.Chapter != "" && r.Title != ""
}
