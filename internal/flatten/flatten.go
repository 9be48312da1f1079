// Package flatten walks a chapter's section hierarchy and emits the flat
// paragraph chunks that make up a corpus.
package flatten

import (
	"bookrag/internal/content"
	"bookrag/internal/corpus"
)

// DefaultMinTokens is the minimum paragraph length kept in a corpus. It
// drops captions, running heads and other low-information fragments.
const DefaultMinTokens = 15

// Meta carries book-level metadata attached to every emitted chunk.
type Meta struct {
	Chapter   string
	Title     string
	Author    string
	Publisher string
}

// Records converts every paragraph in the hierarchy into a corpus chunk
// tagged with the nearest enclosing section and subsection headings and the
// supplied metadata. Paragraphs shorter than minTokens are dropped. Document
// order is preserved; the walk is pure, so re-running it on the same inputs
// yields an identical list.
func Records(sections []*content.Node, meta Meta, minTokens int) []corpus.Chunk {
	if minTokens <= 0 {
		minTokens = DefaultMinTokens
	}

	var out []corpus.Chunk
	for _, sec := range sections {
		out = walkNode(sec, meta, "", "", minTokens, out)
	}
	return out
}

// walkNode threads the current section/subsection labels through the
// traversal instead of mutating shared state.
func walkNode(node *content.Node, meta Meta, section, subsection string, minTokens int, out []corpus.Chunk) []corpus.Chunk {
	switch node.Kind {
	case content.KindSection:
		section = node.Heading
		subsection = ""
	case content.KindSubsection:
		subsection = node.Heading
	}

	for _, el := range node.Children {
		switch v := el.(type) {
		case *content.Node:
			out = walkNode(v, meta, section, subsection, minTokens, out)
		case content.Paragraph:
			if CountTokens(v.Text) < minTokens {
				continue
			}
			out = append(out, corpus.Chunk{
				Type:       corpus.TypeParagraph,
				Text:       v.Text,
				Title:      meta.Title,
				Chapter:    meta.Chapter,
				Author:     meta.Author,
				Publisher:  meta.Publisher,
				Section:    section,
				Subsection: subsection,
			})
		}
	}
	return out
}
