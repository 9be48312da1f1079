package extractor

import "bookrag/internal/content"

// BuildHierarchy groups a flat item stream into sections and subsections.
//
// A level-1 or level-2 heading opens a new section, closing the previous
// one. A level-3 heading opens a subsection inside the current section.
// All other items are routed to the innermost open container; content seen
// before any heading opens an untitled section. Headings of level 4-6 are
// not structural and are stored as plain items.
func BuildHierarchy(items []content.Element) []*content.Node {
	var out []*content.Node
	var section *content.Node
	var subsection *content.Node

	for _, item := range items {
		if h, ok := item.(content.Heading); ok {
			switch {
			case h.Level <= 2:
				if section != nil {
					out = append(out, section)
				}
				section = &content.Node{Kind: content.KindSection, Heading: h.Text}
				subsection = nil
				continue
			case h.Level == 3 && section != nil:
				subsection = &content.Node{Kind: content.KindSubsection, Heading: h.Text}
				section.Children = append(section.Children, subsection)
				continue
			}
		}

		if section == nil {
			section = &content.Node{Kind: content.KindSection}
		}
		if subsection != nil {
			subsection.Children = append(subsection.Children, item)
		} else {
			section.Children = append(section.Children, item)
		}
	}

	if section != nil {
		out = append(out, section)
	}
	return out
}
