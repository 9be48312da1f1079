// Package content defines the units extracted from chapter markup and the
// section hierarchy built from them. Items and nodes are immutable once
// constructed; the hierarchy is discarded after flattening.
package content

// Element is anything that can appear inside a hierarchy node: a leaf Item
// or a nested *Node.
type Element interface {
	element()
}

// Heading is a heading tag with its level (1-6). Levels 1-3 are structural;
// 4-6 are captured but never open a new section.
type Heading struct {
	Level int
	Text  string
}

// Paragraph is a block of body text.
type Paragraph struct {
	Text string
}

// Image is an embedded image reference.
type Image struct {
	Src string
	Alt string
}

// Span is an inline span with its class list, kept because some books mark
// chapter titles with styling classes rather than heading tags.
type Span struct {
	Classes []string
	Text    string
}

func (Heading) element()   {}
func (Paragraph) element() {}
func (Image) element()     {}
func (Span) element()      {}

// NodeKind distinguishes sections from subsections.
type NodeKind string

const (
	KindSection    NodeKind = "section"
	KindSubsection NodeKind = "subsection"
)

// Node is a section or subsection. A subsection never contains another
// subsection; nesting is at most two levels below the chapter root.
// An empty Heading marks an untitled section.
type Node struct {
	Kind     NodeKind
	Heading  string
	Children []Element
}

func (*Node) element() {}

// HasClass reports whether the span carries the given class.
func (s Span) HasClass(class string) bool {
	for _, c := range s.Classes {
		if c == class {
			return true
		}
	}
	return false
}
