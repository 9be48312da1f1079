// Package corpus defines the embeddable text chunks extracted from books
// and their JSON snapshot persistence. Corpora are immutable once written;
// updates happen by re-running extraction.
package corpus

// ChunkType discriminates paragraph chunks from chapter summaries.
type ChunkType string

const (
	TypeParagraph ChunkType = "paragraph"
	TypeSummary   ChunkType = "summary"
)

// Chunk is one retrievable unit: a paragraph (or chapter summary) with its
// book-level metadata and, once assigned, an embedding vector. Section and
// Subsection are labels of the nearest enclosing headings captured during
// extraction, not a second ownership path.
type Chunk struct {
	Type       ChunkType `json:"type"`
	Text       string    `json:"text"`
	Title      string    `json:"title"`
	Chapter    string    `json:"chapter"`
	Author     string    `json:"author"`
	Publisher  string    `json:"publisher"`
	Section    string    `json:"section,omitempty"`
	Subsection string    `json:"subsection,omitempty"`
	Embedding  []float64 `json:"embedding,omitempty"`
}

// Field returns the value of a chunk field by its storage name, for
// criteria filtering. Unknown names return "".
func (c Chunk) Field(name string) string {
	switch name {
	case "type":
		return string(c.Type)
	case "text":
		return c.Text
	case "title":
		return c.Title
	case "chapter":
		return c.Chapter
	case "author":
		return c.Author
	case "publisher":
		return c.Publisher
	case "section":
		return c.Section
	case "subsection":
		return c.Subsection
	}
	return ""
}
