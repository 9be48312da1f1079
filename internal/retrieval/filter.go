package retrieval

import "bookrag/internal/corpus"

// Criteria is one constraint set: filter-field name to required value. An
// empty value means the constraint is unset and always satisfied.
type Criteria map[string]string

// DefaultFieldMapping translates UI-facing filter-field names to corpus
// storage field names.
var DefaultFieldMapping = map[string]string{
	"book":    "title",
	"chapter": "chapter",
	"author":  "author",
	"type":    "type",
}

// Filter narrows a corpus to the chunks matching at least one criteria set,
// where a set matches when all of its constraints hold (disjunction of
// conjunctions). Constraints whose field is absent from fieldMapping, or
// whose value is empty, are ignored. An empty criteria list passes the
// corpus through unchanged. Order is preserved and inputs are not mutated.
func Filter(chunks []corpus.Chunk, criteria []Criteria, fieldMapping map[string]string) []corpus.Chunk {
	if len(criteria) == 0 {
		return chunks
	}

	out := make([]corpus.Chunk, 0, len(chunks))
	for _, c := range chunks {
		for _, set := range criteria {
			if matches(c, set, fieldMapping) {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

func matches(c corpus.Chunk, set Criteria, fieldMapping map[string]string) bool {
	for field, want := range set {
		if want == "" {
			continue
		}
		storageField, ok := fieldMapping[field]
		if !ok {
			continue
		}
		if c.Field(storageField) != want {
			return false
		}
	}
	return true
}
