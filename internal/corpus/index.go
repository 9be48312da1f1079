package corpus

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"unicode"
)

// Index lists the books in a corpus and each book's chapters, for scoping
// queries from the UI. Chapters are in natural-sort order so "Chapter 10"
// follows "Chapter 9".
type Index struct {
	Books    []string            `json:"books"`
	Chapters map[string][]string `json:"chapters"`
}

// BuildIndex derives the book/chapter index from a corpus.
func BuildIndex(chunks []Chunk) Index {
	chapterSets := make(map[string]map[string]bool)
	for _, c := range chunks {
		if c.Title == "" {
			continue
		}
		if chapterSets[c.Title] == nil {
			chapterSets[c.Title] = make(map[string]bool)
		}
		if c.Chapter != "" {
			chapterSets[c.Title][c.Chapter] = true
		}
	}

	idx := Index{Chapters: make(map[string][]string, len(chapterSets))}
	for book, set := range chapterSets {
		idx.Books = append(idx.Books, book)
		chapters := make([]string, 0, len(set))
		for ch := range set {
			chapters = append(chapters, ch)
		}
		sort.Slice(chapters, func(i, j int) bool {
			return naturalLess(chapters[i], chapters[j])
		})
		idx.Chapters[book] = chapters
	}
	sort.Strings(idx.Books)
	return idx
}

// SaveIndex writes the index as pretty-printed JSON.
func SaveIndex(path string, idx Index) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create index file: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "    ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(idx); err != nil {
		return fmt.Errorf("encode index: %w", err)
	}
	return nil
}

// naturalLess compares strings with runs of digits compared numerically,
// so "Chapter 2" sorts before "Chapter 10".
func naturalLess(a, b string) bool {
	for a != "" && b != "" {
		aDigit := unicode.IsDigit(rune(a[0]))
		bDigit := unicode.IsDigit(rune(b[0]))
		switch {
		case aDigit && bDigit:
			aNum, aRest := splitDigits(a)
			bNum, bRest := splitDigits(b)
			if aNum != bNum {
				return numLess(aNum, bNum)
			}
			a, b = aRest, bRest
		case aDigit != bDigit:
			return a[0] < b[0]
		default:
			if a[0] != b[0] {
				return a[0] < b[0]
			}
			a, b = a[1:], b[1:]
		}
	}
	return a == "" && b != ""
}

func splitDigits(s string) (digits, rest string) {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return s[:i], s[i:]
}

// numLess compares two digit strings numerically without overflow.
func numLess(a, b string) bool {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}
