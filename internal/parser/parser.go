// Package parser converts standalone (non-EPUB) documents into the same
// content-item stream the EPUB extractor produces, so markdown, pdf, docx
// and plain-text sources flow through one pipeline.
package parser

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"bookrag/internal/content"
)

// Document is a parsed standalone source.
type Document struct {
	Title string
	Items []content.Element
}

// Parser converts raw document bytes into a content-item stream.
type Parser interface {
	Parse(r io.Reader, filename string) (*Document, error)
}

// SupportedExtensions lists file extensions this pipeline can handle.
var SupportedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".html":     true,
	".htm":      true,
	".xhtml":    true,
	".pdf":      true,
	".docx":     true,
}

// ForFile returns the appropriate parser for a filename.
func ForFile(filename string) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return &TextParser{}, nil
	case ".md", ".markdown":
		return &MarkdownParser{}, nil
	case ".html", ".htm", ".xhtml":
		return &HTMLParser{}, nil
	case ".pdf":
		return &PDFParser{}, nil
	case ".docx":
		return &DOCXParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	return SupportedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// stripExt drops the extension for use as a fallback title.
func stripExt(filename string) string {
	return strings.TrimSuffix(filename, filepath.Ext(filename))
}
