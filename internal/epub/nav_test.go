package epub

import (
	"strings"
	"testing"

	"golang.org/x/net/html"
)

func TestEliminateFragments(t *testing.T) {
	entries := []NavEntry{
		{Href: "OEBPS/ch01.xhtml#part1", Title: "Chapter 1: Loomings"},
		{Href: "OEBPS/ch01.xhtml#part2", Title: "Chapter 1 continued"},
		{Href: "OEBPS/ch02.xhtml", Title: "Chapter 2"},
		{Href: "OEBPS/ch%2003.xhtml", Title: "Chapter 3"},
		{Href: "#frag-only", Title: "Ignored"},
	}

	got := EliminateFragments(entries)
	if len(got) != 3 {
		t.Fatalf("expected 3 base paths, got %d: %v", len(got), got)
	}
	if got["OEBPS/ch01.xhtml"] != "Chapter 1: Loomings" {
		t.Errorf("first-seen title should win, got %q", got["OEBPS/ch01.xhtml"])
	}
	if got["OEBPS/ch02.xhtml"] != "Chapter 2" {
		t.Errorf("ch02: %q", got["OEBPS/ch02.xhtml"])
	}
	if got["OEBPS/ch 03.xhtml"] != "Chapter 3" {
		t.Errorf("percent-encoded path not decoded: %v", got)
	}
}

func TestResolveHref(t *testing.T) {
	tests := []struct {
		dir, href, want string
	}{
		{"OEBPS", "ch01.xhtml", "OEBPS/ch01.xhtml"},
		{"OEBPS", "ch01.xhtml#sec2", "OEBPS/ch01.xhtml#sec2"},
		{"OEBPS", "../other/ch.xhtml", "other/ch.xhtml"},
		{".", "ch01.xhtml", "ch01.xhtml"},
		{"OEBPS", "#frag", "#frag"},
	}
	for _, tt := range tests {
		if got := resolveHref(tt.dir, tt.href); got != tt.want {
			t.Errorf("resolveHref(%q, %q) = %q, want %q", tt.dir, tt.href, got, tt.want)
		}
	}
}

func TestFindTocNav(t *testing.T) {
	doc := `<html><body>
<nav epub:type="landmarks"><a href="x">Landmarks</a></nav>
<nav epub:type="toc"><a href="ch01.xhtml">Chapter 1</a></nav>
</body></html>`
	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		t.Fatal(err)
	}
	nav := findTocNav(root)
	if nav == nil {
		t.Fatal("toc nav not found")
	}
	if !strings.Contains(nodeText(nav), "Chapter 1") {
		t.Errorf("wrong nav selected: %q", nodeText(nav))
	}
}

func TestFindTocNav_FallsBackToFirstNav(t *testing.T) {
	doc := `<html><body><nav><a href="ch01.xhtml">Only nav</a></nav></body></html>`
	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		t.Fatal(err)
	}
	if nav := findTocNav(root); nav == nil {
		t.Fatal("expected fallback to first nav")
	}
}
