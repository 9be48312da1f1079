package epub

import (
	"net/url"
	"path"
	"strings"

	"golang.org/x/net/html"
)

// NavEntry is one table-of-contents link in document order.
type NavEntry struct {
	Href  string
	Title string
}

// EliminateFragments collapses fragment-suffixed hrefs onto their base path
// and percent-decodes them. The first-seen title for a base path wins.
func EliminateFragments(entries []NavEntry) map[string]string {
	out := make(map[string]string, len(entries))
	for _, e := range entries {
		base, _, _ := strings.Cut(e.Href, "#")
		if decoded, err := url.PathUnescape(base); err == nil {
			base = decoded
		}
		if base == "" {
			continue
		}
		if _, seen := out[base]; !seen {
			out[base] = e.Title
		}
	}
	return out
}

// navEntries reads the navigation document (EPUB 3 nav, falling back to the
// EPUB 2 NCX). Parse failures degrade to no entries.
func (b *Book) navEntries(navPath, ncxPath string) []NavEntry {
	if navPath != "" {
		if entries := b.navDocEntries(navPath); len(entries) > 0 {
			return entries
		}
	}
	if ncxPath != "" {
		return b.ncxEntries(ncxPath)
	}
	return nil
}

// navDocEntries collects the anchors of the toc nav element in an EPUB 3
// navigation document.
func (b *Book) navDocEntries(navPath string) []NavEntry {
	f, err := b.open(navPath)
	if err != nil {
		return nil
	}
	defer f.Close()

	doc, err := html.Parse(f)
	if err != nil {
		return nil
	}

	nav := findTocNav(doc)
	if nav == nil {
		return nil
	}

	dir := path.Dir(navPath)
	var entries []NavEntry
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			href := navAttr(n, "href")
			title := strings.Join(strings.Fields(nodeText(n)), " ")
			if href != "" && title != "" {
				entries = append(entries, NavEntry{Href: resolveHref(dir, href), Title: title})
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(nav)
	return entries
}

type ncxXML struct {
	NavPoints []ncxNavPoint `xml:"navMap>navPoint"`
}

type ncxNavPoint struct {
	Label   string        `xml:"navLabel>text"`
	Content struct {
		Src string `xml:"src,attr"`
	} `xml:"content"`
	Children []ncxNavPoint `xml:"navPoint"`
}

func (b *Book) ncxEntries(ncxPath string) []NavEntry {
	var ncx ncxXML
	if err := b.readXML(ncxPath, &ncx); err != nil {
		return nil
	}
	dir := path.Dir(ncxPath)
	var entries []NavEntry
	var collect func(points []ncxNavPoint)
	collect = func(points []ncxNavPoint) {
		for _, p := range points {
			title := strings.TrimSpace(p.Label)
			if p.Content.Src != "" && title != "" {
				entries = append(entries, NavEntry{Href: resolveHref(dir, p.Content.Src), Title: title})
			}
			collect(p.Children)
		}
	}
	collect(ncx.NavPoints)
	return entries
}

// findTocNav locates nav[epub:type=toc], or the first nav element when no
// toc nav is marked.
func findTocNav(doc *html.Node) *html.Node {
	var first, toc *html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if toc != nil {
			return
		}
		if n.Type == html.ElementNode && n.Data == "nav" {
			if first == nil {
				first = n
			}
			for _, a := range n.Attr {
				if strings.HasSuffix(a.Key, "type") && a.Val == "toc" {
					toc = n
					return
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	if toc != nil {
		return toc
	}
	return first
}

// resolveHref joins a nav href (keeping any fragment) with the nav
// document's directory.
func resolveHref(dir, href string) string {
	base, frag, hasFrag := strings.Cut(href, "#")
	var full string
	switch {
	case base == "":
		return href
	case dir == "." || dir == "":
		full = path.Clean(base)
	default:
		full = path.Clean(path.Join(dir, base))
	}
	if hasFrag {
		return full + "#" + frag
	}
	return full
}

func navAttr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

func nodeText(n *html.Node) string {
	var sb strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return sb.String()
}
