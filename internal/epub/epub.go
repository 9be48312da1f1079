// Package epub reads EPUB containers: book metadata, spine order and the
// navigation table of contents. Chapter markup itself is handed off to the
// extractor untouched.
package epub

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"strings"
)

// Book is an opened EPUB container.
type Book struct {
	Title     string
	Author    string
	Publisher string

	// Spine lists content-document paths in reading order.
	Spine []string

	// Nav maps content-document base paths to chapter titles from the
	// book's navigation metadata.
	Nav map[string]string

	zr *zip.ReadCloser
}

type containerXML struct {
	Rootfiles []struct {
		FullPath string `xml:"full-path,attr"`
	} `xml:"rootfiles>rootfile"`
}

type packageXML struct {
	Metadata struct {
		Title     string `xml:"title"`
		Creator   string `xml:"creator"`
		Publisher string `xml:"publisher"`
	} `xml:"metadata"`
	Manifest struct {
		Items []struct {
			ID         string `xml:"id,attr"`
			Href       string `xml:"href,attr"`
			MediaType  string `xml:"media-type,attr"`
			Properties string `xml:"properties,attr"`
		} `xml:"item"`
	} `xml:"manifest"`
	Spine struct {
		TOC      string `xml:"toc,attr"`
		Itemrefs []struct {
			IDRef string `xml:"idref,attr"`
		} `xml:"itemref"`
	} `xml:"spine"`
}

// Open reads the container structure of the EPUB at path. Missing or
// malformed navigation metadata degrades to a nil Nav map, never an error;
// only a broken container itself is fatal.
func Open(p string) (*Book, error) {
	zr, err := zip.OpenReader(p)
	if err != nil {
		return nil, fmt.Errorf("open epub: %w", err)
	}

	book := &Book{zr: zr}
	if err := book.load(); err != nil {
		zr.Close()
		return nil, err
	}
	return book, nil
}

func (b *Book) load() error {
	var container containerXML
	if err := b.readXML("META-INF/container.xml", &container); err != nil {
		return fmt.Errorf("read container: %w", err)
	}
	if len(container.Rootfiles) == 0 {
		return fmt.Errorf("epub container has no rootfile")
	}
	opfPath := container.Rootfiles[0].FullPath

	var pkg packageXML
	if err := b.readXML(opfPath, &pkg); err != nil {
		return fmt.Errorf("read package document: %w", err)
	}

	b.Title = strings.TrimSpace(pkg.Metadata.Title)
	b.Author = strings.TrimSpace(pkg.Metadata.Creator)
	b.Publisher = strings.TrimSpace(pkg.Metadata.Publisher)

	opfDir := path.Dir(opfPath)
	hrefs := make(map[string]string, len(pkg.Manifest.Items))
	var navPath, ncxPath string
	for _, item := range pkg.Manifest.Items {
		full := resolve(opfDir, item.Href)
		hrefs[item.ID] = full
		if strings.Contains(item.Properties, "nav") {
			navPath = full
		}
		if item.MediaType == "application/x-dtbncx+xml" {
			ncxPath = full
		}
	}
	if id := pkg.Spine.TOC; id != "" && ncxPath == "" {
		ncxPath = hrefs[id]
	}

	for _, ref := range pkg.Spine.Itemrefs {
		if href, ok := hrefs[ref.IDRef]; ok {
			b.Spine = append(b.Spine, href)
		}
	}

	entries := b.navEntries(navPath, ncxPath)
	if len(entries) > 0 {
		b.Nav = EliminateFragments(entries)
	}
	return nil
}

// ReadDocument returns the raw bytes of a content document by its
// container path.
func (b *Book) ReadDocument(p string) ([]byte, error) {
	f, err := b.open(p)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func (b *Book) Close() error {
	return b.zr.Close()
}

func (b *Book) open(p string) (io.ReadCloser, error) {
	for _, f := range b.zr.File {
		if f.Name == p {
			return f.Open()
		}
	}
	return nil, fmt.Errorf("no such entry in epub: %s", p)
}

func (b *Book) readXML(p string, v any) error {
	f, err := b.open(p)
	if err != nil {
		return err
	}
	defer f.Close()
	return xml.NewDecoder(f).Decode(v)
}

// resolve joins an href with the package document's directory.
func resolve(dir, href string) string {
	if dir == "." || dir == "" {
		return path.Clean(href)
	}
	return path.Clean(path.Join(dir, href))
}
