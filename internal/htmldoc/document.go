package htmldoc

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/net/html"

	"github.com/yndnr/pagekeep/internal/core/region"
)

// Document is a parsed HTML page.
type Document struct {
	root *html.Node
}

// Parse parses a full HTML document.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("htmldoc: parse: %w", err)
	}
	return &Document{root: root}, nil
}

// ParseString parses a full HTML document held in a string.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// ParseFile reads and parses the HTML file at path.
func ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("htmldoc: read %s: %w", path, err)
	}
	return Parse(bytes.NewReader(data))
}

// Render writes the document as HTML.
func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

// String returns the rendered document.
func (d *Document) String() string {
	var b strings.Builder
	if err := d.Render(&b); err != nil {
		return ""
	}
	return b.String()
}

// WriteFile renders the document to path.
func (d *Document) WriteFile(path string) error {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return fmt.Errorf("htmldoc: render: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("htmldoc: write %s: %w", path, err)
	}
	return nil
}

// EditableElements returns every contenteditable="true" element in
// document order.
func (d *Document) EditableElements() []*Element {
	var out []*Element
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && strings.EqualFold(strings.TrimSpace(getAttr(n, "contenteditable")), "true") {
			out = append(out, &Element{node: n})
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(d.root)
	return out
}

// Regions returns the editable elements as region handles, in document
// order.
func (d *Document) Regions() []region.Region {
	elems := d.EditableElements()
	out := make([]region.Region, len(elems))
	for i, e := range elems {
		out[i] = e
	}
	return out
}

// ElementByID returns the first element with the given id.
func (d *Document) ElementByID(id string) (*Element, bool) {
	var found *html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if found != nil {
			return
		}
		if n.Type == html.ElementNode && getAttr(n, "id") == id {
			found = n
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(d.root)
	if found == nil {
		return nil, false
	}
	return &Element{node: found}, true
}
