package htmldoc

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/yndnr/pagekeep/internal/core/domain"
	"github.com/yndnr/pagekeep/internal/core/region"
)

// Element is a region handle backed by an *html.Node.
type Element struct {
	node *html.Node
}

var _ region.Region = (*Element)(nil)

// TagName returns the element name.
func (e *Element) TagName() string { return e.node.Data }

// ID returns the id attribute.
func (e *Element) ID() string { return getAttr(e.node, "id") }

// Kind returns the kind declared by data-type.
func (e *Element) Kind() domain.Kind { return domain.ParseKind(getAttr(e.node, "data-type")) }

// Classes returns the class list in attribute order.
func (e *Element) Classes() []string { return strings.Fields(getAttr(e.node, "class")) }

// HasClass reports whether the element carries the class.
func (e *Element) HasClass(name string) bool {
	for _, c := range e.Classes() {
		if c == name {
			return true
		}
	}
	return false
}

// AddClass appends the class if missing.
func (e *Element) AddClass(name string) {
	if name == "" || e.HasClass(name) {
		return
	}
	setAttr(e.node, "class", strings.Join(append(e.Classes(), name), " "))
}

// RemoveClass removes every occurrence of the class.
func (e *Element) RemoveClass(name string) {
	classes := e.Classes()
	kept := classes[:0]
	for _, c := range classes {
		if c != name {
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 {
		removeAttr(e.node, "class")
		return
	}
	setAttr(e.node, "class", strings.Join(kept, " "))
}

// HasAncestorClass reports whether any ancestor element carries the class.
func (e *Element) HasAncestorClass(name string) bool {
	for p := e.node.Parent; p != nil; p = p.Parent {
		if p.Type != html.ElementNode {
			continue
		}
		for _, c := range strings.Fields(getAttr(p, "class")) {
			if c == name {
				return true
			}
		}
	}
	return false
}

// InnerHTML renders the element's children.
func (e *Element) InnerHTML() string {
	var b strings.Builder
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&b, c); err != nil {
			return b.String()
		}
	}
	return b.String()
}

// SetInnerHTML replaces the children with markup parsed in the element's
// context. Markup that cannot be parsed is set as text.
func (e *Element) SetInnerHTML(markup string) {
	nodes, err := html.ParseFragment(strings.NewReader(markup), e.node)
	if err != nil {
		e.SetTextContent(markup)
		return
	}
	e.clear()
	for _, n := range nodes {
		e.node.AppendChild(n)
	}
}

// TextContent concatenates all descendant text.
func (e *Element) TextContent() string { return textContent(e.node) }

// SetTextContent replaces the children with a single text node.
func (e *Element) SetTextContent(text string) {
	e.clear()
	if text != "" {
		e.node.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	}
}

// Children returns the immediate child nodes.
func (e *Element) Children() []region.ContentNode {
	var out []region.ContentNode
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, contentNode{c})
	}
	return out
}

// Data reads the data-* attribute for a camelCase key.
func (e *Element) Data(key string) (string, bool) {
	return lookupAttr(e.node, dataAttr(key))
}

// SetData writes the data-* attribute for a camelCase key.
func (e *Element) SetData(key, value string) { setAttr(e.node, dataAttr(key), value) }

// DeleteData removes the data-* attribute for a camelCase key.
func (e *Element) DeleteData(key string) { removeAttr(e.node, dataAttr(key)) }

// SetStyleProperty sets one declaration of the style attribute.
func (e *Element) SetStyleProperty(name, value string) {
	decls := parseStyle(getAttr(e.node, "style"))
	replaced := false
	for i := range decls {
		if decls[i].name == name {
			decls[i].value = value
			replaced = true
		}
	}
	if !replaced {
		decls = append(decls, styleDecl{name: name, value: value})
	}
	setAttr(e.node, "style", renderStyle(decls))
}

// RemoveStyleProperty removes one declaration of the style attribute.
func (e *Element) RemoveStyleProperty(name string) {
	decls := parseStyle(getAttr(e.node, "style"))
	kept := decls[:0]
	for _, d := range decls {
		if d.name != name {
			kept = append(kept, d)
		}
	}
	if len(kept) == 0 {
		removeAttr(e.node, "style")
		return
	}
	setAttr(e.node, "style", renderStyle(kept))
}

// Attr returns a raw attribute value.
func (e *Element) Attr(key string) string { return getAttr(e.node, key) }

func (e *Element) clear() {
	for c := e.node.FirstChild; c != nil; {
		next := c.NextSibling
		e.node.RemoveChild(c)
		c = next
	}
}

type contentNode struct {
	n *html.Node
}

func (c contentNode) IsElement() bool     { return c.n.Type == html.ElementNode }
func (c contentNode) IsText() bool        { return c.n.Type == html.TextNode }
func (c contentNode) TextContent() string { return textContent(c.n) }

func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
