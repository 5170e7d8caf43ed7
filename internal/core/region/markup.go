package region

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var fragmentContext = &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}

// stripClassSubtrees removes every element carrying class, with its subtree,
// from a markup fragment. Markup that fails to parse is returned unchanged.
func stripClassSubtrees(markup, class string) string {
	nodes, err := html.ParseFragment(strings.NewReader(markup), fragmentContext)
	if err != nil {
		return markup
	}

	var b strings.Builder
	for _, n := range nodes {
		if hasClass(n, class) {
			continue
		}
		removeClassSubtrees(n, class)
		if err := html.Render(&b, n); err != nil {
			return markup
		}
	}
	return b.String()
}

func removeClassSubtrees(n *html.Node, class string) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if hasClass(c, class) {
			n.RemoveChild(c)
		} else {
			removeClassSubtrees(c, class)
		}
		c = next
	}
}

func hasClass(n *html.Node, class string) bool {
	if n.Type != html.ElementNode {
		return false
	}
	for _, a := range n.Attr {
		if a.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(a.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}
