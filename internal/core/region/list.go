package region

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/yndnr/pagekeep/internal/core/domain"
)

// ListCodec stores a region as an ordered list of text items.
type ListCodec struct{}

// Kind implements Codec.
func (*ListCodec) Kind() domain.Kind { return domain.KindList }

// Encode keeps the trimmed text of every element or text child whose
// trimmed text is non-empty, in document order.
func (*ListCodec) Encode(r Region) domain.Record {
	children := r.Children()
	items := make([]string, 0, len(children))
	for _, n := range children {
		if !n.IsElement() && !n.IsText() {
			continue
		}
		if text := strings.TrimSpace(n.TextContent()); text != "" {
			items = append(items, text)
		}
	}
	return domain.ListRecord{Items: items}
}

// Decode rebuilds the region as <li> items. Item text is escaped so stored
// markup characters never come back as markup.
func (*ListCodec) Decode(r Region, rec domain.Record) {
	l, ok := rec.(domain.ListRecord)
	if !ok {
		return
	}
	r.SetInnerHTML(RenderListItems(l.Items))
}

// RenderListItems renders non-blank items as escaped <li> elements.
func RenderListItems(items []string) string {
	var b strings.Builder
	for _, item := range items {
		if strings.TrimSpace(item) == "" {
			continue
		}
		b.WriteString("<li>")
		b.WriteString(html.EscapeString(item))
		b.WriteString("</li>")
	}
	return b.String()
}
