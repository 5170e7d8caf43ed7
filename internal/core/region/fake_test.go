package region

import (
	"github.com/yndnr/pagekeep/internal/core/domain"
)

type fakeNode struct {
	element bool
	text    bool
	content string
}

func (n fakeNode) IsElement() bool     { return n.element }
func (n fakeNode) IsText() bool        { return n.text }
func (n fakeNode) TextContent() string { return n.content }

// fakeRegion is a minimal in-memory Region.
type fakeRegion struct {
	tag       string
	id        string
	kind      domain.Kind
	classes   []string
	ancestors []string
	inner     string
	text      string
	children  []ContentNode
	data      map[string]string
	style     map[string]string
}

func newFakeRegion(tag string, kind domain.Kind, classes ...string) *fakeRegion {
	return &fakeRegion{
		tag:     tag,
		kind:    kind,
		classes: classes,
		data:    map[string]string{},
		style:   map[string]string{},
	}
}

func (r *fakeRegion) TagName() string     { return r.tag }
func (r *fakeRegion) ID() string          { return r.id }
func (r *fakeRegion) Kind() domain.Kind   { return r.kind }
func (r *fakeRegion) Classes() []string   { return append([]string(nil), r.classes...) }
func (r *fakeRegion) InnerHTML() string   { return r.inner }
func (r *fakeRegion) TextContent() string { return r.text }

func (r *fakeRegion) HasClass(name string) bool {
	for _, c := range r.classes {
		if c == name {
			return true
		}
	}
	return false
}

func (r *fakeRegion) AddClass(name string) {
	if !r.HasClass(name) {
		r.classes = append(r.classes, name)
	}
}

func (r *fakeRegion) RemoveClass(name string) {
	out := r.classes[:0]
	for _, c := range r.classes {
		if c != name {
			out = append(out, c)
		}
	}
	r.classes = out
}

func (r *fakeRegion) HasAncestorClass(name string) bool {
	for _, c := range r.ancestors {
		if c == name {
			return true
		}
	}
	return false
}

func (r *fakeRegion) SetInnerHTML(markup string) {
	r.inner = markup
	r.children = nil
}

func (r *fakeRegion) SetTextContent(text string) {
	r.text = text
	r.inner = text
	r.children = []ContentNode{fakeNode{text: true, content: text}}
}

func (r *fakeRegion) Children() []ContentNode { return r.children }

func (r *fakeRegion) Data(key string) (string, bool) {
	v, ok := r.data[key]
	return v, ok
}

func (r *fakeRegion) SetData(key, value string)           { r.data[key] = value }
func (r *fakeRegion) DeleteData(key string)               { delete(r.data, key) }
func (r *fakeRegion) SetStyleProperty(name, value string) { r.style[name] = value }
func (r *fakeRegion) RemoveStyleProperty(name string)     { delete(r.style, name) }

var _ Region = (*fakeRegion)(nil)
