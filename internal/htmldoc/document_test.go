package htmldoc

import (
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/net/html"

	"github.com/yndnr/pagekeep/internal/core/domain"
)

const page = `<!DOCTYPE html>
<html><body>
<div class="skills-box">
  <h1 class="title name" id="full-name" contenteditable="true">Jane <b>Doe</b></h1>
  <ul class="list" contenteditable="true" data-type="list"><li>Go</li><li>SQL</li></ul>
  <div class="level" contenteditable="true" data-type="number" data-original-value="80%" data-percentage-value="80"></div>
  <p contenteditable="false">static</p>
</div>
</body></html>`

func mustParse(t *testing.T, s string) *Document {
	t.Helper()
	doc, err := ParseString(s)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	return doc
}

func TestDocument_EditableElements(t *testing.T) {
	doc := mustParse(t, page)
	elems := doc.EditableElements()
	if len(elems) != 3 {
		t.Fatalf("len(EditableElements()) = %d, want 3", len(elems))
	}

	wantTags := []string{"h1", "ul", "div"}
	wantKinds := []domain.Kind{domain.KindPlain, domain.KindList, domain.KindNumber}
	for i, e := range elems {
		if e.TagName() != wantTags[i] {
			t.Errorf("elem[%d].TagName() = %q, want %q", i, e.TagName(), wantTags[i])
		}
		if e.Kind() != wantKinds[i] {
			t.Errorf("elem[%d].Kind() = %q, want %q", i, e.Kind(), wantKinds[i])
		}
	}
	if got := len(doc.Regions()); got != 3 {
		t.Errorf("len(Regions()) = %d, want 3", got)
	}
}

func TestElement_Identity(t *testing.T) {
	doc := mustParse(t, page)
	h1, ok := doc.ElementByID("full-name")
	if !ok {
		t.Fatal("ElementByID(full-name) not found")
	}
	if got := strings.Join(h1.Classes(), ","); got != "title,name" {
		t.Errorf("Classes() = %q", got)
	}
	if !h1.HasAncestorClass("skills-box") {
		t.Error("HasAncestorClass(skills-box) = false")
	}
	if h1.HasAncestorClass("tools-box") {
		t.Error("HasAncestorClass(tools-box) = true")
	}
	if _, ok := doc.ElementByID("missing"); ok {
		t.Error("ElementByID(missing) found an element")
	}
}

func TestElement_ClassMutation(t *testing.T) {
	doc := mustParse(t, `<p class="a">x</p>`)
	e := firstByTag(t, doc, "p")

	e.AddClass("editing")
	e.AddClass("editing")
	if got := e.Attr("class"); got != "a editing" {
		t.Errorf("class = %q, want %q", got, "a editing")
	}
	e.RemoveClass("editing")
	if got := e.Attr("class"); got != "a" {
		t.Errorf("class = %q, want %q", got, "a")
	}
	e.RemoveClass("a")
	if strings.Contains(doc.String(), "class=") {
		t.Errorf("empty class attribute kept: %s", doc.String())
	}
}

func TestElement_InnerHTML(t *testing.T) {
	doc := mustParse(t, page)
	h1, _ := doc.ElementByID("full-name")

	if got := h1.InnerHTML(); got != "Jane <b>Doe</b>" {
		t.Errorf("InnerHTML() = %q", got)
	}
	if got := h1.TextContent(); got != "Jane Doe" {
		t.Errorf("TextContent() = %q", got)
	}

	h1.SetInnerHTML(`<i>John</i> &amp; co`)
	if got := h1.InnerHTML(); got != "<i>John</i> &amp; co" {
		t.Errorf("InnerHTML() after set = %q", got)
	}

	h1.SetTextContent("<b>plain</b>")
	if got := h1.InnerHTML(); got != "&lt;b&gt;plain&lt;/b&gt;" {
		t.Errorf("InnerHTML() after SetTextContent = %q", got)
	}
}

func TestElement_Children(t *testing.T) {
	doc := mustParse(t, `<ul contenteditable="true">  <li> Go </li>text<!-- note --><li></li></ul>`)
	ul := doc.EditableElements()[0]

	children := ul.Children()
	if len(children) != 5 {
		t.Fatalf("len(Children()) = %d, want 5", len(children))
	}
	if !children[0].IsText() || !children[1].IsElement() || !children[2].IsText() {
		t.Error("unexpected node types")
	}
	if children[3].IsText() || children[3].IsElement() {
		t.Error("comment reported as text or element")
	}
	if got := children[1].TextContent(); got != " Go " {
		t.Errorf("TextContent() = %q", got)
	}
}

func TestElement_DataAndStyle(t *testing.T) {
	doc := mustParse(t, page)
	gauge := doc.EditableElements()[2]

	if v, ok := gauge.Data("originalValue"); !ok || v != "80%" {
		t.Errorf("Data(originalValue) = %q, %v", v, ok)
	}
	gauge.SetData("percentageValue", "55")
	if got := gauge.Attr("data-percentage-value"); got != "55" {
		t.Errorf("data-percentage-value = %q", got)
	}
	gauge.DeleteData("originalValue")
	if _, ok := gauge.Data("originalValue"); ok {
		t.Error("Data(originalValue) still present")
	}

	gauge.SetStyleProperty("color", "red")
	gauge.SetStyleProperty("--progress-width", "55%")
	gauge.SetStyleProperty("--progress-width", "60%")
	if got := gauge.Attr("style"); got != "color: red; --progress-width: 60%;" {
		t.Errorf("style = %q", got)
	}
	gauge.RemoveStyleProperty("--progress-width")
	if got := gauge.Attr("style"); got != "color: red;" {
		t.Errorf("style = %q", got)
	}
	gauge.RemoveStyleProperty("color")
	if strings.Contains(doc.String(), "style=") {
		t.Error("empty style attribute kept")
	}
}

func TestDocument_WriteAndParseFile(t *testing.T) {
	doc := mustParse(t, page)
	path := filepath.Join(t.TempDir(), "page.html")

	if err := doc.WriteFile(path); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	again, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if len(again.EditableElements()) != 3 {
		t.Errorf("re-parsed document lost regions")
	}
}

func TestDocument_Markdown(t *testing.T) {
	doc := mustParse(t, `<html><body><h1>Title</h1><ul><li>One</li><li>Two</li></ul></body></html>`)
	md, err := doc.Markdown()
	if err != nil {
		t.Fatalf("Markdown: %v", err)
	}
	if !strings.Contains(md, "# Title") || !strings.Contains(md, "One") || !strings.Contains(md, "Two") {
		t.Errorf("Markdown() = %q", md)
	}
}

func TestDataAttr(t *testing.T) {
	tests := map[string]string{
		"originalValue":   "data-original-value",
		"percentageValue": "data-percentage-value",
		"type":            "data-type",
	}
	for in, want := range tests {
		if got := dataAttr(in); got != want {
			t.Errorf("dataAttr(%q) = %q, want %q", in, got, want)
		}
	}
}

func firstByTag(t *testing.T, d *Document, tag string) *Element {
	t.Helper()
	var found *html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if found == nil && n.Type == html.ElementNode && n.Data == tag {
			found = n
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(d.root)
	if found == nil {
		t.Fatalf("no <%s> element", tag)
	}
	return &Element{node: found}
}
