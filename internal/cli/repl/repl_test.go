package repl

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yndnr/pagekeep/internal/core/region"
	"github.com/yndnr/pagekeep/internal/htmldoc"
)

const page = `<html><body>
<h1 id="name" contenteditable="true">Jane Doe</h1>
<ul class="skills" contenteditable="true" data-type="list"><li>Go</li></ul>
</body></html>`

// fakeEditor applies edits directly and counts saves.
type fakeEditor struct {
	regions []region.Region
	saves   int
	saveErr error
}

func (e *fakeEditor) Edit(index int, fn func(region.Region)) error {
	fn(e.regions[index])
	return nil
}

func (e *fakeEditor) Save(context.Context) (bool, error) {
	if e.saveErr != nil {
		return false, e.saveErr
	}
	e.saves++
	return e.saves == 1, nil
}

func newTestREPL(t *testing.T, input string) (*REPL, *htmldoc.Document, *fakeEditor, *bytes.Buffer) {
	t.Helper()
	doc, err := htmldoc.ParseString(page)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	editor := &fakeEditor{regions: doc.Regions()}
	out := &bytes.Buffer{}
	r := New(doc, editor, filepath.Join(t.TempDir(), "page.html"), WithIO(strings.NewReader(input), out))
	return r, doc, editor, out
}

func TestREPL_Run_Exit(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"exit command", "exit\n"},
		{"quit command", "quit\n"},
		{"prefix", "q\n"},
		{"EOF", ""},
		{"EOF without newline", "list"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _, _, _ := newTestREPL(t, tt.input)
			if err := r.Run(context.Background()); err != nil {
				t.Errorf("Run() returned error: %v", err)
			}
		})
	}
}

func TestREPL_Run_EmptyLines(t *testing.T) {
	r, _, _, out := newTestREPL(t, "\n\n\nexit\n")
	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run() returned error: %v", err)
	}
	if prompts := strings.Count(out.String(), "pagekeep>"); prompts < 4 {
		t.Errorf("expected at least 4 prompts, got %d", prompts)
	}
}

func TestREPL_List(t *testing.T) {
	r, _, _, out := newTestREPL(t, "list\nexit\n")
	if err := r.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"h1-no-class-name-0", "ul-skills-no-id-1", "Jane Doe", "list"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("list output missing %q:\n%s", want, out.String())
		}
	}
}

func TestREPL_Set(t *testing.T) {
	r, doc, _, out := newTestREPL(t, "set 0 <i>John</i>\nset 1 Go | <script> |  | SQL\nshow 1\nexit\n")
	if err := r.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	regions := doc.Regions()
	if got := regions[0].InnerHTML(); got != "<i>John</i>" {
		t.Errorf("plain region = %q", got)
	}
	want := "<li>Go</li><li>&lt;script&gt;</li><li>SQL</li>"
	if got := regions[1].InnerHTML(); got != want {
		t.Errorf("list region = %q, want %q", got, want)
	}
	if !strings.Contains(out.String(), want) {
		t.Errorf("show output missing list markup:\n%s", out.String())
	}
}

func TestREPL_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"unknown", "frobnicate\n", "unknown command"},
		{"ambiguous", "s 0\n", "ambiguous command"},
		{"missing index", "show\n", "region index required"},
		{"out of range", "show 9\n", "out of range"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _, _, out := newTestREPL(t, tt.input+"exit\n")
			if err := r.Run(context.Background()); err != nil {
				t.Fatalf("Run() returned error: %v", err)
			}
			if !strings.Contains(out.String(), tt.want) {
				t.Errorf("output = %q, want %q", out.String(), tt.want)
			}
		})
	}
}

func TestREPL_Save(t *testing.T) {
	r, _, editor, out := newTestREPL(t, "save\nsave\nexit\n")
	if err := r.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if editor.saves != 2 {
		t.Errorf("saves = %d, want 2", editor.saves)
	}
	if !strings.Contains(out.String(), "saved\n") || !strings.Contains(out.String(), "unchanged\n") {
		t.Errorf("output = %q", out.String())
	}

	r, _, editor, out = newTestREPL(t, "save\nexit\n")
	editor.saveErr = errors.New("disk full")
	if err := r.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Error: disk full") {
		t.Errorf("output = %q", out.String())
	}
}

func TestREPL_Write(t *testing.T) {
	target := filepath.Join(t.TempDir(), "out.html")
	r, _, _, out := newTestREPL(t, "set 0 John\nwrite "+target+"\nexit\n")
	if err := r.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "wrote "+target) {
		t.Errorf("output = %q", out.String())
	}

	written, err := htmldoc.ParseFile(target)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if got := written.Regions()[0].TextContent(); got != "John" {
		t.Errorf("written region = %q, want John", got)
	}
}

func TestREPL_History(t *testing.T) {
	r, _, _, out := newTestREPL(t, "  list  \nhistory\nexit\n")
	if err := r.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if r.history.Get(0) != "exit" || r.history.Get(1) != "history" || r.history.Get(2) != "list" {
		t.Errorf("history = %v", r.history.Entries())
	}
	if !strings.Contains(out.String(), "   1  list") {
		t.Errorf("history output = %q", out.String())
	}
}
