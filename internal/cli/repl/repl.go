package repl

import (
	"bufio"
	"context"
	"fmt"
	"html"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/yndnr/pagekeep/internal/core/domain"
	"github.com/yndnr/pagekeep/internal/core/region"
)

// Page is the document being edited.
type Page interface {
	Regions() []region.Region
	WriteFile(path string) error
}

// Editor applies and saves edits. *service.Editor implements it.
type Editor interface {
	Edit(index int, fn func(region.Region)) error
	Save(ctx context.Context) (bool, error)
}

// REPL represents the Read-Eval-Print Loop.
type REPL struct {
	page      Page
	editor    Editor
	path      string
	input     io.Reader
	output    io.Writer
	completer *Completer
	history   *History
}

// Option configures a REPL.
type Option func(*REPL)

// WithIO sets the input and output streams.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(r *REPL) {
		r.input = in
		r.output = out
	}
}

// WithHistory sets the history store.
func WithHistory(h *History) Option {
	return func(r *REPL) {
		r.history = h
	}
}

// New creates a REPL editing page through editor. path is the default
// target of `write`.
func New(page Page, editor Editor, path string, opts ...Option) *REPL {
	r := &REPL{
		page:      page,
		editor:    editor,
		path:      path,
		input:     os.Stdin,
		output:    os.Stdout,
		completer: NewCompleter(),
		history:   NewHistory(""),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run starts the REPL loop. It returns on exit, quit or end of input.
func (r *REPL) Run(ctx context.Context) error {
	reader := bufio.NewReader(r.input)

	for {
		fmt.Fprint(r.output, "pagekeep> ")

		line, err := reader.ReadString('\n')
		if err == io.EOF && strings.TrimSpace(line) == "" {
			fmt.Fprintln(r.output)
			return nil
		}
		if err != nil && err != io.EOF {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		r.history.Add(line)

		if done, execErr := r.execute(ctx, line); execErr != nil {
			fmt.Fprintf(r.output, "Error: %v\n", execErr)
		} else if done {
			return nil
		}
		if err == io.EOF {
			return nil
		}
	}
}

func (r *REPL) execute(ctx context.Context, line string) (bool, error) {
	word, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	cmd, ok := r.completer.Resolve(word)
	if !ok {
		if matches := r.completer.Complete(word); len(matches) > 1 {
			return false, fmt.Errorf("ambiguous command %q: %s", word, strings.Join(matches, ", "))
		}
		return false, fmt.Errorf("unknown command %q (try help)", word)
	}

	switch cmd {
	case "exit", "quit":
		return true, nil
	case "help":
		r.help()
	case "list":
		r.list()
	case "show":
		return false, r.show(rest)
	case "set":
		return false, r.set(rest)
	case "save":
		saved, err := r.editor.Save(ctx)
		if err != nil {
			return false, err
		}
		if saved {
			fmt.Fprintln(r.output, "saved")
		} else {
			fmt.Fprintln(r.output, "unchanged")
		}
	case "write":
		target := r.path
		if rest != "" {
			target = rest
		}
		if err := r.page.WriteFile(target); err != nil {
			return false, err
		}
		fmt.Fprintf(r.output, "wrote %s\n", target)
	case "history":
		for i, entry := range r.history.Entries() {
			fmt.Fprintf(r.output, "%4d  %s\n", i+1, entry)
		}
	}
	return false, nil
}

func (r *REPL) help() {
	fmt.Fprintln(r.output, `Commands:
  list              list editable regions
  show N            print the markup of region N
  set N TEXT        replace region N (list items are separated by "|")
  save              save now instead of waiting for autosave
  write [FILE]      write the page (default: the page being edited)
  history           print command history
  exit, quit        save and leave`)
}

func (r *REPL) list() {
	for i, reg := range r.page.Regions() {
		fmt.Fprintf(r.output, "%3d  %-7s %-40s %s\n", i, reg.Kind(), region.DeriveKey(reg, i), preview(reg))
	}
}

func (r *REPL) show(arg string) error {
	reg, _, err := r.region(arg)
	if err != nil {
		return err
	}
	fmt.Fprintln(r.output, reg.InnerHTML())
	return nil
}

func (r *REPL) set(arg string) error {
	idxArg, text, _ := strings.Cut(arg, " ")
	reg, index, err := r.region(idxArg)
	if err != nil {
		return err
	}
	text = strings.TrimSpace(text)

	kind := reg.Kind()
	return r.editor.Edit(index, func(target region.Region) {
		switch kind {
		case domain.KindList:
			target.SetInnerHTML(listMarkup(text))
		case domain.KindNumber:
			target.SetTextContent(text)
		default:
			target.SetInnerHTML(text)
		}
	})
}

func (r *REPL) region(arg string) (region.Region, int, error) {
	index, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		return nil, 0, fmt.Errorf("region index required, got %q", arg)
	}
	regions := r.page.Regions()
	if index < 0 || index >= len(regions) {
		return nil, 0, fmt.Errorf("region %d out of range (0-%d)", index, len(regions)-1)
	}
	return regions[index], index, nil
}

func listMarkup(text string) string {
	var b strings.Builder
	for _, item := range strings.Split(text, "|") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		b.WriteString("<li>")
		b.WriteString(html.EscapeString(item))
		b.WriteString("</li>")
	}
	return b.String()
}

const previewLen = 40

func preview(reg region.Region) string {
	text := reg.TextContent()
	if reg.HasClass(region.ProgressClass) {
		if display, ok := reg.Data(region.DataOriginalValue); ok {
			text = display
		}
	}
	text = strings.Join(strings.Fields(text), " ")
	if runes := []rune(text); len(runes) > previewLen {
		text = string(runes[:previewLen]) + "..."
	}
	return text
}
