package repl

import "strings"

// Completer resolves command names.
type Completer struct {
	commands []string
}

// NewCompleter creates a new Completer.
func NewCompleter() *Completer {
	return &Completer{
		commands: []string{
			"list", "show", "set", "save", "write", "history", "help", "exit", "quit",
		},
	}
}

// Complete returns completion suggestions for the given prefix.
func (c *Completer) Complete(prefix string) []string {
	var suggestions []string
	for _, cmd := range c.commands {
		if strings.HasPrefix(cmd, prefix) {
			suggestions = append(suggestions, cmd)
		}
	}
	return suggestions
}

// Resolve expands an unambiguous prefix to its command name.
func (c *Completer) Resolve(word string) (string, bool) {
	matches := c.Complete(word)
	for _, m := range matches {
		if m == word {
			return m, true
		}
	}
	if len(matches) == 1 {
		return matches[0], true
	}
	return "", false
}
