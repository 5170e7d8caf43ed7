// Package repl provides the interactive region editor behind
// `pagekeep edit`.
//
//   - repl.go: read loop and command dispatch
//   - completer.go: command names and unique-prefix resolution
//   - history.go: command history persistence
//
// Every change goes through the editor, so edits are normalized and
// autosaved exactly as in watch mode.
package repl
