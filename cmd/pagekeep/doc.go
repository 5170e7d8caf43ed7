// Package main provides the entry point for pagekeep.
//
// pagekeep stores the editable regions of an HTML page (a resume, a
// profile card) and applies them back to a fresh copy of the page. It can
// collect once, restore once, or watch the page and autosave every edit.
package main
