// Package service ties regions, codecs and the snapshot gateway together.
//
// This package contains:
//
//   - DataManager: collect and restore snapshots, normalize single regions,
//     present and release numeric gauges
//   - Autosaver: debounced saves with an unconditional flush on teardown
//   - Editor: the page lifecycle (open, edit sessions, close) built on both
//
// DataManager holds no locks; callers serialize collect and restore cycles.
// Editor does that serialization for its own region sequence.
package service
