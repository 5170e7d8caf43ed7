// Package snapshot persists page snapshots.
//
// Gateway is the single read/write path between the page and a
// storage.Store. It remembers the fingerprint of the last document it
// loaded or wrote and skips writes whose canonical form is unchanged.
//
// Archive keeps point-in-time copies of a snapshot as checksummed files
// with optional encryption and a retention policy.
package snapshot
