// Package domain defines the core data model for pagekeep.
//
// Domain models are pure values without any IO dependencies:
//
//   - Kind: the declared kind of an editable region (plain, list, number)
//   - Record: the tagged union stored for one region
//   - Snapshot: the full mapping from region key to record
//   - Document: the persisted JSON form of a Snapshot
//   - Errors: domain-specific error definitions
package domain
