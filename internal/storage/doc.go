// Package storage provides the key-value stores a page snapshot is
// persisted in.
//
// Every engine implements Store: a synchronous string-to-string map with
// no transactions and no TTL. Available engines:
//
//   - memory: process-local map, for tests and dry runs
//   - file: one file per key under a directory, replaced atomically
//   - badger: embedded LSM store (dgraph-io/badger)
//   - sqlite: single-table database (modernc.org/sqlite)
//
// Any engine can be wrapped by SealedStore for at-rest encryption.
package storage
