// Package vfs implements the in-memory hierarchical file store of a desktop session.
//
// Nodes live in an arena keyed by id.NodeID; directories keep an ordered slice of
// child ids, so listing order is insertion order and every node has exactly one
// owning parent. Paths handed to the store must be absolute and already normalized:
// "." and ".." are resolved by callers (the shell) before they reach this package.
//
// Failures are ordinary error values (ErrNotFound, ErrAlreadyExists,
// ErrTypeMismatch, ErrInvalidName). No operation panics on bad input.
//
// Example Usage:
//
//	fs, _ := vfs.Default()
//	_, err := fs.CreateFile("/home/user", "notes.txt", "hello")
//	content, err := fs.ReadFile("/home/user/notes.txt")
//
// The whole tree is the unit of persistence: Snapshot/Restore convert it to and
// from a nested SnapshotNode, and Marshal/Unmarshal encode that as JSON.
package vfs
