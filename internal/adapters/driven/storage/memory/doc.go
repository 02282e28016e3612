// Package memory provides in-memory implementations of driven ports.
//
// These stores hold state in process memory only and are used by tests
// to observe what the core writes without touching the filesystem.
package memory
