// Package file persists login records to the local filesystem.
//
// The credential map is a single JSON file (login_info.json) in the
// application-data directory. Writes replace the whole file atomically;
// callers serialise read-modify-write cycles themselves.
package file
