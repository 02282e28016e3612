// Package migrations holds the versioned schema of the attempt history database.
// Files are named NNN_description.up.sql; down files are kept for manual rollback.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
