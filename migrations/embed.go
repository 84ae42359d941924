// Package migrations holds the SQLite schema, applied in filename order.
package migrations

import "embed"

// FS contains every migration file
//
//go:embed *.sql
var FS embed.FS
