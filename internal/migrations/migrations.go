// Package migrations embeds the versioned schema for the tutorias database.
package migrations

import "embed"

// Files holds every migration, applied in lexical order by database.Migrate.
//
//go:embed *.sql
var Files embed.FS
