// Package migrations embeds the versioned SQL schema applied by
// golang-migrate. File names follow {version}_{title}.{up|down}.sql.
package migrations

import "embed"

// FS holds every migration file.
//
//go:embed *.sql
var FS embed.FS

// Dir is the path of the migration files inside FS.
const Dir = "."
