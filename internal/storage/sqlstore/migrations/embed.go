package migrations

import "embed"

// FS contains embedded player schema migrations, one directory per dialect.
//
//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS
