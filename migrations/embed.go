// Package migrations embeds the SQL schema files.
package migrations

import "embed"

// FS holds the *.up.sql and *.down.sql files in lexical order.
//
//go:embed *.sql
var FS embed.FS
