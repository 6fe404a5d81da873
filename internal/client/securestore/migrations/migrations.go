// Package migrations embeds the schema of the local secure store.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
