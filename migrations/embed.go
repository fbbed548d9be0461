// Package migrations embeds the SQL migration files so goose can apply them
// from the binary at bootstrap and from tests.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
