// Package migrations embeds the SQL schema migrations applied by
// golang-migrate against PostgreSQL.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
