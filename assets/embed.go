// Package assets embeds files shipped inside the server binary.
package assets

import "embed"

// Migrations holds the SQL schema, applied in lexical order.
//
//go:embed sql/*.sql
var Migrations embed.FS
