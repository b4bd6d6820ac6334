// Package content embeds the default GachaRealm catalog written in the
// loader's Lua DSL.
package content

import "embed"

// FS holds the default *.lua catalog files.
//
//go:embed *.lua
var FS embed.FS
