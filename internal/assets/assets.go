// Package assets embeds the single page served behind the offline shell.
package assets

import (
	"embed"
	"io/fs"
)

//go:embed static
var files embed.FS

// Static returns the page files rooted at the static directory.
func Static() fs.FS {
	sub, err := fs.Sub(files, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
