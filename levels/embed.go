package levels

import (
	"embed"
	"io/fs"
	"os"
)

//go:embed *.tmx
var LevelsFS embed.FS

// FS returns the level filesystem: the levels/ directory on disk when it
// exists, otherwise the embedded copies.
func FS() fs.FS {
	if info, err := os.Stat("levels"); err == nil && info.IsDir() {
		return os.DirFS("levels")
	}
	return LevelsFS
}
