// Command levelinfo prints a summary of a TMX level: grid sizes, tile counts
// and the placed objects the game builds entities from.
package main

import (
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/milk9111/cliffhanger/levels"
	"github.com/milk9111/cliffhanger/logger"
	"go.uber.org/zap"
)

func main() {
	name := flag.String("level", "cliffs.tmx", "level name in the level directory")
	file := flag.String("file", "", "path to a TMX file outside the level directory")
	verbose := flag.Bool("v", false, "list every object")
	flag.Parse()

	if err := logger.Init("warn", ""); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Named("levelinfo")

	var fsys fs.FS = levels.FS()
	if *file != "" {
		fsys = os.DirFS(filepath.Dir(*file))
		*name = filepath.Base(*file)
	}

	lvl, err := levels.Load(fsys, *name)
	if err != nil {
		log.Fatal("load level", zap.String("level", *name), zap.Error(err))
	}

	fmt.Printf("%s: %dx%d\n", lvl.Name, lvl.Width, lvl.Height)
	fmt.Printf("  solid %d  water %d  moss %d\n", lvl.Solid.Count(), lvl.Water.Count(), lvl.Moss.Count())
	fmt.Printf("  start (%.1f, %.1f)\n", lvl.Start.X, lvl.Start.Y)
	fmt.Printf("  checkpoints %d  pickups %d  kill zones %d  falling blocks %d\n",
		len(lvl.Checkpoints), len(lvl.Pickups), len(lvl.KillZones), len(lvl.FallingBlocks))
	fmt.Printf("  signs %d  secrets %d  exits %d\n", len(lvl.Signs), len(lvl.Secrets), len(lvl.Exits))

	for _, d := range validate(lvl) {
		log.Warn("level problem", zap.String("level", lvl.Name), zap.String("detail", d))
	}

	if !*verbose {
		return
	}
	for _, c := range lvl.Checkpoints {
		fmt.Printf("  checkpoint %d at (%.1f, %.1f)\n", c.ID, c.Pos.X, c.Pos.Y)
	}
	for _, p := range lvl.Pickups {
		fmt.Printf("  pickup %d %s at (%.1f, %.1f)\n", p.ID, p.Kind, p.Pos.X, p.Pos.Y)
	}
	for _, s := range lvl.Secrets {
		fmt.Printf("  secret %s code %q at (%.1f, %.1f)\n", s.Key, s.Code, s.Pos.X, s.Pos.Y)
	}
	keys := make([]string, 0, len(lvl.SecretTargets))
	for k := range lvl.SecretTargets {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		t := lvl.SecretTargets[k]
		fmt.Printf("  secret target %s at (%.1f, %.1f)\n", k, t.X, t.Y)
	}
}

// validate reports references the game would silently ignore.
func validate(lvl *levels.Level) []string {
	var out []string
	seen := map[int]bool{}
	for _, c := range lvl.Checkpoints {
		if seen[c.ID] {
			out = append(out, fmt.Sprintf("duplicate checkpoint id %d", c.ID))
		}
		seen[c.ID] = true
	}
	for _, s := range lvl.Secrets {
		if _, ok := lvl.SecretTargets[s.Key]; !ok {
			out = append(out, fmt.Sprintf("secret %s has no target", s.Key))
		}
	}
	if lvl.Solid.Get(int(lvl.Start.X), int(lvl.Start.Y)) {
		out = append(out, "start is inside a solid tile")
	}
	return out
}
