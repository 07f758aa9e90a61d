package levels

import (
	"fmt"
	"io/fs"
	"sort"

	"github.com/jakecoffman/cp"
	"github.com/lafriks/go-tiled"
)

// MainLayer is the tile layer whose solid tiles collide.
const MainLayer = "MAIN"

type SpikeDir string

const (
	SpikeUp    SpikeDir = "up"
	SpikeDown  SpikeDir = "down"
	SpikeLeft  SpikeDir = "left"
	SpikeRight SpikeDir = "right"
)

// Level is the gameplay view of a map in world units (one tile = 1, y up).
type Level struct {
	Name   string
	Width  int
	Height int

	Solid Grid
	Water Grid
	Moss  Grid

	Start         cp.Vector
	Checkpoints   []CheckpointDef
	Pickups       []PickupDef
	KillZones     []KillZoneDef
	FallingBlocks []cp.Vector
	Signs         []SignDef
	Secrets       []SecretDef
	SecretTargets map[string]cp.Vector
	Exits         []ExitDef
}

type CheckpointDef struct {
	ID  int
	Pos cp.Vector
}

type PickupDef struct {
	ID   int
	Kind string
	Pos  cp.Vector
}

// KillZoneDef is an axis-aligned sensor rectangle.
type KillZoneDef struct {
	Center cp.Vector
	Size   cp.Vector
}

type SignDef struct {
	Pos    cp.Vector
	Text   string
	Secret bool
}

type SecretDef struct {
	Pos  cp.Vector
	Code string
	Key  string
}

type ExitDef struct {
	Pos    cp.Vector
	Secret bool
}

// PickupKinds lists the object names that spawn pickups.
var PickupKinds = []string{"tapemeasure", "climbingglove", "teleport", "diving", "spider"}

// Load parses a TMX level from fsys.
func Load(fsys fs.FS, name string) (*Level, error) {
	m, err := tiled.LoadFile(name, tiled.WithFileSystem(fsys))
	if err != nil {
		return nil, fmt.Errorf("levels: load %s: %w", name, err)
	}
	lvl := FromMap(m)
	lvl.Name = name
	return lvl, nil
}

// FromMap converts a decoded Tiled map.
func FromMap(m *tiled.Map) *Level {
	lvl := &Level{
		Width:         m.Width,
		Height:        m.Height,
		Solid:         NewGrid(m.Width, m.Height),
		Water:         NewGrid(m.Width, m.Height),
		Moss:          NewGrid(m.Width, m.Height),
		SecretTargets: make(map[string]cp.Vector),
	}

	for _, layer := range m.Layers {
		main := layer.Name == MainLayer
		for row := 0; row < m.Height; row++ {
			for col := 0; col < m.Width; col++ {
				idx := row*m.Width + col
				if idx >= len(layer.Tiles) {
					continue
				}
				tile := layer.Tiles[idx]
				if tile == nil || tile.IsNil() || tile.Tileset == nil {
					continue
				}
				tt, err := tile.Tileset.GetTilesetTile(tile.ID)
				if err != nil {
					continue
				}
				lvl.classify(col, row, tt.Properties, main)
			}
		}
	}

	tw, th := float64(m.TileWidth), float64(m.TileHeight)
	if tw <= 0 {
		tw = 1
	}
	if th <= 0 {
		th = 1
	}
	for _, og := range m.ObjectGroups {
		for _, o := range og.Objects {
			lvl.addObject(o, cp.Vector{X: o.X / tw, Y: -o.Y/th + 0.5})
		}
	}

	sort.Slice(lvl.Checkpoints, func(i, j int) bool { return lvl.Checkpoints[i].ID < lvl.Checkpoints[j].ID })
	sort.Slice(lvl.Pickups, func(i, j int) bool { return lvl.Pickups[i].ID < lvl.Pickups[j].ID })
	return lvl
}

func (lvl *Level) classify(col, row int, props tiled.Properties, main bool) {
	x, y := col, CellY(row)
	if main && props.GetBool("solid") {
		lvl.Solid.Set(x, y, true)
	}
	if props.GetBool("water") {
		lvl.Water.Set(x, y, true)
	}
	if props.GetBool("moss") {
		lvl.Moss.Set(x, y, true)
	}
	if dir := SpikeDir(props.GetString("spikes")); dir != "" {
		if zone, ok := SpikeZone(x, y, dir); ok {
			lvl.KillZones = append(lvl.KillZones, zone)
		}
	}
}

// SpikeZone returns the kill rectangle for a spike tile at cell (x, y).
func SpikeZone(x, y int, dir SpikeDir) (KillZoneDef, bool) {
	origin := cp.Vector{X: float64(x), Y: float64(y)}
	switch dir {
	case SpikeDown:
		return KillZoneDef{Center: origin.Add(cp.Vector{X: 0.5, Y: 0.1}), Size: cp.Vector{X: 0.8, Y: 0.2}}, true
	case SpikeUp:
		return KillZoneDef{Center: origin.Add(cp.Vector{X: 0.5, Y: 0.9}), Size: cp.Vector{X: 0.8, Y: 0.2}}, true
	case SpikeLeft:
		return KillZoneDef{Center: origin.Add(cp.Vector{X: 0.1, Y: 0.5}), Size: cp.Vector{X: 0.2, Y: 0.8}}, true
	case SpikeRight:
		return KillZoneDef{Center: origin.Add(cp.Vector{X: 0.9, Y: 0.5}), Size: cp.Vector{X: 0.2, Y: 0.8}}, true
	}
	return KillZoneDef{}, false
}

func (lvl *Level) addObject(o *tiled.Object, pos cp.Vector) {
	switch o.Name {
	case "start":
		lvl.Start = pos
	case "checkpoint":
		lvl.Checkpoints = append(lvl.Checkpoints, CheckpointDef{ID: int(o.ID), Pos: pos})
	case "tapemeasure", "climbingglove", "teleport", "diving", "spider":
		lvl.Pickups = append(lvl.Pickups, PickupDef{ID: int(o.ID), Kind: o.Name, Pos: pos})
	case "fallingblock":
		lvl.FallingBlocks = append(lvl.FallingBlocks, pos)
	case "sign":
		lvl.Signs = append(lvl.Signs, SignDef{
			Pos:    pos,
			Text:   o.Properties.GetString("text"),
			Secret: o.Properties.GetBool("secret"),
		})
	case "secret":
		lvl.Secrets = append(lvl.Secrets, SecretDef{
			Pos:  pos,
			Code: o.Properties.GetString("code"),
			Key:  o.Properties.GetString("key"),
		})
	case "secret2":
		if key := o.Properties.GetString("key"); key != "" {
			lvl.SecretTargets[key] = pos.Sub(cp.Vector{Y: 0.5})
		}
	case "normalexit":
		lvl.Exits = append(lvl.Exits, ExitDef{Pos: pos})
	case "secretexit":
		lvl.Exits = append(lvl.Exits, ExitDef{Pos: pos, Secret: true})
	}
}

// Checkpoint returns the definition with id.
func (lvl *Level) Checkpoint(id int) (CheckpointDef, bool) {
	for _, c := range lvl.Checkpoints {
		if c.ID == id {
			return c, true
		}
	}
	return CheckpointDef{}, false
}

func (lvl *Level) IsWater(x, y int) bool {
	return lvl.Water.Get(x, y)
}

func (lvl *Level) IsMoss(x, y int) bool {
	return lvl.Moss.Get(x, y)
}
