package system

import (
	"math"
	"sort"
	"strconv"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/cliffhanger/common"
	"github.com/milk9111/cliffhanger/ecs"
	"github.com/milk9111/cliffhanger/ecs/component"
	"go.uber.org/zap"
)

const (
	teleportMaxDeviation = 45.0
	teleportAngleWeight  = 0.1
	arrowBias            = 0.7
)

// CompassDirections are the teleport directions in degrees: right, up,
// left, down.
var CompassDirections = [4]float64{0, 90, 180, 270}

// TeleportCandidate is a checked checkpoint considered by SelectTarget.
type TeleportCandidate struct {
	ID  int
	Pos cp.Vector
}

// SelectTarget picks the candidate best matching direction from origin.
// Candidates deviating more than 45 degrees are rejected; the rest are
// scored by distance plus a tenth of the deviation. Candidates are ranked
// by ID first so the result does not depend on input order.
func SelectTarget(origin cp.Vector, direction float64, candidates []TeleportCandidate) (TeleportCandidate, bool) {
	sorted := append([]TeleportCandidate(nil), candidates...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	var best TeleportCandidate
	bestScore := math.Inf(1)
	found := false
	for _, c := range sorted {
		offset := c.Pos.Sub(origin)
		distance := offset.Length()
		angle := math.Abs(common.AngleDifference(direction, common.VectorAngle(offset)))
		if angle > teleportMaxDeviation {
			continue
		}
		score := distance + angle*teleportAngleWeight
		if score < bestScore {
			best, bestScore, found = c, score, true
		}
	}
	return best, found
}

// ArrowAngle biases direction toward the bearing of a target.
func ArrowAngle(direction, bearing float64) float64 {
	return direction + common.AngleDifference(direction, bearing)*arrowBias
}

// CheckpointNetwork owns checkpoint activation and teleport targeting.
type CheckpointNetwork struct {
	logger *zap.Logger
}

func NewCheckpointNetwork(logger *zap.Logger) *CheckpointNetwork {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CheckpointNetwork{logger: logger}
}

// Lookup finds the checkpoint entity with id.
func (n *CheckpointNetwork) Lookup(w *ecs.World, id int) (ecs.Entity, bool) {
	var found ecs.Entity
	ecs.ForEach(w, component.CheckpointComponent.Kind(), func(e ecs.Entity, c *component.Checkpoint) {
		if c.ID == id && !found.Valid() {
			found = e
		}
	})
	return found, found.Valid()
}

// Current resolves the player's checkpoint handle. A stale handle reads as
// none.
func (n *CheckpointNetwork) Current(w *ecs.World, p *component.Player) (ecs.Entity, cp.Vector, bool) {
	e := ecs.Entity(p.Checkpoint)
	if !e.Valid() || !ecs.Has(w, e, component.CheckpointComponent.Kind()) {
		return 0, cp.Vector{}, false
	}
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		return 0, cp.Vector{}, false
	}
	return e, t.Vec(), true
}

// Select returns the teleport target from the player's current checkpoint.
func (n *CheckpointNetwork) Select(w *ecs.World, from ecs.Entity, direction float64) (ecs.Entity, bool) {
	origin, ok := ecs.Get(w, from, component.TransformComponent.Kind())
	if !ok {
		return 0, false
	}

	byID := make(map[int]ecs.Entity)
	var candidates []TeleportCandidate
	ecs.ForEach2(w, component.CheckpointComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, c *component.Checkpoint, t *component.Transform) {
		if e == from || !c.Checked {
			return
		}
		byID[c.ID] = e
		candidates = append(candidates, TeleportCandidate{ID: c.ID, Pos: t.Vec()})
	})

	target, ok := SelectTarget(origin.Vec(), direction, candidates)
	if !ok {
		return 0, false
	}
	return byID[target.ID], true
}

// Arrows returns one arrow per compass direction that has a target.
func (n *CheckpointNetwork) Arrows(w *ecs.World, from ecs.Entity) []component.TeleportArrow {
	origin, ok := ecs.Get(w, from, component.TransformComponent.Kind())
	if !ok {
		return nil
	}
	var arrows []component.TeleportArrow
	for _, dir := range CompassDirections {
		target, ok := n.Select(w, from, dir)
		if !ok {
			continue
		}
		t, _ := ecs.Get(w, target, component.TransformComponent.Kind())
		bearing := common.VectorAngle(t.Vec().Sub(origin.Vec()))
		arrows = append(arrows, component.TeleportArrow{Direction: dir, Angle: ArrowAngle(dir, bearing)})
	}
	return arrows
}

// SetCurrent makes e the player's checkpoint: the previous one drops to the
// found pose, e becomes active and progress is saved.
func (n *CheckpointNetwork) SetCurrent(w *ecs.World, p *component.Player, e ecs.Entity) bool {
	if uint64(e) == p.Checkpoint {
		return false
	}
	next, ok := ecs.Get(w, e, component.CheckpointComponent.Kind())
	if !ok {
		return false
	}
	if prev, ok := ecs.Get(w, ecs.Entity(p.Checkpoint), component.CheckpointComponent.Kind()); ok {
		n.mark(w, prev, component.CheckpointFound)
	}
	p.Checkpoint = uint64(e)
	n.mark(w, next, component.CheckpointActive)
	n.logger.Info("checkpoint activated", zap.Int("id", next.ID))
	requestSave(w)
	return true
}

func (n *CheckpointNetwork) mark(w *ecs.World, c *component.Checkpoint, pose component.CheckpointPose) {
	if !c.Checked {
		pushCue(w, CueCheckpoint)
	}
	c.Checked = true
	c.Pose = pose
}

func checkpointKey(id int) string {
	return "checkpoint_" + strconv.Itoa(id)
}

func (n *CheckpointNetwork) SaveProgress(w *ecs.World, rec Record) {
	ecs.ForEach(w, component.CheckpointComponent.Kind(), func(_ ecs.Entity, c *component.Checkpoint) {
		if c.Checked {
			rec.SetBool(checkpointKey(c.ID), true)
		}
	})
}

func (n *CheckpointNetwork) LoadProgress(w *ecs.World, rec Record) {
	ecs.ForEach(w, component.CheckpointComponent.Kind(), func(_ ecs.Entity, c *component.Checkpoint) {
		if rec.Bool(checkpointKey(c.ID)) {
			c.Checked = true
			c.Pose = component.CheckpointFound
		}
	})
}
