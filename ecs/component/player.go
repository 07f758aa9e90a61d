package component

import "github.com/jakecoffman/cp"

// NoDeathLine is the death height before the first grounding.
const NoDeathLine = -10000.0

// RopeJoint is a live rope constraint. Destroy is idempotent.
type RopeJoint interface {
	Destroy()
	Anchor() cp.Vector
}

type Player struct {
	State PlayerState
	// Facing is +1 (right) or -1 (left).
	Facing    float64
	Velocity  cp.Vector
	Animation string

	DeathHeight float64

	ToFallStateDelay int
	JumpBuffer       int
	WallJumpLock     int
	RespawnDelay     int

	CanHang     bool
	CanTeleport bool
	CanDive     bool
	CanRope     bool
	// DeathLineUnlocked makes the death line visible.
	DeathLineUnlocked bool

	DeathCount    int
	TeleportCount int
	JumpCount     int

	// Checkpoint is the current checkpoint entity (ecs.Entity is uint64).
	Checkpoint uint64
	Rope       RopeJoint
	InWater    bool

	// HintTicks counts down to the first-death hint; zero means idle.
	HintTicks int
	// Finished is set once an exit ends the run.
	Finished bool
}

// NewPlayer returns a player in its initial airborne state.
func NewPlayer() Player {
	return Player{
		State:       PlayerFalling,
		Facing:      1,
		DeathHeight: NoDeathLine,
	}
}

// FaceDir returns v mirrored to the facing direction.
func (p *Player) FaceDir(v float64) float64 {
	if p.Facing < 0 {
		return -v
	}
	return v
}

var PlayerComponent = NewComponent[Player]()
