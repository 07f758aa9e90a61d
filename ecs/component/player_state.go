package component

// PlayerState is the active locomotion state. The zero value is not a valid
// state; new players start Falling.
type PlayerState int

const (
	PlayerStateInvalid PlayerState = iota
	PlayerWalking
	PlayerJumping
	PlayerFalling
	PlayerSwimming
	PlayerHanging
	PlayerClimbUp
	PlayerDeath
	PlayerTeleport
	PlayerSwinging
)

var playerStateNames = [...]string{
	PlayerStateInvalid: "invalid",
	PlayerWalking:      "walking",
	PlayerJumping:      "jumping",
	PlayerFalling:      "falling",
	PlayerSwimming:     "swimming",
	PlayerHanging:      "hanging",
	PlayerClimbUp:      "climb_up",
	PlayerDeath:        "death",
	PlayerTeleport:     "teleport",
	PlayerSwinging:     "swinging",
}

func (s PlayerState) String() string {
	if s < 0 || int(s) >= len(playerStateNames) {
		return "invalid"
	}
	return playerStateNames[s]
}

func (s PlayerState) Valid() bool {
	return s > PlayerStateInvalid && int(s) < len(playerStateNames)
}

// Grounded reports whether the camera treats s as standing on something.
func (s PlayerState) Grounded() bool {
	switch s {
	case PlayerWalking, PlayerHanging, PlayerClimbUp, PlayerTeleport:
		return true
	}
	return false
}
