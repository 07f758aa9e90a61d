package prefabs

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

const (
	PlayerFile  = "player.yaml"
	DialogsFile = "dialogs.yaml"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// PlayerSpec is the controller tuning. Velocities are in tiles per second,
// timers in fixed ticks.
type PlayerSpec struct {
	TickRate        int       `yaml:"tick_rate"`
	Width           float64   `yaml:"width"`
	Height          float64   `yaml:"height"`
	JumpVelocity    float64   `yaml:"jump_velocity"`
	Gravity         float64   `yaml:"gravity"`
	JumpGravity     float64   `yaml:"jump_gravity"`
	MoveSpeed       float64   `yaml:"move_speed"`
	JumpMaxVelocity float64   `yaml:"jump_max_velocity"`
	ReleaseDamping  float64   `yaml:"release_damping"`
	CoyoteTicks     int       `yaml:"coyote_ticks"`
	JumpBufferTicks int       `yaml:"jump_buffer_ticks"`
	WallJumpTicks   int       `yaml:"wall_jump_ticks"`
	WallJumpAngle   float64   `yaml:"wall_jump_angle"`
	RespawnTicks    int       `yaml:"respawn_ticks"`
	MaxFallDepth    float64   `yaml:"max_fall_depth"`
	DeathMargin     float64   `yaml:"death_margin"`
	ClimbSpeed      float64   `yaml:"climb_speed"`
	TeleportRadius  float64   `yaml:"teleport_radius"`
	TeleportOffsetY float64   `yaml:"teleport_offset_y"`
	Swim            SwimSpec  `yaml:"swim"`
	Swing           SwingSpec `yaml:"swing"`
	Ledge           LedgeSpec `yaml:"ledge"`
	FirstDeathHint  float64   `yaml:"first_death_hint_seconds"`
}

type SwimSpec struct {
	SampleOffset     float64 `yaml:"sample_offset"`
	SubmergedOffset  float64 `yaml:"submerged_offset"`
	ExitOffset       float64 `yaml:"exit_offset"`
	Damping          float64 `yaml:"damping"`
	Buoyancy         float64 `yaml:"buoyancy"`
	SurfaceSink      float64 `yaml:"surface_sink"`
	DiveThrust       float64 `yaml:"dive_thrust"`
	GroundingMaxVelY float64 `yaml:"grounding_max_vel_y"`
}

type SwingSpec struct {
	Reach        float64 `yaml:"reach"`
	RetryOffset  float64 `yaml:"retry_offset"`
	Damping      float64 `yaml:"damping"`
	Push         float64 `yaml:"push"`
	LineOffset   float64 `yaml:"line_offset"`
	FloorNormalY float64 `yaml:"floor_normal_y"`
}

// LedgeSpec holds the wall probe offsets used for hanging and climbing.
type LedgeSpec struct {
	AboveProbe  float64 `yaml:"above_probe"`
	GripProbe   float64 `yaml:"grip_probe"`
	ClimbProbe  float64 `yaml:"climb_probe"`
	HangOffset  float64 `yaml:"hang_offset"`
	ClimbNudge  float64 `yaml:"climb_nudge"`
	DropNudge   float64 `yaml:"drop_nudge"`
	NormalLimit float64 `yaml:"normal_limit"`
}

// DT returns the fixed tick length in seconds.
func (s PlayerSpec) DT() float64 {
	if s.TickRate <= 0 {
		return 1.0 / 60.0
	}
	return 1.0 / float64(s.TickRate)
}

func LoadPlayerSpec() (PlayerSpec, error) {
	return LoadSpec[PlayerSpec](PlayerFile)
}

// DialogsSpec holds every scripted message sequence.
type DialogsSpec struct {
	Intro      []string              `yaml:"intro"`
	Pickups    map[string]PickupSpec `yaml:"pickups"`
	FirstDeath []string              `yaml:"first_death"`
	NormalExit []string              `yaml:"normal_exit"`
	SecretExit []string              `yaml:"secret_exit"`
}

// PickupSpec describes what a pickup says and what it unlocks once the last
// message is dismissed.
type PickupSpec struct {
	Messages []string `yaml:"messages"`
	Grant    string   `yaml:"grant"`
}

func LoadDialogsSpec() (DialogsSpec, error) {
	return LoadSpec[DialogsSpec](DialogsFile)
}
