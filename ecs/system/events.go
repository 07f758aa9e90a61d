package system

import "github.com/milk9111/cliffhanger/ecs"

// Gameplay events pushed on the world queue and dispatched by the simulation
// at the end of each tick.
const (
	EventCue    ecs.EventType = "cue"
	EventSave   ecs.EventType = "save"
	EventShake  ecs.EventType = "shake"
	EventDialog ecs.EventType = "dialog"
)

// Cue names a one-shot sound.
type Cue string

const (
	CueJump       Cue = "jump"
	CueSplash     Cue = "splash"
	CueDeath      Cue = "death"
	CueCheckpoint Cue = "checkpoint"
	CueTeleport   Cue = "teleport"
	CueRope       Cue = "rope"
	CuePickup     Cue = "pickup"
	CueBreak      Cue = "break"
	CueSecret     Cue = "secret"
)

func pushCue(w *ecs.World, cue Cue) {
	w.Events().Push(ecs.Event{Type: EventCue, Data: cue})
}

func requestSave(w *ecs.World) {
	w.Events().Push(ecs.Event{Type: EventSave})
}

// shakeCamera requests a camera shake lasting ticks fixed ticks.
func shakeCamera(w *ecs.World, ticks int) {
	w.Events().Push(ecs.Event{Type: EventShake, Data: ticks})
}

func showDialog(w *ecs.World, d Dialog) {
	w.Events().Push(ecs.Event{Type: EventDialog, Data: d})
}
