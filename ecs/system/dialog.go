package system

import (
	"github.com/milk9111/cliffhanger/ecs"
	"github.com/milk9111/cliffhanger/ecs/component"
	"go.uber.org/zap"
)

// EventEnding carries an Ending once the closing dialog of an exit is
// dismissed.
const EventEnding ecs.EventType = "ending"

type Ending struct {
	Secret bool
}

// DialogThen is what happens after the last step of a dialog is dismissed.
type DialogThen int

const (
	ThenNone DialogThen = iota
	// ThenGrant unlocks Dialog.Grant and saves.
	ThenGrant
	ThenEnd
	ThenSecretEnd
)

// Dialog is a chain of messages shown one at a time.
type Dialog struct {
	Steps []string
	Then  DialogThen
	Grant string
}

// DialogRunner shows queued dialogs. While one is visible the gameplay tick
// is suspended and jump dismisses the current step.
type DialogRunner struct {
	current *Dialog
	step    int
	pending []Dialog
	logger  *zap.Logger
}

func NewDialogRunner(logger *zap.Logger) *DialogRunner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DialogRunner{logger: logger}
}

// Start shows d, or queues it behind the visible dialog. A dialog without
// steps runs its continuation at once.
func (r *DialogRunner) Start(w *ecs.World, d Dialog) {
	if len(d.Steps) == 0 {
		r.finish(w, d)
		return
	}
	if r.current != nil {
		r.pending = append(r.pending, d)
		return
	}
	r.current = &d
	r.step = 0
}

func (r *DialogRunner) Active() bool {
	return r != nil && r.current != nil
}

func (r *DialogRunner) Text() string {
	if !r.Active() {
		return ""
	}
	return r.current.Steps[r.step]
}

// Update dismisses the current step on a jump press.
func (r *DialogRunner) Update(w *ecs.World) {
	if !r.Active() {
		return
	}
	e, ok := ecs.First(w, component.PlayerComponent.Kind())
	if !ok {
		return
	}
	in, ok := ecs.Get(w, e, component.InputComponent.Kind())
	if ok && in.Pressed(component.ActionJump) {
		r.Dismiss(w)
	}
}

// Dismiss hides the current step. After the last step the dialog's
// continuation runs exactly once and the next queued dialog starts.
func (r *DialogRunner) Dismiss(w *ecs.World) {
	if !r.Active() {
		return
	}
	if e, ok := ecs.First(w, component.PlayerComponent.Kind()); ok {
		p, _ := ecs.Get(w, e, component.PlayerComponent.Kind())
		if p.State == component.PlayerWalking {
			p.State = component.PlayerFalling
		}
	}
	r.step++
	if r.step < len(r.current.Steps) {
		return
	}
	done := *r.current
	r.current = nil
	r.step = 0
	if len(r.pending) > 0 {
		next := r.pending[0]
		r.pending = r.pending[1:]
		r.current = &next
	}
	r.finish(w, done)
}

func (r *DialogRunner) finish(w *ecs.World, d Dialog) {
	switch d.Then {
	case ThenGrant:
		if GrantAbility(w, d.Grant) {
			r.logger.Info("ability granted", zap.String("ability", d.Grant))
			requestSave(w)
		}
	case ThenEnd, ThenSecretEnd:
		w.Events().Push(ecs.Event{Type: EventEnding, Data: Ending{Secret: d.Then == ThenSecretEnd}})
	}
}

// Reset drops the visible and queued dialogs.
func (r *DialogRunner) Reset() {
	r.current = nil
	r.step = 0
	r.pending = nil
}

// HintSystem shows the first-death hint when the player's hint timer runs
// out.
type HintSystem struct {
	hint Dialog
}

func NewHintSystem(steps []string) *HintSystem {
	return &HintSystem{hint: Dialog{Steps: steps}}
}

func (h *HintSystem) Update(w *ecs.World) {
	ecs.ForEach(w, component.PlayerComponent.Kind(), func(_ ecs.Entity, p *component.Player) {
		if p.HintTicks <= 0 {
			return
		}
		p.HintTicks--
		if p.HintTicks == 0 {
			showDialog(w, h.hint)
		}
	})
}
