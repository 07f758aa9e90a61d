package component

// Action is a logical input action.
type Action int

const (
	ActionUp Action = iota
	ActionDown
	ActionLeft
	ActionRight
	ActionJump
	ActionMenu
	ActionCount
)

var actionNames = [ActionCount]string{"up", "down", "left", "right", "jump", "menu"}

func (a Action) String() string {
	if a < 0 || a >= ActionCount {
		return "unknown"
	}
	return actionNames[a]
}

// ParseAction maps a binding name to an Action.
func ParseAction(name string) (Action, bool) {
	for i, n := range actionNames {
		if n == name {
			return Action(i), true
		}
	}
	return 0, false
}

// Input holds edge-detected action state. Advance must run exactly once per
// fixed tick so pressed/released never repeat across paused ticks.
type Input struct {
	value [ActionCount]float64
	prev  [ActionCount]float64
}

func (in *Input) Advance(values [ActionCount]float64) {
	in.prev = in.value
	for i, v := range values {
		if v > 1 {
			v = 1
		} else if v < -1 {
			v = -1
		}
		in.value[i] = v
	}
}

func (in *Input) Value(a Action) float64 {
	if in == nil || a < 0 || a >= ActionCount {
		return 0
	}
	return in.value[a]
}

func (in *Input) Held(a Action) bool {
	return in.Value(a) > 0
}

func (in *Input) Pressed(a Action) bool {
	if in == nil || a < 0 || a >= ActionCount {
		return false
	}
	return in.value[a] > 0 && in.prev[a] <= 0
}

func (in *Input) Released(a Action) bool {
	if in == nil || a < 0 || a >= ActionCount {
		return false
	}
	return in.value[a] <= 0 && in.prev[a] > 0
}

var InputComponent = NewComponent[Input]()
