package system

import (
	"fmt"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/cliffhanger/ecs"
	"github.com/milk9111/cliffhanger/ecs/component"
)

// InputSource produces raw action values for one tick.
type InputSource interface {
	Sample() [component.ActionCount]float64
}

// KeyboardGamepadSource reads configured keys and the first standard gamepad.
type KeyboardGamepadSource struct {
	keys     [component.ActionCount][]ebiten.Key
	deadzone float64
}

// NewKeyboardGamepadSource parses bindings of action name to ebiten key names.
func NewKeyboardGamepadSource(bindings map[string][]string, deadzone float64) (*KeyboardGamepadSource, error) {
	src := &KeyboardGamepadSource{deadzone: deadzone}
	for name, keyNames := range bindings {
		action, ok := component.ParseAction(name)
		if !ok {
			return nil, fmt.Errorf("input: unknown action %q", name)
		}
		for _, keyName := range keyNames {
			var key ebiten.Key
			if err := key.UnmarshalText([]byte(keyName)); err != nil {
				return nil, fmt.Errorf("input: action %s: %w", name, err)
			}
			src.keys[action] = append(src.keys[action], key)
		}
	}
	return src, nil
}

func (s *KeyboardGamepadSource) Sample() [component.ActionCount]float64 {
	var values [component.ActionCount]float64
	for action, keys := range s.keys {
		for _, key := range keys {
			if ebiten.IsKeyPressed(key) {
				values[action] = 1
				break
			}
		}
	}

	gamepads := ebiten.AppendGamepadIDs(nil)
	if len(gamepads) == 0 {
		return values
	}
	id := gamepads[0]
	if !ebiten.IsStandardGamepadLayoutAvailable(id) {
		return values
	}

	buttons := [...]struct {
		action component.Action
		button ebiten.StandardGamepadButton
	}{
		{component.ActionUp, ebiten.StandardGamepadButtonLeftTop},
		{component.ActionDown, ebiten.StandardGamepadButtonLeftBottom},
		{component.ActionLeft, ebiten.StandardGamepadButtonLeftLeft},
		{component.ActionRight, ebiten.StandardGamepadButtonLeftRight},
		{component.ActionJump, ebiten.StandardGamepadButtonRightBottom},
		{component.ActionMenu, ebiten.StandardGamepadButtonCenterRight},
	}
	for _, b := range buttons {
		if ebiten.IsStandardGamepadButtonPressed(id, b.button) {
			values[b.action] = 1
		}
	}

	lx := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal)
	ly := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickVertical)
	applyAxis(&values, component.ActionLeft, component.ActionRight, lx, s.deadzone)
	applyAxis(&values, component.ActionUp, component.ActionDown, ly, s.deadzone)
	return values
}

// applyAxis splits a stick axis into its negative and positive actions.
func applyAxis(values *[component.ActionCount]float64, neg, pos component.Action, v, deadzone float64) {
	if math.Abs(v) <= deadzone {
		return
	}
	if v < 0 {
		values[neg] = math.Max(values[neg], -v)
	} else {
		values[pos] = math.Max(values[pos], v)
	}
}

// InputSystem advances every Input component once per fixed tick, including
// paused ticks.
type InputSystem struct {
	source InputSource
	last   [component.ActionCount]float64
}

func NewInputSystem(source InputSource) *InputSystem {
	return &InputSystem{source: source}
}

func (i *InputSystem) Update(w *ecs.World) {
	if i == nil || w == nil {
		return
	}
	if i.source != nil {
		i.last = i.source.Sample()
	}
	ecs.ForEach(w, component.InputComponent.Kind(), func(_ ecs.Entity, input *component.Input) {
		input.Advance(i.last)
	})
}

// Last returns the values sampled on the latest tick.
func (i *InputSystem) Last() [component.ActionCount]float64 {
	return i.last
}
