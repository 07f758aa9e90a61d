package common

import (
	"math"
	"testing"

	"github.com/jakecoffman/cp"
)

func TestAngleDifference(t *testing.T) {
	cases := []struct {
		name string
		a, b float64
		want float64
	}{
		{"same", 90, 90, 0},
		{"quarter_ccw", 0, 90, 90},
		{"quarter_cw", 90, 0, -90},
		{"wraps_positive", 350, 10, 20},
		{"wraps_negative", 10, 350, -20},
		{"down_vs_minus_ninety", 270, -90, 0},
		{"half_turn", 0, 180, -180},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := AngleDifference(c.a, c.b)
			if math.Abs(got-c.want) > 1e-9 {
				t.Fatalf("AngleDifference(%v, %v) = %v, want %v", c.a, c.b, got, c.want)
			}
		})
	}
}

func TestVectorAngle(t *testing.T) {
	cases := []struct {
		name string
		v    cp.Vector
		want float64
	}{
		{"right", cp.Vector{X: 1}, 0},
		{"up", cp.Vector{Y: 2}, 90},
		{"left", cp.Vector{X: -3}, 180},
		{"down", cp.Vector{Y: -1}, -90},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := VectorAngle(c.v); math.Abs(got-c.want) > 1e-9 {
				t.Fatalf("VectorAngle(%v) = %v, want %v", c.v, got, c.want)
			}
		})
	}
}

func TestFloorCell(t *testing.T) {
	x, y := FloorCell(cp.Vector{X: -0.25, Y: 2.75})
	if x != -1 || y != 2 {
		t.Fatalf("expected (-1, 2), got (%d, %d)", x, y)
	}
}
