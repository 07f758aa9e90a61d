package common

import (
	"math"

	"github.com/jakecoffman/cp"
)

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// AngleDifference returns the signed shortest rotation in degrees from a to b,
// in the range [-180, 180).
func AngleDifference(a, b float64) float64 {
	diff := math.Mod(b-a, 360)
	if diff < -180 {
		diff += 360
	}
	if diff >= 180 {
		diff -= 360
	}
	return diff
}

// VectorAngle returns the direction of v in degrees, counter-clockwise from +X.
func VectorAngle(v cp.Vector) float64 {
	return math.Atan2(v.Y, v.X) * 180 / math.Pi
}

// Rotate returns v rotated counter-clockwise by deg degrees.
func Rotate(v cp.Vector, deg float64) cp.Vector {
	return v.Rotate(cp.ForAngle(deg * math.Pi / 180))
}

func Sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}

// FloorCell converts a world position to the integer tile cell containing it.
func FloorCell(v cp.Vector) (int, int) {
	return int(math.Floor(v.X)), int(math.Floor(v.Y))
}
