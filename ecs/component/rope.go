package component

// RopeSegment is a cosmetic node drawn between the player and a rope anchor.
// Attached segments follow the live rope; loose ones fade out via TTL.
type RopeSegment struct {
	Index    int
	Attached bool
}

var RopeSegmentComponent = NewComponent[RopeSegment]()
