package component

// TTL is a frame-based time-to-live. Entities are queued for destruction when
// Frames reaches zero.
type TTL struct {
	Frames int
	// Total is the initial lifetime, used for fades.
	Total int
}

// Remaining returns the fraction of lifetime left in [0, 1].
func (t TTL) Remaining() float64 {
	if t.Total <= 0 {
		return 0
	}
	return float64(t.Frames) / float64(t.Total)
}

var TTLComponent = NewComponent[TTL]()
