package component

import "github.com/tanema/gween"

type Sign struct {
	Text   string
	Secret bool

	// Decoded is the text shown, fixed when the sign opens.
	Decoded string
	// Shown is the number of visible characters.
	Shown float64
	// Target is where Tween takes Shown.
	Target float64
	Open   bool
	Tween  *gween.Tween
}

// Visible returns the revealed prefix of the decoded text.
func (s *Sign) Visible() string {
	n := int(s.Shown)
	if n <= 0 {
		return ""
	}
	r := []rune(s.Decoded)
	if n > len(r) {
		n = len(r)
	}
	return string(r[:n])
}

var SignComponent = NewComponent[Sign]()
