package system

import (
	"encoding/binary"
	"math"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"go.uber.org/zap"
)

const (
	audioSampleRate = 44100
	audioVolume     = 0.3
	toneAttack      = 0.005
)

type wave int

const (
	waveSine wave = iota
	waveSquare
	waveSaw
)

// tone is one synthesized note; sweep bends the pitch linearly over its
// length.
type tone struct {
	wave     wave
	freq     float64
	sweep    float64
	duration float64
}

var cueTones = map[Cue][]tone{
	CueJump:       {{waveSquare, 440, 220, 0.08}},
	CueSplash:     {{waveSaw, 180, -120, 0.15}},
	CueDeath:      {{waveSaw, 220, -180, 0.3}},
	CueCheckpoint: {{waveSine, 660, 0, 0.08}, {waveSine, 880, 0, 0.12}},
	CueTeleport:   {{waveSine, 330, 660, 0.2}},
	CueRope:       {{waveSquare, 300, 300, 0.06}},
	CuePickup:     {{waveSquare, 987.77, 0, 0.08}, {waveSquare, 1318.51, 0, 0.2}},
	CueBreak:      {{waveSaw, 120, -60, 0.25}},
	CueSecret:     {{waveSine, 523.25, 0, 0.1}, {waveSine, 659.25, 0, 0.1}, {waveSine, 783.99, 0, 0.25}},
}

// AudioSystem plays cue sounds synthesized at startup. A nil context plays
// nothing.
type AudioSystem struct {
	players map[Cue]*audio.Player
	muted   bool
	logger  *zap.Logger
}

func NewAudioSystem(ctx *audio.Context, logger *zap.Logger) *AudioSystem {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &AudioSystem{players: make(map[Cue]*audio.Player), logger: logger}
	if ctx == nil {
		return a
	}
	for cue, tones := range cueTones {
		p := ctx.NewPlayerFromBytes(synthesize(tones))
		p.SetVolume(audioVolume)
		a.players[cue] = p
	}
	return a
}

func (a *AudioSystem) SetMuted(muted bool) {
	a.muted = muted
}

func (a *AudioSystem) Play(cue Cue) {
	if a == nil || a.muted {
		return
	}
	p, ok := a.players[cue]
	if !ok {
		return
	}
	if err := p.Rewind(); err != nil {
		a.logger.Warn("audio rewind failed", zap.String("cue", string(cue)), zap.Error(err))
		return
	}
	p.Play()
}

// synthesize renders tones back to back as 16-bit stereo PCM.
func synthesize(tones []tone) []byte {
	var samples []float64
	for _, t := range tones {
		samples = append(samples, oscillate(t)...)
	}
	out := make([]byte, len(samples)*4)
	for i, s := range samples {
		v := int16(math.Max(-1, math.Min(1, s)) * math.MaxInt16)
		binary.LittleEndian.PutUint16(out[i*4:], uint16(v))
		binary.LittleEndian.PutUint16(out[i*4+2:], uint16(v))
	}
	return out
}

func oscillate(t tone) []float64 {
	n := int(t.duration * audioSampleRate)
	buf := make([]float64, n)
	attackSamples := toneAttack * audioSampleRate
	attack := int(attackSamples)
	phase := 0.0
	for i := range buf {
		progress := float64(i) / float64(n)
		switch t.wave {
		case waveSine:
			buf[i] = math.Sin(2 * math.Pi * phase)
		case waveSquare:
			if phase < 0.5 {
				buf[i] = 1
			} else {
				buf[i] = -1
			}
		case waveSaw:
			buf[i] = 2 * (phase - 0.5)
		}
		vol := 1 - progress
		if i < attack {
			vol = float64(i) / float64(attack)
		}
		buf[i] *= vol

		phase += (t.freq + t.sweep*progress) / audioSampleRate
		if phase >= 1 {
			phase -= math.Floor(phase)
		}
	}
	return buf
}
