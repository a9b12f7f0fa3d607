package engine

import "math"

// trackVoice is the tone generator behind one track: a single sawtooth
// oscillator with an exponential decay envelope, enough to audition
// patterns and to give the mixer a real signal to shape. Each track has
// exactly one voice; a new trigger steals it.
type trackVoice struct {
	phase  float64
	delta  float64
	amp    float32
	decay  float32
	active bool
}

// voiceDecaySeconds is the time for a triggered voice to fall to
// roughly -60 dB.
const voiceDecaySeconds = 0.25

func (v *trackVoice) trigger(sampleRate int, note, velocity byte) {
	freq := 440 * math.Pow(2, (float64(note)-69)/12)
	v.delta = freq / float64(sampleRate)
	v.phase = 0
	v.amp = float32(velocity) / 127
	v.decay = float32(math.Exp(-math.Log(1000) / (voiceDecaySeconds * float64(sampleRate))))
	v.active = true
}

// render writes the voice into buf, overwriting it. Inactive voices
// write silence.
func (v *trackVoice) render(buf []float32) {
	if !v.active {
		for i := range buf {
			buf[i] = 0
		}
		return
	}
	for i := range buf {
		buf[i] = float32(2*v.phase-1) * v.amp
		v.phase += v.delta
		if v.phase >= 1 {
			v.phase -= 1
		}
		v.amp *= v.decay
	}
	if v.amp < 1e-4 {
		v.active = false
	}
}
