package engine

type (
	// delayLine is a stereo feedback delay with a one-pole damping
	// filter in the feedback path. The buffer length is fixed at
	// construction; process never allocates.
	delayLine struct {
		buf       [2][]float32
		pos       int
		feedback  float32
		damp      float32
		dampState [2]float32
	}

	// comb is a feedback comb filter with damping, one of the parallel
	// stages of the reverb.
	comb struct {
		buf         []float32
		pos         int
		feedback    float32
		damp        float32
		filterState float32
	}

	// allpass diffuses the comb output.
	allpass struct {
		buf []float32
		pos int
	}

	// reverb is a small Schroeder reverberator: four parallel damped
	// combs into two series allpasses per channel, with the right
	// channel's delays offset slightly for stereo width.
	reverb struct {
		combs     [2][4]comb
		allpasses [2][2]allpass
	}
)

func newDelayLine(sampleRate int) delayLine {
	n := sampleRate * 3 / 8 // dotted eighth at 120 BPM
	return delayLine{
		buf:      [2][]float32{make([]float32, n), make([]float32, n)},
		feedback: 0.45,
		damp:     0.35,
	}
}

func (d *delayLine) process(inL, inR float32) (outL, outR float32) {
	outL = d.buf[0][d.pos]
	outR = d.buf[1][d.pos]
	d.dampState[0] += (outL - d.dampState[0]) * (1 - d.damp)
	d.dampState[1] += (outR - d.dampState[1]) * (1 - d.damp)
	d.buf[0][d.pos] = inL + d.dampState[0]*d.feedback
	d.buf[1][d.pos] = inR + d.dampState[1]*d.feedback
	d.pos++
	if d.pos >= len(d.buf[0]) {
		d.pos = 0
	}
	return outL, outR
}

func (c *comb) process(in float32) float32 {
	out := c.buf[c.pos]
	c.filterState = out*(1-c.damp) + c.filterState*c.damp
	c.buf[c.pos] = in + c.filterState*c.feedback
	c.pos++
	if c.pos >= len(c.buf) {
		c.pos = 0
	}
	return out
}

func (a *allpass) process(in float32) float32 {
	b := a.buf[a.pos]
	out := b - in
	a.buf[a.pos] = in + b*0.5
	a.pos++
	if a.pos >= len(a.buf) {
		a.pos = 0
	}
	return out
}

// Classic Schroeder tunings at 44.1 kHz, scaled to the actual rate.
var (
	combTunings    = [4]int{1116, 1188, 1277, 1356}
	allpassTunings = [2]int{556, 441}
)

const stereoSpread = 23

func newReverb(sampleRate int) reverb {
	var r reverb
	scale := func(n, offset int) int {
		return (n+offset)*sampleRate/44100 + 1
	}
	for ch := 0; ch < 2; ch++ {
		offset := ch * stereoSpread
		for i, n := range combTunings {
			r.combs[ch][i] = comb{
				buf:      make([]float32, scale(n, offset)),
				feedback: 0.84,
				damp:     0.2,
			}
		}
		for i, n := range allpassTunings {
			r.allpasses[ch][i] = allpass{buf: make([]float32, scale(n, offset))}
		}
	}
	return r
}

func (r *reverb) process(inL, inR float32) (outL, outR float32) {
	in := [2]float32{inL, inR}
	var out [2]float32
	for ch := 0; ch < 2; ch++ {
		var sum float32
		for i := range r.combs[ch] {
			sum += r.combs[ch][i].process(in[ch])
		}
		for i := range r.allpasses[ch] {
			sum = r.allpasses[ch][i].process(sum)
		}
		out[ch] = sum * 0.25
	}
	return out[0], out[1]
}
