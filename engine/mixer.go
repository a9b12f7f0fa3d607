package engine

import (
	"math"

	"github.com/tracklet/tracklet"
)

// gainRampMs is the window over which any gain change is linearly
// interpolated. A few milliseconds is short enough to feel immediate
// and long enough to avoid audible clicks.
const gainRampMs = 5

type (
	// gainRamp moves a gain linearly from its current value to a target
	// over a fixed window. Mute, solo, volume and pan changes all end
	// up as ramp targets; nothing ever steps a gain discontinuously.
	gainRamp struct {
		current, target, step float32
	}

	// Mixer applies the current snapshot's per-track gains to the
	// per-track audio, sums the result to stereo and runs the delay and
	// reverb sends on the sum. All DSP state is preallocated in
	// NewMixer; Process is allocation-free.
	Mixer struct {
		rampLen int

		// volume, pan and effective mute collapse into one gain pair
		// per track, ramped independently per channel
		gainL, gainR [tracklet.NumTracks]gainRamp

		delaySend, reverbSend gainRamp

		delay  delayLine
		reverb reverb
	}
)

func (g *gainRamp) set(target float32, window int) {
	g.target = target
	if window <= 0 || g.current == target {
		g.current = target
		g.step = 0
		return
	}
	g.step = (target - g.current) / float32(window)
}

func (g *gainRamp) next() float32 {
	if g.step != 0 {
		g.current += g.step
		if (g.step > 0 && g.current >= g.target) ||
			(g.step < 0 && g.current <= g.target) {
			g.current = g.target
			g.step = 0
		}
	}
	return g.current
}

func NewMixer(sampleRate int) *Mixer {
	m := &Mixer{
		rampLen: sampleRate * gainRampMs / 1000,
		delay:   newDelayLine(sampleRate),
		reverb:  newReverb(sampleRate),
	}
	return m
}

// Apply recomputes every ramp target from a published snapshot. Called
// once per block on the audio thread, right after publication.
func (m *Mixer) Apply(p *tracklet.Params) {
	for t := 0; t < tracklet.NumTracks; t++ {
		var targetL, targetR float32
		if !p.EffectiveMute(t) {
			vol := p.TrackVolumes[t]
			pan := float64(p.TrackPans[t])
			// equal-power panning; center leaves both channels at -3 dB
			targetL = vol * float32(math.Sqrt((1-pan)/2))
			targetR = vol * float32(math.Sqrt((1+pan)/2))
		}
		m.gainL[t].set(targetL, m.rampLen)
		m.gainR[t].set(targetR, m.rampLen)
	}
	m.delaySend.set(p.DelayLevel, m.rampLen)
	m.reverbSend.set(p.ReverbLevel, m.rampLen)
}

// Process mixes the per-track mono buffers into out. tracks[t] must
// be at least len(out) samples long.
func (m *Mixer) Process(tracks *[tracklet.NumTracks][]float32, out tracklet.AudioBuffer) {
	for i := range out {
		var l, r float32
		for t := 0; t < tracklet.NumTracks; t++ {
			v := tracks[t][i]
			l += v * m.gainL[t].next()
			r += v * m.gainR[t].next()
		}
		ds := m.delaySend.next()
		rs := m.reverbSend.next()
		dl, dr := m.delay.process(l*ds, r*ds)
		wl, wr := m.reverb.process(l*rs, r*rs)
		out[i][0] = l + dl + wl
		out[i][1] = r + dr + wr
	}
}
