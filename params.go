package tracklet

type (
	// Params is a snapshot of everything the control surface can adjust.
	// The render engine owns the live copy; it publishes an immutable
	// snapshot once per block through engine.ParamStore, and the control
	// side reads published snapshots for status reporting. All arrays
	// are value types, so assigning a Params copies the whole snapshot.
	Params struct {
		BPM          int
		PatternIndex int
		Playing      bool
		Recording    bool

		TrackVolumes [NumTracks]float32 // 0..1
		TrackPans    [NumTracks]float32 // -1 (left) .. 1 (right)
		TrackMutes   [NumTracks]bool
		TrackSolos   [NumTracks]bool

		DelayLevel  float32            // 0..1 send level to the delay line
		ReverbLevel float32            // 0..1 send level to the reverb
		MacroValues [NumMacros]float32 // 0..1
	}
)

// DefaultParams returns the state of a freshly powered-on unit: 120 BPM,
// pattern 0, all tracks at full volume, centered, unmuted.
func DefaultParams() Params {
	p := Params{BPM: 120}
	for i := range p.TrackVolumes {
		p.TrackVolumes[i] = 1
	}
	return p
}

// Clamp forces every field into its documented range. NaNs and
// infinities are replaced with the nearest bound so that a malformed
// value can never reach the mixer. Every snapshot is clamped before
// publication; the render engine additionally clamps defensively.
func (p *Params) Clamp() {
	if p.BPM < MinBPM {
		p.BPM = MinBPM
	}
	if p.BPM > MaxBPM {
		p.BPM = MaxBPM
	}
	if p.PatternIndex < 0 {
		p.PatternIndex = 0
	}
	if p.PatternIndex >= NumPatterns {
		p.PatternIndex = NumPatterns - 1
	}
	for i := range p.TrackVolumes {
		p.TrackVolumes[i] = clampRange(p.TrackVolumes[i], 0, 1)
		p.TrackPans[i] = clampRange(p.TrackPans[i], -1, 1)
	}
	p.DelayLevel = clampRange(p.DelayLevel, 0, 1)
	p.ReverbLevel = clampRange(p.ReverbLevel, 0, 1)
	for i := range p.MacroValues {
		p.MacroValues[i] = clampRange(p.MacroValues[i], 0, 1)
	}
}

// EffectiveMute tells whether a track is audible under the solo rule:
// when any track is soloed, every non-soloed track is treated as muted,
// regardless of its stored mute flag. The stored flags are not altered.
func (p *Params) EffectiveMute(track int) bool {
	if track < 0 || track >= NumTracks {
		return true
	}
	anySolo := false
	for _, s := range p.TrackSolos {
		if s {
			anySolo = true
			break
		}
	}
	if anySolo {
		return !p.TrackSolos[track]
	}
	return p.TrackMutes[track]
}

func clampRange(v, min, max float32) float32 {
	if v != v { // NaN
		return min
	}
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
