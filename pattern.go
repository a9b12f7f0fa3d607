package tracklet

type (
	// Step is a single cell in a pattern: a MIDI note number and a
	// velocity. Note 0 means the cell is empty and triggers nothing.
	Step struct {
		Note     byte `yaml:"note"`
		Velocity byte `yaml:"velocity,omitempty"`
	}

	// TrackRow is the sequence of steps one track plays within a
	// pattern.
	TrackRow [StepsPerPattern]Step

	// Pattern holds a fixed grid of steps, one row per track. Patterns
	// are plain values; the render side indexes them directly and never
	// resizes them.
	Pattern [NumTracks]TrackRow
)

// Get returns the step at (track, step), or an empty Step when either
// index is out of range, so callers never have to bounds-check first.
func (p *Pattern) Get(track, step int) Step {
	if track < 0 || track >= NumTracks || step < 0 || step >= StepsPerPattern {
		return Step{}
	}
	return p[track][step]
}

// Set writes the step at (track, step), ignoring out-of-range indices.
func (p *Pattern) Set(track, step int, s Step) {
	if track < 0 || track >= NumTracks || step < 0 || step >= StepsPerPattern {
		return
	}
	p[track][step] = s
}

// Empty reports whether no cell in the pattern triggers a note.
func (p *Pattern) Empty() bool {
	for t := range p {
		for s := range p[t] {
			if p[t][s].Note > 0 {
				return false
			}
		}
	}
	return true
}
