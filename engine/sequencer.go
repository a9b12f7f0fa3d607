package engine

import (
	"math"

	"github.com/tracklet/tracklet"
)

type (
	// TriggerEvent marks a step boundary crossed during a render block.
	// Frame is the sample offset of the boundary within the block, so
	// voices can start sample-accurately.
	TriggerEvent struct {
		Frame    int
		Track    int
		Note     byte
		Velocity byte
	}

	// Sequencer advances the pattern playback position in
	// sample-accurate time. It is owned by the render engine and only
	// ever touched on the audio thread. The step clock is a fractional
	// sample accumulator: samplesPerStep is kept as a float64 and the
	// remainder survives both step advances and BPM changes, so step
	// timing does not drift no matter how long the unit plays.
	Sequencer struct {
		sampleRate float64
		patterns   *[tracklet.NumPatterns]tracklet.Pattern

		playing         bool
		patternIndex    int
		pendingPattern  int // deferred switch, -1 when none
		step            int
		samplesIntoStep float64
		samplesPerStep  float64
		retrigger       bool // play the current step at the start of the next block
	}
)

func NewSequencer(sampleRate int, patterns *[tracklet.NumPatterns]tracklet.Pattern) *Sequencer {
	s := &Sequencer{
		sampleRate:     float64(sampleRate),
		patterns:       patterns,
		pendingPattern: -1,
	}
	s.SetBPM(tracklet.DefaultParams().BPM)
	return s
}

// SetBPM recomputes the step length. The fractional position within the
// current step is deliberately kept, so tempo changes never reset or
// skew the step clock.
func (s *Sequencer) SetBPM(bpm int) {
	if bpm < tracklet.MinBPM {
		bpm = tracklet.MinBPM
	}
	if bpm > tracklet.MaxBPM {
		bpm = tracklet.MaxBPM
	}
	s.samplesPerStep = s.sampleRate * 60 / float64(bpm) / tracklet.StepsPerBeat
}

// Play starts playback from the current step. Starting from a stop
// replays the current step at the start of the next block, so the first
// row of the pattern is not silently skipped.
func (s *Sequencer) Play() {
	if s.playing {
		return
	}
	s.playing = true
	s.retrigger = true
}

// Stop halts playback and rewinds to the start of the pattern. The
// selected pattern is preserved; a deferred pattern switch takes effect
// immediately, as there is no longer a loop boundary to wait for.
func (s *Sequencer) Stop() {
	s.playing = false
	s.step = 0
	s.samplesIntoStep = 0
	s.retrigger = false
	if s.pendingPattern >= 0 {
		s.patternIndex = s.pendingPattern
		s.pendingPattern = -1
	}
}

// SelectPattern switches patterns. While stopped the switch is
// immediate and rewinds to step 0; while playing it is deferred to the
// next pattern-loop boundary so the current pattern finishes cleanly.
// A later selection supersedes an earlier deferred one.
func (s *Sequencer) SelectPattern(index int) {
	if index < 0 || index >= tracklet.NumPatterns {
		return
	}
	if s.playing {
		s.pendingPattern = index
		return
	}
	s.patternIndex = index
	s.step = 0
	s.samplesIntoStep = 0
}

func (s *Sequencer) Playing() bool     { return s.playing }
func (s *Sequencer) Step() int         { return s.step }
func (s *Sequencer) PatternIndex() int { return s.patternIndex }

// Advance moves the step clock forward by nframes samples, appending
// one TriggerEvent per step boundary crossed, in order, to events.
// events must have enough spare capacity; Advance drops events rather
// than grow the slice, as this runs on the audio thread. A boundary
// landing exactly on the end of a block belongs to the next block and
// is emitted there at frame 0.
func (s *Sequencer) Advance(nframes int, events []TriggerEvent) []TriggerEvent {
	if !s.playing {
		return events
	}
	if s.retrigger {
		s.retrigger = false
		events = s.emitStep(0, events)
	}
	frame := 0
	for frame < nframes {
		for s.samplesIntoStep >= s.samplesPerStep {
			s.samplesIntoStep -= s.samplesPerStep
			s.advanceStep()
			events = s.emitStep(frame, events)
		}
		n := nframes - frame
		if until := int(math.Ceil(s.samplesPerStep - s.samplesIntoStep)); until < n {
			n = until
		}
		s.samplesIntoStep += float64(n)
		frame += n
	}
	return events
}

func (s *Sequencer) advanceStep() {
	s.step++
	if s.step >= tracklet.StepsPerPattern {
		s.step = 0
		if s.pendingPattern >= 0 {
			s.patternIndex = s.pendingPattern
			s.pendingPattern = -1
		}
	}
}

func (s *Sequencer) emitStep(frame int, events []TriggerEvent) []TriggerEvent {
	pat := &s.patterns[s.patternIndex]
	for t := 0; t < tracklet.NumTracks; t++ {
		step := pat[t][s.step]
		if step.Note == 0 {
			continue
		}
		if len(events) == cap(events) {
			break
		}
		vel := step.Velocity
		if vel == 0 {
			vel = 100
		}
		events = append(events, TriggerEvent{
			Frame:    frame,
			Track:    t,
			Note:     step.Note,
			Velocity: vel,
		})
	}
	return events
}
