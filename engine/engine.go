package engine

import (
	"github.com/tracklet/tracklet"
)

const (
	// maxBlockFrames bounds the scratch buffers; larger host buffers
	// are processed in chunks of this size.
	maxBlockFrames = 8192

	// maxEventsPerBlock bounds the trigger event scratch. Even at the
	// fastest BPM a chunk crosses around a dozen step boundaries, each
	// fanning out to at most NumTracks events.
	maxEventsPerBlock = 256
)

// Engine is the render side of the controller. It owns the live
// parameter state, the sequencer and the mixer; the audio I/O layer
// calls Process once per block from the audio thread, and nothing else
// ever touches the engine's internals. All buffers are preallocated in
// NewEngine, so Process never allocates, locks or blocks.
type Engine struct {
	broker *Broker
	store  *ParamStore
	queue  *CommandQueue
	seq    *Sequencer
	mixer  *Mixer

	sampleRate int
	patterns   [tracklet.NumPatterns]tracklet.Pattern
	voices     [tracklet.NumTracks]trackVoice

	// the two snapshot slots; the engine publishes one while using the
	// other as the next block's working copy
	params [2]tracklet.Params
	cur    int

	events    []TriggerEvent
	trackBufs [tracklet.NumTracks][]float32
}

// NewEngine builds an engine playing the given preset. The preset is
// copied; the caller keeps ownership of it.
func NewEngine(broker *Broker, sampleRate int, preset *tracklet.Preset) *Engine {
	e := &Engine{
		broker:     broker,
		store:      NewParamStore(),
		queue:      NewCommandQueue(),
		mixer:      NewMixer(sampleRate),
		sampleRate: sampleRate,
		events:     make([]TriggerEvent, 0, maxEventsPerBlock),
	}
	copy(e.patterns[:], preset.Patterns)
	e.seq = NewSequencer(sampleRate, &e.patterns)
	for t := range e.trackBufs {
		e.trackBufs[t] = make([]float32, maxBlockFrames)
	}
	e.params[0] = preset.Params()
	e.seq.SetBPM(e.params[0].BPM)
	e.seq.SelectPattern(e.params[0].PatternIndex)
	e.store.Publish(&e.params[0])
	e.mixer.Apply(&e.params[0])
	return e
}

// Store returns the parameter store for control-side status reads.
func (e *Engine) Store() *ParamStore { return e.store }

// Queue returns the command queue the control side enqueues into.
func (e *Engine) Queue() *CommandQueue { return e.queue }

// Process renders one block of audio into buf. Per block, in order:
// drain pending commands into a working copy of the parameter state,
// clamp and publish it, advance the sequencer collecting trigger
// events, render the track voices at their event offsets and run the
// mixer/FX stage. Process never fails; out-of-range values are clamped
// again defensively, out-of-range indices are ignored.
func (e *Engine) Process(buf tracklet.AudioBuffer) {
	for len(buf) > 0 {
		n := len(buf)
		if n > maxBlockFrames {
			n = maxBlockFrames
		}
		e.processBlock(buf[:n])
		buf = buf[n:]
	}
}

func (e *Engine) processBlock(buf tracklet.AudioBuffer) {
	working := &e.params[1-e.cur]
	*working = e.params[e.cur]

	// Applying commands in FIFO order onto the working copy gives the
	// coalescing rule for free: a later write to the same scalar field
	// simply overwrites the earlier one, while transport commands each
	// step the state machines as they are encountered.
	for c := range e.queue.Drain {
		e.applyCommand(working, c)
	}
	working.Clamp()

	e.seq.SetBPM(working.BPM)
	working.Playing = e.seq.Playing()
	working.PatternIndex = e.seq.PatternIndex()

	e.store.Publish(working)
	e.cur = 1 - e.cur
	e.mixer.Apply(working)

	events := e.seq.Advance(len(buf), e.events[:0])

	for t := range e.trackBufs {
		tb := e.trackBufs[t][:len(buf)]
		start := 0
		for _, ev := range events {
			if ev.Track != t {
				continue
			}
			if ev.Frame > start {
				e.voices[t].render(tb[start:ev.Frame])
				start = ev.Frame
			}
			e.voices[t].trigger(e.sampleRate, ev.Note, ev.Velocity)
		}
		e.voices[t].render(tb[start:])
	}

	e.mixer.Process(&e.trackBufs, buf)

	e.sendStatus(buf)
}

func (e *Engine) applyCommand(p *tracklet.Params, c tracklet.Command) {
	switch c.Op {
	case tracklet.OpPlay:
		e.seq.Play()
	case tracklet.OpStop:
		e.seq.Stop()
	case tracklet.OpToggleRecord:
		p.Recording = !p.Recording
	case tracklet.OpSelectPattern:
		e.seq.SelectPattern(c.Index)
	case tracklet.OpSetBPM:
		p.BPM = c.Index
	case tracklet.OpSetTrackVolume:
		if c.Index >= 0 && c.Index < tracklet.NumTracks {
			p.TrackVolumes[c.Index] = c.Value
		}
	case tracklet.OpSetTrackPan:
		if c.Index >= 0 && c.Index < tracklet.NumTracks {
			p.TrackPans[c.Index] = c.Value
		}
	case tracklet.OpMuteTrack:
		if c.Index >= 0 && c.Index < tracklet.NumTracks {
			p.TrackMutes[c.Index] = true
		}
	case tracklet.OpUnmuteTrack:
		if c.Index >= 0 && c.Index < tracklet.NumTracks {
			p.TrackMutes[c.Index] = false
		}
	case tracklet.OpSoloTrack:
		if c.Index >= 0 && c.Index < tracklet.NumTracks {
			p.TrackSolos[c.Index] = !p.TrackSolos[c.Index]
		}
	case tracklet.OpSetDelayLevel:
		p.DelayLevel = c.Value
	case tracklet.OpSetReverbLevel:
		p.ReverbLevel = c.Value
	case tracklet.OpSetMacroValue:
		if c.Index >= 0 && c.Index < tracklet.NumMacros {
			p.MacroValues[c.Index] = c.Value
		}
	}
}

// sendStatus hands the block's position and audio to the control side.
// Both sends are non-blocking; if the control side is not keeping up
// the messages are dropped and the audio buffer goes back to the pool.
func (e *Engine) sendStatus(buf tracklet.AudioBuffer) {
	if e.broker == nil {
		return
	}
	TrySend(e.broker.ToControl, MsgToControl{
		HasStatus:    true,
		Step:         e.seq.Step(),
		PatternIndex: e.seq.PatternIndex(),
		Playing:      e.seq.Playing(),
	})
	bufPtr := e.broker.GetAudioBuffer()
	*bufPtr = append(*bufPtr, buf...)
	if !TrySend(e.broker.ToMeter, bufPtr) {
		e.broker.PutAudioBuffer(bufPtr)
	}
}
