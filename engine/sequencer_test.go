package engine_test

import (
	"testing"

	"github.com/tracklet/tracklet"
	"github.com/tracklet/tracklet/engine"
)

// fullPattern returns patterns where pattern index idx has a note on
// every step of track 0, so every step boundary emits one event.
func fullPattern(idx int) *[tracklet.NumPatterns]tracklet.Pattern {
	var patterns [tracklet.NumPatterns]tracklet.Pattern
	for step := 0; step < tracklet.StepsPerPattern; step++ {
		patterns[idx].Set(0, step, tracklet.Step{Note: 60, Velocity: 100})
	}
	return &patterns
}

func TestSequencerStepBoundaryArithmetic(t *testing.T) {
	// BPM=120, 4 steps per beat, 48 kHz: 48000*60/120/4 = 6000 samples
	// per step.
	seq := engine.NewSequencer(48000, fullPattern(0))
	seq.SetBPM(120)
	seq.Play()

	var events []engine.TriggerEvent
	scratch := make([]engine.TriggerEvent, 0, 16)

	// Block 1 plays step 0 at its first sample.
	events = seq.Advance(2000, scratch[:0])
	if len(events) != 1 || events[0].Frame != 0 {
		t.Fatalf("block 1: expected the current step at frame 0, got %+v", events)
	}
	// Blocks 2 and 3 cross no boundary; the step clock reaches exactly
	// 6000 at the end of block 3.
	for block := 2; block <= 3; block++ {
		events = seq.Advance(2000, scratch[:0])
		if len(events) != 0 {
			t.Fatalf("block %d: unexpected events %+v", block, events)
		}
	}
	if seq.Step() != 0 {
		t.Fatalf("after 6000 samples the current step should still be 0, got %d", seq.Step())
	}
	// The boundary lands on the first sample of block 4.
	events = seq.Advance(2000, scratch[:0])
	if len(events) != 1 || events[0].Frame != 0 {
		t.Fatalf("block 4: expected one event at frame 0, got %+v", events)
	}
	if seq.Step() != 1 {
		t.Fatalf("expected step 1 after the boundary, got %d", seq.Step())
	}
}

func TestSequencerBlockSpanningMultipleSteps(t *testing.T) {
	seq := engine.NewSequencer(48000, fullPattern(0))
	seq.SetBPM(120)
	seq.Play()
	events := seq.Advance(13000, make([]engine.TriggerEvent, 0, 16))
	wantFrames := []int{0, 6000, 12000}
	if len(events) != len(wantFrames) {
		t.Fatalf("expected %d events, got %+v", len(wantFrames), events)
	}
	for i, ev := range events {
		if ev.Frame != wantFrames[i] {
			t.Errorf("event %d at frame %d, expected %d", i, ev.Frame, wantFrames[i])
		}
	}
}

func TestSequencerDriftBounded(t *testing.T) {
	// An awkward BPM makes samplesPerStep fractional; the boundary
	// count over a long run must match the exact ratio within one step.
	const sampleRate = 44100
	const bpm = 133
	const blockLen = 480
	const blocks = 2000
	seq := engine.NewSequencer(sampleRate, fullPattern(0))
	seq.SetBPM(bpm)
	seq.Play()
	scratch := make([]engine.TriggerEvent, 0, 64)
	boundaries := 0
	for i := 0; i < blocks; i++ {
		// recomputing every block must be idempotent
		seq.SetBPM(bpm)
		boundaries += len(seq.Advance(blockLen, scratch[:0]))
	}
	boundaries-- // the initial step trigger is not a boundary
	samplesPerStep := float64(sampleRate) * 60 / bpm / tracklet.StepsPerBeat
	want := int(float64(blockLen*blocks) / samplesPerStep)
	if diff := boundaries - want; diff < -1 || diff > 1 {
		t.Errorf("crossed %d boundaries over %d samples, expected %d±1",
			boundaries, blockLen*blocks, want)
	}
}

func TestSequencerDeferredPatternSwitch(t *testing.T) {
	patterns := fullPattern(0)
	for step := 0; step < tracklet.StepsPerPattern; step++ {
		patterns[5].Set(0, step, tracklet.Step{Note: 72, Velocity: 100})
	}
	seq := engine.NewSequencer(48000, patterns)
	seq.SetBPM(120)
	seq.Play()
	scratch := make([]engine.TriggerEvent, 0, 64)

	// advance to step 3 (3 boundaries past the initial trigger)
	seq.Advance(6000*3+100, scratch[:0])
	if seq.Step() != 3 {
		t.Fatalf("expected to be at step 3, got %d", seq.Step())
	}
	seq.SelectPattern(5)
	if seq.PatternIndex() != 0 {
		t.Fatalf("pattern switched mid-pattern while playing")
	}
	// advance up to the last step: still the old pattern
	seq.Advance(6000*12, scratch[:0])
	if seq.Step() != 15 || seq.PatternIndex() != 0 {
		t.Fatalf("at step %d pattern %d, expected step 15 pattern 0",
			seq.Step(), seq.PatternIndex())
	}
	// crossing the loop boundary applies the switch
	events := seq.Advance(6000, scratch[:0])
	if seq.Step() != 0 || seq.PatternIndex() != 5 {
		t.Fatalf("at step %d pattern %d, expected step 0 pattern 5",
			seq.Step(), seq.PatternIndex())
	}
	if len(events) != 1 || events[0].Note != 72 {
		t.Fatalf("expected the new pattern's note after the loop, got %+v", events)
	}
}

func TestSequencerSelectPatternSuperseded(t *testing.T) {
	seq := engine.NewSequencer(48000, fullPattern(0))
	seq.SetBPM(120)
	seq.Play()
	seq.SelectPattern(3)
	seq.SelectPattern(7) // supersedes the deferred 3
	seq.Advance(6000*tracklet.StepsPerPattern, make([]engine.TriggerEvent, 0, 64))
	if seq.PatternIndex() != 7 {
		t.Errorf("expected the later selection to win, got pattern %d", seq.PatternIndex())
	}
}

func TestSequencerStopResetsPosition(t *testing.T) {
	seq := engine.NewSequencer(48000, fullPattern(0))
	seq.SetBPM(120)
	seq.Play()
	seq.Advance(6000*5+100, make([]engine.TriggerEvent, 0, 64))
	seq.SelectPattern(2)
	seq.Stop()
	if seq.Playing() {
		t.Fatal("still playing after Stop")
	}
	if seq.Step() != 0 {
		t.Errorf("Stop should rewind to step 0, got %d", seq.Step())
	}
	if seq.PatternIndex() != 2 {
		t.Errorf("Stop should apply the pending pattern, got %d", seq.PatternIndex())
	}
	if events := seq.Advance(6000, make([]engine.TriggerEvent, 0, 16)); len(events) != 0 {
		t.Errorf("stopped sequencer emitted events: %+v", events)
	}
}

func TestSequencerSelectWhileStopped(t *testing.T) {
	seq := engine.NewSequencer(48000, fullPattern(0))
	seq.SelectPattern(9)
	if seq.PatternIndex() != 9 || seq.Step() != 0 {
		t.Errorf("stopped switch should be immediate, got pattern %d step %d",
			seq.PatternIndex(), seq.Step())
	}
}
