package engine_test

import (
	"testing"

	"github.com/tracklet/tracklet"
	"github.com/tracklet/tracklet/engine"
)

const engineTestRate = 48000

func newTestEngine(broker *engine.Broker) *engine.Engine {
	preset := tracklet.DefaultPreset()
	preset.Patterns[0].Set(0, 0, tracklet.Step{Note: 60, Velocity: 100})
	preset.Patterns[0].Set(0, 8, tracklet.Step{Note: 64, Velocity: 80})
	return engine.NewEngine(broker, engineTestRate, &preset)
}

func TestEngineCoalescesScalarWrites(t *testing.T) {
	eng := newTestEngine(nil)
	ctl := engine.NewControl(nil, eng)
	buf := make(tracklet.AudioBuffer, 256)

	if err := ctl.SetBPM(140); err != nil {
		t.Fatal(err)
	}
	if err := ctl.SetBPM(150); err != nil {
		t.Fatal(err)
	}
	eng.Process(buf)
	if got := ctl.CurrentBPM(); got != 150 {
		t.Errorf("two SetBPM in one block: want last value 150, got %d", got)
	}
}

func TestEngineTransportAppliedInOrder(t *testing.T) {
	eng := newTestEngine(nil)
	ctl := engine.NewControl(nil, eng)
	buf := make(tracklet.AudioBuffer, 256)

	ctl.PlayPattern()
	ctl.StopPattern()
	eng.Process(buf)
	if ctl.IsPlaying() {
		t.Error("play followed by stop in one block should end stopped")
	}

	ctl.PlayPattern()
	eng.Process(buf)
	if !ctl.IsPlaying() {
		t.Error("play should leave the engine playing")
	}

	ctl.ToggleRecord()
	ctl.ToggleRecord()
	eng.Process(buf)
	if ctl.IsRecording() {
		t.Error("two record toggles in one block should cancel out")
	}
	ctl.ToggleRecord()
	eng.Process(buf)
	if !ctl.IsRecording() {
		t.Error("record toggle did not take effect")
	}
}

// A command written straight into the queue can carry any value; the
// render side clamps instead of trusting the producer.
func TestEngineClampsRawCommands(t *testing.T) {
	eng := newTestEngine(nil)
	buf := make(tracklet.AudioBuffer, 256)

	eng.Queue().Enqueue(tracklet.SetTrackVolume(2, 1.5))
	eng.Queue().Enqueue(tracklet.SetBPM(5000))
	eng.Queue().Enqueue(tracklet.SetTrackPan(3, -7))
	eng.Process(buf)

	p := eng.Store().Read()
	if p.TrackVolumes[2] != 1 {
		t.Errorf("volume 1.5 should clamp to 1, got %v", p.TrackVolumes[2])
	}
	if p.BPM != tracklet.MaxBPM {
		t.Errorf("bpm 5000 should clamp to %d, got %d", tracklet.MaxBPM, p.BPM)
	}
	if p.TrackPans[3] != -1 {
		t.Errorf("pan -7 should clamp to -1, got %v", p.TrackPans[3])
	}
}

func TestEngineIgnoresOutOfRangeIndices(t *testing.T) {
	eng := newTestEngine(nil)
	buf := make(tracklet.AudioBuffer, 256)
	before := *eng.Store().Read()

	eng.Queue().Enqueue(tracklet.Command{Op: tracklet.OpSetTrackVolume, Index: 99, Value: 0.5})
	eng.Queue().Enqueue(tracklet.Command{Op: tracklet.OpMuteTrack, Index: -1})
	eng.Process(buf)

	after := *eng.Store().Read()
	if after.TrackVolumes != before.TrackVolumes || after.TrackMutes != before.TrackMutes {
		t.Error("out-of-range indices must leave the state untouched")
	}
}

func TestEnginePlaybackProducesAudio(t *testing.T) {
	eng := newTestEngine(nil)
	ctl := engine.NewControl(nil, eng)
	buf := make(tracklet.AudioBuffer, 1024)

	eng.Process(buf)
	for i := range buf {
		if buf[i][0] != 0 || buf[i][1] != 0 {
			t.Fatal("stopped engine should render silence")
		}
	}

	ctl.PlayPattern()
	eng.Process(buf)
	var peak float32
	for i := range buf {
		if v := abs32(buf[i][0]); v > peak {
			peak = v
		}
	}
	if peak == 0 {
		t.Error("playing a pattern with a step on track 0 produced silence")
	}
}

func TestEngineLargeBufferChunking(t *testing.T) {
	eng := newTestEngine(nil)
	ctl := engine.NewControl(nil, eng)
	// larger than the internal chunk size, so Process must split it
	buf := make(tracklet.AudioBuffer, 20000)

	ctl.PlayPattern()
	eng.Process(buf)
	if !ctl.IsPlaying() {
		t.Error("status not published while chunking a large buffer")
	}
}

func TestEngineProcessDoesNotAllocate(t *testing.T) {
	eng := newTestEngine(nil)
	ctl := engine.NewControl(nil, eng)
	buf := make(tracklet.AudioBuffer, 512)

	ctl.PlayPattern()
	for i := 0; i < 64; i++ {
		eng.Process(buf) // warm up voices and sequencer state
	}
	allocs := testing.AllocsPerRun(100, func() {
		eng.Process(buf)
	})
	if allocs != 0 {
		t.Errorf("Process allocated %v times per block", allocs)
	}
}

func TestEngineStatusReachesBroker(t *testing.T) {
	broker := engine.NewBroker()
	eng := newTestEngine(broker)
	ctl := engine.NewControl(broker, eng)
	buf := make(tracklet.AudioBuffer, 512)

	ctl.PlayPattern()
	eng.Process(buf)

	var status engine.MsgToControl
	found := false
	for !found {
		select {
		case msg := <-broker.ToControl:
			if msg.HasStatus {
				status, found = msg, true
			}
		default:
			t.Fatal("no status message after a processed block")
		}
	}
	if !status.Playing || status.PatternIndex != 0 {
		t.Errorf("unexpected status %+v", status)
	}

	select {
	case audio := <-broker.ToMeter:
		if len(*audio) != len(buf) {
			t.Errorf("meter buffer has %d frames, want %d", len(*audio), len(buf))
		}
		broker.PutAudioBuffer(audio)
	default:
		t.Error("no audio handed to the meter")
	}
}
