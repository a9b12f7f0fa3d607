package engine_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/tracklet/tracklet"
	"github.com/tracklet/tracklet/engine"
)

func TestPresetRoundTrip(t *testing.T) {
	preset := tracklet.DefaultPreset()
	preset.BPM = 133
	preset.PatternIndex = 3
	preset.TrackVolumes[2] = 0.5
	preset.TrackPans[1] = -0.25
	preset.TrackMutes[7] = true
	preset.DelayLevel = 0.3
	preset.ReverbLevel = 0.6
	preset.MacroValues[0] = 0.9
	preset.Patterns[3].Set(0, 0, tracklet.Step{Note: 36, Velocity: 127})
	preset.Patterns[3].Set(5, 12, tracklet.Step{Note: 42, Velocity: 64})

	var buf bytes.Buffer
	if err := engine.WritePreset(&buf, &preset); err != nil {
		t.Fatal(err)
	}
	got, err := engine.ReadPreset(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if got.BPM != 133 || got.PatternIndex != 3 {
		t.Errorf("bpm/pattern: got %d/%d", got.BPM, got.PatternIndex)
	}
	if got.TrackVolumes[2] != 0.5 || got.TrackPans[1] != -0.25 || !got.TrackMutes[7] {
		t.Error("track settings did not survive the round trip")
	}
	if got.DelayLevel != 0.3 || got.ReverbLevel != 0.6 || got.MacroValues[0] != 0.9 {
		t.Error("levels did not survive the round trip")
	}
	if s := got.Patterns[3].Get(5, 12); s.Note != 42 || s.Velocity != 64 {
		t.Errorf("pattern step: got %+v", s)
	}
}

func TestReadPresetRejectsBadYAML(t *testing.T) {
	_, err := engine.ReadPreset(strings.NewReader("{this is: [not yaml"))
	if !errors.Is(err, tracklet.ErrPresetLoadFailed) {
		t.Errorf("want ErrPresetLoadFailed, got %v", err)
	}
}

func TestReadPresetRejectsBadGeometry(t *testing.T) {
	cases := []string{
		"bpm: 10000",
		"pattern: 99",
		"trackvolumes: [1,1,1,1,1,1,1,1,1,1,1,1]",
	}
	for _, src := range cases {
		if _, err := engine.ReadPreset(strings.NewReader(src)); !errors.Is(err, tracklet.ErrPresetLoadFailed) {
			t.Errorf("%q: want ErrPresetLoadFailed, got %v", src, err)
		}
	}
}

// ReadPreset tolerates presets saved with fewer tracks; missing
// entries keep their defaults.
func TestReadPresetPartialGeometry(t *testing.T) {
	got, err := engine.ReadPreset(strings.NewReader("bpm: 90\ntrackvolumes: [0.1, 0.2]\n"))
	if err != nil {
		t.Fatal(err)
	}
	if got.BPM != 90 {
		t.Errorf("bpm: got %d", got.BPM)
	}
	p := got.Params()
	if p.TrackVolumes[0] != 0.1 || p.TrackVolumes[1] != 0.2 {
		t.Errorf("loaded volumes not applied: %v", p.TrackVolumes)
	}
	if p.TrackVolumes[2] != 1 {
		t.Errorf("missing volume should default to 1, got %v", p.TrackVolumes[2])
	}
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWritePresetFailures(t *testing.T) {
	preset := tracklet.DefaultPreset()
	if err := engine.WritePreset(failWriter{}, &preset); !errors.Is(err, tracklet.ErrPresetSaveFailed) {
		t.Errorf("write failure: want ErrPresetSaveFailed, got %v", err)
	}

	preset.BPM = 0 // invalid, refused before serializing
	var buf bytes.Buffer
	if err := engine.WritePreset(&buf, &preset); !errors.Is(err, tracklet.ErrPresetSaveFailed) {
		t.Errorf("invalid preset: want ErrPresetSaveFailed, got %v", err)
	}
	if buf.Len() != 0 {
		t.Error("invalid preset still produced output")
	}
}
