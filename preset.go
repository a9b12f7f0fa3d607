package tracklet

import (
	"errors"
	"fmt"
)

// Preset is the serializable state of the unit: the pattern bank plus
// the initial mix parameters. Slices are used instead of the fixed
// arrays so that presets saved with a different geometry still load;
// Validate rejects anything that cannot be mapped onto this build.
type Preset struct {
	BPM          int       `yaml:"bpm"`
	PatternIndex int       `yaml:"pattern"`
	TrackVolumes []float32 `yaml:"trackvolumes,flow"`
	TrackPans    []float32 `yaml:"trackpans,flow"`
	TrackMutes   []bool    `yaml:"trackmutes,flow"`
	DelayLevel   float32   `yaml:"delaylevel"`
	ReverbLevel  float32   `yaml:"reverblevel"`
	MacroValues  []float32 `yaml:"macrovalues,flow"`
	Patterns     []Pattern `yaml:"patterns"`
}

// DefaultPreset returns an empty pattern bank with DefaultParams mix
// settings.
func DefaultPreset() Preset {
	p := DefaultParams()
	return Preset{
		BPM:          p.BPM,
		TrackVolumes: p.TrackVolumes[:],
		TrackPans:    p.TrackPans[:],
		TrackMutes:   make([]bool, NumTracks),
		MacroValues:  p.MacroValues[:],
		Patterns:     make([]Pattern, NumPatterns),
	}
}

// Validate checks that the preset fits the fixed geometry of this
// build. It does not clamp; Params applies clamping when the preset
// becomes the live state.
func (p *Preset) Validate() error {
	if p.BPM < MinBPM || p.BPM > MaxBPM {
		return fmt.Errorf("bpm %d outside %d..%d", p.BPM, MinBPM, MaxBPM)
	}
	if p.PatternIndex < 0 || p.PatternIndex >= NumPatterns {
		return fmt.Errorf("pattern index %d outside 0..%d", p.PatternIndex, NumPatterns-1)
	}
	if len(p.Patterns) > NumPatterns {
		return fmt.Errorf("%d patterns, this build holds %d", len(p.Patterns), NumPatterns)
	}
	if len(p.TrackVolumes) > NumTracks || len(p.TrackPans) > NumTracks ||
		len(p.TrackMutes) > NumTracks {
		return errors.New("more track settings than tracks")
	}
	if len(p.MacroValues) > NumMacros {
		return errors.New("more macro values than macros")
	}
	return nil
}

// Params converts the preset's mix settings into a clamped snapshot.
// Missing entries keep their defaults.
func (p *Preset) Params() Params {
	params := DefaultParams()
	params.BPM = p.BPM
	params.PatternIndex = p.PatternIndex
	copy(params.TrackVolumes[:], p.TrackVolumes)
	copy(params.TrackPans[:], p.TrackPans)
	copy(params.TrackMutes[:], p.TrackMutes)
	params.DelayLevel = p.DelayLevel
	params.ReverbLevel = p.ReverbLevel
	copy(params.MacroValues[:], p.MacroValues)
	params.Clamp()
	return params
}
