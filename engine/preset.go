package engine

import (
	"fmt"
	"io"

	"github.com/tracklet/tracklet"
	"gopkg.in/yaml.v3"
)

// ReadPreset parses and validates a yaml preset. All failures wrap
// tracklet.ErrPresetLoadFailed.
func ReadPreset(r io.Reader) (*tracklet.Preset, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", tracklet.ErrPresetLoadFailed, err)
	}
	preset := tracklet.DefaultPreset()
	if err := yaml.Unmarshal(b, &preset); err != nil {
		return nil, fmt.Errorf("%w: %v", tracklet.ErrPresetLoadFailed, err)
	}
	if err := preset.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", tracklet.ErrPresetLoadFailed, err)
	}
	return &preset, nil
}

// WritePreset serializes a preset as yaml. Failures wrap
// tracklet.ErrPresetSaveFailed.
func WritePreset(w io.Writer, preset *tracklet.Preset) error {
	if err := preset.Validate(); err != nil {
		return fmt.Errorf("%w: %v", tracklet.ErrPresetSaveFailed, err)
	}
	b, err := yaml.Marshal(preset)
	if err != nil {
		return fmt.Errorf("%w: %v", tracklet.ErrPresetSaveFailed, err)
	}
	if _, err := w.Write(b); err != nil {
		return fmt.Errorf("%w: %v", tracklet.ErrPresetSaveFailed, err)
	}
	return nil
}
