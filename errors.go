package tracklet

import "errors"

// The closed set of control-path error kinds. Errors returned by the
// control surface, the preset codec and the device adapters wrap one of
// these sentinels, so callers can classify with errors.Is. The render
// path never returns errors; invalid state there is clamped or ignored.
var (
	ErrMIDIConnectionFailed    = errors.New("MIDI connection failed")
	ErrDeviceNotFound          = errors.New("device not found")
	ErrParameterOutOfRange     = errors.New("parameter out of range")
	ErrPresetLoadFailed        = errors.New("preset load failed")
	ErrPresetSaveFailed        = errors.New("preset save failed")
	ErrAudioInitFailed         = errors.New("audio unit init failed")
	ErrRealTimeSafetyViolation = errors.New("real-time safety violation")

	// ErrQueueFull is returned when the command queue rejects an
	// enqueue; the command is dropped and the caller may retry.
	ErrQueueFull = errors.New("command queue full")
)
