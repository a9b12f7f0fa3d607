package tracklet

type (
	// CommandOp enumerates the discrete control intents the surface can
	// issue. Commands travel from the control side to the render side
	// through engine.CommandQueue and are immutable once enqueued.
	CommandOp int

	// Command is one control intent. Index carries the track, pattern,
	// macro or BPM argument depending on the op; Value carries the
	// float argument for the ops that take one. The struct is a plain
	// value so a fixed-capacity ring can hold commands without
	// indirection.
	Command struct {
		Op    CommandOp
		Index int
		Value float32
	}
)

const (
	OpNone CommandOp = iota
	OpPlay
	OpStop
	OpToggleRecord
	OpSelectPattern  // Index = pattern
	OpSetBPM         // Index = BPM
	OpSetTrackVolume // Index = track, Value = volume
	OpSetTrackPan    // Index = track, Value = pan
	OpMuteTrack      // Index = track
	OpUnmuteTrack    // Index = track
	OpSoloTrack      // Index = track; toggles the solo flag
	OpSetDelayLevel  // Value = level
	OpSetReverbLevel // Value = level
	OpSetMacroValue  // Index = macro, Value = value
)

func Play() Command          { return Command{Op: OpPlay} }
func Stop() Command          { return Command{Op: OpStop} }
func ToggleRecord() Command  { return Command{Op: OpToggleRecord} }
func SetBPM(bpm int) Command { return Command{Op: OpSetBPM, Index: bpm} }

func SelectPattern(pattern int) Command {
	return Command{Op: OpSelectPattern, Index: pattern}
}

func SetTrackVolume(track int, volume float32) Command {
	return Command{Op: OpSetTrackVolume, Index: track, Value: volume}
}

func SetTrackPan(track int, pan float32) Command {
	return Command{Op: OpSetTrackPan, Index: track, Value: pan}
}

func MuteTrack(track int) Command   { return Command{Op: OpMuteTrack, Index: track} }
func UnmuteTrack(track int) Command { return Command{Op: OpUnmuteTrack, Index: track} }
func SoloTrack(track int) Command   { return Command{Op: OpSoloTrack, Index: track} }

func SetDelayLevel(level float32) Command {
	return Command{Op: OpSetDelayLevel, Value: level}
}

func SetReverbLevel(level float32) Command {
	return Command{Op: OpSetReverbLevel, Value: level}
}

func SetMacroValue(macro int, value float32) Command {
	return Command{Op: OpSetMacroValue, Index: macro, Value: value}
}

// Transport reports whether the command drives the transport state
// machine. Transport commands are always applied in enqueue order,
// whereas commands targeting a scalar field may be coalesced within a
// single drain (only the last value per field survives).
func (c Command) Transport() bool {
	switch c.Op {
	case OpPlay, OpStop, OpToggleRecord:
		return true
	}
	return false
}
