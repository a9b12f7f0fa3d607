// Package tracklet contains the domain types for a tracker-style
// pattern controller: the parameter snapshot shared between the control
// and render sides, the commands that move state from one to the other,
// and the pattern data the sequencer plays.
package tracklet

// The controller geometry is fixed at compile time so that the render
// side never resizes anything. The original hardware has 8 tracks and
// 16-step patterns; macros follow the performance knobs.
const (
	NumTracks       = 8
	NumPatterns     = 16
	NumMacros       = 8
	StepsPerPattern = 16
	StepsPerBeat    = 4
)

const (
	MinBPM = 20
	MaxBPM = 999
)
