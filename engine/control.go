package engine

import (
	"fmt"

	"github.com/tracklet/tracklet"
)

// Control is the non-real-time face of the engine: the UI, the MIDI
// adapter and host automation all call it. Every mutating call
// validates its arguments, then enqueues a command and returns
// immediately; the effect takes place by the next render block. Status
// reads copy values out of the latest published snapshot and never
// block.
//
// Control does not serialize its callers; per the queue's
// single-producer discipline, concurrent surfaces must share one
// goroutine or wrap Control in their own ordering.
type Control struct {
	broker *Broker
	queue  *CommandQueue
	store  *ParamStore
}

func NewControl(broker *Broker, e *Engine) *Control {
	return &Control{broker: broker, queue: e.Queue(), store: e.Store()}
}

func (c *Control) PlayPattern() error  { return c.enqueue(tracklet.Play()) }
func (c *Control) StopPattern() error  { return c.enqueue(tracklet.Stop()) }
func (c *Control) ToggleRecord() error { return c.enqueue(tracklet.ToggleRecord()) }

func (c *Control) SelectPattern(index int) error {
	if index < 0 || index >= tracklet.NumPatterns {
		return fmt.Errorf("%w: pattern %d", tracklet.ErrParameterOutOfRange, index)
	}
	return c.enqueue(tracklet.SelectPattern(index))
}

func (c *Control) SetBPM(bpm int) error {
	if bpm < tracklet.MinBPM || bpm > tracklet.MaxBPM {
		return fmt.Errorf("%w: bpm %d", tracklet.ErrParameterOutOfRange, bpm)
	}
	return c.enqueue(tracklet.SetBPM(bpm))
}

func (c *Control) SetTrackVolume(track int, volume float32) error {
	if err := c.checkTrack(track); err != nil {
		return err
	}
	if volume != volume || volume < 0 || volume > 1 {
		return fmt.Errorf("%w: volume %v", tracklet.ErrParameterOutOfRange, volume)
	}
	return c.enqueue(tracklet.SetTrackVolume(track, volume))
}

func (c *Control) SetTrackPan(track int, pan float32) error {
	if err := c.checkTrack(track); err != nil {
		return err
	}
	if pan != pan || pan < -1 || pan > 1 {
		return fmt.Errorf("%w: pan %v", tracklet.ErrParameterOutOfRange, pan)
	}
	return c.enqueue(tracklet.SetTrackPan(track, pan))
}

func (c *Control) MuteTrack(track int) error {
	if err := c.checkTrack(track); err != nil {
		return err
	}
	return c.enqueue(tracklet.MuteTrack(track))
}

func (c *Control) UnmuteTrack(track int) error {
	if err := c.checkTrack(track); err != nil {
		return err
	}
	return c.enqueue(tracklet.UnmuteTrack(track))
}

// SoloTrack toggles the solo flag of a track. While any track is
// soloed, all non-soloed tracks are silenced without touching their
// stored mute flags.
func (c *Control) SoloTrack(track int) error {
	if err := c.checkTrack(track); err != nil {
		return err
	}
	return c.enqueue(tracklet.SoloTrack(track))
}

func (c *Control) SetDelayLevel(level float32) error {
	if err := c.checkLevel(level); err != nil {
		return err
	}
	return c.enqueue(tracklet.SetDelayLevel(level))
}

func (c *Control) SetReverbLevel(level float32) error {
	if err := c.checkLevel(level); err != nil {
		return err
	}
	return c.enqueue(tracklet.SetReverbLevel(level))
}

func (c *Control) SetMacroValue(macro int, value float32) error {
	if macro < 0 || macro >= tracklet.NumMacros {
		return fmt.Errorf("%w: macro %d", tracklet.ErrParameterOutOfRange, macro)
	}
	if err := c.checkLevel(value); err != nil {
		return err
	}
	return c.enqueue(tracklet.SetMacroValue(macro, value))
}

// Status reads. Each copies out of the latest snapshot.

func (c *Control) CurrentPattern() int { return c.store.Read().PatternIndex }
func (c *Control) CurrentBPM() int     { return c.store.Read().BPM }
func (c *Control) IsPlaying() bool     { return c.store.Read().Playing }
func (c *Control) IsRecording() bool   { return c.store.Read().Recording }

func (c *Control) TrackVolumes() [tracklet.NumTracks]float32 {
	return c.store.Read().TrackVolumes
}

func (c *Control) TrackPans() [tracklet.NumTracks]float32 {
	return c.store.Read().TrackPans
}

func (c *Control) TrackMutes() [tracklet.NumTracks]bool {
	return c.store.Read().TrackMutes
}

func (c *Control) DelayLevel() float32  { return c.store.Read().DelayLevel }
func (c *Control) ReverbLevel() float32 { return c.store.Read().ReverbLevel }

func (c *Control) MacroValues() [tracklet.NumMacros]float32 {
	return c.store.Read().MacroValues
}

func (c *Control) enqueue(cmd tracklet.Command) error {
	if err := c.queue.Enqueue(cmd); err != nil {
		if c.broker != nil {
			TrySend(c.broker.ToControl, MsgToControl{Data: Alert{
				Name:     "CommandDropped",
				Message:  "command queue full, command dropped",
				Priority: Warning,
			}})
		}
		return err
	}
	return nil
}

func (c *Control) checkTrack(track int) error {
	if track < 0 || track >= tracklet.NumTracks {
		return fmt.Errorf("%w: track %d", tracklet.ErrParameterOutOfRange, track)
	}
	return nil
}

func (c *Control) checkLevel(v float32) error {
	if v != v || v < 0 || v > 1 {
		return fmt.Errorf("%w: level %v", tracklet.ErrParameterOutOfRange, v)
	}
	return nil
}
