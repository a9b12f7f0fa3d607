// Package gomidi is the MIDI control surface: it maps incoming MIDI
// messages to engine.Control calls over a gitlab.com/gomidi rtmidi
// driver. The mapping follows common device conventions: CC 7 and CC 10
// on channel n set track n's volume and pan, CC 91 and CC 94 set the
// reverb and delay sends, CC 20..27 drive the macros, CC 105/106/107
// are play/stop/record and a program change selects the pattern.
package gomidi

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tracklet/tracklet"
	"github.com/tracklet/tracklet/engine"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

const (
	ccVolume    = 7
	ccPan       = 10
	ccReverb    = 91
	ccDelay     = 94
	ccMacroBase = 20
	ccPlay      = 105
	ccStop      = 106
	ccRecord    = 107
)

type (
	Context struct {
		driver  *rtmididrv.Driver
		control *engine.Control
		broker  *engine.Broker

		currentIn          drivers.In
		stopListen         func()
		inputDevices       []Device
		devicesInitialized bool
	}

	Device struct {
		context *Context
		in      drivers.In
	}
)

// NewContext opens the rtmidi driver. A missing driver is not an error;
// the context just reports no devices.
func NewContext(broker *engine.Broker, control *engine.Control) *Context {
	c := &Context{control: control, broker: broker}
	c.driver, _ = rtmididrv.New()
	return c
}

// Inputs iterates over the available MIDI input devices.
func (c *Context) Inputs(yield func(Device) bool) {
	if c.devicesInitialized {
		for _, d := range c.inputDevices {
			if !yield(d) {
				break
			}
		}
		return
	}
	if c.driver == nil {
		return
	}
	ins, err := c.driver.Ins()
	if err != nil {
		return
	}
	for _, in := range ins {
		d := Device{context: c, in: in}
		c.inputDevices = append(c.inputDevices, d)
		if !yield(d) {
			break
		}
	}
	c.devicesInitialized = true
}

// OpenByPrefix opens the first input whose name starts with prefix, or
// the first input of all when prefix is empty. Returns
// tracklet.ErrDeviceNotFound when nothing matches.
func (c *Context) OpenByPrefix(prefix string) error {
	var found *Device
	for d := range c.Inputs {
		if strings.HasPrefix(d.String(), prefix) {
			found = &d
			break
		}
	}
	if found == nil {
		return fmt.Errorf("%w: no MIDI input matching %q", tracklet.ErrDeviceNotFound, prefix)
	}
	return found.Open()
}

// Open makes the device the active input, closing the previous one.
// Failures wrap tracklet.ErrMIDIConnectionFailed.
func (d Device) Open() error {
	c := d.context
	if c.currentIn == d.in {
		return nil
	}
	if c.driver == nil {
		return fmt.Errorf("%w: no driver available", tracklet.ErrMIDIConnectionFailed)
	}
	c.closeCurrent()
	if err := d.in.Open(); err != nil {
		return fmt.Errorf("%w: %v", tracklet.ErrMIDIConnectionFailed, err)
	}
	stop, err := midi.ListenTo(d.in, c.handleMessage)
	if err != nil {
		d.in.Close()
		return fmt.Errorf("%w: %v", tracklet.ErrMIDIConnectionFailed, err)
	}
	c.currentIn = d.in
	c.stopListen = stop
	return nil
}

func (d Device) String() string { return d.in.String() }

func (c *Context) HasDeviceOpen() bool {
	return c.currentIn != nil && c.currentIn.IsOpen()
}

func (c *Context) Close() {
	if c.driver == nil {
		return
	}
	c.closeCurrent()
	c.driver.Close()
}

func (c *Context) closeCurrent() {
	if c.stopListen != nil {
		c.stopListen()
		c.stopListen = nil
	}
	if c.currentIn != nil && c.currentIn.IsOpen() {
		c.currentIn.Close()
	}
	c.currentIn = nil
}

// handleMessage runs on the driver's listener goroutine, which is the
// sole producer into the command queue in this process.
func (c *Context) handleMessage(msg midi.Message, timestampms int32) {
	var channel, key, velocity, cc, val, prog uint8
	switch {
	case msg.GetProgramChange(&channel, &prog):
		c.report(c.control.SelectPattern(int(prog)))
	case msg.GetControlChange(&channel, &cc, &val):
		c.handleControlChange(channel, cc, val)
	case msg.GetNoteOn(&channel, &key, &velocity),
		msg.GetNoteOff(&channel, &key, &velocity):
		// note input is not routed anywhere yet
	}
}

func (c *Context) handleControlChange(channel, cc, val uint8) {
	level := float32(val) / 127
	switch {
	case cc == ccVolume:
		c.report(c.control.SetTrackVolume(int(channel), level))
	case cc == ccPan:
		c.report(c.control.SetTrackPan(int(channel), level*2-1))
	case cc == ccReverb:
		c.report(c.control.SetReverbLevel(level))
	case cc == ccDelay:
		c.report(c.control.SetDelayLevel(level))
	case cc >= ccMacroBase && cc < ccMacroBase+tracklet.NumMacros:
		c.report(c.control.SetMacroValue(int(cc-ccMacroBase), level))
	case cc == ccPlay && val > 0:
		c.report(c.control.PlayPattern())
	case cc == ccStop && val > 0:
		c.report(c.control.StopPattern())
	case cc == ccRecord && val > 0:
		c.report(c.control.ToggleRecord())
	}
}

// report surfaces a control-path error as an alert; the MIDI goroutine
// has nowhere to return it.
func (c *Context) report(err error) {
	if err == nil || c.broker == nil {
		return
	}
	priority := engine.Warning
	if errors.Is(err, tracklet.ErrQueueFull) {
		// the queue already alerted
		return
	}
	engine.TrySend(c.broker.ToControl, engine.MsgToControl{Data: engine.Alert{
		Name:     "MIDI",
		Message:  err.Error(),
		Priority: priority,
	}})
}
