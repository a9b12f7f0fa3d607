// Package oto adapts the engine's Processor to oto/v3 audio output.
// oto pulls: its player reads bytes from an io.Reader on its own
// goroutine, so the adapter turns each Read into one render call.
package oto

import (
	"fmt"

	"github.com/ebitengine/oto/v3"
	"github.com/tracklet/tracklet"
)

const bytesPerFrame = 8 // stereo float32

type (
	Context struct {
		ctx        *oto.Context
		sampleRate int
	}

	Output struct {
		player *oto.Player
	}

	// processorReader converts oto's pull reads into Processor blocks.
	// The scratch buffer is reused between reads; it only grows if oto
	// asks for a larger read than seen before.
	processorReader struct {
		proc tracklet.Processor
		buf  tracklet.AudioBuffer
	}
)

// NewContext opens the audio device for stereo float32 output at the
// given sample rate. Failures wrap tracklet.ErrAudioInitFailed.
func NewContext(sampleRate int) (*Context, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", tracklet.ErrAudioInitFailed, err)
	}
	<-ready
	return &Context{ctx: ctx, sampleRate: sampleRate}, nil
}

// Play starts pulling blocks from p until the returned sink is closed.
func (c *Context) Play(p tracklet.Processor) (tracklet.AudioSink, error) {
	player := c.ctx.NewPlayer(&processorReader{proc: p})
	player.Play()
	return &Output{player: player}, nil
}

func (c *Context) Close() error {
	if err := c.ctx.Suspend(); err != nil {
		return fmt.Errorf("cannot suspend oto context: %w", err)
	}
	return nil
}

func (o *Output) Close() error {
	if err := o.player.Close(); err != nil {
		return fmt.Errorf("cannot close oto player: %w", err)
	}
	return nil
}

func (r *processorReader) Read(p []byte) (int, error) {
	frames := len(p) / bytesPerFrame
	if frames == 0 {
		return 0, nil
	}
	if len(r.buf) < frames {
		r.buf = make(tracklet.AudioBuffer, frames)
	}
	r.proc.Process(r.buf[:frames])
	EncodeFrames(p, r.buf[:frames])
	return frames * bytesPerFrame, nil
}
