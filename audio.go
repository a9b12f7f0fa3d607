package tracklet

// AudioBuffer is a block of stereo audio frames; each frame is a
// left/right pair of float32 samples.
type AudioBuffer [][2]float32

// Processor renders successive blocks of audio. Process fills buf
// completely and must be real-time safe: it never blocks, never
// allocates and never fails. The audio I/O layer owns the buffer and
// decides the block size and cadence.
type Processor interface {
	Process(buf AudioBuffer)
}

// AudioContext is the boundary to the audio device layer. Play pulls
// blocks from the processor until the returned sink is closed.
type AudioContext interface {
	Play(p Processor) (AudioSink, error)
	Close() error
}

// AudioSink is a running audio output stream.
type AudioSink interface {
	Close() error
}
