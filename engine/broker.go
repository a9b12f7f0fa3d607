package engine

import (
	"sync"
	"time"

	"github.com/tracklet/tracklet"
)

type (
	// Broker carries messages from the render side back to the control
	// side: per-block status for meters and UIs, alerts, and rendered
	// audio for the loudness analyzer. Everything the render engine
	// sends goes through TrySend, so a slow or absent consumer can
	// never stall the audio thread. Commands travel the other way
	// through CommandQueue, not through the broker.
	//
	// The broker also pools audio buffers so the engine can hand
	// rendered audio to the meter goroutine without allocating in
	// steady state: the engine borrows with GetAudioBuffer, the meter
	// returns with PutAudioBuffer.
	Broker struct {
		ToControl chan MsgToControl
		ToMeter   chan *tracklet.AudioBuffer

		CloseMeter    chan struct{}
		FinishedMeter chan struct{}

		bufferPool sync.Pool
	}

	// MsgToControl is one message to the control side. The per-block
	// status fields are unboxed to avoid allocating on the send path;
	// infrequent payloads (Alert, *tracklet.AudioBuffer) travel in
	// Data, where boxing a pointer type does not allocate.
	MsgToControl struct {
		HasStatus    bool
		Step         int
		PatternIndex int
		Playing      bool

		Data any
	}

	// Alert is a user-facing notification from either side of the
	// engine: dropped commands, device failures, preset problems.
	Alert struct {
		Name     string
		Message  string
		Priority AlertPriority
	}

	AlertPriority int
)

const (
	Info AlertPriority = iota
	Warning
	Error
)

func NewBroker() *Broker {
	return &Broker{
		ToControl:     make(chan MsgToControl, 1024),
		ToMeter:       make(chan *tracklet.AudioBuffer, 1024),
		CloseMeter:    make(chan struct{}, 1),
		FinishedMeter: make(chan struct{}),
		bufferPool: sync.Pool{New: func() any {
			return &tracklet.AudioBuffer{}
		}},
	}
}

// GetAudioBuffer borrows an empty buffer from the pool; return it with
// PutAudioBuffer when done.
func (b *Broker) GetAudioBuffer() *tracklet.AudioBuffer {
	return b.bufferPool.Get().(*tracklet.AudioBuffer)
}

// PutAudioBuffer returns a borrowed buffer, resetting its length but
// keeping its capacity.
func (b *Broker) PutAudioBuffer(buf *tracklet.AudioBuffer) {
	if len(*buf) > 0 {
		*buf = (*buf)[:0]
	}
	b.bufferPool.Put(buf)
}

// TrySend sends v to c if there is room; it never blocks. Returns true
// if the value was sent.
func TrySend[T any](c chan<- T, v T) bool {
	select {
	case c <- v:
	default:
		return false
	}
	return true
}

// TimeoutReceive blocks until a value arrives or the timeout elapses;
// ok is false on timeout or a closed channel.
func TimeoutReceive[T any](c <-chan T, t time.Duration) (v T, ok bool) {
	select {
	case v, ok = <-c:
		return v, ok
	case <-time.After(t):
		return v, false
	}
}
