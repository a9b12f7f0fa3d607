// Package engine implements the control/render boundary of the
// controller: a lock-free parameter store, a bounded command queue, the
// pattern sequencer, the mixer/FX stage and the render engine that ties
// them together once per audio block. The control side talks to the
// engine through Control and hears back through Broker.
package engine

import (
	"sync/atomic"

	"github.com/tracklet/tracklet"
)

// ParamStore publishes immutable parameter snapshots from the render
// side to any number of control-side readers. Publication is a single
// atomic pointer swap; neither Publish nor Read takes a lock or
// allocates, so both are safe on the audio thread.
//
// The engine double-buffers the snapshots it publishes, so a published
// snapshot stays untouched for at least one full block after the next
// one replaces it. Readers must copy out the values they need rather
// than hold the pointer.
type ParamStore struct {
	cur atomic.Pointer[tracklet.Params]
}

func NewParamStore() *ParamStore {
	s := &ParamStore{}
	p := tracklet.DefaultParams()
	s.cur.Store(&p)
	return s
}

// Publish replaces the visible snapshot. Only the render engine calls
// this, once per block, after clamping.
func (s *ParamStore) Publish(p *tracklet.Params) {
	s.cur.Store(p)
}

// Read returns the most recently published snapshot. Never nil, never
// blocks.
func (s *ParamStore) Read() *tracklet.Params {
	return s.cur.Load()
}
