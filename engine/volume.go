package engine

import (
	"math"

	"github.com/tracklet/tracklet"
	"github.com/viterin/vek/vek32"
)

type (
	// Volume is the smoothed level of the left and right channels, in
	// decibels relative to full scale.
	Volume [2]float64

	// VolumeAnalyzer measures the output level of rendered audio. It
	// runs entirely on the control side; the render engine only hands
	// buffers over through the broker.
	VolumeAnalyzer struct {
		Level      Volume  // current smoothed level per channel
		Attack     float64 // attack time constant in seconds
		Release    float64 // release time constant in seconds
		Min        float64 // floor in decibels
		Max        float64 // ceiling in decibels
		SampleRate int

		scratch, scratch2 []float32
	}
)

func NewVolumeAnalyzer(sampleRate int) *VolumeAnalyzer {
	return &VolumeAnalyzer{
		Level:      Volume{-100, -100},
		Attack:     0.3,
		Release:    0.3,
		Min:        -100,
		Max:        20,
		SampleRate: sampleRate,
		scratch:    make([]float32, maxBlockFrames),
		scratch2:   make([]float32, maxBlockFrames),
	}
}

// Update analyzes one buffer and moves Level towards its mean power,
// with exponential smoothing using the Attack constant when the level
// is rising and Release when falling.
func (v *VolumeAnalyzer) Update(buffer tracklet.AudioBuffer) {
	if len(buffer) == 0 {
		return
	}
	alphaAttack := 1 - math.Exp(-1.0/(v.Attack*float64(v.SampleRate))*float64(len(buffer)))
	alphaRelease := 1 - math.Exp(-1.0/(v.Release*float64(v.SampleRate))*float64(len(buffer)))
	for ch := 0; ch < 2; ch++ {
		n := len(buffer)
		if n > len(v.scratch) {
			n = len(v.scratch)
		}
		for i := 0; i < n; i++ {
			v.scratch[i] = buffer[i][ch]
		}
		chunk := v.scratch[:n]
		power := float64(vek32.Mean(vek32.Mul_Into(v.scratch2[:n], chunk, chunk)))
		dB := 10 * math.Log10(power)
		if dB < v.Min || math.IsNaN(dB) {
			dB = v.Min
		}
		if dB > v.Max {
			dB = v.Max
		}
		a := alphaAttack
		if dB < v.Level[ch] {
			a = alphaRelease
		}
		v.Level[ch] += (dB - v.Level[ch]) * a
	}
}

// LevelMsg carries the analyzer's current level to whoever is consuming
// ToControl messages.
type LevelMsg Volume

// RunMeter consumes rendered audio from the broker, updates the
// analyzer and republishes the level on ToControl. It returns when
// CloseMeter is signalled, after closing FinishedMeter. Run it on its
// own goroutine.
func RunMeter(broker *Broker, analyzer *VolumeAnalyzer) {
	for {
		select {
		case <-broker.CloseMeter:
			close(broker.FinishedMeter)
			return
		case buf := <-broker.ToMeter:
			analyzer.Update(*buf)
			broker.PutAudioBuffer(buf)
			TrySend(broker.ToControl, MsgToControl{Data: LevelMsg(analyzer.Level)})
		}
	}
}
