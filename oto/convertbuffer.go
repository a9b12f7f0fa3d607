package oto

import (
	"encoding/binary"
	"math"

	"github.com/tracklet/tracklet"
)

// EncodeFrames writes buf as interleaved little-endian float32 into
// dst, which must hold at least len(buf)*8 bytes. No allocation; this
// runs on oto's audio goroutine.
func EncodeFrames(dst []byte, buf tracklet.AudioBuffer) {
	for i, frame := range buf {
		binary.LittleEndian.PutUint32(dst[i*8:], math.Float32bits(frame[0]))
		binary.LittleEndian.PutUint32(dst[i*8+4:], math.Float32bits(frame[1]))
	}
}

// EncodeFrames16 converts buf to interleaved 16-bit little-endian PCM,
// appending to dst and returning the extended slice. Samples outside
// [-1, 1] are hard-clipped.
func EncodeFrames16(dst []byte, buf tracklet.AudioBuffer) []byte {
	for _, frame := range buf {
		for ch := 0; ch < 2; ch++ {
			v := frame[ch]
			var s int16
			switch {
			case v <= -1:
				s = -math.MaxInt16
			case v >= 1:
				s = math.MaxInt16
			default:
				s = int16(v * math.MaxInt16)
			}
			dst = binary.LittleEndian.AppendUint16(dst, uint16(s))
		}
	}
	return dst
}
