package encoder

import (
	"encoding/base64"
	"encoding/binary"
	"time"
)

const (
	SampleRate    = 16000
	Channels      = 1
	BitsPerSample = 16
	BlockSize     = 4096 // samples per frame, ~256ms at SampleRate
)

// BlockDuration is the wall-clock length of one BlockSize frame.
const BlockDuration = time.Duration(BlockSize) * time.Second / SampleRate

// Encoder turns one block of PCM16 samples into a transport payload.
type Encoder interface {
	Name() string
	EncodeBlock(block []int16) []byte
}

// FloatToPCM16 converts src into dst, clamping to [-1, 1] and scaling by
// 32767. Conversion truncates toward zero, so the range is symmetric.
// dst must be at least len(src) long.
func FloatToPCM16(dst []int16, src []float32) {
	for i, s := range src {
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		} else if s != s { // NaN
			s = 0
		}
		dst[i] = int16(s * 32767)
	}
}

// PCM16Bytes packs samples as little-endian 16-bit.
func PCM16Bytes(samples []int16) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(s))
	}
	return out
}

// BytesToPCM16 is the inverse of PCM16Bytes. A trailing odd byte is ignored.
func BytesToPCM16(data []byte) []int16 {
	out := make([]int16, len(data)/2)
	for i := range out {
		out[i] = int16(binary.LittleEndian.Uint16(data[i*2:]))
	}
	return out
}

// PCM16ToFloat converts fixed-point samples back to [-1, 1).
func PCM16ToFloat(samples []int16) []float32 {
	out := make([]float32, len(samples))
	for i, s := range samples {
		out[i] = float32(s) / 32768
	}
	return out
}

// Base64PCM encodes blocks as base64 of little-endian PCM16, the payload of
// the message channel's audio message.
type Base64PCM struct{}

func (Base64PCM) Name() string { return "PCM16" }

func (Base64PCM) EncodeBlock(block []int16) []byte {
	raw := PCM16Bytes(block)
	out := make([]byte, base64.StdEncoding.EncodedLen(len(raw)))
	base64.StdEncoding.Encode(out, raw)
	return out
}

// Base64 returns the base64 string of the PCM16 bytes of block.
func Base64(block []int16) string {
	return string(Base64PCM{}.EncodeBlock(block))
}
