package encoder

import (
	"time"

	"github.com/zaf/g711"
)

// PCMURate is the clock rate of a PCMU media track.
const PCMURate = 8000

// PCMU down-samples 16kHz PCM16 to 8kHz by averaging sample pairs and
// companding each result with G.711 mu-law. Blocks of odd length drop the
// final sample.
type PCMU struct{}

func (PCMU) Name() string { return "PCMU" }

func (PCMU) EncodeBlock(block []int16) []byte {
	out := make([]byte, len(block)/2)
	for i := range out {
		avg := (int32(block[2*i]) + int32(block[2*i+1])) / 2
		out[i] = g711.EncodeUlawFrame(int16(avg))
	}
	return out
}

// PCMUDuration is the playout duration of n PCMU bytes.
func PCMUDuration(n int) time.Duration {
	return time.Duration(n) * time.Second / PCMURate
}
