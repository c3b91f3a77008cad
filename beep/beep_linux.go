//go:build linux

package beep

import (
	"sync"

	"github.com/jfreymuth/pulse"
	"github.com/jfreymuth/pulse/proto"
)

var (
	cache   = map[Sound][]int16{}
	cacheMu sync.Mutex
)

// stereo returns s interleaved L/R to match the usual sink format.
func stereo(s Sound) []int16 {
	cacheMu.Lock()
	defer cacheMu.Unlock()
	if samples, ok := cache[s]; ok {
		return samples
	}
	mono := synth(s)
	samples := make([]int16, len(mono)*2)
	for i, v := range mono {
		samples[i*2] = v
		samples[i*2+1] = v
	}
	cache[s] = samples
	return samples
}

func play(s Sound) {
	go playSamples(stereo(s))
}

func playSamples(samples []int16) {
	if len(samples) == 0 {
		return
	}
	c, err := pulse.NewClient()
	if err != nil {
		return
	}
	defer c.Close()

	pos := 0
	reader := pulse.Int16Reader(func(buf []int16) (int, error) {
		if pos >= len(samples) {
			return 0, pulse.EndOfData
		}
		n := copy(buf, samples[pos:])
		pos += n
		return n, nil
	})
	stream, err := c.NewPlayback(reader,
		pulse.PlaybackStereo,
		pulse.PlaybackSampleRate(sampleRate),
		pulse.PlaybackLatency(0.1),
		pulse.PlaybackRawOption(func(p *proto.CreatePlaybackStream) {
			p.ChannelVolumes = proto.ChannelVolumes{uint32(proto.VolumeNorm), uint32(proto.VolumeNorm)}
		}),
	)
	if err != nil {
		return
	}
	stream.Start()
	stream.Drain()
	stream.Stop()
	stream.Close()
}
