//go:build darwin

package beep

import (
	"sync"
	"sync/atomic"

	"github.com/gen2brain/malgo"

	"hark/encoder"
)

var (
	malgoCtx  *malgo.AllocatedContext
	device    *malgo.Device
	sounds    map[Sound][]byte
	soundOnce sync.Once

	// Playback state, read from the audio callback.
	playing atomic.Pointer[[]byte]
	playPos atomic.Uint32
	playMu  sync.Mutex
)

func initDevice() error {
	config := malgo.DefaultDeviceConfig(malgo.Playback)
	config.Playback.Format = malgo.FormatS16
	config.Playback.Channels = 1
	config.SampleRate = sampleRate

	var err error
	device, err = malgo.InitDevice(malgoCtx.Context, config, malgo.DeviceCallbacks{Data: dataCallback})
	return err
}

func initSound() {
	var err error
	malgoCtx, err = malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return
	}
	sounds = make(map[Sound][]byte, len(tones))
	for s := range tones {
		sounds[s] = encoder.PCM16Bytes(synth(s))
	}
	if err := initDevice(); err != nil {
		malgoCtx.Uninit()
		malgoCtx = nil
	}
}

func dataCallback(out, _ []byte, frameCount uint32) {
	want := frameCount * 2
	samples := playing.Load()
	var n uint32
	if samples != nil {
		pos := playPos.Load()
		if remaining := uint32(len(*samples)) - pos; remaining > 0 {
			n = min(want, remaining)
			copy(out[:n], (*samples)[pos:pos+n])
			playPos.Store(pos + n)
		} else {
			playing.Store(nil)
		}
	}
	clear(out[n:want])
}

func play(s Sound) {
	soundOnce.Do(initSound)
	if malgoCtx == nil {
		return
	}
	samples := sounds[s]

	playMu.Lock()
	defer playMu.Unlock()
	if device == nil {
		return
	}

	device.Stop()
	playPos.Store(0)
	playing.Store(&samples)

	if err := device.Start(); err != nil {
		// Recreate the device after sleep/wake.
		device.Uninit()
		if err := initDevice(); err != nil {
			playing.Store(nil)
			return
		}
		if err := device.Start(); err != nil {
			playing.Store(nil)
		}
	}
}
