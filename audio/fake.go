package audio

import (
	"fmt"
	"os"
	"sync"
	"time"

	"hark/encoder"
)

const fakeChunkSamples = 1024

// FakeDeviceID is the only device a FakeContext reports.
const FakeDeviceID = "fake"

// FakeContext plays PCM16 mono audio (typically a 16kHz WAV) through the
// capture pipeline, followed by silence.
type FakeContext struct {
	samples  []float32
	realtime bool

	mu        sync.Mutex
	failStart bool
	last      *FakeCapture
}

func NewFakeContext(wavPath string, realtime bool) (*FakeContext, error) {
	data, err := os.ReadFile(wavPath)
	if err != nil {
		return nil, err
	}
	if len(data) > WAVHeaderSize {
		data = data[WAVHeaderSize:]
	}
	return NewFakeContextPCM(encoder.BytesToPCM16(data), realtime), nil
}

func NewFakeContextPCM(pcm []int16, realtime bool) *FakeContext {
	return &FakeContext{samples: encoder.PCM16ToFloat(pcm), realtime: realtime}
}

func (f *FakeContext) Devices() ([]DeviceInfo, error) {
	return []DeviceInfo{{ID: FakeDeviceID, Name: "fake microphone"}}, nil
}

func (f *FakeContext) Close() {}

// FailStart makes the next captures refuse to start.
func (f *FakeContext) FailStart(fail bool) {
	f.mu.Lock()
	f.failStart = fail
	f.mu.Unlock()
}

// LastCapture returns the most recently created capture, or nil.
func (f *FakeContext) LastCapture() *FakeCapture {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last
}

func (f *FakeContext) NewCapture(device *DeviceInfo, _ CaptureConfig) (CaptureDevice, error) {
	if device != nil && device.ID != FakeDeviceID {
		return nil, fmt.Errorf("fake device %q: %w", device.ID, ErrDeviceUnavailable)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	c := &FakeCapture{
		samples:   f.samples,
		realtime:  f.realtime,
		failStart: f.failStart,
		audioDone: make(chan struct{}),
	}
	f.last = c
	return c, nil
}

type FakeCapture struct {
	samples   []float32
	realtime  bool
	failStart bool
	audioDone chan struct{}

	mu       sync.Mutex
	cb       DataCallback
	hung     bool
	started  bool
	closed   bool
	stopCh   chan struct{}
	feedDone chan struct{}
}

// AudioDone is closed once the whole file has been delivered.
func (f *FakeCapture) AudioDone() <-chan struct{} { return f.audioDone }

// Hang stops callbacks without stopping the capture, like an unplugged device.
func (f *FakeCapture) Hang() {
	f.mu.Lock()
	f.hung = true
	f.mu.Unlock()
}

func (f *FakeCapture) Started() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.started
}

func (f *FakeCapture) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func (f *FakeCapture) SetCallback(cb DataCallback) {
	f.mu.Lock()
	f.cb = cb
	f.mu.Unlock()
}

func (f *FakeCapture) ClearCallback() {
	f.mu.Lock()
	f.cb = nil
	f.mu.Unlock()
}

func (f *FakeCapture) callback() DataCallback {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.hung {
		return nil
	}
	return f.cb
}

func (f *FakeCapture) Start() error {
	if f.failStart {
		return fmt.Errorf("fake start: %w", ErrDeviceUnavailable)
	}
	f.mu.Lock()
	f.started = true
	f.stopCh = make(chan struct{})
	f.feedDone = make(chan struct{})
	f.mu.Unlock()

	interval := time.Millisecond
	if f.realtime {
		interval = time.Duration(fakeChunkSamples) * time.Second / encoder.SampleRate
	}

	go func() {
		defer close(f.feedDone)
		pos := 0
		silence := make([]float32, fakeChunkSamples)
		finished := false
		for {
			if cb := f.callback(); cb != nil {
				if pos < len(f.samples) {
					end := min(pos+fakeChunkSamples, len(f.samples))
					chunk := make([]float32, end-pos)
					copy(chunk, f.samples[pos:end])
					cb(chunk)
					pos = end
				} else {
					cb(silence)
				}
			}
			if pos >= len(f.samples) && !finished {
				finished = true
				close(f.audioDone)
			}

			select {
			case <-f.stopCh:
				return
			case <-time.After(interval):
			}
		}
	}()

	return nil
}

func (f *FakeCapture) Stop() {
	f.mu.Lock()
	stopCh, feedDone := f.stopCh, f.feedDone
	f.mu.Unlock()
	if stopCh == nil {
		return
	}
	select {
	case <-stopCh:
	default:
		close(stopCh)
	}
	<-feedDone
}

func (f *FakeCapture) Close() {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
}
