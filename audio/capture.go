package audio

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"hark/encoder"
)

// Frame is one fixed-size block of PCM16 mono audio at encoder.SampleRate.
type Frame struct {
	Seq        uint64
	CapturedAt time.Time
	Samples    []int16 // len == encoder.BlockSize
}

// Duration of the audio carried by the frame.
func (f Frame) Duration() time.Duration {
	return time.Duration(len(f.Samples)) * time.Second / encoder.SampleRate
}

type CaptureOptions struct {
	QueueFrames int           // frames buffered between audio thread and consumer
	LostTimeout time.Duration // no callbacks for this long while started = device lost
}

func DefaultCaptureOptions() CaptureOptions {
	return CaptureOptions{QueueFrames: 8, LostTimeout: 2 * time.Second}
}

// Capture owns one open input device and turns its callbacks into Frames.
type Capture struct {
	dev    CaptureDevice
	device *DeviceInfo

	frames chan Frame
	lost   chan struct{}

	mu      sync.Mutex
	pending []float32
	scratch []int16
	seq     uint64
	closed  bool

	lastData atomic.Int64 // unix nanos of the last callback
	dropped  atomic.Uint64
	produced atomic.Uint64

	lostOnce  sync.Once
	closeOnce sync.Once
	stopWatch chan struct{}
	watchDone chan struct{}
}

// Open starts capturing from device at 16kHz mono. Errors match
// ErrDeviceUnavailable.
func Open(ctx Context, device *DeviceInfo, opts CaptureOptions) (*Capture, error) {
	if opts.QueueFrames <= 0 {
		opts.QueueFrames = DefaultCaptureOptions().QueueFrames
	}
	dev, err := ctx.NewCapture(device, CaptureConfig{
		SampleRate: encoder.SampleRate,
		Channels:   encoder.Channels,
	})
	if err != nil {
		return nil, wrapUnavailable(err)
	}

	c := &Capture{
		dev:       dev,
		device:    device,
		frames:    make(chan Frame, opts.QueueFrames),
		lost:      make(chan struct{}),
		pending:   make([]float32, 0, encoder.BlockSize*2),
		scratch:   make([]int16, encoder.BlockSize),
		stopWatch: make(chan struct{}),
		watchDone: make(chan struct{}),
	}
	c.lastData.Store(time.Now().UnixNano())
	dev.SetCallback(c.onData)

	if err := dev.Start(); err != nil {
		dev.ClearCallback()
		dev.Close()
		return nil, wrapUnavailable(err)
	}

	if opts.LostTimeout > 0 {
		go c.watch(opts.LostTimeout)
	} else {
		close(c.watchDone)
	}
	return c, nil
}

func wrapUnavailable(err error) error {
	if errors.Is(err, ErrDeviceUnavailable) {
		return fmt.Errorf("open capture: %w", err)
	}
	return fmt.Errorf("open capture: %w: %v", ErrDeviceUnavailable, err)
}

func (c *Capture) onData(samples []float32) {
	c.lastData.Store(time.Now().UnixNano())

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.pending = append(c.pending, samples...)
	for len(c.pending) >= encoder.BlockSize {
		encoder.FloatToPCM16(c.scratch, c.pending[:encoder.BlockSize])
		out := make([]int16, encoder.BlockSize)
		copy(out, c.scratch)
		c.pending = append(c.pending[:0], c.pending[encoder.BlockSize:]...)

		c.seq++
		frame := Frame{Seq: c.seq, CapturedAt: time.Now(), Samples: out}
		select {
		case c.frames <- frame:
			c.produced.Add(1)
		default:
			c.dropped.Add(1)
		}
	}
}

func (c *Capture) watch(timeout time.Duration) {
	defer close(c.watchDone)
	ticker := time.NewTicker(timeout / 4)
	defer ticker.Stop()
	for {
		select {
		case <-c.stopWatch:
			return
		case now := <-ticker.C:
			last := time.Unix(0, c.lastData.Load())
			if now.Sub(last) >= timeout {
				c.lostOnce.Do(func() { close(c.lost) })
				return
			}
		}
	}
}

// Frames delivers complete frames in capture order. It is closed by Close.
func (c *Capture) Frames() <-chan Frame { return c.frames }

// Lost is closed when the device stops delivering audio while open.
func (c *Capture) Lost() <-chan struct{} { return c.lost }

// Device returns the device the capture was opened on, nil for the default.
func (c *Capture) Device() *DeviceInfo { return c.device }

// Dropped counts frames discarded because the consumer fell behind.
func (c *Capture) Dropped() uint64 { return c.dropped.Load() }

// Produced counts frames handed to the consumer.
func (c *Capture) Produced() uint64 { return c.produced.Load() }

// Close stops the device and closes Frames. Safe to call more than once.
func (c *Capture) Close() {
	c.closeOnce.Do(func() {
		close(c.stopWatch)
		<-c.watchDone

		c.dev.ClearCallback()
		c.dev.Stop()
		c.dev.Close()

		c.mu.Lock()
		c.closed = true
		c.pending = nil
		close(c.frames)
		c.mu.Unlock()
	})
}
