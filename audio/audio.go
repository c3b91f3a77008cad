package audio

import (
	"errors"
	"strings"
)

const WAVHeaderSize = 44

// ErrDeviceUnavailable is returned when a device is unknown, refuses to open,
// or disappears while capturing.
var ErrDeviceUnavailable = errors.New("audio device unavailable")

var btKeywords = []string{
	"airpods", "beats", "bose", "wh-1000", "wf-1000",
	"sony wh-", "sony wf-",
	"jabra", "galaxy buds", "pixel buds", "powerbeats",
	"jbl ", "sennheiser momentum", "plantronics",
	"tozo", "anker soundcore", "skullcandy",
	"bluetooth", " bt ", " bt)", " bt]",
}

// IsBluetooth guesses from the device name whether it is a Bluetooth headset,
// which usually drops to a narrowband profile while the mic is open.
func IsBluetooth(name string) bool {
	lower := strings.ToLower(name)
	for _, kw := range btKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// DataCallback receives interleaved float samples in [-1, 1]. It runs on the
// backend's audio thread and must not block.
type DataCallback func(samples []float32)

// CaptureConfig describes the raw stream requested from a backend. Capture is
// always unprocessed: no echo cancellation, noise suppression or gain control.
type CaptureConfig struct {
	SampleRate uint32
	Channels   uint32
}

type DeviceInfo struct {
	ID   string // opaque platform-specific identifier
	Name string
}

type Context interface {
	Devices() ([]DeviceInfo, error)
	NewCapture(device *DeviceInfo, config CaptureConfig) (CaptureDevice, error)
	Close()
}

type CaptureDevice interface {
	Start() error
	Stop()
	Close()
	SetCallback(cb DataCallback)
	ClearCallback()
}

// FindDevice returns the device whose ID or Name matches key.
func FindDevice(ctx Context, key string) (*DeviceInfo, error) {
	devices, err := ctx.Devices()
	if err != nil {
		return nil, err
	}
	for i := range devices {
		if devices[i].ID == key || devices[i].Name == key {
			return &devices[i], nil
		}
	}
	return nil, ErrDeviceUnavailable
}
