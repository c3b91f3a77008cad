package doctor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"hark/audio"
	"hark/clipboard"
	"hark/hotkey"
	"hark/protocol"
	"hark/transport"
)

const hotkeyWait = 10 * time.Second

var (
	captureFor  = 3 * time.Second
	backendWait = 15 * time.Second
)

// Checks selects what Run looks at. Nil fields are skipped.
type Checks struct {
	Hotkey    *hotkey.Combo
	Audio     audio.Context
	Device    string // ID or name, empty picks the only device
	Transport transport.Transport
	Clipboard bool
}

type check struct {
	name string
	run  func(ctx context.Context, out io.Writer) error
}

// Run executes the selected checks in order and returns an exit code
// (0 = all pass, 1 = any fail). Later checks still run after a failure.
func Run(ctx context.Context, c Checks, out io.Writer) int {
	resetTerminal()

	fmt.Fprintln(out, "hark doctor - system diagnostics")
	fmt.Fprintln(out, "================================")

	var checks []check
	if c.Hotkey != nil {
		combo := *c.Hotkey
		checks = append(checks, check{"Hotkey detection", func(ctx context.Context, out io.Writer) error {
			return checkHotkey(ctx, hotkey.New(combo), combo, out)
		}})
	}
	if c.Audio != nil {
		checks = append(checks, check{"Microphone", func(ctx context.Context, out io.Writer) error {
			return checkMicrophone(ctx, c.Audio, c.Device, out)
		}})
	}
	if c.Transport != nil {
		checks = append(checks, check{"Backend connection", func(ctx context.Context, out io.Writer) error {
			return checkBackend(ctx, c.Transport, out)
		}})
	}
	if c.Clipboard {
		checks = append(checks, check{"Clipboard", checkClipboard})
	}

	failed := 0
	for i, ch := range checks {
		if ctx.Err() != nil {
			fmt.Fprintln(out, "\nInterrupted")
			return 1
		}
		fmt.Fprintf(out, "\n[%d/%d] %s\n", i+1, len(checks), ch.name)
		if err := ch.run(ctx, out); err != nil {
			fmt.Fprintf(out, "  FAIL: %v\n", err)
			failed++
		}
	}

	fmt.Fprintln(out)
	if failed > 0 {
		fmt.Fprintf(out, "%d of %d checks failed. See details above.\n", failed, len(checks))
		return 1
	}
	fmt.Fprintln(out, "All checks passed!")
	return 0
}

func checkHotkey(ctx context.Context, hk hotkey.Hotkey, combo hotkey.Combo, out io.Writer) error {
	if err := hk.Register(); err != nil {
		return fmt.Errorf("could not register hotkey: %w", err)
	}
	defer hk.Unregister()

	fmt.Fprintf(out, "Press %s...\n", combo)
	select {
	case <-hk.Keydown():
	case <-time.After(hotkeyWait):
		return errors.New("timeout waiting for hotkey")
	case <-ctx.Done():
		return ctx.Err()
	}
	fmt.Fprintln(out, "  PASS: hotkey detected")
	// Wait for the release so it does not leak into the next step.
	select {
	case <-hk.Keyup():
	case <-time.After(5 * time.Second):
	case <-ctx.Done():
	}
	resetTerminal()
	return nil
}

func checkMicrophone(ctx context.Context, actx audio.Context, key string, out io.Writer) error {
	var dev *audio.DeviceInfo
	var err error
	if key != "" {
		dev, err = audio.FindDevice(actx, key)
	} else {
		dev, err = onlyDevice(actx)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Using device: %s\n", dev.Name)
	if audio.IsBluetooth(dev.Name) {
		fmt.Fprintln(out, "  Warning: Bluetooth headsets often drop to a narrowband profile while recording")
	}

	c, err := audio.Open(actx, dev, audio.DefaultCaptureOptions())
	if err != nil {
		return err
	}
	defer c.Close()

	fmt.Fprintf(out, "Speak for %s...\n", captureFor)
	var frames int
	var peak float64
	deadline := time.After(captureFor)
loop:
	for {
		select {
		case f := <-c.Frames():
			frames++
			peak = max(peak, rms(f.Samples))
		case <-c.Lost():
			return fmt.Errorf("%w: stopped delivering audio", audio.ErrDeviceUnavailable)
		case <-deadline:
			break loop
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if frames == 0 {
		return errors.New("no audio captured")
	}
	fmt.Fprintf(out, "  %d frames, peak level %.3f, %d dropped\n", frames, peak, c.Dropped())
	if peak < 0.005 {
		fmt.Fprintln(out, "  Warning: input is near silent, check the microphone")
	}
	fmt.Fprintln(out, "  PASS: microphone delivers audio")
	return nil
}

func onlyDevice(actx audio.Context) (*audio.DeviceInfo, error) {
	devices, err := actx.Devices()
	if err != nil {
		return nil, fmt.Errorf("cannot list devices: %w", err)
	}
	switch len(devices) {
	case 0:
		return nil, errors.New("no capture devices found")
	case 1:
		return &devices[0], nil
	}
	return nil, fmt.Errorf("%d capture devices found, pick one with --device", len(devices))
}

// checkBackend connects tr and waits until the channel is open and the
// backend has listed its languages.
func checkBackend(ctx context.Context, tr transport.Transport, out io.Writer) error {
	fmt.Fprintf(out, "Connecting over %s...\n", tr.Name())
	start := time.Now()
	if err := tr.Connect(ctx); err != nil {
		return err
	}
	defer tr.Close()

	timeout := time.After(backendWait)
	open, listed := false, false
	for {
		select {
		case ev := <-tr.Events():
			switch ev := ev.(type) {
			case transport.StateChanged:
				switch ev.To {
				case transport.Open:
					open = true
					fmt.Fprintf(out, "  open after %s\n", time.Since(start).Round(time.Millisecond))
					if ev.Forced {
						fmt.Fprintln(out, "  Warning: ICE never completed, readiness was forced by timeout")
					}
					if listed {
						fmt.Fprintln(out, "  PASS: backend reachable")
						return nil
					}
				case transport.Closed:
					if ev.Err != nil {
						return ev.Err
					}
					return errors.New("connection closed")
				}
			case protocol.ConnectionAck:
				fmt.Fprintf(out, "  session %s\n", ev.SessionID)
			case protocol.SupportedLanguages:
				fmt.Fprintf(out, "  %d languages offered\n", len(ev.Languages))
				listed = true
				if open {
					fmt.Fprintln(out, "  PASS: backend reachable")
					return nil
				}
			case protocol.Error:
				return fmt.Errorf("backend error: %s", ev.Message)
			}
		case <-timeout:
			return fmt.Errorf("no language list within %s (state %s)", backendWait, tr.State())
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func checkClipboard(_ context.Context, out io.Writer) error {
	if clipboard.Unsupported() {
		return errors.New("no clipboard utility available (install xclip, xsel or wl-clipboard)")
	}

	prev, _ := clipboard.Read()
	sentinel := fmt.Sprintf("hark-doctor-%d", time.Now().UnixNano())
	if err := clipboard.Copy(sentinel); err != nil {
		return fmt.Errorf("copy failed: %w", err)
	}
	got, err := clipboard.Read()
	if err != nil {
		return fmt.Errorf("read failed: %w", err)
	}
	if got != sentinel {
		return fmt.Errorf("read back %q, want %q", got, sentinel)
	}
	if prev != "" {
		clipboard.Copy(prev)
	}
	fmt.Fprintln(out, "  PASS: clipboard round trip")
	return nil
}

func rms(samples []int16) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range samples {
		v := float64(s) / 32768.0
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(samples)))
}
