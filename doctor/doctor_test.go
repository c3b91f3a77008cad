package doctor

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"hark/audio"
	"hark/hotkey"
	"hark/transport"
)

func tone(n int) []int16 {
	pcm := make([]int16, n)
	for i := range pcm {
		if i%20 < 10 {
			pcm[i] = 8000
		} else {
			pcm[i] = -8000
		}
	}
	return pcm
}

func shorten(t *testing.T) {
	t.Helper()
	oldCapture, oldBackend := captureFor, backendWait
	captureFor, backendWait = 300*time.Millisecond, 2*time.Second
	t.Cleanup(func() { captureFor, backendWait = oldCapture, oldBackend })
}

func TestRunAllPass(t *testing.T) {
	shorten(t)
	var out bytes.Buffer
	code := Run(context.Background(), Checks{
		Audio:     audio.NewFakeContextPCM(tone(16000), false),
		Transport: transport.NewFake("hi", 4),
	}, &out)
	if code != 0 {
		t.Fatalf("exit code = %d, output:\n%s", code, out.String())
	}
	for _, want := range []string{"[1/2] Microphone", "[2/2] Backend connection", "PASS: microphone", "PASS: backend reachable", "All checks passed"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestRunReportsFailures(t *testing.T) {
	shorten(t)
	tr := transport.NewFake("hi", 4)
	tr.FailConnect(errors.New("connection refused"))
	var out bytes.Buffer
	code := Run(context.Background(), Checks{
		Audio:     audio.NewFakeContextPCM(tone(16000), false),
		Device:    "no such mic",
		Transport: tr,
	}, &out)
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if !strings.Contains(out.String(), "connection refused") {
		t.Errorf("backend failure not reported:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "2 of 2 checks failed") {
		t.Errorf("summary missing:\n%s", out.String())
	}
}

func TestMicrophoneSilentWarns(t *testing.T) {
	shorten(t)
	var out bytes.Buffer
	err := checkMicrophone(context.Background(), audio.NewFakeContextPCM(nil, false), "", &out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "near silent") {
		t.Errorf("expected silence warning:\n%s", out.String())
	}
}

func TestMicrophoneStartFails(t *testing.T) {
	shorten(t)
	actx := audio.NewFakeContextPCM(tone(100), false)
	actx.FailStart(true)
	err := checkMicrophone(context.Background(), actx, audio.FakeDeviceID, &bytes.Buffer{})
	if !errors.Is(err, audio.ErrDeviceUnavailable) {
		t.Fatalf("err = %v, want ErrDeviceUnavailable", err)
	}
}

func TestHotkeyDetected(t *testing.T) {
	hk := hotkey.NewFake()
	go func() {
		time.Sleep(20 * time.Millisecond)
		hk.SimTap()
	}()
	var out bytes.Buffer
	if err := checkHotkey(context.Background(), hk, hotkey.Combo{Key: "space"}, &out); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Press ctrl+shift+space") {
		t.Errorf("prompt missing:\n%s", out.String())
	}
}

func TestHotkeyCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := checkHotkey(ctx, hotkey.NewFake(), hotkey.Combo{Key: "a"}, &bytes.Buffer{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestRMS(t *testing.T) {
	if rms(nil) != 0 {
		t.Error("rms(nil) != 0")
	}
	got := rms([]int16{16384, -16384})
	if got < 0.49 || got > 0.51 {
		t.Errorf("rms = %v, want 0.5", got)
	}
}
