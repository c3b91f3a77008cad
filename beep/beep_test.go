package beep

import "testing"

func TestSynthLength(t *testing.T) {
	tests := []struct {
		sound Sound
		want  int
	}{
		{Start, int(sampleRate * 0.2)},
		{Stop, int(sampleRate * 0.2)},
		{Error, 2*int(sampleRate*0.08) + int(sampleRate*0.05)},
		{Warn, 3*int(sampleRate*0.06) + 2*int(sampleRate*0.04)},
	}
	for _, tt := range tests {
		t.Run(tt.sound.String(), func(t *testing.T) {
			if got := len(synth(tt.sound)); got != tt.want {
				t.Errorf("len = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSynthDecays(t *testing.T) {
	s := synth(Start)
	peak := func(from, to int) int16 {
		var p int16
		for _, v := range s[from:to] {
			if v > p {
				p = v
			} else if -v > p {
				p = -v
			}
		}
		return p
	}
	head, tail := peak(0, 500), peak(len(s)-500, len(s))
	if head == 0 || tail >= head {
		t.Errorf("peak head %d tail %d, want decaying envelope", head, tail)
	}
}

func TestErrorBeepHasGap(t *testing.T) {
	s := synth(Error)
	beep := int(sampleRate * 0.08)
	gap := int(sampleRate * 0.05)
	for i := beep; i < beep+gap; i++ {
		if s[i] != 0 {
			t.Fatalf("sample %d = %d inside gap", i, s[i])
		}
	}
}

func TestDisable(t *testing.T) {
	if !Enabled() {
		t.Fatal("enabled by default")
	}
	Disable()
	if Enabled() {
		t.Error("still enabled after Disable")
	}
	Play(Start) // no-op once disabled
}
