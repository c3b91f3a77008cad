package encoder

import (
	"encoding/base64"
	"math"
	"testing"
)

func TestFloatToPCM16(t *testing.T) {
	for _, tt := range []struct {
		name string
		in   float32
		want int16
	}{
		{"full scale", 1.0, 32767},
		{"negative full scale", -1.0, -32767},
		{"zero", 0, 0},
		{"half", 0.5, 16383},
		{"clamp high", 1.7, 32767},
		{"clamp low", -3, -32767},
		{"nan", float32(math.NaN()), 0},
	} {
		t.Run(tt.name, func(t *testing.T) {
			dst := make([]int16, 1)
			FloatToPCM16(dst, []float32{tt.in})
			if dst[0] != tt.want {
				t.Errorf("FloatToPCM16(%v) = %d, want %d", tt.in, dst[0], tt.want)
			}
		})
	}
}

func TestFloatToPCM16Deterministic(t *testing.T) {
	src := make([]float32, BlockSize)
	for i := range src {
		src[i] = float32(math.Sin(float64(i) / 10))
	}
	a := make([]int16, BlockSize)
	b := make([]int16, BlockSize)
	FloatToPCM16(a, src)
	FloatToPCM16(b, src)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("sample %d differs: %d vs %d", i, a[i], b[i])
		}
	}
}

func TestPCM16BytesLittleEndian(t *testing.T) {
	got := PCM16Bytes([]int16{1, -1, 0x1234})
	want := []byte{0x01, 0x00, 0xff, 0xff, 0x34, 0x12}
	if string(got) != string(want) {
		t.Errorf("got % x, want % x", got, want)
	}
	back := BytesToPCM16(got)
	if len(back) != 3 || back[0] != 1 || back[1] != -1 || back[2] != 0x1234 {
		t.Errorf("BytesToPCM16 = %v", back)
	}
}

func TestBase64PCM(t *testing.T) {
	block := []int16{0, 32767, -32767}
	enc := Base64(block)
	raw, err := base64.StdEncoding.DecodeString(enc)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(raw) != 6 {
		t.Fatalf("len = %d, want 6", len(raw))
	}
	if raw[2] != 0xff || raw[3] != 0x7f {
		t.Errorf("second sample bytes = % x, want ff 7f", raw[2:4])
	}
}

func TestPCMUHalvesRate(t *testing.T) {
	block := make([]int16, BlockSize)
	out := PCMU{}.EncodeBlock(block)
	if len(out) != BlockSize/2 {
		t.Fatalf("len = %d, want %d", len(out), BlockSize/2)
	}
	// mu-law silence is 0xff
	for i, b := range out {
		if b != 0xff {
			t.Fatalf("byte %d = %#x, want 0xff", i, b)
		}
	}
	if d := PCMUDuration(len(out)); d != BlockDuration {
		t.Errorf("PCMUDuration = %v, want %v", d, BlockDuration)
	}
}

func TestBlockDuration(t *testing.T) {
	if BlockDuration.Milliseconds() != 256 {
		t.Errorf("BlockDuration = %v, want 256ms", BlockDuration)
	}
}
