//go:build !linux && !darwin

package beep

// No playback backend; cues are silent.
func play(Sound) {}
