package clipboard

import (
	"errors"

	cb "github.com/atotto/clipboard"

	"hark/results"
)

var ErrNothingToCopy = errors.New("nothing to copy")

// Unsupported reports whether no clipboard utility was found (xclip, xsel,
// wl-copy or the platform API).
func Unsupported() bool { return cb.Unsupported }

func Read() (string, error) {
	return cb.ReadAll()
}

func Copy(text string) error {
	if text == "" {
		return ErrNothingToCopy
	}
	return cb.WriteAll(text)
}

// Text is what copying e puts on the clipboard: the recognised text, then
// the translation on its own line when there is one.
func Text(e results.Entry) string {
	if e.Kind != results.KindTranscript {
		return ""
	}
	if e.TranslatedText == "" {
		return e.Text
	}
	if e.Text == "" {
		return e.TranslatedText
	}
	return e.Text + "\n" + e.TranslatedText
}

func CopyEntry(e results.Entry) error {
	return Copy(Text(e))
}
