package clipboard

import (
	"errors"
	"testing"

	"hark/results"
)

func TestText(t *testing.T) {
	tests := []struct {
		name  string
		entry results.Entry
		want  string
	}{
		{"text only", results.Entry{Kind: results.KindTranscript, Text: "hello"}, "hello"},
		{"with translation", results.Entry{Kind: results.KindTranscript, Text: "hello", TranslatedText: "안녕"}, "hello\n안녕"},
		{"translation only", results.Entry{Kind: results.KindTranscript, TranslatedText: "안녕"}, "안녕"},
		{"error entry", results.Entry{Kind: results.KindError, Text: "boom"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Text(tt.entry); got != tt.want {
				t.Errorf("Text() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCopyEmpty(t *testing.T) {
	if err := CopyEntry(results.Entry{Kind: results.KindError, Text: "boom"}); !errors.Is(err, ErrNothingToCopy) {
		t.Errorf("err = %v, want ErrNothingToCopy", err)
	}
}
