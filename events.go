package main

import (
	"sync/atomic"

	"hark/audio"
	"hark/beep"
	"hark/log"
	"hark/results"
	"hark/session"
)

// Messages delivered to the presentation layer, one per Sink callback.
type StateMsg struct {
	From, To session.State
	Err      error
}
type ResultMsg struct{ Entry results.Entry }
type StatusMsg struct{ Text string }
type LanguagesMsg struct {
	Codes  []string
	Target string
}
type LevelMsg struct{ Level float64 }
type NoVoiceMsg struct{ Active bool }

// msgSink adapts session.Sink to a message function so the TUI and the
// headless printer receive the same events. It also owns the session cues
// and the no-voice monitor.
type msgSink struct {
	send     func(any)
	voice    *voiceWatch
	streamed atomic.Bool
}

func newMsgSink(send func(any), noVoiceWarning bool) *msgSink {
	s := &msgSink{send: send}
	s.voice = newVoiceWatch(noVoiceWarning, s.silence)
	return s
}

func (s *msgSink) StateChanged(from, to session.State, err error) {
	if from == session.Streaming {
		s.voice.Stop()
	}
	switch to {
	case session.Streaming:
		s.streamed.Store(true)
		s.voice.Start()
		beep.Play(beep.Start)
	case session.Idle:
		if s.streamed.Swap(false) {
			beep.Play(beep.Stop)
		}
	case session.Failed:
		s.streamed.Store(false)
		beep.Play(beep.Error)
	}
	s.send(StateMsg{From: from, To: to, Err: err})
}

func (s *msgSink) Result(e results.Entry) { s.send(ResultMsg{Entry: e}) }
func (s *msgSink) Status(msg string)      { s.send(StatusMsg{Text: msg}) }

func (s *msgSink) Languages(codes []string, target string) {
	s.send(LanguagesMsg{Codes: codes, Target: target})
}

func (s *msgSink) Frame(f audio.Frame) {
	s.voice.Feed(f)
	s.send(LevelMsg{Level: frameLevel(f.Samples)})
}

func (s *msgSink) silence(ev SilenceEvent) {
	switch ev {
	case SilenceWarn:
		log.Info("no_voice_warning")
		beep.Play(beep.Warn)
		s.send(NoVoiceMsg{Active: true})
	case SilenceRepeat:
		log.Info("silence_during_warning")
		beep.Play(beep.Warn)
	case SilenceWarnClear:
		s.send(NoVoiceMsg{Active: false})
	}
}

func (s *msgSink) Close() { s.voice.Stop() }

var _ session.Sink = (*msgSink)(nil)
