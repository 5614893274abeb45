package platform

import (
	"io"
	"log"
)

// TerminalAlarm plays alarm sounds as a terminal bell. Fire-and-forget:
// write failures are logged and swallowed.
type TerminalAlarm struct {
	out    io.Writer
	logger *log.Logger
}

// NewTerminalAlarm creates an alarm ringing the bell on out
func NewTerminalAlarm(out io.Writer, logger *log.Logger) *TerminalAlarm {
	if out == nil {
		panic("TerminalAlarm: out cannot be nil")
	}
	if logger == nil {
		panic("TerminalAlarm: logger cannot be nil")
	}
	return &TerminalAlarm{out: out, logger: logger}
}

// Play rings the terminal bell for the given sound
func (a *TerminalAlarm) Play(soundID string) {
	if _, err := a.out.Write([]byte("\a")); err != nil {
		a.logger.Printf("TerminalAlarm: playing %s failed (continuing): %v", soundID, err)
		return
	}
	a.logger.Printf("TerminalAlarm: played %s", soundID)
}
