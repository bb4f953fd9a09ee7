package midi

import (
	gomidi "gitlab.com/gomidi/midi/v2"

	"synth-tools/debug"
	"synth-tools/sequencer"
)

// Sender delivers one message; gomidi.SendTo returns one of these for an
// output port.
type Sender func(gomidi.Message) error

// DefaultVelocity is used for arpeggiator notes, which carry no velocity.
const DefaultVelocity = 100

// Sink turns sequencer callbacks into note messages on one channel.
// Its methods have the shapes the sequencers expect, so they can be passed
// straight to the constructors.
type Sink struct {
	channel  uint8 // 0-15
	send     Sender
	velocity uint8
	err      error
	sent     int
}

// NewSink sends to channel (1-16) through send.
func NewSink(channel int, send Sender) *Sink {
	return &Sink{
		channel:  uint8(clamp(channel, 1, 16) - 1),
		send:     send,
		velocity: DefaultVelocity,
	}
}

// SetVelocity sets the velocity used for arpeggiator notes.
func (s *Sink) SetVelocity(v int) {
	s.velocity = uint8(clamp(v, 1, 127))
}

// NoteOn is an arpeggiator on callback.
func (s *Sink) NoteOn(note int) {
	s.emit(gomidi.NoteOn(s.channel, noteByte(note), s.velocity))
}

// NoteOff is an arpeggiator off callback.
func (s *Sink) NoteOff(note int) {
	s.emit(gomidi.NoteOff(s.channel, noteByte(note)))
}

// StepOn is a step sequencer on callback. Disabled steps are rests.
func (s *Sink) StepOn(st sequencer.Step) {
	if !st.Enabled {
		return
	}
	s.emit(gomidi.NoteOn(s.channel, noteByte(st.Note), uint8(clamp(st.Velocity, 1, 127))))
}

// StepOff is a step sequencer off callback.
func (s *Sink) StepOff(st sequencer.Step) {
	if !st.Enabled {
		return
	}
	s.emit(gomidi.NoteOff(s.channel, noteByte(st.Note)))
}

// TrigOn is a trigger sequencer on callback; the payload is the MIDI note.
func (s *Sink) TrigOn(track int, note uint8) {
	s.emit(gomidi.NoteOn(s.channel, note&0x7f, s.velocity))
}

// TrigOff is a trigger sequencer off callback.
func (s *Sink) TrigOff(track int, note uint8) {
	s.emit(gomidi.NoteOff(s.channel, note&0x7f))
}

// Sent counts messages delivered without error.
func (s *Sink) Sent() int { return s.sent }

// Err returns the first send error, if any. Callbacks have nowhere to return
// an error to, so the sink keeps it.
func (s *Sink) Err() error { return s.err }

func (s *Sink) emit(msg gomidi.Message) {
	if s.send == nil {
		return
	}
	if err := s.send(msg); err != nil {
		if s.err == nil {
			s.err = err
		}
		debug.Log("midi", "send %v: %v", msg, err)
		return
	}
	s.sent++
}

func noteByte(n int) uint8 {
	return uint8(clamp(n, 0, 127))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
