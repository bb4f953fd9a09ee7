package midi

import (
	"fmt"

	"github.com/juju/errors"
	gomidi "gitlab.com/gomidi/midi/v2"
)

// MIDI message types
const (
	NoteOn  uint8 = 0x90
	NoteOff uint8 = 0x80
)

// Event is a decoded note message.
type Event struct {
	Type     uint8 // NoteOn, NoteOff
	Channel  uint8
	Note     uint8
	Velocity uint8
}

func (e Event) String() string {
	kind := "off"
	if e.Type == NoteOn {
		kind = "on "
	}
	return fmt.Sprintf("ch%-2d %s %3d vel %3d", e.Channel+1, kind, e.Note, e.Velocity)
}

// Decode reads a note on or note off message. A note on with velocity 0
// decodes as a note off.
func Decode(msg gomidi.Message) (Event, bool) {
	var ch, key, vel uint8
	switch {
	case msg.GetNoteStart(&ch, &key, &vel):
		return Event{Type: NoteOn, Channel: ch, Note: key, Velocity: vel}, true
	case msg.GetNoteEnd(&ch, &key):
		return Event{Type: NoteOff, Channel: ch, Note: key}, true
	}
	return Event{}, false
}

// Recorder is a Sender that keeps the most recent note events, for display
// and tests.
type Recorder struct {
	max    int
	events []Event
}

// NewRecorder keeps up to max events.
func NewRecorder(max int) *Recorder {
	return &Recorder{max: max}
}

// Send records msg. Anything other than a note message is rejected.
func (r *Recorder) Send(msg gomidi.Message) error {
	ev, ok := Decode(msg)
	if !ok {
		return errors.NotSupportedf("message %v", msg)
	}
	r.events = append(r.events, ev)
	if over := len(r.events) - r.max; over > 0 {
		r.events = append(r.events[:0], r.events[over:]...)
	}
	return nil
}

// Events returns the recorded events, oldest first.
func (r *Recorder) Events() []Event {
	return append([]Event(nil), r.events...)
}
