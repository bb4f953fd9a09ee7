package midi

import (
	gomidi "gitlab.com/gomidi/midi/v2"
)

// NoteSet is a set of held keys, such as an arpeggiator's.
type NoteSet interface {
	AddNote(note int)
	RemoveNote(note int)
}

// Hold applies a note message to ns: note on adds the key, note off (or
// note on with velocity 0) removes it. It reports whether msg was a note
// message at all.
func Hold(ns NoteSet, msg gomidi.Message) bool {
	ev, ok := Decode(msg)
	if !ok {
		return false
	}
	if ev.Type == NoteOn {
		ns.AddNote(int(ev.Note))
	} else {
		ns.RemoveNote(int(ev.Note))
	}
	return true
}
