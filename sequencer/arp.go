package sequencer

import (
	"slices"

	"github.com/juju/errors"
)

// NoteFunc receives a note number from the arpeggiator.
type NoteFunc func(note int)

// Arpeggiator cycles through a live set of held notes on a fixed step grid,
// climbing by OctaveDistance semitones on each pass for OctaveRange passes.
//
// The note set may change between calls to Update (key presses and releases);
// the arpeggiator always reads it live.
type Arpeggiator struct {
	scheduler

	onFunc  NoteFunc
	offFunc NoteFunc

	notes     []int
	cursor    int
	octave    int
	octDist   int
	octRange  int
	transpose int
	gateFrac  float64

	held gate[int]
}

// NewArpeggiator returns a stopped arpeggiator. rate is steps per beat
// (1 = quarter notes, 2 = eighths, 4 = sixteenths). Either callback may be nil.
func NewArpeggiator(rate, bpm float64, on, off NoteFunc) (*Arpeggiator, error) {
	tempo, err := NewTempo(rate, bpm)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return &Arpeggiator{
		scheduler: newScheduler("arp", tempo, HalfDelta),
		onFunc:    on,
		offFunc:   off,
		octDist:   12,
		octRange:  1,
		gateFrac:  0.5,
	}, nil
}

// SetOctaves sets the transpose applied per pass (in semitones) and how many
// passes happen before the arpeggio returns to its base pitch.
func (a *Arpeggiator) SetOctaves(distance, passes int) error {
	if passes < 1 {
		return errors.NotValidf("octave range %d", passes)
	}
	a.octDist = distance
	a.octRange = passes
	if a.octave >= passes {
		a.octave = 0
	}
	return nil
}

// Octaves returns the octave distance and range.
func (a *Arpeggiator) Octaves() (distance, passes int) {
	return a.octDist, a.octRange
}

// SetGate sets how much of each step a note sounds for, clamped to [0,1].
func (a *Arpeggiator) SetGate(f float64) {
	a.gateFrac = clampGate(f)
}

func (a *Arpeggiator) Gate() float64 { return a.gateFrac }

// SetTranspose shifts every played note by t semitones.
func (a *Arpeggiator) SetTranspose(t int) {
	a.transpose = t
}

func (a *Arpeggiator) Transpose() int { return a.transpose }

// AddNote adds n to the held set. Adding a note already held does nothing.
func (a *Arpeggiator) AddNote(n int) {
	if !slices.Contains(a.notes, n) {
		a.notes = append(a.notes, n)
	}
}

// RemoveNote drops n from the held set. If n was at or before the play
// position, the arpeggio restarts from the first note.
func (a *Arpeggiator) RemoveNote(n int) {
	i := slices.Index(a.notes, n)
	if i < 0 {
		return
	}
	a.notes = slices.Delete(a.notes, i, i+1)
	if i <= a.cursor || a.cursor >= len(a.notes) {
		a.cursor = 0
	}
}

// SetNotes replaces the whole note set, duplicates included.
func (a *Arpeggiator) SetNotes(notes []int) {
	a.notes = append(a.notes[:0], notes...)
	if a.cursor >= len(a.notes) {
		a.cursor = 0
	}
}

// Notes returns a copy of the held set in play order.
func (a *Arpeggiator) Notes() []int {
	return slices.Clone(a.notes)
}

// Cursor is the index of the next note to play.
func (a *Arpeggiator) Cursor() int { return a.cursor }

// Octave is the current pass, 0 <= Octave() < octave range.
func (a *Arpeggiator) Octave() int { return a.octave }

// Start arms the arpeggiator; the first note plays on the next Update.
func (a *Arpeggiator) Start() {
	a.arm()
}

// Stop releases any sounding note and halts playback.
func (a *Arpeggiator) Stop() {
	if note, ok := a.held.release(); ok {
		a.off(note)
	}
	a.disarm()
}

// Update advances the arpeggiator. Call it as often as possible.
func (a *Arpeggiator) Update() {
	if !a.running {
		return
	}
	now := a.clock.Now()

	if note, ok := a.held.expired(now); ok {
		a.off(note)
	}

	delta, due := a.due(now)
	if !due || len(a.notes) == 0 {
		return
	}
	// A late off would otherwise be lost when the next note takes the gate.
	if note, ok := a.held.release(); ok {
		a.off(note)
	}

	note := a.notes[a.cursor] + a.transpose + a.octDist*a.octave
	a.held.hold(note, now, a.StepMillis()*a.gateFrac)

	a.cursor = (a.cursor + 1) % len(a.notes)
	if a.cursor == 0 {
		a.octave = (a.octave + 1) % a.octRange
	}
	a.reschedule(now, delta)

	if a.onFunc != nil {
		a.onFunc(note)
	}
}

func (a *Arpeggiator) off(note int) {
	if a.offFunc != nil {
		a.offFunc(note)
	}
}
