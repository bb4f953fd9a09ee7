package sequencer

import (
	"math"

	"github.com/juju/errors"
)

// DefaultBPM is the tempo engines start at when none is given.
const DefaultBPM = 120

// Tempo is a step grid: how many steps fit in a beat and how many beats per
// minute. The step duration is always derived, never stored, so reading BPM
// back after any number of changes returns exactly what was set.
type Tempo struct {
	stepsPerBeat float64
	bpm          float64
}

// NewTempo returns a tempo grid. stepsPerBeat is the grid resolution
// (1 = quarter notes, 2 = eighths, 4 = sixteenths, 8 = thirty-seconds).
func NewTempo(stepsPerBeat, bpm float64) (Tempo, error) {
	if !(stepsPerBeat > 0) {
		return Tempo{}, errors.NotValidf("steps per beat %v", stepsPerBeat)
	}
	if !(bpm > 0) {
		return Tempo{}, errors.NotValidf("bpm %v", bpm)
	}
	// step must be a usable finite duration, which also rules out infinite inputs
	if step := 60000 / stepsPerBeat / bpm; !(step > 0) || math.IsInf(step, 0) {
		return Tempo{}, errors.NotValidf("tempo %v bpm at %v steps per beat", bpm, stepsPerBeat)
	}
	return Tempo{stepsPerBeat: stepsPerBeat, bpm: bpm}, nil
}

func (t Tempo) StepsPerBeat() float64 { return t.stepsPerBeat }

func (t Tempo) BPM() float64 { return t.bpm }

// StepMillis is the duration of one step in milliseconds.
func (t Tempo) StepMillis() float64 {
	return 60000 / t.stepsPerBeat / t.bpm
}

// WithBPM returns t with a new tempo and the same resolution.
func (t Tempo) WithBPM(bpm float64) (Tempo, error) {
	return NewTempo(t.stepsPerBeat, bpm)
}
