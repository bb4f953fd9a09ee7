package sequencer

import (
	"github.com/juju/errors"
)

// TrigFunc receives a track index and that track's drum map payload.
type TrigFunc[P any] func(track int, payload P)

// TrigSequencer plays a grid of on/off triggers, one row per track. Every
// track set at the current column fires together. Hits are fire-and-forget:
// the off callback is only used by Stop, to silence the last hits.
//
// P is whatever the callbacks need per track: a MIDI note, a sample handle,
// a voice index. The sequencer never looks at it.
type TrigSequencer[P any] struct {
	scheduler

	onFunc  TrigFunc[P]
	offFunc TrigFunc[P]

	trigs     [][]bool
	stepCount int
	drumMap   []P
	cursor  int
	hits    []int // tracks fired on the most recent step
}

// NewTrigSequencer returns a stopped sequencer with an empty grid at the
// default tempo. Either callback may be nil.
func NewTrigSequencer[P any](trackCount, stepCount int, stepsPerBeat float64, on, off TrigFunc[P]) (*TrigSequencer[P], error) {
	if trackCount < 0 {
		return nil, errors.NotValidf("track count %d", trackCount)
	}
	if stepCount < 0 {
		return nil, errors.NotValidf("step count %d", stepCount)
	}
	tempo, err := NewTempo(stepsPerBeat, DefaultBPM)
	if err != nil {
		return nil, errors.Trace(err)
	}
	trigs := make([][]bool, trackCount)
	for t := range trigs {
		trigs[t] = make([]bool, stepCount)
	}
	return &TrigSequencer[P]{
		scheduler: newScheduler("trig", tempo, FullDelta),
		onFunc:    on,
		offFunc:   off,
		trigs:     trigs,
		stepCount: stepCount,
		drumMap:   make([]P, trackCount),
	}, nil
}

func (q *TrigSequencer[P]) TrackCount() int { return len(q.trigs) }

func (q *TrigSequencer[P]) StepCount() int { return q.stepCount }

// SetPattern overwrites the first len(grid) tracks. Every row must be exactly
// StepCount long; tracks past the end of grid keep their triggers. Nothing
// changes if any row is rejected.
func (q *TrigSequencer[P]) SetPattern(grid [][]bool) error {
	if len(grid) > len(q.trigs) {
		return errors.NotValidf("%d rows for %d tracks", len(grid), len(q.trigs))
	}
	for t, row := range grid {
		if len(row) != q.StepCount() {
			return errors.NotValidf("track %d has %d steps, want %d", t, len(row), q.StepCount())
		}
	}
	for t, row := range grid {
		copy(q.trigs[t], row)
	}
	return nil
}

// Grid returns a copy of the trigger rows. Use SetTrig or SetPattern to
// change them.
func (q *TrigSequencer[P]) Grid() [][]bool {
	grid := make([][]bool, len(q.trigs))
	for t, row := range q.trigs {
		grid[t] = append([]bool(nil), row...)
	}
	return grid
}

// Trig reports whether track fires at step.
func (q *TrigSequencer[P]) Trig(track, step int) bool {
	if track < 0 || track >= len(q.trigs) || step < 0 || step >= q.StepCount() {
		return false
	}
	return q.trigs[track][step]
}

// SetTrig turns one cell on or off.
func (q *TrigSequencer[P]) SetTrig(track, step int, on bool) error {
	if track < 0 || track >= len(q.trigs) {
		return errors.NotValidf("track %d", track)
	}
	if step < 0 || step >= q.StepCount() {
		return errors.NotValidf("step %d", step)
	}
	q.trigs[track][step] = on
	return nil
}

// SetDrumMap sets the per-track payloads. Extra entries are ignored; tracks
// without an entry get the zero P.
func (q *TrigSequencer[P]) SetDrumMap(m []P) {
	var zero P
	for t := range q.drumMap {
		if t < len(m) {
			q.drumMap[t] = m[t]
		} else {
			q.drumMap[t] = zero
		}
	}
}

// DrumMap returns a copy of the per-track payloads.
func (q *TrigSequencer[P]) DrumMap() []P {
	return append([]P(nil), q.drumMap...)
}

// Cursor is the index of the next column to play.
func (q *TrigSequencer[P]) Cursor() int { return q.cursor }

// Start arms the sequencer; the column at the cursor plays on the next Update.
func (q *TrigSequencer[P]) Start() {
	q.arm()
}

// Stop sends the off callback for every track that fired on the last step,
// halts playback and rewinds to step 0.
func (q *TrigSequencer[P]) Stop() {
	if q.offFunc != nil {
		for _, t := range q.hits {
			q.offFunc(t, q.drumMap[t])
		}
	}
	q.hits = q.hits[:0]
	q.disarm()
	q.cursor = 0
}

// Update advances the sequencer. Call it as often as possible.
func (q *TrigSequencer[P]) Update() {
	if !q.running {
		return
	}
	now := q.clock.Now()

	delta, due := q.due(now)
	if !due || q.StepCount() == 0 {
		return
	}

	q.hits = q.hits[:0]
	for t, row := range q.trigs {
		if q.cursor < len(row) && row[q.cursor] {
			q.hits = append(q.hits, t)
		}
	}
	q.cursor = (q.cursor + 1) % q.StepCount()
	q.reschedule(now, delta)

	if q.onFunc != nil {
		for _, t := range q.hits {
			q.onFunc(t, q.drumMap[t])
		}
	}
}

// ParseGrid turns rows like "x...x...x...x..." into trigger rows: 'x', 'X'
// and '1' are hits, anything else is a rest.
func ParseGrid(rows ...string) [][]bool {
	grid := make([][]bool, len(rows))
	for t, row := range rows {
		grid[t] = make([]bool, 0, len(row))
		for _, r := range row {
			grid[t] = append(grid[t], r == 'x' || r == 'X' || r == '1')
		}
	}
	return grid
}
