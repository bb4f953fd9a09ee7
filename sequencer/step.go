package sequencer

import (
	"github.com/juju/errors"
)

// Step is one slot of a melodic sequence.
type Step struct {
	Note     int
	Velocity int     // 0-127
	Gate     float64 // fraction of the step the note sounds, 0-1
	Enabled  bool
}

// DefaultStep is what every slot holds when a sequencer is created.
var DefaultStep = Step{Note: 0, Velocity: 127, Gate: 0.5, Enabled: true}

// StepFunc receives the step being turned on or off. The note already
// includes the sequencer's transpose.
type StepFunc func(s Step)

// StepSequencer loops a fixed-length pattern of steps.
//
// Steps, transpose and tempo may be changed at any time, including while
// playing; each step is read at the moment it fires.
type StepSequencer struct {
	scheduler

	onFunc  StepFunc
	offFunc StepFunc

	steps     []Step
	cursor    int
	transpose int

	held gate[Step]
}

// NewStepSequencer returns a stopped sequencer of stepCount default steps.
// Either callback may be nil.
func NewStepSequencer(stepCount int, stepsPerBeat, bpm float64, on, off StepFunc) (*StepSequencer, error) {
	if stepCount < 0 {
		return nil, errors.NotValidf("step count %d", stepCount)
	}
	tempo, err := NewTempo(stepsPerBeat, bpm)
	if err != nil {
		return nil, errors.Trace(err)
	}
	steps := make([]Step, stepCount)
	for i := range steps {
		steps[i] = DefaultStep
	}
	return &StepSequencer{
		scheduler: newScheduler("step", tempo, Accumulated),
		onFunc:    on,
		offFunc:   off,
		steps:     steps,
	}, nil
}

// Steps returns the live pattern. Its length is fixed; its contents may be
// edited freely.
func (q *StepSequencer) Steps() []Step {
	return q.steps
}

// StepCount is the pattern length.
func (q *StepSequencer) StepCount() int {
	return len(q.steps)
}

// Step returns the step at i.
func (q *StepSequencer) Step(i int) (Step, error) {
	if i < 0 || i >= len(q.steps) {
		return Step{}, errors.NotValidf("step index %d", i)
	}
	return q.steps[i], nil
}

// SetStep overwrites the step at i.
func (q *StepSequencer) SetStep(i int, s Step) error {
	if i < 0 || i >= len(q.steps) {
		return errors.NotValidf("step index %d", i)
	}
	q.steps[i] = s
	return nil
}

// SetNotes assigns notes to the first len(notes) steps, leaving velocity,
// gate and enabled untouched.
func (q *StepSequencer) SetNotes(notes []int) error {
	if len(notes) > len(q.steps) {
		return errors.NotValidf("%d notes for %d steps", len(notes), len(q.steps))
	}
	for i, n := range notes {
		q.steps[i].Note = n
	}
	return nil
}

// SetGates sets every step's gate to f, clamped to [0,1].
func (q *StepSequencer) SetGates(f float64) {
	f = clampGate(f)
	for i := range q.steps {
		q.steps[i].Gate = f
	}
}

// SetTranspose shifts every played note by t semitones.
func (q *StepSequencer) SetTranspose(t int) {
	q.transpose = t
}

func (q *StepSequencer) Transpose() int { return q.transpose }

// Cursor is the index of the next step to play.
func (q *StepSequencer) Cursor() int { return q.cursor }

// Start arms the sequencer; the step at the cursor plays on the next Update.
func (q *StepSequencer) Start() {
	q.arm()
}

// Stop releases any sounding note, halts playback and rewinds to step 0.
func (q *StepSequencer) Stop() {
	if s, ok := q.held.release(); ok {
		q.off(s)
	}
	q.disarm()
	q.cursor = 0
}

// Update advances the sequencer. Call it as often as possible.
func (q *StepSequencer) Update() {
	if !q.running {
		return
	}
	now := q.clock.Now()

	if s, ok := q.held.expired(now); ok {
		q.off(s)
	}

	delta, due := q.due(now)
	if !due || len(q.steps) == 0 {
		return
	}
	if s, ok := q.held.release(); ok {
		q.off(s)
	}

	s := q.steps[q.cursor]
	s.Note += q.transpose
	s.Gate = clampGate(s.Gate)
	q.held.hold(s, now, q.StepMillis()*s.Gate)

	q.cursor = (q.cursor + 1) % len(q.steps)
	q.reschedule(now, delta)

	if q.onFunc != nil {
		q.onFunc(s)
	}
}

func (q *StepSequencer) off(s Step) {
	if q.offFunc != nil {
		q.offFunc(s)
	}
}
