package sequencer

import (
	"fmt"
	"math"
	"strings"

	"github.com/juju/errors"

	"synth-tools/clock"
	"synth-tools/debug"
)

// Deadline is an absolute point on the millisecond clock with a sub-millisecond
// remainder. Step durations are rarely whole milliseconds (16ths at 130 bpm are
// 115.38ms), so the remainder is carried instead of truncated away.
type Deadline struct {
	at   clock.Millis
	frac float64 // [0, 1)
}

// At returns a deadline exactly at t.
func At(t clock.Millis) Deadline {
	return Deadline{at: t}
}

// After returns the deadline ms milliseconds later (or earlier, if negative).
func (d Deadline) After(ms float64) Deadline {
	whole := math.Floor(ms)
	frac := d.frac + (ms - whole)
	if frac >= 1 {
		whole++
		frac--
	}
	return Deadline{at: d.at.Add(int32(whole)), frac: frac}
}

// Since reports how far now is past the deadline, in milliseconds.
// Negative means the deadline is still ahead.
func (d Deadline) Since(now clock.Millis) float64 {
	return float64(now.Sub(d.at)) - d.frac
}

// Millis is the deadline rounded down to the clock's resolution.
func (d Deadline) Millis() clock.Millis {
	return d.at
}

// Correction selects how a late step shortens the interval to the next one.
type Correction int

const (
	// HalfDelta pulls the next step in by half the lateness, floored.
	HalfDelta Correction = iota
	// Accumulated collects lateness and pays it back in one lump once the
	// total exceeds a millisecond.
	Accumulated
	// FullDelta pulls the next step in by the whole lateness.
	FullDelta
)

var correctionNames = []string{"half", "accumulated", "full"}

func (c Correction) String() string {
	if c < 0 || int(c) >= len(correctionNames) {
		return fmt.Sprintf("Correction(%d)", int(c))
	}
	return correctionNames[c]
}

// ParseCorrection maps "half", "accumulated" or "full" to a Correction.
func ParseCorrection(name string) (Correction, error) {
	for i, n := range correctionNames {
		if strings.EqualFold(n, name) {
			return Correction(i), nil
		}
	}
	return 0, errors.NotValidf("correction %q", name)
}

// driftThreshold is how much accumulated lateness (ms) Accumulated tolerates
// before paying it back.
const driftThreshold = 1

// scheduler is the timing core shared by every engine: a running flag, the
// next step deadline and the drift correction policy. Engines embed it and
// supply the payload handling.
type scheduler struct {
	clock      clock.Clock
	tempo      Tempo
	correction Correction
	running    bool
	next       Deadline
	drift      float64
	name       string
}

func newScheduler(name string, tempo Tempo, correction Correction) scheduler {
	return scheduler{
		clock:      clock.NewSystem(),
		tempo:      tempo,
		correction: correction,
		name:       name,
	}
}

// SetClock replaces the time source. Call it before Start.
func (s *scheduler) SetClock(c clock.Clock) {
	s.clock = c
}

// SetCorrection selects the drift correction policy.
func (s *scheduler) SetCorrection(c Correction) {
	s.correction = c
	s.drift = 0
}

func (s *scheduler) Correction() Correction { return s.correction }

// Running reports whether Update will fire events.
func (s *scheduler) Running() bool { return s.running }

// Tempo returns the current step grid.
func (s *scheduler) Tempo() Tempo { return s.tempo }

// BPM returns the tempo in beats per minute.
func (s *scheduler) BPM() float64 { return s.tempo.BPM() }

// StepMillis returns the current step duration in milliseconds.
func (s *scheduler) StepMillis() float64 { return s.tempo.StepMillis() }

// NextDue returns when the next step is scheduled.
func (s *scheduler) NextDue() Deadline { return s.next }

// SetBPM changes the tempo, keeping the grid resolution.
func (s *scheduler) SetBPM(bpm float64) error {
	t, err := s.tempo.WithBPM(bpm)
	if err != nil {
		return errors.Trace(err)
	}
	s.setTempo(t)
	return nil
}

// SetTempo changes both grid resolution and tempo.
func (s *scheduler) SetTempo(stepsPerBeat, bpm float64) error {
	t, err := NewTempo(stepsPerBeat, bpm)
	if err != nil {
		return errors.Trace(err)
	}
	s.setTempo(t)
	return nil
}

func (s *scheduler) setTempo(t Tempo) {
	s.tempo = t
	debug.Log(s.name, "tempo %.2f bpm x%v step=%.2fms", t.BPM(), t.StepsPerBeat(), t.StepMillis())
}

// arm makes the first step due immediately.
func (s *scheduler) arm() clock.Millis {
	now := s.clock.Now()
	s.next = At(now)
	s.drift = 0
	s.running = true
	debug.Log(s.name, "start at %d", now)
	return now
}

func (s *scheduler) disarm() {
	s.running = false
	debug.Log(s.name, "stop")
}

// due reports how late the next step is at now, and whether it is due at all.
func (s *scheduler) due(now clock.Millis) (float64, bool) {
	delta := s.next.Since(now)
	return delta, delta >= 0
}

// reschedule sets the next deadline one step after now, corrected for the
// lateness of the step that just fired. Only the sub-step part of the
// lateness counts: whole steps lost to a long polling gap are skipped,
// not replayed.
func (s *scheduler) reschedule(now clock.Millis, delta float64) {
	step := s.tempo.StepMillis()
	late := math.Mod(delta, step)
	interval := step
	switch s.correction {
	case HalfDelta:
		interval -= math.Floor(late / 2)
	case FullDelta:
		interval -= late
	case Accumulated:
		s.drift += late
		if s.drift > driftThreshold {
			interval -= s.drift
			s.drift = 0
		}
	}
	s.next = At(now).After(interval)
	debug.LogEvery(256, s.name, "late=%.2fms interval=%.2fms", late, interval)
}

// gate holds the most recent event that still owes an off callback.
type gate[T any] struct {
	held  bool
	value T
	off   Deadline
}

// hold records v as sounding until ms milliseconds after now.
func (g *gate[T]) hold(v T, now clock.Millis, ms float64) {
	g.held = true
	g.value = v
	g.off = At(now).After(ms)
}

// expired releases the held event if its off time has arrived.
func (g *gate[T]) expired(now clock.Millis) (T, bool) {
	if g.held && g.off.Since(now) >= 0 {
		return g.release()
	}
	var zero T
	return zero, false
}

// release clears the held event regardless of time.
func (g *gate[T]) release() (T, bool) {
	v, ok := g.value, g.held
	var zero T
	g.value = zero
	g.held = false
	return v, ok
}

func clampGate(f float64) float64 {
	if f < 0 || math.IsNaN(f) {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
