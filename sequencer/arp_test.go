package sequencer

import (
	"math"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/google/go-cmp/cmp"
	"github.com/juju/errors"

	"synth-tools/clock"
)

type arpRecorder struct {
	clk  *clock.Manual
	ons  []timedNote
	offs []timedNote
}

func (r *arpRecorder) on(n int)  { r.ons = append(r.ons, timedNote{r.clk.Now(), n}) }
func (r *arpRecorder) off(n int) { r.offs = append(r.offs, timedNote{r.clk.Now(), n}) }

func (r *arpRecorder) notes() []int {
	var ns []int
	for _, on := range r.ons {
		ns = append(ns, on.note)
	}
	return ns
}

func newTestArp(c *qt.C, start clock.Millis) (*Arpeggiator, *arpRecorder) {
	r := &arpRecorder{clk: clock.NewManual(start)}
	a, err := NewArpeggiator(4, 120, r.on, r.off)
	c.Assert(err, qt.IsNil)
	a.SetClock(r.clk)
	return a, r
}

func TestArpeggiatorRejectsBadTempo(t *testing.T) {
	c := qt.New(t)

	_, err := NewArpeggiator(0, 120, nil, nil)
	c.Assert(errors.Is(err, errors.NotValid), qt.IsTrue)
	_, err = NewArpeggiator(4, 0, nil, nil)
	c.Assert(errors.Is(err, errors.NotValid), qt.IsTrue)

	a, err := NewArpeggiator(4, 120, nil, nil)
	c.Assert(err, qt.IsNil)
	c.Assert(a.SetTempo(2, -1), qt.ErrorMatches, "bpm -1 not valid")
	c.Assert(a.StepMillis(), qt.Equals, 125.0)
	c.Assert(a.SetTempo(2, 120), qt.IsNil)
	c.Assert(a.StepMillis(), qt.Equals, 250.0)

	c.Assert(a.SetOctaves(12, 0), qt.ErrorMatches, "octave range 0 not valid")
}

func TestArpeggiatorOctaveCycling(t *testing.T) {
	c := qt.New(t)

	a, r := newTestArp(c, 1000)
	for _, n := range []int{0, 4, 7} {
		a.AddNote(n)
	}
	c.Assert(a.SetOctaves(12, 2), qt.IsNil)
	a.Start()
	a.Update()
	poll(r.clk, a, 1, 11*125)

	c.Assert(r.notes(), qt.DeepEquals, []int{0, 4, 7, 12, 16, 19, 0, 4, 7, 12, 16, 19})
	for i, on := range r.ons {
		c.Assert(on.at, qt.Equals, clock.Millis(1000+125*i))
	}
}

func TestArpeggiatorGatesNotes(t *testing.T) {
	c := qt.New(t)

	a, r := newTestArp(c, 0)
	a.AddNote(60)
	a.SetGate(0.25)
	a.Start()
	a.Update()
	poll(r.clk, a, 1, 300)

	c.Assert(r.ons, qt.CmpEquals(cmp.AllowUnexported(timedNote{})), []timedNote{{0, 60}, {125, 60}, {250, 60}})
	// off at 31.25ms is first seen at 32
	c.Assert(r.offs, qt.CmpEquals(cmp.AllowUnexported(timedNote{})), []timedNote{{32, 60}, {157, 60}, {282, 60}})
}

func TestArpeggiatorHalfDeltaCorrection(t *testing.T) {
	c := qt.New(t)

	a, r := newTestArp(c, 0)
	a.AddNote(60)
	a.Start()
	a.Update()
	c.Assert(a.NextDue().Millis(), qt.Equals, clock.Millis(125))

	r.clk.Set(131)
	a.Update()
	// 6ms late: next step comes 3ms early
	c.Assert(a.NextDue().Millis(), qt.Equals, clock.Millis(131+125-3))
}

func TestArpeggiatorIdleWhenStopped(t *testing.T) {
	c := qt.New(t)

	a, r := newTestArp(c, 0)
	a.AddNote(60)
	due, cursor := a.NextDue(), a.Cursor()
	poll(r.clk, a, 1, 1000)
	c.Assert(r.ons, qt.HasLen, 0)
	c.Assert(r.offs, qt.HasLen, 0)
	c.Assert(a.NextDue(), qt.Equals, due)
	c.Assert(a.Cursor(), qt.Equals, cursor)
	c.Assert(a.Running(), qt.IsFalse)
}

func TestArpeggiatorStopReleasesHeldNote(t *testing.T) {
	c := qt.New(t)

	a, r := newTestArp(c, 0)
	a.SetNotes([]int{48, 52})
	a.Start()
	a.Update()
	poll(r.clk, a, 1, 130)
	c.Assert(r.notes(), qt.DeepEquals, []int{48, 52})
	c.Assert(r.offs, qt.HasLen, 1)

	a.Stop()
	c.Assert(r.offs, qt.HasLen, 2)
	c.Assert(r.offs[1].note, qt.Equals, 52)
	c.Assert(a.Running(), qt.IsFalse)

	// nothing left to release
	a.Stop()
	c.Assert(r.offs, qt.HasLen, 2)
}

func TestArpeggiatorNoteSet(t *testing.T) {
	c := qt.New(t)

	a, _ := newTestArp(c, 0)
	a.AddNote(60)
	a.AddNote(64)
	a.AddNote(60)
	c.Assert(a.Notes(), qt.DeepEquals, []int{60, 64})

	a.RemoveNote(99)
	c.Assert(a.Notes(), qt.DeepEquals, []int{60, 64})

	a.AddNote(67)
	a.cursor = 2
	a.RemoveNote(64)
	c.Assert(a.Notes(), qt.DeepEquals, []int{60, 67})
	c.Assert(a.Cursor(), qt.Equals, 0)

	a.cursor = 1
	a.RemoveNote(67)
	c.Assert(a.Cursor(), qt.Equals, 0)

	a.RemoveNote(60)
	c.Assert(a.Notes(), qt.HasLen, 0)
	c.Assert(a.Cursor(), qt.Equals, 0)
}

func TestArpeggiatorEmptySetStillReleases(t *testing.T) {
	c := qt.New(t)

	a, r := newTestArp(c, 0)
	a.AddNote(60)
	a.Start()
	a.Update()
	a.RemoveNote(60)
	poll(r.clk, a, 1, 500)

	c.Assert(r.ons, qt.HasLen, 1)
	c.Assert(r.offs, qt.CmpEquals(cmp.AllowUnexported(timedNote{})), []timedNote{{63, 60}})

	// notes come back: play resumes straight away
	a.AddNote(62)
	r.clk.Advance(1)
	a.Update()
	c.Assert(r.ons, qt.HasLen, 2)
	c.Assert(r.ons[1], qt.Equals, timedNote{501, 62})
}

func TestArpeggiatorLegatoNeverDropsOff(t *testing.T) {
	c := qt.New(t)

	a, r := newTestArp(c, 0)
	a.SetNotes([]int{60, 62, 64})
	a.SetGate(1)
	a.Start()
	a.Update()
	// coarse, uneven polling makes each step land early against the gate
	for i := 0; i < 200; i++ {
		r.clk.Advance(uint32(3 + i%5))
		a.Update()
	}
	a.Stop()
	c.Assert(len(r.offs), qt.Equals, len(r.ons))
	for i := range r.ons {
		c.Assert(r.offs[i].note, qt.Equals, r.ons[i].note)
	}
}

func TestArpeggiatorAcrossClockWrap(t *testing.T) {
	c := qt.New(t)

	a, r := newTestArp(c, math.MaxUint32-300)
	a.AddNote(60)
	a.Start()
	a.Update()
	poll(r.clk, a, 1, 1000)

	c.Assert(r.ons, qt.HasLen, 9)
	for i := 1; i < len(r.ons); i++ {
		c.Assert(r.ons[i].at.Sub(r.ons[i-1].at), qt.Equals, int32(125))
	}
}

func TestArpeggiatorTranspose(t *testing.T) {
	c := qt.New(t)

	a, r := newTestArp(c, 0)
	a.AddNote(60)
	a.SetTranspose(-12)
	a.Start()
	a.Update()
	c.Assert(r.notes(), qt.DeepEquals, []int{48})
}

func TestChord(t *testing.T) {
	c := qt.New(t)

	notes, err := Chord(48, "minor7")
	c.Assert(err, qt.IsNil)
	c.Assert(notes, qt.DeepEquals, []int{48, 51, 55, 58})

	for _, name := range ChordNames {
		_, err := Chord(0, name)
		c.Assert(err, qt.IsNil, qt.Commentf("chord %s", name))
	}

	_, err = Chord(0, "nope")
	c.Assert(errors.Is(err, errors.NotFound), qt.IsTrue)
}
