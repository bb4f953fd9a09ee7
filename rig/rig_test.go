package rig

import (
	"bytes"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"github.com/juju/errors"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"synth-tools/clock"
	"synth-tools/config"
	"synth-tools/sequencer"
)

func TestParseMode(t *testing.T) {
	c := qt.New(t)

	m, err := ParseMode("TRIG")
	c.Assert(err, qt.IsNil)
	c.Assert(m, qt.Equals, ModeTrig)

	_, err = ParseMode("drone")
	c.Assert(err, qt.ErrorMatches, `mode "drone" not valid`)
	c.Assert(ModeNames(), qt.DeepEquals, []string{"arp", "step", "trig"})
}

func TestNewUsesConfig(t *testing.T) {
	c := qt.New(t)
	cfg := config.DefaultConfig()
	send := func(gomidi.Message) error { return nil }

	c.Run("arp", func(c *qt.C) {
		r, err := New(cfg, ModeArp, send)
		c.Assert(err, qt.IsNil)
		c.Assert(r.Arp.Notes(), qt.DeepEquals, []int{48, 52, 55, 60})
		c.Assert(r.Arp.Correction(), qt.Equals, sequencer.HalfDelta)
		c.Assert(r.Engine().StepMillis(), qt.Equals, 125.0)
	})

	c.Run("step", func(c *qt.C) {
		r, err := New(cfg, ModeStep, send)
		c.Assert(err, qt.IsNil)
		c.Assert(r.Step.StepCount(), qt.Equals, 16)
		s, err := r.Step.Step(6)
		c.Assert(err, qt.IsNil)
		c.Assert(s.Note, qt.Equals, 32)
		c.Assert(s.Gate, qt.Equals, 0.3)
		c.Assert(r.Step.Correction(), qt.Equals, sequencer.Accumulated)
	})

	c.Run("trig", func(c *qt.C) {
		cfg := config.DefaultConfig()
		cfg.Trig.Kit = "rd8"
		cfg.Trig.Correction = "half"
		r, err := New(cfg, ModeTrig, send)
		c.Assert(err, qt.IsNil)
		c.Assert(r.Trig.TrackCount(), qt.Equals, 4)
		c.Assert(r.Trig.StepCount(), qt.Equals, 16)
		c.Assert(r.Trig.DrumMap(), qt.DeepEquals, []uint8{36, 40, 42, 46})
		c.Assert(r.Trig.BPM(), qt.Equals, 120.0)
		c.Assert(r.Trig.Correction(), qt.Equals, sequencer.HalfDelta)
	})
}

func TestNewRejects(t *testing.T) {
	c := qt.New(t)
	send := func(gomidi.Message) error { return nil }

	cfg := config.DefaultConfig()
	cfg.Trig.Pattern = []string{"x...", "x."}
	_, err := New(cfg, ModeTrig, send)
	c.Assert(err, qt.ErrorMatches, `trig pattern: .*`)
	c.Assert(errors.Is(err, errors.NotValid), qt.IsTrue)

	cfg = config.DefaultConfig()
	cfg.Tempo = 0
	_, err = New(cfg, ModeArp, send)
	c.Assert(errors.Is(err, errors.NotValid), qt.IsTrue)
}

func countNotes(fired []Fired) (ons, offs map[uint8]int) {
	ons, offs = map[uint8]int{}, map[uint8]int{}
	for _, f := range fired {
		var ch, key, vel uint8
		switch {
		case f.Msg.GetNoteStart(&ch, &key, &vel):
			ons[key]++
		case f.Msg.GetNoteEnd(&ch, &key):
			offs[key]++
		}
	}
	return ons, offs
}

func TestSimulateArp(t *testing.T) {
	c := qt.New(t)

	fired, err := Simulate(config.DefaultConfig(), ModeArp, time.Second, 1)
	c.Assert(err, qt.IsNil)

	// steps at 0, 125, ... 1000
	ons, offs := countNotes(fired)
	c.Assert(ons, qt.DeepEquals, map[uint8]int{48: 3, 52: 2, 55: 2, 60: 2})
	c.Assert(offs, qt.DeepEquals, ons)
	c.Assert(fired[1].At, qt.Equals, clock.Millis(63))
	c.Assert(int(fired[len(fired)-1].At) >= 1000, qt.IsTrue)
}

func TestSimulateTrig(t *testing.T) {
	c := qt.New(t)

	fired, err := Simulate(config.DefaultConfig(), ModeTrig, 15*125*time.Millisecond, 3)
	c.Assert(err, qt.IsNil)

	ons, _ := countNotes(fired)
	c.Assert(ons[36], qt.Equals, 5)
	c.Assert(ons[38], qt.Equals, 4)
	c.Assert(ons[42], qt.Equals, 15)
	c.Assert(ons[46], qt.Equals, 1)
}

func TestSimulateRejectsBadRange(t *testing.T) {
	c := qt.New(t)
	_, err := Simulate(config.DefaultConfig(), ModeStep, time.Second, 0)
	c.Assert(err, qt.ErrorMatches, `poll interval 0 not valid`)

	_, err = Simulate(config.DefaultConfig(), ModeStep, -time.Second, 1)
	c.Assert(err, qt.ErrorMatches, `duration -1s not valid`)
}

func TestWriteSMF(t *testing.T) {
	c := qt.New(t)

	fired := []Fired{
		{At: 0, Msg: gomidi.NoteOn(0, 60, 100)},
		{At: 250, Msg: gomidi.NoteOff(0, 60)},
		{At: 500, Msg: gomidi.NoteOn(0, 64, 100)},
	}
	var buf bytes.Buffer
	c.Assert(WriteSMF(&buf, fired, 120), qt.IsNil)

	s, err := smf.ReadFrom(&buf)
	c.Assert(err, qt.IsNil)
	c.Assert(s.Tracks, qt.HasLen, 1)

	// a quarter note at 120bpm is 500ms
	var deltas []uint32
	var keys []uint8
	for _, ev := range s.Tracks[0] {
		var ch, key, vel uint8
		msg := gomidi.Message(ev.Message)
		if msg.GetNoteStart(&ch, &key, &vel) || msg.GetNoteEnd(&ch, &key) {
			deltas = append(deltas, ev.Delta)
			keys = append(keys, key)
		}
	}
	c.Assert(keys, qt.DeepEquals, []uint8{60, 60, 64})
	c.Assert(deltas, qt.DeepEquals, []uint32{0, 480, 480})

	c.Assert(WriteSMF(&buf, fired, 0), qt.ErrorMatches, `bpm 0 not valid`)
}
