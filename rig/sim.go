package rig

import (
	"time"

	"github.com/juju/errors"
	gomidi "gitlab.com/gomidi/midi/v2"

	"synth-tools/clock"
	"synth-tools/config"
)

// Fired is one message produced during a simulation.
type Fired struct {
	At  clock.Millis
	Msg gomidi.Message
}

// Simulate runs the engine for mode against a manual clock, polling it
// every ms milliseconds for d, and returns every message it sent. The
// engine is stopped at the end so held notes are released.
func Simulate(cfg *config.Config, mode Mode, d time.Duration, every uint32) ([]Fired, error) {
	if every == 0 {
		return nil, errors.NotValidf("poll interval 0")
	}
	if d < 0 {
		return nil, errors.NotValidf("duration %v", d)
	}
	clk := clock.NewManual(0)
	var fired []Fired
	r, err := New(cfg, mode, func(msg gomidi.Message) error {
		fired = append(fired, Fired{At: clk.Now(), Msg: msg})
		return nil
	})
	if err != nil {
		return nil, errors.Trace(err)
	}

	e := r.Engine()
	e.SetClock(clk)
	e.Start()
	total := d.Milliseconds()
	for elapsed := int64(0); elapsed <= total; elapsed += int64(every) {
		e.Update()
		clk.Advance(every)
	}
	e.Stop()
	return fired, errors.Trace(r.Sink.Err())
}
