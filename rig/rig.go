// Package rig builds a configured sequencing engine wired to a MIDI sink.
package rig

import (
	"strings"

	"github.com/juju/errors"

	"synth-tools/clock"
	"synth-tools/config"
	"synth-tools/midi"
	"synth-tools/sequencer"
)

type Mode string

const (
	ModeArp  Mode = "arp"
	ModeStep Mode = "step"
	ModeTrig Mode = "trig"
)

var Modes = []Mode{ModeArp, ModeStep, ModeTrig}

func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(s))
	for _, known := range Modes {
		if m == known {
			return m, nil
		}
	}
	return "", errors.NotValidf("mode %q", s)
}

// Engine is what the three sequencers have in common.
type Engine interface {
	Start()
	Stop()
	Update()
	Running() bool
	Cursor() int
	BPM() float64
	SetBPM(bpm float64) error
	SetClock(c clock.Clock)
	SetCorrection(c sequencer.Correction)
	Correction() sequencer.Correction
	StepMillis() float64
}

// Rig holds one engine and the sink its callbacks feed. Exactly one of
// Arp, Step and Trig is set, matching Mode.
type Rig struct {
	Mode Mode
	Sink *midi.Sink
	Kit  sequencer.DrumKit

	Arp  *sequencer.Arpeggiator
	Step *sequencer.StepSequencer
	Trig *sequencer.TrigSequencer[uint8]
}

// New builds the engine for mode from cfg.
func New(cfg *config.Config, mode Mode, send midi.Sender) (*Rig, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	r := &Rig{Mode: mode, Sink: midi.NewSink(cfg.Channel, send)}

	var err error
	switch mode {
	case ModeArp:
		err = r.buildArp(cfg)
	case ModeStep:
		err = r.buildStep(cfg)
	case ModeTrig:
		err = r.buildTrig(cfg)
	default:
		err = errors.NotValidf("mode %q", mode)
	}
	if err != nil {
		return nil, errors.Trace(err)
	}
	return r, nil
}

func (r *Rig) buildArp(cfg *config.Config) error {
	a, err := sequencer.NewArpeggiator(cfg.StepsPerBeat, cfg.Tempo, r.Sink.NoteOn, r.Sink.NoteOff)
	if err != nil {
		return errors.Trace(err)
	}
	if err := a.SetOctaves(cfg.Arp.OctaveDistance, cfg.Arp.OctaveRange); err != nil {
		return errors.Trace(err)
	}
	notes, err := sequencer.Chord(cfg.Arp.Root, cfg.Arp.Chord)
	if err != nil {
		return errors.Trace(err)
	}
	a.SetNotes(notes)
	a.SetGate(cfg.Arp.Gate)
	a.SetCorrection(config.Correction(cfg.Arp.Correction, sequencer.HalfDelta))
	r.Arp = a
	return nil
}

func (r *Rig) buildStep(cfg *config.Config) error {
	q, err := sequencer.NewStepSequencer(len(cfg.Step.Notes), cfg.StepsPerBeat, cfg.Tempo, r.Sink.StepOn, r.Sink.StepOff)
	if err != nil {
		return errors.Trace(err)
	}
	notes := make([]int, len(cfg.Step.Notes))
	for i, n := range cfg.Step.Notes {
		notes[i] = cfg.Step.Root + n
	}
	if err := q.SetNotes(notes); err != nil {
		return errors.Trace(err)
	}
	q.SetGates(cfg.Step.Gate)
	q.SetCorrection(config.Correction(cfg.Step.Correction, sequencer.Accumulated))
	r.Step = q
	return nil
}

func (r *Rig) buildTrig(cfg *config.Config) error {
	kit, err := sequencer.GetKit(cfg.Trig.Kit)
	if err != nil {
		return errors.Trace(err)
	}
	grid := sequencer.ParseGrid(cfg.Trig.Pattern...)
	steps := 0
	if len(grid) > 0 {
		steps = len(grid[0])
	}
	q, err := sequencer.NewTrigSequencer[uint8](len(grid), steps, cfg.StepsPerBeat, r.Sink.TrigOn, r.Sink.TrigOff)
	if err != nil {
		return errors.Trace(err)
	}
	if err := q.SetPattern(grid); err != nil {
		return errors.Annotate(err, "trig pattern")
	}
	if err := q.SetBPM(cfg.Tempo); err != nil {
		return errors.Trace(err)
	}
	q.SetDrumMap(kit.DrumMap(len(grid)))
	q.SetCorrection(config.Correction(cfg.Trig.Correction, sequencer.FullDelta))
	r.Kit = kit
	r.Trig = q
	return nil
}

// Engine returns the built sequencer.
func (r *Rig) Engine() Engine {
	switch {
	case r.Arp != nil:
		return r.Arp
	case r.Step != nil:
		return r.Step
	default:
		return r.Trig
	}
}

// ModeNames lists the modes for help text.
func ModeNames() []string {
	names := make([]string, len(Modes))
	for i, m := range Modes {
		names[i] = string(m)
	}
	return names
}
