package rig

import (
	"io"

	"github.com/juju/errors"
	"gitlab.com/gomidi/midi/v2/smf"
)

// TicksPerQuarter is the resolution of files written by WriteSMF.
const TicksPerQuarter = 960

// WriteSMF writes fired messages as a single track standard MIDI file, with
// millisecond times converted to ticks at bpm.
func WriteSMF(w io.Writer, fired []Fired, bpm float64) error {
	if !(bpm > 0) {
		return errors.NotValidf("bpm %v", bpm)
	}
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(TicksPerQuarter)

	var track smf.Track
	track.Add(0, smf.MetaTempo(bpm))

	ticksPerMilli := TicksPerQuarter * bpm / 60000
	var last uint32
	for _, f := range fired {
		tick := uint32(float64(f.At)*ticksPerMilli + 0.5)
		if tick < last {
			tick = last
		}
		track.Add(tick-last, f.Msg)
		last = tick
	}
	track.Close(0)

	if err := s.Add(track); err != nil {
		return errors.Annotate(err, "cannot add track")
	}
	if _, err := s.WriteTo(w); err != nil {
		return errors.Annotate(err, "cannot write midi file")
	}
	return nil
}
