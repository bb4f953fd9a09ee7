package sequencer

import (
	"synth-tools/clock"
)

// updater is any engine's Update method.
type updater interface {
	Update()
}

// poll advances clk by every milliseconds, calling Update after each move,
// until total milliseconds have passed.
func poll(clk *clock.Manual, u updater, every, total uint32) {
	for elapsed := uint32(0); elapsed < total; elapsed += every {
		clk.Advance(every)
		u.Update()
	}
}

// timedNote is an arpeggiator callback as seen by a test.
type timedNote struct {
	at   clock.Millis
	note int
}
