package sequencer

import "github.com/juju/errors"

// DrumKit maps drum slots to MIDI notes. A kit's DrumMap is the usual payload
// for a TrigSequencer[uint8] driving a drum machine.
type DrumKit struct {
	Name  string
	Notes [16]uint8
}

// SlotNames names the 16 drum slots, in track order.
var SlotNames = [16]string{
	"Kick", "Snare", "Closed HH", "Open HH",
	"Low Tom", "Mid Tom", "High Tom", "Crash",
	"Ride", "Clap", "Rimshot", "Cowbell",
	"Clave", "Maracas", "Low Conga", "High Conga",
}

var kits = map[string]DrumKit{
	"gm": {
		Name:  "General MIDI",
		Notes: [16]uint8{36, 38, 42, 46, 41, 43, 45, 49, 51, 39, 37, 56, 75, 70, 64, 63},
	},
	"rd8": {
		// RD-8 snare is 40, not 38
		Name:  "Behringer RD-8",
		Notes: [16]uint8{36, 40, 42, 46, 45, 48, 50, 49, 51, 39, 37, 56, 75, 70, 64, 63},
	},
	"tr8s": {
		Name:  "Roland TR-8S",
		Notes: [16]uint8{36, 38, 42, 46, 41, 43, 45, 49, 51, 39, 37, 56, 75, 70, 62, 63},
	},
	"er1": {
		// slots 10-15 are placeholders on the ER-1
		Name:  "Korg ER-1",
		Notes: [16]uint8{36, 38, 42, 46, 40, 41, 43, 49, 45, 39, 37, 56, 75, 70, 64, 63},
	},
}

// DefaultKit is the kit used when none is configured.
const DefaultKit = "gm"

// KitNames returns the available kit names in display order.
func KitNames() []string {
	return []string{"gm", "rd8", "tr8s", "er1"}
}

// GetKit looks a kit up by name.
func GetKit(name string) (DrumKit, error) {
	kit, ok := kits[name]
	if !ok {
		return DrumKit{}, errors.NotFoundf("drum kit %q", name)
	}
	return kit, nil
}

// DrumMap returns the kit's notes for the first tracks slots.
func (k DrumKit) DrumMap(tracks int) []uint8 {
	if tracks > len(k.Notes) {
		tracks = len(k.Notes)
	}
	if tracks < 0 {
		tracks = 0
	}
	return append([]uint8(nil), k.Notes[:tracks]...)
}
