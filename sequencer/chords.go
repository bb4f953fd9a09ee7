package sequencer

import "github.com/juju/errors"

// Chord shapes for the arpeggiator, as semitone offsets from the root.
// Repeated offsets are intentional: they weight the arpeggio.
var chords = map[string][]int{
	"major":      {0, 4, 7, 12},
	"minor7":     {0, 3, 7, 10},
	"diminished": {0, 3, 6, 3},
	"suspend4":   {0, 5, 7, 12},
	"octaves":    {0, 12, 0, -12},
	"octaves2":   {0, -12, -12, 0},
	"root":       {0, 0, 0, 0},
}

// ChordNames lists the chord shapes in display order.
var ChordNames = []string{
	"major", "minor7", "diminished", "suspend4", "octaves", "octaves2", "root",
}

// Chord returns the notes of the named chord shape built on root.
func Chord(root int, name string) ([]int, error) {
	shape, ok := chords[name]
	if !ok {
		return nil, errors.NotFoundf("chord %q", name)
	}
	notes := make([]int, len(shape))
	for i, n := range shape {
		notes[i] = root + n
	}
	return notes, nil
}
