package widgets

import (
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"

	"synth-tools/sequencer"
	"synth-tools/theme"
)

func TestNoteName(t *testing.T) {
	c := qt.New(t)
	c.Assert(NoteName(60), qt.Equals, "C4")
	c.Assert(NoteName(42), qt.Equals, "F#2")
	c.Assert(NoteName(0), qt.Equals, "C-1")
	c.Assert(NoteName(128), qt.Equals, "--")
}

func TestRenderSteps(t *testing.T) {
	c := qt.New(t)
	th := theme.New(nil)

	steps := []sequencer.Step{
		{Note: 60, Enabled: true},
		{Note: 61, Enabled: false},
	}
	out := RenderSteps(th, steps, Cells{Cursor: -1, Playhead: -1})
	lines := strings.Split(out, "\n")
	c.Assert(lines, qt.HasLen, 2)
	c.Assert(lines[0], qt.Contains, "C")
	c.Assert(lines[0], qt.Contains, "c")
	c.Assert(lines[1], qt.Contains, "●")
	c.Assert(lines[1], qt.Contains, "○")
}

func TestRenderTrigGrid(t *testing.T) {
	c := qt.New(t)
	th := theme.New(nil)

	grid := sequencer.ParseGrid("x.", ".x")
	out := RenderTrigGrid(th, grid, []string{"Kick", "Snare"}, 1, Cells{Cursor: 1, Playhead: -1})
	lines := strings.Split(out, "\n")
	c.Assert(lines, qt.HasLen, 2)
	c.Assert(lines[0], qt.Contains, "Kick")
	c.Assert(lines[0], qt.Contains, "●")
	c.Assert(lines[1], qt.Contains, "◉")
}

func TestRenderArpNotes(t *testing.T) {
	c := qt.New(t)
	th := theme.New(nil)

	c.Assert(RenderArpNotes(th, nil, 0), qt.Contains, "no notes")
	out := RenderArpNotes(th, []int{48, 52}, 1)
	c.Assert(out, qt.Contains, "C3")
	c.Assert(out, qt.Contains, "E3")
}
