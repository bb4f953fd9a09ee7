package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	qt "github.com/frankban/quicktest"

	"synth-tools/config"
	"synth-tools/rig"
	"synth-tools/theme"
)

func keys(m Model, ks ...string) Model {
	for _, k := range ks {
		var msg tea.KeyMsg
		switch k {
		case "left":
			msg = tea.KeyMsg{Type: tea.KeyLeft}
		case "right":
			msg = tea.KeyMsg{Type: tea.KeyRight}
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "space":
			msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func newModel(c *qt.C, mode rig.Mode) Model {
	m, err := NewModel(config.DefaultConfig(), mode, theme.New(nil))
	c.Assert(err, qt.IsNil)
	return m
}

func TestPlayAndTempo(t *testing.T) {
	c := qt.New(t)
	m := newModel(c, rig.ModeStep)

	m = keys(m, "p", "+", "+")
	c.Assert(m.engine.Running(), qt.IsTrue)
	c.Assert(m.engine.BPM(), qt.Equals, 130.0)

	m = keys(m, "p")
	c.Assert(m.engine.Running(), qt.IsFalse)
	c.Assert(m.View(), qt.Contains, "STOP")
}

func TestStepEditing(t *testing.T) {
	c := qt.New(t)
	m := newModel(c, rig.ModeStep)

	m = keys(m, "left", "up", "K", "space")
	c.Assert(m.cursor, qt.Equals, 15)
	st, err := m.Rig.Step.Step(15)
	c.Assert(err, qt.IsNil)
	c.Assert(st.Note, qt.Equals, 36+12+13)
	c.Assert(st.Enabled, qt.IsFalse)

	m = keys(m, "]", "}")
	c.Assert(m.Rig.Step.Transpose(), qt.Equals, 1)
	st, _ = m.Rig.Step.Step(0)
	c.Assert(st.Gate, qt.Equals, 0.4)
}

func TestTrigEditing(t *testing.T) {
	c := qt.New(t)
	m := newModel(c, rig.ModeTrig)

	c.Assert(m.Rig.Trig.Trig(3, 0), qt.IsFalse)
	m = keys(m, "up", "space")
	c.Assert(m.track, qt.Equals, 3)
	c.Assert(m.Rig.Trig.Trig(3, 0), qt.IsTrue)
	c.Assert(m.View(), qt.Contains, "Open HH")
}

func TestArpPiano(t *testing.T) {
	c := qt.New(t)
	m := newModel(c, rig.ModeArp)

	// z is the root, already part of the default chord
	m = keys(m, "z", "s")
	c.Assert(m.Rig.Arp.Notes(), qt.DeepEquals, []int{52, 55, 60, 49})

	m = keys(m, "]", "j")
	c.Assert(m.Rig.Arp.Transpose(), qt.Equals, 1)
	c.Assert(m.Rig.Arp.Notes(), qt.DeepEquals, []int{52, 55, 60, 49, 58})
}

func TestPollingDoesNotRedraw(t *testing.T) {
	c := qt.New(t)
	m := newModel(c, rig.ModeTrig)
	m = keys(m, "right")
	c.Assert(m.View(), qt.Contains, "STOP")

	// started outside a key press: polling alone keeps the old frame
	m.engine.Start()
	next, cmd := m.Update(tickMsg{})
	m = next.(Model)
	c.Assert(cmd, qt.IsNotNil)
	c.Assert(m.View(), qt.Contains, "STOP")

	next, _ = m.Update(frameMsg{})
	m = next.(Model)
	c.Assert(m.View(), qt.Contains, "PLAY")
}
