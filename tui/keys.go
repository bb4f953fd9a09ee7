package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"synth-tools/rig"
)

type keyMap struct {
	Play      key.Binding
	TempoUp   key.Binding
	TempoDown key.Binding
	Left      key.Binding
	Right     key.Binding
	Up        key.Binding
	Down      key.Binding
	OctUp     key.Binding
	OctDown   key.Binding
	Toggle    key.Binding
	TransUp   key.Binding
	TransDown key.Binding
	GateUp    key.Binding
	GateDown  key.Binding
	Piano     key.Binding
	Help      key.Binding
	Quit      key.Binding
}

// pianoKeys is a tracker-style keyboard starting at C: the bottom row plays
// naturals and the row above plays sharps.
var pianoKeys = map[string]int{
	"z": 0, "s": 1, "x": 2, "d": 3, "c": 4, "v": 5, "g": 6,
	"b": 7, "h": 8, "n": 9, "j": 10, "m": 11, ",": 12,
}

func newKeyMap(mode rig.Mode) keyMap {
	km := keyMap{
		Play:      key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "play/stop")),
		TempoUp:   key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+/-", "tempo")),
		TempoDown: key.NewBinding(key.WithKeys("-", "_")),
		Left:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/→", "move")),
		Right:     key.NewBinding(key.WithKeys("right", "l")),
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/↓", "note")),
		Down:      key.NewBinding(key.WithKeys("down", "j")),
		OctUp:     key.NewBinding(key.WithKeys("K"), key.WithHelp("K/J", "octave")),
		OctDown:   key.NewBinding(key.WithKeys("J")),
		Toggle:    key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("space", "toggle")),
		TransUp:   key.NewBinding(key.WithKeys("]"), key.WithHelp("[/]", "transpose")),
		TransDown: key.NewBinding(key.WithKeys("[")),
		GateUp:    key.NewBinding(key.WithKeys("}"), key.WithHelp("{/}", "gate")),
		GateDown:  key.NewBinding(key.WithKeys("{")),
		Piano:     key.NewBinding(key.WithKeys("z", "s", "x", "d", "c", "v", "g", "b", "h", "n", "j", "m", ","), key.WithHelp("z-m", "hold/release notes")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}

	switch mode {
	case rig.ModeArp:
		// arrows only; h/j/k/l are piano keys here
		km.Up.SetEnabled(false)
		km.Down.SetEnabled(false)
		km.Left.SetEnabled(false)
		km.Right.SetEnabled(false)
		km.OctUp.SetEnabled(false)
		km.OctDown.SetEnabled(false)
		km.Toggle.SetEnabled(false)
	case rig.ModeStep:
		km.Piano.SetEnabled(false)
	case rig.ModeTrig:
		km.Piano.SetEnabled(false)
		km.Up.SetHelp("↑/↓", "track")
		km.OctUp.SetEnabled(false)
		km.OctDown.SetEnabled(false)
		km.TransUp.SetEnabled(false)
		km.TransDown.SetEnabled(false)
		km.GateUp.SetEnabled(false)
		km.GateDown.SetEnabled(false)
	}
	return km
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Play, k.TempoUp, k.Toggle, k.Piano, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Play, k.TempoUp, k.Help, k.Quit},
		{k.Left, k.Up, k.OctUp, k.Toggle},
		{k.TransUp, k.GateUp, k.Piano},
	}
}
