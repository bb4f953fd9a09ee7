package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"synth-tools/sequencer"
	"synth-tools/theme"
)

var noteNames = []string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// NoteName converts a MIDI note to a readable name (e.g. "C4", "F#3").
func NoteName(note int) string {
	if note < 0 || note > 127 {
		return "--"
	}
	return fmt.Sprintf("%s%d", noteNames[note%12], note/12-1)
}

// noteChar is a single-character note, lowercase for sharps.
func noteChar(note int) string {
	if note < 0 {
		return "?"
	}
	return []string{"C", "c", "D", "d", "E", "F", "f", "G", "g", "A", "a", "B"}[note%12]
}

// Cells describes what to highlight in a row of steps. Playhead is -1 when
// stopped.
type Cells struct {
	Cursor   int
	Playhead int
}

func (c Cells) style(th *theme.Theme, i int, active bool) lipgloss.Style {
	s := lipgloss.NewStyle().Foreground(th.Muted())
	if active {
		s = s.Foreground(th.Active())
	}
	if i == c.Cursor {
		s = s.Background(th.Cursor())
	}
	if i == c.Playhead {
		s = s.Reverse(true)
	}
	return s
}

// RenderSteps renders a step pattern as one note character per step, with
// a second row of symbols.
func RenderSteps(th *theme.Theme, steps []sequencer.Step, cells Cells) string {
	var notes, marks strings.Builder
	for i, st := range steps {
		style := cells.style(th, i, st.Enabled)
		notes.WriteString(style.Render(noteChar(st.Note)))

		sym := th.Symbols.StepDisabled
		if st.Enabled {
			sym = th.Symbols.StepActive
		}
		marks.WriteString(style.Render(string(sym)))
	}
	return notes.String() + "\n" + marks.String()
}

// RenderTrigGrid renders one row per track, labelled with names.
func RenderTrigGrid(th *theme.Theme, grid [][]bool, names []string, track int, cells Cells) string {
	label := lipgloss.NewStyle().Width(10).Foreground(th.FG())
	var lines []string
	for t, row := range grid {
		var line strings.Builder
		name := ""
		if t < len(names) {
			name = names[t]
		}
		l := label
		if t == track {
			l = l.Foreground(th.Accent())
		}
		line.WriteString(l.Render(name))

		rc := cells
		if t != track {
			rc.Cursor = -1
		}
		for i, hit := range row {
			sym := th.Symbols.StepEmpty
			if hit {
				sym = th.Symbols.StepActive
			}
			if i == rc.Cursor {
				sym = th.Symbols.CursorEmpty
				if hit {
					sym = th.Symbols.CursorActive
				}
			}
			line.WriteString(rc.style(th, i, hit).Render(string(sym)))
		}
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}

// RenderArpNotes renders the held note set, highlighting the note that
// plays next.
func RenderArpNotes(th *theme.Theme, notes []int, next int) string {
	if len(notes) == 0 {
		return lipgloss.NewStyle().Foreground(th.Muted()).Render("(no notes held)")
	}
	var parts []string
	for i, n := range notes {
		s := lipgloss.NewStyle().Foreground(th.FG())
		if i == next {
			s = s.Foreground(th.Active()).Bold(true)
		}
		parts = append(parts, s.Render(NoteName(n)))
	}
	return strings.Join(parts, " ")
}

// RenderLegendItem renders a single legend item: "● name - description"
func RenderLegendItem(th *theme.Theme, sym rune, name, desc string) string {
	return fmt.Sprintf("  %s %s - %s", lipgloss.NewStyle().Foreground(th.Active()).Render(string(sym)), name, desc)
}
