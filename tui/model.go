package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	gomidi "gitlab.com/gomidi/midi/v2"

	"synth-tools/config"
	"synth-tools/debug"
	"synth-tools/midi"
	"synth-tools/rig"
	"synth-tools/sequencer"
	"synth-tools/theme"
	"synth-tools/widgets"
)

// PollInterval is how often the engine is updated while the UI runs.
const PollInterval = time.Millisecond

// FrameInterval is how often the screen is redrawn. Polling does not redraw.
const FrameInterval = time.Second / 30

const logSize = 8

type Model struct {
	Rig    *rig.Rig
	Theme  *theme.Theme
	engine rig.Engine
	rec    *midi.Recorder
	keys   keyMap
	help   help.Model
	base   int // lowest piano note
	cursor int
	track  int
	err    error

	frame    string // last rendered screen
	quitting bool
}

type tickMsg time.Time

type frameMsg time.Time

// NewModel builds the engine for mode from cfg and records everything it
// sends.
func NewModel(cfg *config.Config, mode rig.Mode, th *theme.Theme) (Model, error) {
	rec := midi.NewRecorder(logSize)
	r, err := rig.New(cfg, mode, rec.Send)
	if err != nil {
		return Model{}, err
	}
	return Model{
		Rig:    r,
		Theme:  th,
		engine: r.Engine(),
		rec:    rec,
		keys:   newKeyMap(mode),
		help:   help.New(),
		base:   cfg.Arp.Root,
	}, nil
}

func tick() tea.Cmd {
	return tea.Tick(PollInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func nextFrame() tea.Cmd {
	return tea.Tick(FrameInterval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(tick(), nextFrame())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.quitting = true
			m.engine.Stop()
			return m, tea.Quit
		}
		m.handleKey(msg)
		m.frame = m.render()

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		m.frame = m.render()

	case frameMsg:
		m.frame = m.render()
		return m, nextFrame()

	case tickMsg:
		m.engine.Update()
		if err := m.Rig.Sink.Err(); err != nil && m.err == nil {
			m.err = err
			debug.Log("tui", "send failed: %v", err)
		}
		return m, tick()
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, m.keys.Play):
		if m.engine.Running() {
			m.engine.Stop()
		} else {
			m.engine.Start()
		}

	case key.Matches(msg, m.keys.TempoUp):
		m.setBPM(m.engine.BPM() + 5)

	case key.Matches(msg, m.keys.TempoDown):
		m.setBPM(m.engine.BPM() - 5)

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Piano):
		m.play(pianoKeys[msg.String()])

	default:
		switch m.Rig.Mode {
		case rig.ModeArp:
			m.arpKey(msg)
		case rig.ModeStep:
			m.stepKey(msg)
		case rig.ModeTrig:
			m.trigKey(msg)
		}
	}
}

func (m *Model) setBPM(bpm float64) {
	if err := m.engine.SetBPM(bpm); err != nil {
		debug.Log("tui", "tempo: %v", err)
	}
}

// play toggles a note in the arpeggiator's set as if it came from a
// keyboard: a second press releases it.
func (m *Model) play(offset int) {
	note := uint8(m.base + offset)
	msg := gomidi.NoteOn(0, note, midi.DefaultVelocity)
	for _, n := range m.Rig.Arp.Notes() {
		if n == int(note) {
			msg = gomidi.NoteOff(0, note)
			break
		}
	}
	midi.Hold(m.Rig.Arp, msg)
}

func (m *Model) arpKey(msg tea.KeyMsg) {
	a := m.Rig.Arp
	switch {
	case key.Matches(msg, m.keys.TransUp):
		a.SetTranspose(a.Transpose() + 1)
	case key.Matches(msg, m.keys.TransDown):
		a.SetTranspose(a.Transpose() - 1)
	case key.Matches(msg, m.keys.GateUp):
		a.SetGate(a.Gate() + 0.1)
	case key.Matches(msg, m.keys.GateDown):
		a.SetGate(a.Gate() - 0.1)
	}
}

func (m *Model) stepKey(msg tea.KeyMsg) {
	q := m.Rig.Step
	n := q.StepCount()
	if n == 0 {
		return
	}
	st, _ := q.Step(m.cursor)
	switch {
	case key.Matches(msg, m.keys.Left):
		m.cursor = (m.cursor + n - 1) % n
		return
	case key.Matches(msg, m.keys.Right):
		m.cursor = (m.cursor + 1) % n
		return
	case key.Matches(msg, m.keys.TransUp):
		q.SetTranspose(q.Transpose() + 1)
		return
	case key.Matches(msg, m.keys.TransDown):
		q.SetTranspose(q.Transpose() - 1)
		return
	case key.Matches(msg, m.keys.GateUp):
		q.SetGates(st.Gate + 0.1)
		return
	case key.Matches(msg, m.keys.GateDown):
		q.SetGates(st.Gate - 0.1)
		return
	case key.Matches(msg, m.keys.Up):
		st.Note = min(st.Note+1, 127)
	case key.Matches(msg, m.keys.Down):
		st.Note = max(st.Note-1, 0)
	case key.Matches(msg, m.keys.OctUp):
		st.Note = min(st.Note+12, 127)
	case key.Matches(msg, m.keys.OctDown):
		st.Note = max(st.Note-12, 0)
	case key.Matches(msg, m.keys.Toggle):
		st.Enabled = !st.Enabled
	default:
		return
	}
	if err := q.SetStep(m.cursor, st); err != nil {
		debug.Log("tui", "step: %v", err)
	}
}

func (m *Model) trigKey(msg tea.KeyMsg) {
	q := m.Rig.Trig
	steps, tracks := q.StepCount(), q.TrackCount()
	if steps == 0 || tracks == 0 {
		return
	}
	switch {
	case key.Matches(msg, m.keys.Left):
		m.cursor = (m.cursor + steps - 1) % steps
	case key.Matches(msg, m.keys.Right):
		m.cursor = (m.cursor + 1) % steps
	case key.Matches(msg, m.keys.Up):
		m.track = (m.track + tracks - 1) % tracks
	case key.Matches(msg, m.keys.Down):
		m.track = (m.track + 1) % tracks
	case key.Matches(msg, m.keys.Toggle):
		if err := q.SetTrig(m.track, m.cursor, !q.Trig(m.track, m.cursor)); err != nil {
			debug.Log("tui", "trig: %v", err)
		}
	}
}

// playhead is the step that fired last, or -1 when stopped.
func (m Model) playhead(steps int) int {
	if !m.engine.Running() || steps == 0 {
		return -1
	}
	return (m.engine.Cursor() + steps - 1) % steps
}

// View returns the screen as of the last frame or key press, so the
// renderer sees an unchanged string between frames.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.frame == "" {
		return m.render()
	}
	return m.frame
}

func (m Model) render() string {

	headerStyle := lipgloss.NewStyle().Foreground(m.Theme.Accent())
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())
	errStyle := lipgloss.NewStyle().Foreground(m.Theme.Warning())

	playState := "STOP"
	if m.engine.Running() {
		playState = "PLAY"
	}
	header := headerStyle.Render(fmt.Sprintf("synth-tools %s  %s  %3.0fbpm  %.1fms/step  %s",
		m.Rig.Mode, playState, m.engine.BPM(), m.engine.StepMillis(), m.engine.Correction()))

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(header)
	out.WriteString("\n\n")
	out.WriteString(m.engineView())
	out.WriteString("\n\n")

	events := m.rec.Events()
	for i := len(events) - 1; i >= 0; i-- {
		out.WriteString(dimStyle.Render(events[i].String()))
		out.WriteString("\n")
	}
	if m.err != nil {
		out.WriteString(errStyle.Render(m.err.Error()))
		out.WriteString("\n")
	}

	out.WriteString("\n")
	out.WriteString(m.help.View(m.keys))
	return out.String()
}

func (m Model) engineView() string {
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())

	switch m.Rig.Mode {
	case rig.ModeArp:
		a := m.Rig.Arp
		distance, passes := a.Octaves()
		status := dimStyle.Render(fmt.Sprintf("octave %d/%d (+%d)  gate %.1f  transpose %+d",
			a.Octave()+1, passes, distance, a.Gate(), a.Transpose()))
		return widgets.RenderArpNotes(m.Theme, a.Notes(), a.Cursor()) + "\n" + status

	case rig.ModeStep:
		q := m.Rig.Step
		cells := widgets.Cells{Cursor: m.cursor, Playhead: m.playhead(q.StepCount())}
		st, _ := q.Step(m.cursor)
		status := dimStyle.Render(fmt.Sprintf("step %02d  %s  gate %.1f  transpose %+d",
			m.cursor+1, widgets.NoteName(st.Note+q.Transpose()), st.Gate, q.Transpose()))
		return widgets.RenderSteps(m.Theme, q.Steps(), cells) + "\n" + status

	default:
		q := m.Rig.Trig
		cells := widgets.Cells{Cursor: m.cursor, Playhead: m.playhead(q.StepCount())}
		names := make([]string, q.TrackCount())
		for i := range names {
			if i < len(sequencer.SlotNames) {
				names[i] = sequencer.SlotNames[i]
			}
		}
		legend := widgets.RenderLegendItem(m.Theme, m.Theme.Symbols.StepActive, m.Rig.Kit.Name, "hit")
		return widgets.RenderTrigGrid(m.Theme, q.Grid(), names, m.track, cells) + "\n" + legend
	}
}
