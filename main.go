package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/juju/errors"
	"github.com/spf13/cobra"

	"synth-tools/config"
	"synth-tools/debug"
	"synth-tools/rig"
	"synth-tools/sequencer"
	"synth-tools/theme"
	"synth-tools/tui"
)

var version = "dev"

var (
	configPath   string
	bpm          float64
	stepsPerBeat float64
	channel      int
	kitName      string
	correction   string
	debugLog     bool
	palettePath  string
	duration     time.Duration
	pollEvery    uint32
	smfPath      string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "synth-tools",
	Short: "Arpeggiator, step sequencer and trigger sequencer",
	Long: `synth-tools runs an arpeggiator, a step sequencer or a drum trigger
sequencer off a millisecond clock, correcting for polling jitter.

Examples:
  synth-tools tui step
  synth-tools sim trig --duration 4s --poll 3
  synth-tools sim arp --smf arp.mid
  synth-tools chords`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var tuiCmd = &cobra.Command{
	Use:   "tui [arp|step|trig]",
	Short: "Play an engine interactively",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTUI,
}

var simCmd = &cobra.Command{
	Use:   "sim <arp|step|trig>",
	Short: "Run an engine against a simulated clock and print what it sends",
	Args:  cobra.ExactArgs(1),
	RunE:  runSim,
}

var chordsCmd = &cobra.Command{
	Use:   "chords",
	Short: "List arpeggiator chord patterns",
	Args:  cobra.NoArgs,
	RunE:  runChords,
}

var kitsCmd = &cobra.Command{
	Use:   "kits",
	Short: "List drum kits",
	Args:  cobra.NoArgs,
	RunE:  runKits,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "Config file (default ~/.config/synth-tools/config.json)")
	pf.Float64Var(&bpm, "bpm", 0, "Tempo in beats per minute")
	pf.Float64Var(&stepsPerBeat, "steps-per-beat", 0, "Steps (or arpeggio notes) per beat")
	pf.IntVar(&channel, "channel", 0, "MIDI channel 1-16")
	pf.StringVar(&kitName, "kit", "", "Drum kit for the trigger sequencer")
	pf.StringVar(&correction, "correction", "", "Drift correction: half, accumulated or full")
	pf.BoolVar(&debugLog, "debug", false, "Write a debug log to ~/.config/synth-tools/debug.log")

	tuiCmd.Flags().StringVar(&palettePath, "palette", "", "GIMP palette (.gpl) for colors")

	simCmd.Flags().DurationVar(&duration, "duration", 2*time.Second, "Simulated run time")
	simCmd.Flags().Uint32Var(&pollEvery, "poll", 1, "Milliseconds between updates")
	simCmd.Flags().StringVar(&smfPath, "smf", "", "Also write the result as a MIDI file")

	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(simCmd)
	rootCmd.AddCommand(chordsCmd)
	rootCmd.AddCommand(kitsCmd)
}

// loadConfig reads the config file and applies any flags that were set.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, errors.Trace(err)
	}

	flags := cmd.Flags()
	if flags.Changed("bpm") {
		cfg.Tempo = bpm
	}
	if flags.Changed("steps-per-beat") {
		cfg.StepsPerBeat = stepsPerBeat
	}
	if flags.Changed("channel") {
		cfg.Channel = channel
	}
	if flags.Changed("kit") {
		cfg.Trig.Kit = kitName
	}
	if flags.Changed("correction") {
		cfg.Arp.Correction = correction
		cfg.Step.Correction = correction
		cfg.Trig.Correction = correction
	}
	if flags.Changed("debug") {
		cfg.Debug = debugLog
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Trace(err)
	}

	if cfg.Debug {
		if err := debug.Enable(); err != nil {
			return nil, errors.Trace(err)
		}
	}
	return cfg, nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	mode := rig.ModeArp
	if len(args) > 0 {
		var err error
		if mode, err = rig.ParseMode(args[0]); err != nil {
			return err
		}
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	defer debug.Disable()

	palette := theme.Plasma
	if palettePath != "" {
		if palette, err = theme.LoadGPL(palettePath); err != nil {
			return err
		}
	}

	m, err := tui.NewModel(cfg, mode, theme.New(palette))
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return errors.Trace(err)
}

func runSim(cmd *cobra.Command, args []string) error {
	mode, err := rig.ParseMode(args[0])
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	defer debug.Disable()

	fired, err := rig.Simulate(cfg, mode, duration, pollEvery)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, f := range fired {
		fmt.Fprintf(out, "%7d  %s\n", f.At, f.Msg)
	}

	if smfPath == "" {
		return nil
	}
	file, err := os.Create(smfPath)
	if err != nil {
		return errors.Trace(err)
	}
	defer file.Close()
	if err := rig.WriteSMF(file, fired, cfg.Tempo); err != nil {
		return err
	}
	fmt.Fprintf(out, "wrote %s\n", smfPath)
	return nil
}

func runChords(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	for _, name := range sequencer.ChordNames {
		intervals, err := sequencer.Chord(0, name)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%-10s %v\n", name, intervals)
	}
	return nil
}

func runKits(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	for _, name := range sequencer.KitNames() {
		kit, err := sequencer.GetKit(name)
		if err != nil {
			return err
		}
		var slots []string
		for i, note := range kit.Notes[:4] {
			slots = append(slots, fmt.Sprintf("%s=%d", sequencer.SlotNames[i], note))
		}
		fmt.Fprintf(out, "%-6s %-16s %s\n", name, kit.Name, strings.Join(slots, " "))
	}
	return nil
}
