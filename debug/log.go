// Package debug is the category logger. Messages go nowhere until Enable is
// called, so it is safe to log from hot loops.
package debug

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/juju/errors"
	"github.com/juju/loggo"
)

// Root is the loggo module every category logs under.
const Root = "synthtools"

const writerName = "synthtools-debug"

var (
	mu      sync.Mutex
	file    *os.File
	enabled bool
)

// LogPath is where Enable writes: ~/.config/synth-tools/debug.log
func LogPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Trace(err)
	}
	return filepath.Join(home, ".config", "synth-tools", "debug.log"), nil
}

// Enable starts debug logging to LogPath, truncating it.
func Enable() error {
	path, err := LogPath()
	if err != nil {
		return errors.Trace(err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Annotatef(err, "cannot create log directory")
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return errors.Annotatef(err, "cannot open debug log")
	}
	if err := EnableTo(f); err != nil {
		f.Close()
		return errors.Trace(err)
	}
	mu.Lock()
	file = f
	mu.Unlock()
	return nil
}

// EnableTo starts debug logging to w.
func EnableTo(w io.Writer) error {
	mu.Lock()
	defer mu.Unlock()

	if enabled {
		return nil
	}
	// keep debug chatter off the terminal; the TUI owns it
	loggo.RemoveWriter("default")
	if err := loggo.RegisterWriter(writerName, loggo.NewSimpleWriter(w, format)); err != nil {
		return errors.Trace(err)
	}
	loggo.GetLogger(Root).SetLogLevel(loggo.DEBUG)
	enabled = true

	loggo.GetLogger(Root + ".debug").Debugf("=== Debug logging started ===")
	return nil
}

// Disable stops debug logging.
func Disable() {
	mu.Lock()
	defer mu.Unlock()

	if !enabled {
		return
	}
	loggo.GetLogger(Root).SetLogLevel(loggo.WARNING)
	loggo.RemoveWriter(writerName)
	loggo.RegisterWriter("default", loggo.NewSimpleWriter(os.Stderr, loggo.DefaultFormatter))
	if file != nil {
		file.Close()
		file = nil
	}
	enabled = false
}

// Log writes a message under the given category.
func Log(category, format string, args ...any) {
	loggo.GetLogger(Root+"."+category).Debugf(format, args...)
}

var counters = make(map[string]int)

// LogEvery logs only every n calls (use for high-frequency events).
func LogEvery(n int, category, format string, args ...any) {
	mu.Lock()
	if !enabled {
		mu.Unlock()
		return
	}
	key := category + format
	counters[key]++
	count := counters[key]
	mu.Unlock()

	if count%n == 0 {
		Log(category, format+" (every %d, count=%d)", append(args, n, count)...)
	}
}

func format(entry loggo.Entry) string {
	category := entry.Module
	if len(category) > len(Root)+1 {
		category = category[len(Root)+1:]
	}
	ts := entry.Timestamp.Format("15:04:05.000")
	return fmt.Sprintf("[%s] %-10s %s", ts, category, entry.Message)
}
