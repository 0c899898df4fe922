// Package output prints console messages, a progress line and run reports.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
)

// progressWidth is the number of columns cleared when the progress line is erased.
const progressWidth = 72

// Config holds output configuration.
type Config struct {
	Verbose   bool
	Writer    io.Writer // Defaults to os.Stdout
	ErrWriter io.Writer // Defaults to os.Stderr
	IsTTY     bool      // Progress is only drawn on a terminal
}

// Output writes user-facing lines. It satisfies orchestrator.Progress.
type Output struct {
	config Config

	mu      sync.Mutex
	active  bool
	total   int
	current int
}

// New creates an Output, filling in default writers.
func New(config Config) *Output {
	if config.Writer == nil {
		config.Writer = os.Stdout
	}
	if config.ErrWriter == nil {
		config.ErrWriter = os.Stderr
	}
	return &Output{config: config}
}

// DefaultConfig returns a Config bound to the process's stdout and stderr.
func DefaultConfig() Config {
	return Config{
		Writer:    os.Stdout,
		ErrWriter: os.Stderr,
		IsTTY:     IsTerminal(os.Stdout),
	}
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return f != nil && term.IsTerminal(int(f.Fd()))
}

// Verbose prints a line only in verbose mode.
func (o *Output) Verbose(format string, args ...any) {
	if !o.config.Verbose {
		return
	}
	o.line(o.config.Writer, format, args...)
}

// Info prints a line to the regular writer.
func (o *Output) Info(format string, args ...any) {
	o.line(o.config.Writer, format, args...)
}

// Error prints a line to the error writer.
func (o *Output) Error(format string, args ...any) {
	o.line(o.config.ErrWriter, format, args...)
}

// Print writes s as-is, adding a trailing newline if missing.
func (o *Output) Print(s string) {
	o.line(o.config.Writer, "%s", s)
}

func (o *Output) line(w io.Writer, format string, args ...any) {
	o.clearProgress()
	msg := fmt.Sprintf(format, args...)
	if !strings.HasSuffix(msg, "\n") {
		msg += "\n"
	}
	fmt.Fprint(w, msg)
}

func (o *Output) clearProgress() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.active && o.config.IsTTY {
		fmt.Fprint(o.config.Writer, "\r"+strings.Repeat(" ", progressWidth)+"\r")
	}
}

func (o *Output) drawsProgress() bool {
	return o.config.IsTTY && !o.config.Verbose
}

// Start begins a progress line for total files.
func (o *Output) Start(total int) {
	if !o.drawsProgress() {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.active = true
	o.total = total
	o.current = 0
}

// Update redraws the progress line in place.
func (o *Output) Update(done int, name string) {
	if !o.drawsProgress() {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.active {
		return
	}
	o.current = done
	msg := fmt.Sprintf("Organizing %d/%d", done, o.total)
	if name != "" {
		msg += " " + truncate(name, progressWidth-len(msg)-1)
	}
	fmt.Fprint(o.config.Writer, "\r"+msg)
}

// End erases the progress line.
func (o *Output) End() {
	if !o.drawsProgress() {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.active {
		return
	}
	o.active = false
	fmt.Fprint(o.config.Writer, "\r"+strings.Repeat(" ", progressWidth)+"\r")
}

// IsVerbose reports whether verbose mode is enabled.
func (o *Output) IsVerbose() bool {
	return o.config.Verbose
}

// IsTTY reports whether output goes to a terminal.
func (o *Output) IsTTY() bool {
	return o.config.IsTTY
}

// Writer returns the regular writer.
func (o *Output) Writer() io.Writer {
	return o.config.Writer
}

func truncate(s string, width int) string {
	if width <= 3 {
		return ""
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-3]) + "..."
}
