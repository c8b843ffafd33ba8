// Package lol (log of location) is a leveled console logger that prints a
// colored level tag, the log text and the code location that emitted it.
// Output is for human inspection only and is not part of any contract.
package lol

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/fatih/color"
	"go.uber.org/atomic"
)

// Log levels, lowest to highest verbosity. A message prints when its level is
// at or below the current level.
const (
	Off = iota
	Fatal
	Error
	Warn
	Info
	Debug
	Trace
)

// LevelNames is the canonical spelling of the log levels, indexed by level.
var LevelNames = []string{
	"off", "fatal", "error", "warn", "info", "debug", "trace",
}

var level atomic.Int32

// GetLogLevel returns the level number for a level name, defaulting to Info
// for anything unrecognized.
func GetLogLevel(name string) (l int) {
	l = Info
	for i, ln := range LevelNames {
		if strings.ToLower(name) == ln {
			l = i
			return
		}
	}
	return
}

// SetLogLevel sets the global log level by name.
func SetLogLevel(name string) { level.Store(int32(GetLogLevel(name))) }

// LevelPrinter is the set of printers available at one log level.
type LevelPrinter struct {
	// Ln prints like fmt.Println.
	Ln func(a ...any)
	// F prints like fmt.Printf.
	F func(format string, a ...any)
	// S dumps the arguments with spew.
	S func(a ...any)
	// C prints the result of a closure, only evaluating it if the level is
	// enabled.
	C func(closure func() string)
	// Chk logs the error and reports whether it was non-nil.
	Chk func(err error) bool
}

// Log is a complete set of level printers.
type Log struct {
	F, E, W, I, D, T LevelPrinter
}

// Main is the shared logger, writing to stderr.
var Main = New(os.Stderr)

var tags = map[int]string{
	Fatal: color.New(color.FgRed, color.Bold).Sprint("FTL"),
	Error: color.New(color.FgRed).Sprint("ERR"),
	Warn:  color.New(color.FgYellow).Sprint("WRN"),
	Info:  color.New(color.FgGreen).Sprint("INF"),
	Debug: color.New(color.FgBlue).Sprint("DBG"),
	Trace: color.New(color.FgMagenta).Sprint("TRC"),
}

// New creates a Log that writes to w.
func New(w io.Writer) (l *Log) {
	return &Log{
		F: printer(w, Fatal),
		E: printer(w, Error),
		W: printer(w, Warn),
		I: printer(w, Info),
		D: printer(w, Debug),
		T: printer(w, Trace),
	}
}

func emit(w io.Writer, lv int, text string) {
	_, file, line, _ := runtime.Caller(2)
	_, _ = fmt.Fprintf(
		w, "%s %s %s %s\n",
		time.Now().Format("15:04:05.000"),
		tags[lv],
		strings.TrimRight(text, "\n"),
		fmt.Sprintf("%s:%d", file, line),
	)
}

func printer(w io.Writer, lv int) (p LevelPrinter) {
	enabled := func() bool { return level.Load() >= int32(lv) }
	p.Ln = func(a ...any) {
		if !enabled() {
			return
		}
		emit(w, lv, fmt.Sprintln(a...))
	}
	p.F = func(format string, a ...any) {
		if !enabled() {
			return
		}
		emit(w, lv, fmt.Sprintf(format, a...))
	}
	p.S = func(a ...any) {
		if !enabled() {
			return
		}
		emit(w, lv, spew.Sdump(a...))
	}
	p.C = func(closure func() string) {
		if !enabled() {
			return
		}
		emit(w, lv, closure())
	}
	p.Chk = func(err error) bool {
		if err == nil {
			return false
		}
		if enabled() {
			emit(w, lv, err.Error())
		}
		return true
	}
	return
}

func init() { level.Store(Info) }
