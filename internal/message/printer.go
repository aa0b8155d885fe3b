// Package message renders the colored status lines nfch prints while it works.
package message

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
)

// Severity selects the color of a message.
type Severity int

const (
	Info Severity = iota
	Processing
	Success
	Warning
	Fail
)

func (s Severity) String() string {
	switch s {
	case Info:
		return "info"
	case Processing:
		return "processing"
	case Success:
		return "success"
	case Warning:
		return "warning"
	case Fail:
		return "fail"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

const nestedMarker = "↪ "

// Printer writes formatted, severity-colored messages. The zero value is not usable; use New.
type Printer struct {
	mu     sync.Mutex
	w      io.Writer
	colors map[Severity]*color.Color
}

// New returns a Printer writing to w. When noColor is true escape codes are never emitted,
// otherwise the fatih/color defaults (terminal detection, NO_COLOR) apply.
func New(w io.Writer, noColor bool) *Printer {
	colors := map[Severity]*color.Color{
		Info:       color.New(color.FgYellow),
		Processing: color.New(color.FgBlue),
		Success:    color.New(color.FgGreen),
		Warning:    color.RGB(255, 175, 0),
		Fail:       color.New(color.FgRed),
	}
	if noColor {
		for _, c := range colors {
			c.DisableColor()
		}
	}
	return &Printer{w: w, colors: colors}
}

var (
	stdMu sync.Mutex
	std   = New(os.Stdout, false)
)

// Default returns the process-wide printer used by the command line frontend.
func Default() *Printer {
	stdMu.Lock()
	defer stdMu.Unlock()
	return std
}

// SetDefault replaces the process-wide printer.
func SetDefault(p *Printer) {
	stdMu.Lock()
	std = p
	stdMu.Unlock()
}

// Echo prints msg with the given severity. Top-level messages are preceded by a blank line;
// nested ones (level > 0) are indented by level spaces and marked with an arrow.
func (p *Printer) Echo(sev Severity, level int, msg string) {
	text := Format(msg)
	lead := "\n"
	if level > 0 {
		lead = ""
		text = strings.Repeat(" ", level) + nestedMarker + text
	}
	c, ok := p.colors[sev]
	if !ok {
		c = p.colors[Info]
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprint(p.w, lead)
	c.Fprintln(p.w, text)
}

func (p *Printer) Infof(format string, args ...any) {
	p.Echo(Info, 0, fmt.Sprintf(format, args...))
}

func (p *Printer) Processingf(format string, args ...any) {
	p.Echo(Processing, 0, fmt.Sprintf(format, args...))
}

func (p *Printer) Successf(format string, args ...any) {
	p.Echo(Success, 0, fmt.Sprintf(format, args...))
}

func (p *Printer) Warningf(format string, args ...any) {
	p.Echo(Warning, 0, fmt.Sprintf(format, args...))
}

func (p *Printer) Failf(format string, args ...any) {
	p.Echo(Fail, 0, fmt.Sprintf(format, args...))
}
