package console

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Level represents console verbosity.
type Level int

const (
	// LevelQuiet shows only errors, warnings and final summaries
	LevelQuiet Level = iota
	// LevelNormal shows standard progress (default)
	LevelNormal
	// LevelVerbose shows detailed information
	LevelVerbose
	// LevelDebug shows internal details
	LevelDebug
)

// ParseLevel converts a flag value to a Level. Unknown values map to
// LevelNormal.
func ParseLevel(level string) Level {
	switch strings.ToLower(level) {
	case "quiet":
		return LevelQuiet
	case "verbose":
		return LevelVerbose
	case "debug":
		return LevelDebug
	default:
		return LevelNormal
	}
}

const ruleWidth = 60

// Printer writes styled, leveled output for the sample programs. It is safe
// for concurrent use by pool workers.
type Printer struct {
	mu     sync.Mutex
	level  Level
	writer io.Writer
	st     styles

	startTime time.Time
	stepCount int
}

// Option configures a Printer.
type Option func(*Printer)

// WithWriter sets the destination writer.
func WithWriter(w io.Writer) Option {
	return func(p *Printer) { p.writer = w }
}

// WithLevel sets the verbosity.
func WithLevel(level Level) Option {
	return func(p *Printer) { p.level = level }
}

// New creates a printer writing to stdout at LevelNormal.
func New(opts ...Option) *Printer {
	p := &Printer{
		level:     LevelNormal,
		writer:    os.Stdout,
		startTime: time.Now(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.st = newStyles(p.writer)
	return p
}

// Writer returns the destination writer.
func (p *Printer) Writer() io.Writer { return p.writer }

func (p *Printer) println(min Level, s string) {
	if p.level < min {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.writer, s)
}

// Header prints a prominent banner.
func (p *Printer) Header(title string) {
	rule := p.st.header.Render(strings.Repeat("=", ruleWidth))
	p.println(LevelNormal, "\n"+rule+"\n"+p.st.header.Render("  "+title)+"\n"+rule)
}

// Section prints a section divider.
func (p *Printer) Section(title string) {
	p.println(LevelNormal, "\n"+p.st.section.Render("▶ "+title)+"\n"+p.st.rule.Render(strings.Repeat("─", ruleWidth-10)))
}

// Step prints a numbered step.
func (p *Printer) Step(format string, args ...interface{}) {
	if p.level < LevelNormal {
		return
	}
	p.mu.Lock()
	p.stepCount++
	n := p.stepCount
	p.mu.Unlock()
	p.println(LevelNormal, p.st.step.Render(fmt.Sprintf("[%d] %s", n, fmt.Sprintf(format, args...))))
}

// Successf prints a success line.
func (p *Printer) Successf(format string, args ...interface{}) {
	p.println(LevelNormal, p.st.success.Render("✓ "+fmt.Sprintf(format, args...)))
}

// Infof prints an informational line.
func (p *Printer) Infof(format string, args ...interface{}) {
	p.println(LevelNormal, p.st.info.Render(fmt.Sprintf(format, args...)))
}

// Itemf prints an indented bullet.
func (p *Printer) Itemf(format string, args ...interface{}) {
	p.println(LevelNormal, p.st.info.Render("  • "+fmt.Sprintf(format, args...)))
}

// KeyValue prints an aligned "key: value" line.
func (p *Printer) KeyValue(key string, value interface{}) {
	p.println(LevelNormal, fmt.Sprintf("  %s %v", p.st.key.Render(fmt.Sprintf("%-18s", key+":")), value))
}

// Tipf prints a hint in muted italics.
func (p *Printer) Tipf(format string, args ...interface{}) {
	p.println(LevelNormal, p.st.tip.Render("💡 "+fmt.Sprintf(format, args...)))
}

// Warningf prints a warning; shown at every level.
func (p *Printer) Warningf(format string, args ...interface{}) {
	p.println(LevelQuiet, p.st.warning.Render("⚠ "+fmt.Sprintf(format, args...)))
}

// Errorf prints an error; shown at every level.
func (p *Printer) Errorf(format string, args ...interface{}) {
	p.println(LevelQuiet, p.st.err.Render("✗ "+fmt.Sprintf(format, args...)))
}

// Verbosef prints detail only in verbose mode.
func (p *Printer) Verbosef(format string, args ...interface{}) {
	p.println(LevelVerbose, p.st.muted.Render("→ "+fmt.Sprintf(format, args...)))
}

// Debugf prints detail only in debug mode.
func (p *Printer) Debugf(format string, args ...interface{}) {
	p.println(LevelDebug, p.st.muted.Render("[DEBUG] "+fmt.Sprintf(format, args...)))
}

// Box prints lines inside a rounded border; shown at every level.
func (p *Printer) Box(lines ...string) {
	p.println(LevelQuiet, p.st.box.Render(strings.Join(lines, "\n")))
}

// Rule prints a horizontal rule; shown at every level.
func (p *Printer) Rule() {
	p.println(LevelQuiet, p.st.rule.Render(strings.Repeat("=", ruleWidth)))
}

// Plain prints text without styling; shown at every level.
func (p *Printer) Plain(format string, args ...interface{}) {
	p.println(LevelQuiet, fmt.Sprintf(format, args...))
}

// Newline adds a blank line.
func (p *Printer) Newline() {
	p.println(LevelNormal, "")
}

// Elapsed returns the time since the printer was created.
func (p *Printer) Elapsed() time.Duration {
	return time.Since(p.startTime)
}
