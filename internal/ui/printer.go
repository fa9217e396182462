// Package ui renders gopherlings' terminal output.
//
// Styles come from github.com/charmbracelet/lipgloss through a renderer
// bound to the destination writer, so colors are dropped automatically
// when output is piped or captured in tests. golang.org/x/term supplies
// TTY detection and the terminal width used to size the progress bar.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

const (
	// ClearScreenSeq resets the terminal (RIS). Written before every
	// verification pass in watch mode.
	ClearScreenSeq = "\x1bc"

	// ClearShellSeq erases the display and homes the cursor. Used by the
	// watch-mode "clear" command, which must keep the scrollback intact.
	ClearShellSeq = "\x1b[2J\x1b[1;1H"
)

// defaultWidth is used when the writer is not a terminal.
const defaultWidth = 80

// Printer writes styled status lines to an output stream.
//
// A Printer is not safe for concurrent use by itself; callers that share
// the underlying writer between goroutines must serialize writes.
type Printer struct {
	out   io.Writer
	width int

	success lipgloss.Style
	warn    lipgloss.Style
	fail    lipgloss.Style
	muted   lipgloss.Style
	bold    lipgloss.Style
}

// NewPrinter creates a Printer for w. Color and width are detected from w
// when it is an *os.File attached to a terminal.
func NewPrinter(w io.Writer) *Printer {
	return NewPrinterWithTerminal(w, w)
}

// NewPrinterWithTerminal creates a Printer that writes to w but detects
// color support and width from terminal. Use it when w wraps the terminal,
// for example to serialize writes from several goroutines.
func NewPrinterWithTerminal(w, terminal io.Writer) *Printer {
	r := lipgloss.NewRenderer(terminal)
	return &Printer{
		out:     w,
		width:   TerminalWidth(terminal),
		success: r.NewStyle().Foreground(lipgloss.Color("2")).Bold(true),
		warn:    r.NewStyle().Foreground(lipgloss.Color("3")).Bold(true),
		fail:    r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		muted:   r.NewStyle().Foreground(lipgloss.Color("8")),
		bold:    r.NewStyle().Bold(true),
	}
}

// Successf prints a green "✓" line.
func (p *Printer) Successf(format string, args ...any) {
	p.line(p.success.Render("✓ "+fmt.Sprintf(format, args...)))
}

// Warnf prints a yellow "!" line.
func (p *Printer) Warnf(format string, args ...any) {
	p.line(p.warn.Render("! " + fmt.Sprintf(format, args...)))
}

// Failf prints a red "✗" line.
func (p *Printer) Failf(format string, args ...any) {
	p.line(p.fail.Render("✗ " + fmt.Sprintf(format, args...)))
}

// Infof prints an unstyled line.
func (p *Printer) Infof(format string, args ...any) {
	p.line(fmt.Sprintf(format, args...))
}

// Mutedf prints a dimmed line, used for "Compiling..." and similar notes.
func (p *Printer) Mutedf(format string, args ...any) {
	p.line(p.muted.Render(fmt.Sprintf(format, args...)))
}

// Output prints raw toolchain output followed by a blank line. Nothing is
// printed for empty output.
func (p *Printer) Output(s string) {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return
	}
	p.line(s)
	p.line("")
}

// Progress prints the progress bar for done of total exercises.
func (p *Printer) Progress(done, total int) {
	bar := ProgressBar(done, total, p.width)
	p.line(p.bold.Render(bar))
}

// ClearScreen resets the terminal.
func (p *Printer) ClearScreen() {
	_, _ = io.WriteString(p.out, ClearScreenSeq+"\n")
}

func (p *Printer) line(s string) {
	_, _ = fmt.Fprintln(p.out, s)
}

// ProgressBar renders "Progress: [####>-----] done/total" so that the whole
// line fits in width columns. The bar shrinks to a minimum of 10 cells.
func ProgressBar(done, total, width int) string {
	if total <= 0 {
		return "Progress: 0/0"
	}
	if done < 0 {
		done = 0
	}
	if done > total {
		done = total
	}

	prefix := "Progress: ["
	suffix := fmt.Sprintf("] %d/%d", done, total)
	cells := width - len(prefix) - len(suffix)
	if cells < 10 {
		cells = 10
	}

	filled := done * cells / total
	var b strings.Builder
	b.WriteString(prefix)
	switch {
	case filled >= cells:
		b.WriteString(strings.Repeat("#", cells))
	default:
		b.WriteString(strings.Repeat("#", filled))
		b.WriteString(">")
		b.WriteString(strings.Repeat("-", cells-filled-1))
	}
	b.WriteString(suffix)
	return b.String()
}

// TerminalWidth returns the column count of w, defaulting to 80 when w is
// not a terminal or its size cannot be queried.
func TerminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok {
		return defaultWidth
	}
	tw, _, err := term.GetSize(int(f.Fd()))
	if err != nil || tw <= 0 {
		return defaultWidth
	}
	return tw
}
