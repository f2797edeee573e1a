package workflow

import (
	"io"

	"github.com/fatih/color"
	"github.com/mattn/go-colorable"
)

// Printer writes colorized plan/run progress, modeled on the teacher's
// context-scoped Output{Stdout,Stderr} helper.
type Printer struct {
	Stdout io.Writer
	Stderr io.Writer
}

// StdPrinter returns a Printer wired to the process's real stdout/stderr,
// wrapped with go-colorable so ANSI sequences render correctly on Windows
// consoles too.
func StdPrinter() *Printer {
	return &Printer{
		Stdout: colorable.NewColorableStdout(),
		Stderr: colorable.NewColorableStderr(),
	}
}

// PlanHeader prints a colorized header line before a rendered workflow.
func (p *Printer) PlanHeader(title string) {
	color.New(color.FgCyan, color.Bold).Fprintln(p.Stdout, title)
}

// Unit prints a single work unit's node text, indented, colorized by
// whether it ran as part of a parallel level.
func (p *Printer) Unit(text string, parallel bool) {
	c := color.New(color.FgGreen)
	if parallel {
		c = color.New(color.FgYellow)
	}
	c.Fprintf(p.Stdout, "  %s\n", text)
}

// Errorf prints a colorized error line to Stderr.
func (p *Printer) Errorf(format string, args ...any) {
	color.New(color.FgRed, color.Bold).Fprintf(p.Stderr, format+"\n", args...)
}
