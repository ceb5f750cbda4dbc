// Package console renders pages and drives form submission for the
// terminal client. A page fetches what it needs through the domain
// services, prints it, and routes form errors back to the user instead of
// crashing the flow.
package console

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"
)

// Renderer writes styled page output. Colors degrade to plain text when
// the destination is not a terminal.
type Renderer struct {
	out io.Writer

	title   *color.Color
	errc    *color.Color
	warn    *color.Color
	success *color.Color
	muted   *color.Color
}

func NewRenderer(out io.Writer) *Renderer {
	return &Renderer{
		out:     out,
		title:   color.New(color.FgCyan, color.Bold),
		errc:    color.New(color.FgRed),
		warn:    color.New(color.FgYellow),
		success: color.New(color.FgGreen),
		muted:   color.New(color.Faint),
	}
}

func (r *Renderer) Title(format string, args ...interface{}) {
	r.title.Fprintf(r.out, format+"\n", args...)
}

func (r *Renderer) Error(format string, args ...interface{}) {
	r.errc.Fprintf(r.out, format+"\n", args...)
}

func (r *Renderer) Warn(format string, args ...interface{}) {
	r.warn.Fprintf(r.out, format+"\n", args...)
}

func (r *Renderer) Success(format string, args ...interface{}) {
	r.success.Fprintf(r.out, format+"\n", args...)
}

func (r *Renderer) Muted(format string, args ...interface{}) {
	r.muted.Fprintf(r.out, format+"\n", args...)
}

func (r *Renderer) Line(format string, args ...interface{}) {
	fmt.Fprintf(r.out, format+"\n", args...)
}

// Table prints a header row and data rows tab-aligned.
func (r *Renderer) Table(header []string, rows [][]string) {
	tw := tabwriter.NewWriter(r.out, 0, 4, 2, ' ', 0)
	printRow(tw, header)
	for _, row := range rows {
		printRow(tw, row)
	}
	tw.Flush()
}

func printRow(w io.Writer, cells []string) {
	for i, cell := range cells {
		if i > 0 {
			fmt.Fprint(w, "\t")
		}
		fmt.Fprint(w, cell)
	}
	fmt.Fprintln(w)
}
