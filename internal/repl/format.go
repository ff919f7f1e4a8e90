// Package repl is an interactive shell for a jsonhelper session, usually one
// held by a daemon and reached over the socket.
package repl

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// Formatter handles output formatting
type Formatter struct {
	out      io.Writer
	useColor bool

	success *color.Color
	failure *color.Color
	info    *color.Color
	heading *color.Color
}

// NewFormatter creates a new formatter writing to out
func NewFormatter(out io.Writer, useColor bool) *Formatter {
	f := &Formatter{
		out:      out,
		useColor: useColor,
		success:  color.New(color.FgGreen),
		failure:  color.New(color.FgRed),
		info:     color.New(color.FgCyan),
		heading:  color.New(color.FgYellow, color.Bold),
	}
	if !useColor {
		for _, c := range []*color.Color{f.success, f.failure, f.info, f.heading} {
			c.DisableColor()
		}
	}
	return f
}

// PrintSuccess prints a success message
func (f *Formatter) PrintSuccess(message string) {
	f.success.Fprintf(f.out, "✓ %s\n", message)
}

// PrintError prints an error message
func (f *Formatter) PrintError(message string) {
	f.failure.Fprintf(f.out, "✗ Error: %s\n", message)
}

// PrintInfo prints an info message
func (f *Formatter) PrintInfo(message string) {
	f.info.Fprintf(f.out, "ℹ %s\n", message)
}

// PrintHeading prints a section title
func (f *Formatter) PrintHeading(title string) {
	f.heading.Fprintln(f.out, title)
}

// PrintText prints a buffer verbatim
func (f *Formatter) PrintText(text string) {
	fmt.Fprintln(f.out, text)
}

// PrintTable prints a formatted ASCII table
func (f *Formatter) PrintTable(headers []string, rows [][]string) {
	if len(headers) == 0 {
		return
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	line := func(cells []string) {
		for i := range headers {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			if i < len(headers)-1 {
				fmt.Fprintf(f.out, "%-*s  ", widths[i], cell)
			} else {
				fmt.Fprint(f.out, cell)
			}
		}
		fmt.Fprintln(f.out)
	}

	line(headers)
	sep := make([]string, len(headers))
	for i, w := range widths {
		sep[i] = strings.Repeat("-", w)
	}
	line(sep)
	for _, row := range rows {
		line(row)
	}
}

// PrintJSON prints formatted JSON
func (f *Formatter) PrintJSON(data interface{}) {
	jsonBytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		f.PrintError("Failed to format JSON: " + err.Error())
		return
	}
	fmt.Fprintln(f.out, string(jsonBytes))
}
