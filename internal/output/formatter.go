// Package output renders user-facing command output on stdout: colorized
// status lines, aligned tables, JSON, and the shared plan and diagnostic
// views. Debug logging goes to stderr through the logger package instead.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/ksyq12/certinstall/internal/plan"
)

var (
	successColor = color.New(color.FgGreen)
	errorColor   = color.New(color.FgRed)
	warnColor    = color.New(color.FgYellow)
	infoColor    = color.New(color.FgCyan)
)

// stdout is where all user-facing output goes. Everything in this package
// must write through it so tests can capture output with SetOutput.
var stdout io.Writer = os.Stdout

// SetOutput redirects user-facing output.
// Useful for testing. Passing nil restores the default os.Stdout.
func SetOutput(w io.Writer) {
	if w == nil {
		w = os.Stdout
	}
	stdout = w
}

// JSON outputs data as indented JSON
func JSON(data interface{}) error {
	encoder := json.NewEncoder(stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// Success prints a success message
func Success(format string, args ...interface{}) {
	_, _ = successColor.Fprintf(stdout, "✓ "+format+"\n", args...)
}

// Error prints an error message
func Error(format string, args ...interface{}) {
	_, _ = errorColor.Fprintf(stdout, "✗ "+format+"\n", args...)
}

// Warn prints a warning message
func Warn(format string, args ...interface{}) {
	_, _ = warnColor.Fprintf(stdout, "! "+format+"\n", args...)
}

// Info prints an info message
func Info(format string, args ...interface{}) {
	_, _ = infoColor.Fprintf(stdout, "→ "+format+"\n", args...)
}

// Print prints a plain message
func Print(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(stdout, format+"\n", args...)
}

// Table writes an aligned table: a header line, a dashed separator, then one
// line per row. Cells are left-aligned and padded to the widest entry of
// their column; rows shorter than the header are padded with empty cells and
// extra cells are dropped.
func Table(headers []string, rows [][]string) {
	if len(headers) == 0 {
		return
	}
	widths := columnWidths(headers, rows)

	writeRow(headers, widths)

	sep := make([]string, len(headers))
	for i, w := range widths {
		sep[i] = strings.Repeat("-", w)
	}
	writeRow(sep, widths)

	for _, row := range rows {
		writeRow(row, widths)
	}
}

func columnWidths(headers []string, rows [][]string) []int {
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
	return widths
}

func writeRow(cells []string, widths []int) {
	padded := make([]string, len(widths))
	for i := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		padded[i] = fmt.Sprintf("%-*s", widths[i], cell)
	}
	_, _ = fmt.Fprintln(stdout, strings.Join(padded, "  "))
}

// PlanTable renders a build plan as a KIND/ACTION/OUTPUT/TARGET table
// followed by a one-line summary. Steps without an install target show "-"
// in the target column.
func PlanTable(p *plan.Plan) {
	rows := make([][]string, 0, len(p.Steps))
	for _, s := range p.Steps {
		dest := "-"
		if s.Target != nil {
			dest = s.Target.Raw
		}
		rows = append(rows, []string{string(s.Kind), string(s.Action), s.OutputPath, dest})
	}
	Table([]string{"KIND", "ACTION", "OUTPUT", "TARGET"}, rows)
	Print("")
	Info("%d steps, %d to build", len(p.Steps), p.BuildCount())
}

// Check prints one diagnostic check line, colored by status. Recognized
// statuses are "success" and "warning"; anything else renders as an error.
func Check(status, message string) {
	switch status {
	case "success":
		Success("  %s", message)
	case "warning":
		Warn("  %s", message)
	default:
		Error("  %s", message)
	}
}
