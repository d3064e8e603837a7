// Package output renders command results as text or JSON.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Format selects how command results are rendered.
type Format string

// Output format constants.
const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatAuto Format = "auto"
)

// Formatter writes structured command responses in the selected format.
type Formatter struct {
	format Format
	writer io.Writer
}

// NewFormatter creates a formatter writing to w.
func NewFormatter(format Format, w io.Writer) *Formatter {
	return &Formatter{format: format, writer: w}
}

// Format returns the resolved output format.
func (f *Formatter) Format() Format {
	return f.format
}

// IsJSON reports whether responses render as JSON. Commands branch on
// this: JSON gets the whole response struct, text gets hand-laid lines.
func (f *Formatter) IsJSON() bool {
	return f.format == FormatJSON
}

// Print renders one response value. JSON output is indented so piped
// results stay readable; text output prints the value's string form.
func (f *Formatter) Print(v any) error {
	if f.IsJSON() {
		enc := json.NewEncoder(f.writer)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}

	var err error
	switch val := v.(type) {
	case string:
		_, err = fmt.Fprintln(f.writer, val)
	case fmt.Stringer:
		_, err = fmt.Fprintln(f.writer, val.String())
	default:
		_, err = fmt.Fprintf(f.writer, "%v\n", val)
	}
	return err
}

// DetectFormat resolves FormatAuto: text on a terminal, JSON when piped.
// An explicit choice always wins.
func DetectFormat(w io.Writer, explicit Format) Format {
	if explicit != FormatAuto {
		return explicit
	}

	if f, ok := w.(*os.File); ok {
		if term.IsTerminal(int(f.Fd())) { //nolint:gosec // G115: Fd() returns uintptr, safe conversion for term.IsTerminal
			return FormatText
		}
	}

	return FormatJSON
}

// ParseFormat parses a format string; anything unrecognized reads as auto.
func ParseFormat(s string) Format {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON
	case "text":
		return FormatText
	default:
		return FormatAuto
	}
}
