package output

import (
	"fmt"
	"io"
)

// Notice writes an informational line with the info marker. Commands send
// these to stderr so stdout stays parseable.
func Notice(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, "ℹ️  "+format+"\n", args...)
}

// Caution writes a warning line with the warning marker.
func Caution(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, "⚠️  "+format+"\n", args...)
}
