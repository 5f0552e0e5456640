// Package debug has helpers producing readable dumps of scopes and layers.
package debug

import (
	"fmt"
	"strconv"
	"strings"
)

type TreeWriter struct {
	w *strings.Builder
}

func NewTreeWriter() *TreeWriter {
	return &TreeWriter{
		w: &strings.Builder{},
	}
}

func (tw TreeWriter) String() string {
	return tw.w.String()
}

func (tw TreeWriter) indent(depth int) {
	for range depth {
		tw.w.WriteString("  ")
	}
}

// Line writes formatted line at depth.
func (tw TreeWriter) Line(depth int, format string, args ...any) {
	tw.indent(depth)
	fmt.Fprintf(tw.w, format, args...)
	tw.w.WriteByte('\n')
}

// TextBlock writes label and quoted value on a single line.
func (tw TreeWriter) TextBlock(depth int, label, value string) {
	tw.indent(depth)
	tw.w.WriteString(label)
	tw.w.WriteString(": ")
	tw.w.WriteString(encodeText(value))
	tw.w.WriteByte('\n')
}

// Block writes label followed by every line of text indented one level
// deeper, empty lines are dropped.
func (tw TreeWriter) Block(depth int, label, text string) {
	lines := strings.FieldsFunc(text, func(r rune) bool { return r == '\n' })
	tw.Line(depth, "%s: %d lines", label, len(lines))
	for _, line := range lines {
		tw.indent(depth + 1)
		tw.w.WriteString(line)
		tw.w.WriteByte('\n')
	}
}

func encodeText(raw string) string {
	if raw == "" {
		return raw
	}
	return strconv.Quote(raw)
}
