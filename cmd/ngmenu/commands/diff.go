package commands

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// diffContext is the number of unchanged lines kept around each change
const diffContext = 2

// RenderDiff returns a line diff of a file. Unchanged runs longer than the
// context are collapsed.
func RenderDiff(name, before, after string) string {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var body strings.Builder
	inserted, deleted := 0, 0
	for i, d := range diffs {
		if d.Text == "" {
			continue
		}
		chunk := strings.Split(strings.TrimSuffix(d.Text, "\n"), "\n")

		switch d.Type {
		case diffmatchpatch.DiffInsert:
			inserted += len(chunk)
			for _, line := range chunk {
				body.WriteString(color.New(color.FgGreen).Sprint("+"+line) + "\n")
			}
		case diffmatchpatch.DiffDelete:
			deleted += len(chunk)
			for _, line := range chunk {
				body.WriteString(color.New(color.FgRed).Sprint("-"+line) + "\n")
			}
		default:
			writeContext(&body, chunk, i > 0, i < len(diffs)-1)
		}
	}

	header := color.New(color.Bold).Sprintf("--- %s\n+++ %s", name, name)
	return fmt.Sprintf("%s %s\n%s", header, color.New(color.Faint).Sprintf("(+%d -%d)", inserted, deleted), body.String())
}

// writeContext prints an unchanged run, keeping only the lines next to the
// changes around it
func writeContext(out *strings.Builder, chunk []string, hasBefore, hasAfter bool) {
	head, tail := 0, 0
	if hasBefore {
		head = diffContext
	}
	if hasAfter {
		tail = diffContext
	}

	if head+tail >= len(chunk) {
		for _, line := range chunk {
			out.WriteString(" " + line + "\n")
		}
		return
	}

	for _, line := range chunk[:head] {
		out.WriteString(" " + line + "\n")
	}
	out.WriteString(color.New(color.Faint).Sprintf("@@ %d unchanged lines @@", len(chunk)-head-tail) + "\n")
	for _, line := range chunk[len(chunk)-tail:] {
		out.WriteString(" " + line + "\n")
	}
}
