// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package diagnostics

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	contextLinesBefore = 2
	contextLinesAfter  = 1
	messageIndent      = "    "
)

// Render produces the fixed text layout for a diagnostic: a severity
// header, a blank line, an optional source snippet with the reported
// range underlined, and the message body indented by four spaces.
//
// The header degrades in priority order: source and position, then
// code, then the severity alone. Any fault while reading the source
// content drops only the snippet. Render never fails.
func Render(d Diagnostic) (out string) {
	defer func() {
		if recover() != nil {
			out = "[" + d.Severity.String() + "]\n"
		}
	}()

	var b strings.Builder

	b.WriteString(header(d))
	b.WriteString("\n\n")

	if snippet, ok := renderSnippet(d); ok {
		b.WriteString(snippet)
		b.WriteString("\n")
	}

	for _, line := range strings.Split(d.Message, "\n") {
		b.WriteString(messageIndent)
		b.WriteString(line)
		b.WriteString("\n")
	}

	return b.String()
}

func header(d Diagnostic) string {
	severity := "[" + d.Severity.String() + "]"

	switch {
	case d.Source != "" && d.Pos != nil:
		return fmt.Sprintf(
			"%s %s (at line %d, col %d)",
			severity, d.Source, d.Pos.Line, d.Pos.Column,
		)
	case d.Code != "":
		return severity + " " + d.Code
	default:
		return severity
	}
}

// renderSnippet renders the context window around the reported line with
// the clipped [Start,End) range underlined. It reports false if source
// content or position are unavailable.
func renderSnippet(d Diagnostic) (string, bool) {
	if d.Source == "" || d.Pos == nil || d.ReadSource == nil {
		return "", false
	}

	content, err := d.ReadSource()
	if err != nil {
		return "", false
	}

	lines := strings.Split(content, "\n")
	if d.Pos.Line < 1 || d.Pos.Line > len(lines) {
		return "", false
	}

	// Byte offset of the start of each line within the content.
	offsets := make([]int, len(lines))
	for i := 1; i < len(lines); i++ {
		offsets[i] = offsets[i-1] + len(lines[i-1]) + 1
	}

	first := max(1, d.Pos.Line-contextLinesBefore)
	last := min(len(lines), d.Pos.Line+contextLinesAfter)
	width := len(strconv.Itoa(last))

	var b strings.Builder

	for line := first; line <= last; line++ {
		text := lines[line-1]

		fmt.Fprintf(&b, "%*d | %s\n", width, line, text)

		lineStart := offsets[line-1]
		start := max(d.Pos.Start, lineStart)
		end := min(d.Pos.End, lineStart+len(text))

		if start < end {
			b.WriteString(strings.Repeat(" ", width))
			b.WriteString(" | ")
			b.WriteString(strings.Repeat(" ", start-lineStart))
			b.WriteString(strings.Repeat("^", end-start))
			b.WriteString("\n")
		}
	}

	return b.String(), true
}
