// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package diagnostics

// Severity classifies a diagnostic.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityNote
	SeverityOther
)

// String returns the severity name as rendered in headers.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "ERROR"
	case SeverityWarning:
		return "WARNING"
	case SeverityNote:
		return "NOTE"
	default:
		return "OTHER"
	}
}

// Position locates a diagnostic in its source file. Line and Column are
// 1-based. Start and End are byte offsets into the source content with
// End exclusive.
type Position struct {
	Line   int
	Column int
	Start  int
	End    int
}

// Diagnostic is a structured compiler message produced during a run.
//
// Source, Pos and ReadSource are optional; renderers degrade gracefully
// when they are unset.
type Diagnostic struct {
	Severity Severity
	Code     string
	Message  string

	// Source is the name of the source file the diagnostic refers to,
	// empty if unknown.
	Source string

	// Pos is the position within Source, nil if unknown.
	Pos *Position

	// ReadSource returns the full source content for snippet rendering.
	// It may be nil if no content is available.
	ReadSource func() (string, error)
}
