// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package diagnostics wraps raw compiler diagnostics with capture
// metadata and renders them as human readable text.
//
// [Trace] records when and where a diagnostic was reported, so a test
// can pinpoint which call triggered it. [Render] produces a fixed
// layout with a severity header, an optional source snippet with the
// reported range underlined, and the indented message. Rendering never
// fails; missing information degrades the output instead.
package diagnostics
