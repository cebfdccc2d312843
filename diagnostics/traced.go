// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package diagnostics

import (
	"runtime"
	"strconv"
	"strings"
	"time"
)

const maxStackDepth = 64

// Traced wraps a diagnostic with capture metadata: the time it was
// reported, the reporting goroutine and the call stack at report time.
// All diagnostic fields are carried unchanged from the original.
type Traced struct {
	Diagnostic

	timestamp time.Time
	goroutine int
	stack     []uintptr
}

// Trace captures the current time, goroutine id and call stack for the
// diagnostic.
func Trace(d Diagnostic) *Traced {
	pcs := make([]uintptr, maxStackDepth)
	n := runtime.Callers(2, pcs)

	return &Traced{
		Diagnostic: d,
		timestamp:  time.Now(),
		goroutine:  goroutineID(),
		stack:      pcs[:n],
	}
}

// Timestamp returns the time the diagnostic was captured.
func (t *Traced) Timestamp() time.Time { return t.timestamp }

// GoroutineID returns the id of the goroutine that reported the
// diagnostic.
func (t *Traced) GoroutineID() int { return t.goroutine }

// Stack returns the call stack captured at report time, innermost frame
// first.
func (t *Traced) Stack() []runtime.Frame {
	frames := runtime.CallersFrames(t.stack)

	var out []runtime.Frame

	for {
		frame, more := frames.Next()
		if frame.PC != 0 {
			out = append(out, frame)
		}

		if !more {
			break
		}
	}

	return out
}

// goroutineID parses the id from the header line of [runtime.Stack],
// which reads "goroutine <id> [running]:". Goroutines have no names, so
// the id is all the metadata there is.
func goroutineID() int {
	var buf [64]byte

	n := runtime.Stack(buf[:], false)

	fields := strings.Fields(string(buf[:n]))
	if len(fields) < 2 {
		return 0
	}

	id, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0
	}

	return id
}
