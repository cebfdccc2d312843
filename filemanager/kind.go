// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package filemanager

import (
	"path"
	"strings"
)

// Kind classifies file objects by their role in a compilation.
type Kind int

const (
	// KindOther matches any file that is neither a source file, a
	// compiled unit, nor a doc file.
	KindOther Kind = iota
	// KindSource is a compilable source file.
	KindSource
	// KindClass is a compiled unit.
	KindClass
	// KindHTML is a doc file.
	KindHTML
)

// Extension returns the file name extension associated with the kind.
// It is empty for [KindOther].
func (k Kind) Extension() string {
	switch k {
	case KindSource:
		return ".java"
	case KindClass:
		return ".class"
	case KindHTML:
		return ".html"
	default:
		return ""
	}
}

// String returns a human readable name of the kind.
func (k Kind) String() string {
	switch k {
	case KindSource:
		return "source"
	case KindClass:
		return "class"
	case KindHTML:
		return "html"
	default:
		return "other"
	}
}

// KindOf returns the kind matching the file name extension of the given
// path.
func KindOf(name string) Kind {
	switch strings.ToLower(path.Ext(name)) {
	case KindSource.Extension():
		return KindSource
	case KindClass.Extension():
		return KindClass
	case KindHTML.Extension():
		return KindHTML
	default:
		return KindOther
	}
}

// KindSet is a set of kinds.
type KindSet uint

// Kinds creates a set from the given kinds.
func Kinds(kinds ...Kind) KindSet {
	var set KindSet
	for _, k := range kinds {
		set |= 1 << k
	}

	return set
}

// Has reports whether the set contains the kind.
func (s KindSet) Has(k Kind) bool {
	return s&(1<<k) != 0
}

// AllKinds contains every kind.
var AllKinds = Kinds(KindOther, KindSource, KindClass, KindHTML)
