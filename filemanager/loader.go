// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package filemanager

import (
	"fmt"
	"log/slog"
)

// Loader resolves compiled-unit bytes and resources from the container
// list of one group.
//
// A Loader works on the snapshot of containers taken when it was built
// and never observes later mutations; [Group.Loader] hands out a fresh
// loader after any mutation. Since the snapshot is immutable, loads
// from any number of goroutines need no coordination.
type Loader struct {
	location   Location
	containers []*Container
}

func newLoader(loc Location, containers []*Container) *Loader {
	return &Loader{location: loc, containers: containers}
}

// Location returns the location the loader resolves for.
func (l *Loader) Location() Location { return l.location }

// Load resolves the bytes of the compiled unit with the given qualified
// name. The first container holding the unit defines it. A unit that no
// container holds fails with [ErrUnitNotFound]; a unit that is present
// but cannot be read fails with [ErrLoadAborted], naming both the unit
// and the location.
func (l *Loader) Load(qualifiedName string) ([]byte, error) {
	for _, c := range l.containers {
		data, ok, err := c.GetUnitBytes(qualifiedName)
		if err != nil {
			return nil, fmt.Errorf(
				"load %s from %s: %w: %w",
				qualifiedName, l.location.Name(), ErrLoadAborted, err,
			)
		}

		if ok {
			return data, nil
		}
	}

	return nil, fmt.Errorf(
		"load %s from %s: %w", qualifiedName, l.location.Name(), ErrUnitNotFound,
	)
}

// Resource resolves the bytes of a non-code asset. Lookup failures are
// logged and swallowed so a broken resource can never abort a load; a
// resource no container holds is reported as absent.
func (l *Loader) Resource(resourcePath string) ([]byte, bool) {
	for _, c := range l.containers {
		data, ok, err := c.GetResource(resourcePath)
		if err != nil {
			slog.Warn("resource lookup failed",
				"path", resourcePath,
				"container", c.Name(),
				"location", l.location.Name(),
				"error", err,
			)

			continue
		}

		if ok {
			return data, true
		}
	}

	return nil, false
}
