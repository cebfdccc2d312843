// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package filemanager

import (
	"fmt"
	"path/filepath"

	"github.com/aibor/compilertest/vfs"
)

// NewArchiveContainer mounts the archive file at archivePath for the
// given location. The view is shared with other containers of the same
// archive and released again when the container is closed.
//
// A release greater than zero marks the archive as multi-release: every
// lookup and listing prefers entries below "META-INF/versions/<release>/"
// and falls back to the base entries.
func NewArchiveContainer(loc Location, archivePath string, release int) (*Container, error) {
	abs, err := filepath.Abs(archivePath)
	if err != nil {
		return nil, fmt.Errorf("archive container %s: %w", archivePath, err)
	}

	fsys, err := vfs.Mount(abs)
	if err != nil {
		return nil, fmt.Errorf("archive container %s: %w", archivePath, err)
	}

	return &Container{
		kind:     ContainerArchive,
		location: loc,
		name:     filepath.Base(abs),
		rootURI:  "archive://" + filepath.ToSlash(abs),
		fsys:     fsys,
		release:  release,
		closeFn:  func() error { return vfs.Unmount(abs) },
	}, nil
}
