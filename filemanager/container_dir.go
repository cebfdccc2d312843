// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package filemanager

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// NewDirectoryContainer mounts a live directory subtree for the given
// location. For output locations the directory is created if it does
// not exist; the subtree is writable only below output locations.
func NewDirectoryContainer(loc Location, dir string) (*Container, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("directory container %s: %w", dir, err)
	}

	if loc.IsOutput() {
		if err := os.MkdirAll(abs, dirMode); err != nil {
			return nil, fmt.Errorf("directory container %s: %w", dir, err)
		}
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("directory container %s: %w", dir, err)
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("directory container %s: %w", dir, ErrNotDirectory)
	}

	return &Container{
		kind:     ContainerDirectory,
		location: loc,
		name:     filepath.Base(abs),
		rootURI:  "file://" + filepath.ToSlash(abs),
		fsys:     afero.NewBasePathFs(afero.NewOsFs(), abs),
		writable: loc.IsOutput(),
	}, nil
}
