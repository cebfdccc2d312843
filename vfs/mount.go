// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package vfs

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"
	"golang.org/x/sync/singleflight"
)

// ErrNotMounted is returned when unmounting a path that is not mounted.
var ErrNotMounted = errors.New("archive is not mounted")

type mount struct {
	fsys   afero.Fs
	closer io.Closer
	refs   int
}

// The mount table is the only state shared between independent users of
// this package. Opening an archive is serialized per canonical path via
// the singleflight group, so concurrent mounts of the same archive
// perform a single open while unrelated archives do not contend.
var table = struct {
	mu     sync.Mutex
	group  singleflight.Group
	mounts map[string]*mount
}{
	mounts: make(map[string]*mount),
}

// canonicalPath resolves path to the canonical absolute form used as the
// mount table key.
func canonicalPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve archive path %s: %w", path, err)
	}

	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved, nil
	}

	return abs, nil
}

// Mount returns a shared read-only view of the archive at path. Each
// successful call must be paired with one [Unmount] call for the same
// path.
func Mount(path string) (afero.Fs, error) {
	key, err := canonicalPath(path)
	if err != nil {
		return nil, err
	}

	for {
		_, err, _ := table.group.Do(key, func() (any, error) {
			table.mu.Lock()
			_, ok := table.mounts[key]
			table.mu.Unlock()

			if ok {
				return nil, nil
			}

			fsys, closer, err := Open(key)
			if err != nil {
				return nil, err
			}

			table.mu.Lock()
			table.mounts[key] = &mount{fsys: fsys, closer: closer}
			table.mu.Unlock()

			slog.Debug("mounted archive", "path", key)

			return nil, nil
		})
		if err != nil {
			return nil, err
		}

		table.mu.Lock()

		m, ok := table.mounts[key]
		if !ok {
			// Another user unmounted the archive between the open and
			// the ref increment. Mount again.
			table.mu.Unlock()
			continue
		}

		m.refs++
		table.mu.Unlock()

		return m.fsys, nil
	}
}

// Unmount releases one reference on the mounted archive. The last
// release closes the underlying file handle and drops the view from the
// mount table.
func Unmount(path string) error {
	key, err := canonicalPath(path)
	if err != nil {
		return err
	}

	table.mu.Lock()

	m, ok := table.mounts[key]
	if !ok {
		table.mu.Unlock()
		return fmt.Errorf("unmount %s: %w", path, ErrNotMounted)
	}

	m.refs--

	var closer io.Closer
	if m.refs <= 0 {
		delete(table.mounts, key)
		closer = m.closer
	}

	table.mu.Unlock()

	if closer == nil {
		return nil
	}

	slog.Debug("released archive mount", "path", key)

	if err := closer.Close(); err != nil {
		return fmt.Errorf("unmount %s: %w", path, err)
	}

	return nil
}
