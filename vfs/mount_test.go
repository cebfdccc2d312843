// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package vfs_test

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/aibor/compilertest/vfs"
)

func TestMountRefCounting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "archive.zip")
	writeZip(t, path, map[string]string{"a.txt": "a"})

	first, err := vfs.Mount(path)
	require.NoError(t, err)

	second, err := vfs.Mount(path)
	require.NoError(t, err)
	assert.Same(t, first, second, "mounts of one archive share the view")

	require.NoError(t, vfs.Unmount(path))

	// One reference is still held, the view must stay usable.
	data, err := afero.ReadFile(first, "a.txt")
	require.NoError(t, err)
	assert.Equal(t, "a", string(data))

	require.NoError(t, vfs.Unmount(path))
	require.ErrorIs(t, vfs.Unmount(path), vfs.ErrNotMounted)
}

func TestMountDistinctArchives(t *testing.T) {
	dir := t.TempDir()
	pathA := filepath.Join(dir, "a.zip")
	pathB := filepath.Join(dir, "b.zip")
	writeZip(t, pathA, map[string]string{"a.txt": "a"})
	writeZip(t, pathB, map[string]string{"b.txt": "b"})

	fsA, err := vfs.Mount(pathA)
	require.NoError(t, err)
	t.Cleanup(func() { _ = vfs.Unmount(pathA) })

	fsB, err := vfs.Mount(pathB)
	require.NoError(t, err)
	t.Cleanup(func() { _ = vfs.Unmount(pathB) })

	assert.NotSame(t, fsA, fsB)
}

func TestMountConcurrentSameArchive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "archive.zip")
	writeZip(t, path, map[string]string{"a.txt": "a"})

	const mounts = 16

	var eg errgroup.Group
	for range mounts {
		eg.Go(func() error {
			fsys, err := vfs.Mount(path)
			if err != nil {
				return err
			}

			if _, err := afero.ReadFile(fsys, "a.txt"); err != nil {
				return err
			}

			return vfs.Unmount(path)
		})
	}

	require.NoError(t, eg.Wait())
	require.ErrorIs(t, vfs.Unmount(path), vfs.ErrNotMounted)
}

func TestMountMissingFile(t *testing.T) {
	_, err := vfs.Mount(filepath.Join(t.TempDir(), "missing.zip"))
	require.Error(t, err)
}
