// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package filemanager_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aibor/compilertest/filemanager"
)

func TestManagerInputLookup(t *testing.T) {
	manager := filemanager.NewManager()
	t.Cleanup(func() { _ = manager.Close() })

	sources := stageMemoryContainer(t, filemanager.SourcePath, "sources", map[string]string{
		"com/example/Util.java": "class Util {}",
	})
	require.NoError(t, manager.AddContainer(sources))

	obj, ok, err := manager.GetUnitForInput(
		filemanager.SourcePath, "com.example.Util", filemanager.KindSource,
	)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "com/example/Util.java", obj.Name())

	_, ok, err = manager.GetFileForInput(filemanager.ClassPath, "com.example", "x.txt")
	require.NoError(t, err)
	assert.False(t, ok, "unregistered locations answer with absence")

	objs, err := manager.List(filemanager.SourcePath, "com.example", filemanager.AllKinds, false)
	require.NoError(t, err)
	assert.Len(t, objs, 1)
}

func TestManagerModuleOutputRouting(t *testing.T) {
	manager := filemanager.NewManager()
	t.Cleanup(func() { _ = manager.Close() })

	obj, ok, err := manager.GetUnitForOutput(
		filemanager.ClassOutput, "mymod/com.example.Foo", filemanager.KindClass,
	)
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, obj.WriteAll([]byte("bytecode")))

	moduleLoc, err := filemanager.NewModuleLocation(filemanager.ClassOutput, "mymod")
	require.NoError(t, err)

	// The unit landed in the module's nested group.
	got, ok, err := manager.GetUnitForInput(moduleLoc, "com.example.Foo", filemanager.KindClass)
	require.NoError(t, err)
	require.True(t, ok)

	data, err := got.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, "bytecode", string(data))

	// The loose payload of the output location stays empty.
	objs, err := manager.List(filemanager.ClassOutput, "com.example", filemanager.AllKinds, true)
	require.NoError(t, err)
	assert.Empty(t, objs)

	locs, err := manager.ListLocationsForModules(filemanager.ClassOutput)
	require.NoError(t, err)
	require.Len(t, locs, 1)
	assert.Equal(t, "mymod", locs[0].Module())
}

func TestManagerLooseOutput(t *testing.T) {
	manager := filemanager.NewManager()
	t.Cleanup(func() { _ = manager.Close() })

	obj, ok, err := manager.GetUnitForOutput(
		filemanager.ClassOutput, "com.example.Foo", filemanager.KindClass,
	)
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, obj.WriteAll([]byte("bytecode")))

	got, ok, err := manager.GetUnitForInput(
		filemanager.ClassOutput, "com.example.Foo", filemanager.KindClass,
	)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, manager.SameFile(obj, got))

	locs, err := manager.ListLocationsForModules(filemanager.ClassOutput)
	require.NoError(t, err)
	assert.Empty(t, locs, "loose writes register no module")
}

func TestManagerModuleLocationsFromEnsureEmpty(t *testing.T) {
	manager := filemanager.NewManager()
	t.Cleanup(func() { _ = manager.Close() })

	moduleLoc, err := manager.LocationForModule(filemanager.ClassOutput, "other")
	require.NoError(t, err)

	locs, err := manager.ListLocationsForModules(filemanager.ClassOutput)
	require.NoError(t, err)
	assert.Empty(t, locs, "resolving a module location registers nothing")

	require.NoError(t, manager.EnsureEmptyLocationExists(moduleLoc))

	locs, err = manager.ListLocationsForModules(filemanager.ClassOutput)
	require.NoError(t, err)
	require.Len(t, locs, 1)
	assert.Equal(t, "other", locs[0].Module())
}

func TestManagerWriteToNonOutput(t *testing.T) {
	manager := filemanager.NewManager()
	t.Cleanup(func() { _ = manager.Close() })

	_, _, err := manager.GetUnitForOutput(
		filemanager.SourcePath, "com.example.Foo", filemanager.KindClass,
	)
	require.ErrorIs(t, err, filemanager.ErrWrongLocationKind)
}

func TestManagerAddPath(t *testing.T) {
	manager := filemanager.NewManager()
	t.Cleanup(func() { _ = manager.Close() })

	dir := t.TempDir()
	require.NoError(t, manager.AddPath(filemanager.SourcePath, dir))

	jar := filepath.Join(t.TempDir(), "lib.jar")
	writeZip(t, jar, map[string]string{"com/example/Util.class": "bytecode"})
	require.NoError(t, manager.AddPath(filemanager.ClassPath, jar))

	group, ok := manager.Repository().Group(filemanager.ClassPath)
	require.True(t, ok)
	require.Len(t, group.Containers(), 1)
	assert.Equal(t, filemanager.ContainerArchive, group.Containers()[0].Kind())

	group, ok = manager.Repository().Group(filemanager.SourcePath)
	require.True(t, ok)
	require.Len(t, group.Containers(), 1)
	assert.Equal(t, filemanager.ContainerDirectory, group.Containers()[0].Kind())
}

func TestManagerLoaderRebuilds(t *testing.T) {
	manager := filemanager.NewManager()
	t.Cleanup(func() { _ = manager.Close() })

	require.NoError(t, manager.AddContainer(
		filemanager.NewMemoryContainer(filemanager.ClassPath, "empty"),
	))

	stale, err := manager.Loader(filemanager.ClassPath)
	require.NoError(t, err)

	_, err = stale.Load("com.example.X")
	require.ErrorIs(t, err, filemanager.ErrUnitNotFound)

	classes := stageMemoryContainer(t, filemanager.ClassPath, "classes", map[string]string{
		"com/example/X.class": "bytecode",
	})
	require.NoError(t, manager.AddContainer(classes))

	fresh, err := manager.Loader(filemanager.ClassPath)
	require.NoError(t, err)
	require.NotSame(t, stale, fresh)

	data, err := fresh.Load("com.example.X")
	require.NoError(t, err)
	assert.Equal(t, "bytecode", string(data))

	data, err = manager.GetUnitBytes(filemanager.ClassPath, "com.example.X")
	require.NoError(t, err)
	assert.Equal(t, "bytecode", string(data))
}

func TestManagerInferQualifiedName(t *testing.T) {
	manager := filemanager.NewManager()
	t.Cleanup(func() { _ = manager.Close() })

	classes := stageMemoryContainer(t, filemanager.ClassPath, "classes", map[string]string{
		"com/example/Util.class": "bytecode",
	})
	require.NoError(t, manager.AddContainer(classes))

	obj, ok, err := manager.GetUnitForInput(
		filemanager.ClassPath, "com.example.Util", filemanager.KindClass,
	)
	require.NoError(t, err)
	require.True(t, ok)

	name, ok := manager.InferQualifiedName(filemanager.ClassPath, obj)
	require.True(t, ok)
	assert.Equal(t, "com.example.Util", name)

	assert.True(t, manager.Contains(filemanager.ClassPath, obj))
	assert.False(t, manager.Contains(filemanager.SourcePath, obj))
}

func TestManagerHandlesOption(t *testing.T) {
	manager := filemanager.NewManager()
	t.Cleanup(func() { _ = manager.Close() })

	assert.False(t, manager.HandlesOption("--release"),
		"flag parsing is the driver's responsibility")
}

func TestManagerCloseIdempotent(t *testing.T) {
	manager := filemanager.NewManager()

	require.NoError(t, manager.AddContainer(
		filemanager.NewMemoryContainer(filemanager.ClassPath, "classes"),
	))

	require.NoError(t, manager.Flush())
	require.NoError(t, manager.Close())
	require.NoError(t, manager.Close(), "second close must not raise")
	require.NoError(t, manager.Flush(), "flush after close is a no-op")

	_, _, err := manager.GetFileForInput(filemanager.ClassPath, "com.example", "x")
	require.ErrorIs(t, err, filemanager.ErrClosed)

	err = manager.AddContainer(filemanager.NewMemoryContainer(filemanager.ClassPath, "late"))
	require.ErrorIs(t, err, filemanager.ErrClosed)
}
