// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package filemanager_test

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aibor/compilertest/filemanager"
)

func writeZip(t *testing.T, path string, files map[string]string) {
	t.Helper()

	file, err := os.Create(path)
	require.NoError(t, err)

	writer := zip.NewWriter(file)
	for name, content := range files {
		entry, err := writer.Create(name)
		require.NoError(t, err)

		_, err = entry.Write([]byte(content))
		require.NoError(t, err)
	}

	require.NoError(t, writer.Close())
	require.NoError(t, file.Close())
}

// stageMemoryContainer creates an in-memory container holding the given
// root-relative files.
func stageMemoryContainer(t *testing.T, loc filemanager.Location, name string, files map[string]string) *filemanager.Container {
	t.Helper()

	c := filemanager.NewMemoryContainer(loc, name)

	for relPath, content := range files {
		obj, ok := c.GetForOutput("", relPath)
		require.True(t, ok, relPath)
		require.NoError(t, obj.WriteAll([]byte(content)))
	}

	return c
}

func TestDirectoryContainer(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "com", "example"), 0o755))

	source := filepath.Join(dir, "com", "example", "Util.java")
	require.NoError(t, os.WriteFile(source, []byte("class Util {}"), 0o644))
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "com", "example", "strings.properties"),
		[]byte("key=value"), 0o644,
	))

	c, err := filemanager.NewDirectoryContainer(filemanager.SourcePath, dir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	assert.Equal(t, filemanager.ContainerDirectory, c.Kind())
	assert.Equal(t, filemanager.SourcePath, c.Location())

	t.Run("unit for input", func(t *testing.T) {
		obj, ok := c.GetUnitForInput("com.example.Util", filemanager.KindSource)
		require.True(t, ok)
		assert.Equal(t, "com/example/Util.java", obj.Name())
		assert.Equal(t, filemanager.KindSource, obj.Kind())

		data, err := obj.ReadAll()
		require.NoError(t, err)
		assert.Equal(t, "class Util {}", string(data))
	})

	t.Run("file for input", func(t *testing.T) {
		obj, ok := c.GetForInput("com.example", "strings.properties")
		require.True(t, ok)
		assert.Equal(t, "com/example/strings.properties", obj.Name())

		_, ok = c.GetForInput("com.example", "missing.properties")
		assert.False(t, ok)
	})

	t.Run("find file", func(t *testing.T) {
		obj, ok := c.FindFile("com/example/Util.java")
		require.True(t, ok)
		assert.True(t, c.Contains(obj))

		_, ok = c.FindFile("com/example")
		assert.False(t, ok, "directories are not files")
	})

	t.Run("resource", func(t *testing.T) {
		data, ok, err := c.GetResource("com/example/strings.properties")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "key=value", string(data))

		_, ok, err = c.GetResource("missing")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("infer qualified name", func(t *testing.T) {
		obj, ok := c.GetUnitForInput("com.example.Util", filemanager.KindSource)
		require.True(t, ok)

		name, ok := c.InferQualifiedName(obj)
		require.True(t, ok)
		assert.Equal(t, "com.example.Util", name)

		resource, ok := c.FindFile("com/example/strings.properties")
		require.True(t, ok)

		_, ok = c.InferQualifiedName(resource)
		assert.False(t, ok, "resources have no qualified name")
	})

	t.Run("list", func(t *testing.T) {
		objs, err := c.List("com.example", filemanager.AllKinds, false)
		require.NoError(t, err)
		assert.Len(t, objs, 2)

		sources, err := c.List("", filemanager.Kinds(filemanager.KindSource), true)
		require.NoError(t, err)
		require.Len(t, sources, 1)
		assert.Equal(t, "com/example/Util.java", sources[0].Name())

		empty, err := c.List("does.not.exist", filemanager.AllKinds, true)
		require.NoError(t, err)
		assert.Empty(t, empty)
	})

	t.Run("input locations reject writes", func(t *testing.T) {
		_, ok := c.GetForOutput("com.example", "New.java")
		assert.False(t, ok)
	})
}

func TestDirectoryContainerForOutput(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "classes")

	c, err := filemanager.NewDirectoryContainer(filemanager.ClassOutput, dir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	obj, ok := c.GetUnitForOutput("com.example.Util", filemanager.KindClass)
	require.True(t, ok)
	require.NoError(t, obj.WriteAll([]byte("bytecode")))

	// The write is visible on the host filesystem.
	data, err := os.ReadFile(filepath.Join(dir, "com", "example", "Util.class"))
	require.NoError(t, err)
	assert.Equal(t, "bytecode", string(data))
}

func TestDirectoryContainerNotDirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "plain.txt")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	_, err := filemanager.NewDirectoryContainer(filemanager.SourcePath, file)
	require.ErrorIs(t, err, filemanager.ErrNotDirectory)
}

func TestMemoryContainer(t *testing.T) {
	c := stageMemoryContainer(t, filemanager.SourcePath, "sources", map[string]string{
		"com/example/Util.java": "class Util {}",
	})
	t.Cleanup(func() { _ = c.Close() })

	assert.Equal(t, filemanager.ContainerInMemory, c.Kind())

	obj, ok := c.GetUnitForInput("com.example.Util", filemanager.KindSource)
	require.True(t, ok)
	assert.True(t, obj.Exists())
	assert.False(t, obj.LastModified().IsZero())

	data, err := obj.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, "class Util {}", string(data))
}

func TestArchiveContainer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lib.jar")
	writeZip(t, path, map[string]string{
		"com/example/Util.class":                      "base bytecode",
		"META-INF/versions/11/com/example/Util.class": "override bytecode",
		"META-INF/MANIFEST.MF":                        "Manifest-Version: 1.0",
	})

	t.Run("base entries", func(t *testing.T) {
		c, err := filemanager.NewArchiveContainer(filemanager.ClassPath, path, 0)
		require.NoError(t, err)
		t.Cleanup(func() { _ = c.Close() })

		assert.Equal(t, filemanager.ContainerArchive, c.Kind())

		data, ok, err := c.GetUnitBytes("com.example.Util")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "base bytecode", string(data))

		_, ok = c.GetForOutput("com.example", "New.class")
		assert.False(t, ok, "archives are read-only")
	})

	t.Run("release overrides", func(t *testing.T) {
		c, err := filemanager.NewArchiveContainer(filemanager.ClassPath, path, 11)
		require.NoError(t, err)
		t.Cleanup(func() { _ = c.Close() })

		data, ok, err := c.GetUnitBytes("com.example.Util")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "override bytecode", string(data))

		// The override shadows the base entry in listings.
		objs, err := c.List("com.example", filemanager.AllKinds, false)
		require.NoError(t, err)
		require.Len(t, objs, 1)

		data, err = objs[0].ReadAll()
		require.NoError(t, err)
		assert.Equal(t, "override bytecode", string(data))

		name, ok := c.InferQualifiedName(objs[0])
		require.True(t, ok)
		assert.Equal(t, "com.example.Util", name)
	})

	t.Run("missing release falls back", func(t *testing.T) {
		c, err := filemanager.NewArchiveContainer(filemanager.ClassPath, path, 17)
		require.NoError(t, err)
		t.Cleanup(func() { _ = c.Close() })

		data, ok, err := c.GetUnitBytes("com.example.Util")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "base bytecode", string(data))
	})
}

func TestArchiveContainerSharedMount(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lib.jar")
	writeZip(t, path, map[string]string{"a.txt": "a"})

	first, err := filemanager.NewArchiveContainer(filemanager.ClassPath, path, 0)
	require.NoError(t, err)

	second, err := filemanager.NewArchiveContainer(filemanager.ClassPath, path, 0)
	require.NoError(t, err)

	require.NoError(t, first.Close())

	// The second container still reads through the shared mount.
	data, ok, err := second.GetResource("a.txt")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "a", string(data))

	require.NoError(t, second.Close())
	require.NoError(t, second.Close(), "close is idempotent")
}
