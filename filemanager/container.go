// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package filemanager

import (
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/spf13/afero"
)

// ContainerKind describes the backend of a container root.
type ContainerKind int

const (
	// ContainerDirectory is a live directory subtree.
	ContainerDirectory ContainerKind = iota
	// ContainerArchive is a read-only view of a mounted archive file.
	ContainerArchive
	// ContainerInMemory is an ephemeral in-memory tree that lives until
	// the owning group closes.
	ContainerInMemory
)

// String returns a human readable name of the container kind.
func (k ContainerKind) String() string {
	switch k {
	case ContainerArchive:
		return "archive"
	case ContainerInMemory:
		return "in-memory"
	default:
		return "directory"
	}
}

// Container is one mounted root answering file and compiled-unit queries
// for a single location.
//
// Lookups never fail on absence; a missing file is reported with a false
// ok value. Containers constructed with a release tag prefer entries
// below the release's override subtree before falling back to the base
// entries.
type Container struct {
	kind     ContainerKind
	location Location
	name     string
	rootURI  string
	fsys     afero.Fs
	release  int
	writable bool
	closeFn  func() error
}

// Kind returns the backend kind.
func (c *Container) Kind() ContainerKind { return c.kind }

// Location returns the location the container is mounted for.
func (c *Container) Location() Location { return c.location }

// Name returns the display name of the container root.
func (c *Container) Name() string { return c.name }

// URI returns the canonical identity of the container root.
func (c *Container) URI() string { return c.rootURI }

func (c *Container) String() string {
	return fmt.Sprintf("%s container %s", c.kind, c.rootURI)
}

// Close releases the backing root. A second call is a no-op.
func (c *Container) Close() error {
	if c.closeFn == nil {
		return nil
	}

	closeFn := c.closeFn
	c.closeFn = nil

	return closeFn()
}

func releasePrefix(release int) string {
	return fmt.Sprintf("META-INF/versions/%d/", release)
}

// candidatePaths returns the backend paths to try for the given relative
// path, release override entries first.
func (c *Container) candidatePaths(relPath string) []string {
	if c.release > 0 {
		return []string{releasePrefix(c.release) + relPath, relPath}
	}

	return []string{relPath}
}

// resolve returns the backend-relative path of the first existing
// regular file matching relPath.
func (c *Container) resolve(relPath string) (string, bool) {
	relPath = strings.TrimPrefix(path.Clean(relPath), "/")

	for _, candidate := range c.candidatePaths(relPath) {
		info, err := c.fsys.Stat("/" + candidate)
		if err == nil && !info.IsDir() {
			return candidate, true
		}
	}

	return "", false
}

// FindFile returns the handle for the given root-relative path.
func (c *Container) FindFile(relPath string) (*FileObject, bool) {
	resolved, ok := c.resolve(relPath)
	if !ok {
		return nil, false
	}

	return newFileObject(c.fsys, c.rootURI, resolved, c.location), true
}

// packagePath converts a dot- or slash-separated package name into a
// backend directory path. The root package maps to the empty path.
func packagePath(packageName string) string {
	dir := strings.ReplaceAll(packageName, ".", "/")

	dir = strings.TrimPrefix(path.Clean(dir), "/")
	if dir == "." {
		return ""
	}

	return dir
}

// unitPath converts a separator-independent qualified unit name and kind
// into a root-relative file path.
func unitPath(qualifiedName string, kind Kind) string {
	return strings.ReplaceAll(qualifiedName, ".", "/") + kind.Extension()
}

// GetForInput returns the handle for a file below the given package.
func (c *Container) GetForInput(packageName, relativeName string) (*FileObject, bool) {
	return c.FindFile(path.Join(packagePath(packageName), relativeName))
}

// GetUnitForInput returns the handle for a compiled unit or source file
// by its qualified name.
func (c *Container) GetUnitForInput(qualifiedName string, kind Kind) (*FileObject, bool) {
	return c.FindFile(unitPath(qualifiedName, kind))
}

// GetForOutput returns a writable handle for a file below the given
// package. Read-only roots report absence.
func (c *Container) GetForOutput(packageName, relativeName string) (*FileObject, bool) {
	if !c.writable {
		return nil, false
	}

	relPath := path.Join(packagePath(packageName), relativeName)

	return newFileObject(c.fsys, c.rootURI, relPath, c.location), true
}

// GetUnitForOutput returns a writable handle for a compiled unit by its
// qualified name. Read-only roots report absence.
func (c *Container) GetUnitForOutput(qualifiedName string, kind Kind) (*FileObject, bool) {
	if !c.writable {
		return nil, false
	}

	return newFileObject(c.fsys, c.rootURI, unitPath(qualifiedName, kind), c.location), true
}

// GetUnitBytes reads the raw bytes of the compiled unit with the given
// qualified name. A read failure on a present unit is an error; absence
// is not.
func (c *Container) GetUnitBytes(qualifiedName string) ([]byte, bool, error) {
	obj, ok := c.GetUnitForInput(qualifiedName, KindClass)
	if !ok {
		return nil, false, nil
	}

	data, err := obj.ReadAll()
	if err != nil {
		return nil, true, err
	}

	return data, true, nil
}

// GetResource reads the raw bytes of a non-code asset.
func (c *Container) GetResource(resourcePath string) ([]byte, bool, error) {
	obj, ok := c.FindFile(resourcePath)
	if !ok {
		return nil, false, nil
	}

	data, err := obj.ReadAll()
	if err != nil {
		return nil, true, err
	}

	return data, true, nil
}

// Contains reports whether the handle points to an existing file below
// this container's root.
func (c *Container) Contains(obj *FileObject) bool {
	return obj != nil && strings.HasPrefix(obj.URI(), c.rootURI+"/") && obj.Exists()
}

// InferQualifiedName derives the separator-independent qualified name
// from a handle, if the handle points below this container's root and
// has a unit-like kind.
func (c *Container) InferQualifiedName(obj *FileObject) (string, bool) {
	if obj == nil || !strings.HasPrefix(obj.URI(), c.rootURI+"/") {
		return "", false
	}

	relPath := strings.TrimPrefix(obj.URI(), c.rootURI+"/")
	if c.release > 0 {
		relPath = strings.TrimPrefix(relPath, releasePrefix(c.release))
	}

	kind := KindOf(relPath)
	if kind != KindSource && kind != KindClass {
		return "", false
	}

	relPath = strings.TrimSuffix(relPath, kind.Extension())

	return strings.ReplaceAll(relPath, "/", "."), true
}

// List returns all files of the given kinds below the package directory.
// With recurse set, subpackages are included. For release-tagged
// archives, override entries shadow their base counterparts.
func (c *Container) List(packageName string, kinds KindSet, recurse bool) ([]*FileObject, error) {
	baseDir := packagePath(packageName)

	var objs []*FileObject

	seen := make(map[string]struct{})

	for _, dir := range c.candidatePaths(baseDir) {
		prefix := strings.TrimSuffix(dir, baseDir)

		exists, err := afero.DirExists(c.fsys, "/"+dir)
		if err != nil || !exists {
			continue
		}

		appendEntry := func(relPath string) {
			logical := strings.TrimPrefix(relPath, prefix)
			if _, dup := seen[logical]; dup {
				return
			}

			if !kinds.Has(KindOf(relPath)) {
				return
			}

			seen[logical] = struct{}{}
			objs = append(objs, newFileObject(c.fsys, c.rootURI, relPath, c.location))
		}

		if recurse {
			err = afero.Walk(c.fsys, "/"+dir, func(p string, info os.FileInfo, err error) error {
				if err != nil {
					return err
				}

				if !info.IsDir() {
					appendEntry(strings.TrimPrefix(p, "/"))
				}

				return nil
			})
			if err != nil {
				return nil, fmt.Errorf("list %s in %s: %w", packageName, c.rootURI, err)
			}

			continue
		}

		infos, err := afero.ReadDir(c.fsys, "/"+dir)
		if err != nil {
			return nil, fmt.Errorf("list %s in %s: %w", packageName, c.rootURI, err)
		}

		for _, info := range infos {
			if !info.IsDir() {
				appendEntry(path.Join(dir, info.Name()))
			}
		}
	}

	return objs, nil
}
