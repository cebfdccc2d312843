// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package filemanager

import (
	"fmt"
	"os"
	"strings"
	"sync"
)

// Manager implements the pluggable file-manager contract on top of one
// [Repository].
//
// A compilation run owns exactly one Manager. Test code stages inputs
// via [Manager.AddContainer] and [Manager.AddPath], the compiler driver
// queries the manager throughout the run, and tests inspect outputs
// afterwards through [Manager.Repository].
type Manager struct {
	mu     sync.Mutex
	repo   *Repository
	closed bool
}

// NewManager creates a manager with an empty repository.
func NewManager() *Manager {
	return &Manager{repo: NewRepository()}
}

// Repository returns the backing repository for read-only traversal.
func (m *Manager) Repository() *Repository { return m.repo }

func (m *Manager) checkOpen() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}

	return nil
}

// AddContainer mounts the container below the location it was created
// for. Containers for module-oriented locations must be created with a
// [ModuleLocation].
func (m *Manager) AddContainer(c *Container) error {
	if err := m.checkOpen(); err != nil {
		return err
	}

	loc := c.Location()

	if moduleLoc, ok := loc.(ModuleLocation); ok {
		group, err := m.repo.GetOrCreateModule(moduleLoc.Parent(), moduleLoc.Module())
		if err != nil {
			return err
		}

		group.AddContainer(c)

		return nil
	}

	if loc.IsModuleOriented() {
		return fmt.Errorf(
			"add container to %s: %w: use a module location",
			loc.Name(), ErrWrongLocationKind,
		)
	}

	group, err := m.repo.GetOrCreate(loc)
	if err != nil {
		return err
	}

	group.AddContainer(c)

	return nil
}

// AddPath mounts the file at the given path below the location, as an
// archive if it is a regular file and as a directory subtree otherwise.
func (m *Manager) AddPath(loc Location, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("add path %s: %w", path, err)
	}

	var c *Container
	if info.IsDir() {
		c, err = NewDirectoryContainer(loc, path)
	} else {
		c, err = NewArchiveContainer(loc, path, 0)
	}

	if err != nil {
		return err
	}

	return m.AddContainer(c)
}

// EnsureEmptyLocationExists registers the location with an empty group
// if it is not present yet. The call is idempotent.
func (m *Manager) EnsureEmptyLocationExists(loc Location) error {
	if err := m.checkOpen(); err != nil {
		return err
	}

	return m.repo.EnsureEmptyLocationExists(loc)
}

// HasLocation reports whether the location is registered, present but
// empty included.
func (m *Manager) HasLocation(loc Location) bool {
	return m.repo.HasLocation(loc)
}

// List returns the file objects of the given kinds below the package in
// the location. An unregistered location lists nothing.
func (m *Manager) List(loc Location, packageName string, kinds KindSet, recurse bool) ([]*FileObject, error) {
	if err := m.checkOpen(); err != nil {
		return nil, err
	}

	group, ok := m.repo.group(loc)
	if !ok {
		return nil, nil
	}

	return group.List(packageName, kinds, recurse)
}

// GetFileForInput returns the first matching file below the package in
// the location's container order.
func (m *Manager) GetFileForInput(loc Location, packageName, relativeName string) (*FileObject, bool, error) {
	if err := m.checkOpen(); err != nil {
		return nil, false, err
	}

	group, ok := m.repo.group(loc)
	if !ok {
		return nil, false, nil
	}

	obj, ok := group.GetForInput(packageName, relativeName)

	return obj, ok, nil
}

// GetUnitForInput returns the first matching compiled unit or source
// file for the qualified name in the location's container order.
func (m *Manager) GetUnitForInput(loc Location, qualifiedName string, kind Kind) (*FileObject, bool, error) {
	if err := m.checkOpen(); err != nil {
		return nil, false, err
	}

	group, ok := m.repo.group(loc)
	if !ok {
		return nil, false, nil
	}

	obj, ok := group.GetUnitForInput(qualifiedName, kind)

	return obj, ok, nil
}

// outputGroup resolves the group writes for loc land in, provisioning
// an in-memory root if the group cannot accept writes yet.
func (m *Manager) outputGroup(loc Location) (*Group, error) {
	if !loc.IsOutput() {
		return nil, fmt.Errorf(
			"write below %s: %w: not an output location",
			loc.Name(), ErrWrongLocationKind,
		)
	}

	group, err := m.repo.GetOrCreate(loc)
	if err != nil {
		return nil, err
	}

	group.ensureWritable()

	return group, nil
}

// GetFileForOutput returns a writable handle below the package in the
// location.
func (m *Manager) GetFileForOutput(loc Location, packageName, relativeName string) (*FileObject, bool, error) {
	if err := m.checkOpen(); err != nil {
		return nil, false, err
	}

	group, err := m.outputGroup(loc)
	if err != nil {
		return nil, false, err
	}

	obj, ok := group.GetForOutput(packageName, relativeName)

	return obj, ok, nil
}

// splitModulePrefix splits a module name off a qualified name of the
// form "module/com.example.Unit". A prefix only counts as a module name
// if it contains no package separator while the remainder does.
func splitModulePrefix(qualifiedName string) (string, string, bool) {
	prefix, rest, found := strings.Cut(qualifiedName, "/")
	if !found || prefix == "" || strings.Contains(prefix, ".") || !strings.Contains(rest, ".") {
		return "", qualifiedName, false
	}

	return prefix, rest, true
}

// routeOutput resolves module-qualified write targets: a recognized
// module prefix routes into that module's nested group, everything else
// into the loose payload of the output location.
func (m *Manager) routeOutput(loc Location, qualifiedName string) (Location, string) {
	if _, ok := loc.(ModuleLocation); ok {
		return loc, qualifiedName
	}

	prefix, rest, found := splitModulePrefix(qualifiedName)
	if !found {
		// A write can still target an already registered module, for
		// example "mod/Unit" for a unit in the default package.
		before, after, cut := strings.Cut(qualifiedName, "/")
		if !cut {
			return loc, qualifiedName
		}

		group, ok := m.repo.group(loc)
		if !ok {
			return loc, qualifiedName
		}

		if _, ok := group.module(before); !ok {
			return loc, qualifiedName
		}

		prefix, rest = before, after
	}

	moduleLoc, err := NewModuleLocation(loc, prefix)
	if err != nil {
		return loc, qualifiedName
	}

	return moduleLoc, rest
}

// GetUnitForOutput returns a writable handle for the qualified name in
// the location. Module-qualified names route into the module's nested
// group, never the loose payload.
func (m *Manager) GetUnitForOutput(loc Location, qualifiedName string, kind Kind) (*FileObject, bool, error) {
	if err := m.checkOpen(); err != nil {
		return nil, false, err
	}

	if !loc.IsOutput() {
		return nil, false, fmt.Errorf(
			"write below %s: %w: not an output location",
			loc.Name(), ErrWrongLocationKind,
		)
	}

	target, rest := m.routeOutput(loc, qualifiedName)

	group, err := m.outputGroup(target)
	if err != nil {
		return nil, false, err
	}

	obj, ok := group.GetUnitForOutput(rest, kind)

	return obj, ok, nil
}

// GetUnitBytes resolves the raw bytes of the compiled unit through the
// location's unit loader.
func (m *Manager) GetUnitBytes(loc Location, qualifiedName string) ([]byte, error) {
	loader, err := m.Loader(loc)
	if err != nil {
		return nil, err
	}

	return loader.Load(qualifiedName)
}

// InferQualifiedName derives the qualified name of the handle via the
// container owning it.
func (m *Manager) InferQualifiedName(loc Location, obj *FileObject) (string, bool) {
	group, ok := m.repo.group(loc)
	if !ok {
		return "", false
	}

	return group.InferQualifiedName(obj)
}

// Contains reports whether any container below the location holds the
// file.
func (m *Manager) Contains(loc Location, obj *FileObject) bool {
	group, ok := m.repo.group(loc)
	if !ok {
		return false
	}

	return group.Contains(obj)
}

// LocationForModule returns the location of the named module below a
// module-oriented or output location. It does not register the module.
func (m *Manager) LocationForModule(parent Location, module string) (ModuleLocation, error) {
	return NewModuleLocation(parent, module)
}

// ListLocationsForModules returns the module locations registered below
// the given location: exactly the modules that received a write or an
// explicit ensure-empty call.
func (m *Manager) ListLocationsForModules(loc Location) ([]ModuleLocation, error) {
	if err := m.checkOpen(); err != nil {
		return nil, err
	}

	return m.repo.ListLocationsForModules(loc)
}

// Loader returns the unit loader for the location. An unregistered
// location yields an empty loader that resolves nothing.
func (m *Manager) Loader(loc Location) (*Loader, error) {
	if err := m.checkOpen(); err != nil {
		return nil, err
	}

	group, ok := m.repo.group(loc)
	if !ok {
		return newLoader(loc, nil), nil
	}

	return group.Loader(), nil
}

// SameFile reports whether both handles resolve to the same canonical
// URI.
func (m *Manager) SameFile(a, b *FileObject) bool {
	return SameFile(a, b)
}

// HandlesOption reports whether the manager consumes the given compiler
// option. Flag parsing is the driver's responsibility, so the manager
// claims none.
func (m *Manager) HandlesOption(string) bool { return false }

// Flush writes back any buffered state. All backends write through, so
// there is nothing to do; flushing a closed manager is a no-op.
func (m *Manager) Flush() error { return nil }

// Close closes the repository and every group and container below it.
// All containers are attempted; failures are joined into one error. A
// second call is a no-op.
func (m *Manager) Close() error {
	m.mu.Lock()

	if m.closed {
		m.mu.Unlock()
		return nil
	}

	m.closed = true
	m.mu.Unlock()

	return m.repo.Close()
}
