// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package filemanager

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"sync"
)

// GroupKind describes the payload shape of a container group.
type GroupKind int

const (
	// GroupPackage holds an ordered container list forming one package
	// namespace. Nested per-module groups are of this kind, too.
	GroupPackage GroupKind = iota
	// GroupModule holds only nested per-module groups.
	GroupModule
	// GroupOutput holds a loose container list and nested per-module
	// groups at the same time.
	GroupOutput
)

// String returns a human readable name of the group kind.
func (k GroupKind) String() string {
	switch k {
	case GroupModule:
		return "module"
	case GroupOutput:
		return "output"
	default:
		return "package"
	}
}

// Group aggregates the containers mounted for one location into a
// single namespace.
//
// Containers keep their insertion order; single-target lookups return
// the first match in that order while listings merge all containers'
// results. Mutation and lookup may not overlap, matching the
// single-writer model of a compilation run; lookups from multiple
// goroutines during a stable period are safe.
type Group struct {
	mu         sync.RWMutex
	location   Location
	kind       GroupKind
	containers []*Container
	modules    map[string]*Group
	gen        uint64
	loader     *Loader
	loaderGen  uint64
}

func newGroup(loc Location) *Group {
	kind := GroupPackage

	switch {
	case loc.IsOutput():
		kind = GroupOutput
	case loc.IsModuleOriented():
		kind = GroupModule
	}

	group := &Group{location: loc, kind: kind}
	if kind != GroupPackage {
		group.modules = make(map[string]*Group)
	}

	return group
}

// Nested per-module groups behave like package groups regardless of the
// parent's flags and never nest further.
func newModuleGroup(loc ModuleLocation) *Group {
	return &Group{location: loc, kind: GroupPackage}
}

// Location returns the location the group answers queries for.
func (g *Group) Location() Location { return g.location }

// Kind returns the payload shape of the group.
func (g *Group) Kind() GroupKind { return g.kind }

// AddContainer appends the container to the end of the lookup order and
// invalidates the memoized unit loader.
func (g *Group) AddContainer(c *Container) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.containers = append(g.containers, c)
	g.gen++
}

// ensureWritable provisions an in-memory root if no container of the
// group accepts writes.
func (g *Group) ensureWritable() {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, c := range g.containers {
		if c.writable {
			return
		}
	}

	name := strings.ToLower(g.location.Name())
	g.containers = append(g.containers, NewMemoryContainer(g.location, name))
	g.gen++
}

// IsEmpty reports whether the group holds no containers and no
// non-empty module groups.
func (g *Group) IsEmpty() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if len(g.containers) != 0 {
		return false
	}

	for _, module := range g.modules {
		if !module.IsEmpty() {
			return false
		}
	}

	return true
}

// Containers returns the containers in lookup order.
func (g *Group) Containers() []*Container {
	return g.snapshot()
}

func (g *Group) snapshot() []*Container {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return slices.Clone(g.containers)
}

// module returns the nested group for the named module, if present.
func (g *Group) module(name string) (*Group, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	m, ok := g.modules[name]

	return m, ok
}

func (g *Group) getOrCreateModule(loc ModuleLocation) *Group {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.modules == nil {
		g.modules = make(map[string]*Group)
	}

	module, ok := g.modules[loc.Module()]
	if !ok {
		module = newModuleGroup(loc)
		g.modules[loc.Module()] = module
	}

	return module
}

// ModuleNames returns the names of all registered modules, sorted.
func (g *Group) ModuleNames() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return slices.Sorted(maps.Keys(g.modules))
}

// List merges every container's matches for the package. Duplicates
// across containers are preserved; callers deduplicate if needed.
func (g *Group) List(packageName string, kinds KindSet, recurse bool) ([]*FileObject, error) {
	var objs []*FileObject

	for _, c := range g.snapshot() {
		part, err := c.List(packageName, kinds, recurse)
		if err != nil {
			return nil, fmt.Errorf("list below %s: %w", g.location.Name(), err)
		}

		objs = append(objs, part...)
	}

	return objs, nil
}

// GetForInput returns the first container's match in insertion order.
func (g *Group) GetForInput(packageName, relativeName string) (*FileObject, bool) {
	for _, c := range g.snapshot() {
		if obj, ok := c.GetForInput(packageName, relativeName); ok {
			return obj, true
		}
	}

	return nil, false
}

// GetUnitForInput returns the first container's match in insertion
// order.
func (g *Group) GetUnitForInput(qualifiedName string, kind Kind) (*FileObject, bool) {
	for _, c := range g.snapshot() {
		if obj, ok := c.GetUnitForInput(qualifiedName, kind); ok {
			return obj, true
		}
	}

	return nil, false
}

// GetForOutput returns a writable handle from the first container that
// accepts writes.
func (g *Group) GetForOutput(packageName, relativeName string) (*FileObject, bool) {
	for _, c := range g.snapshot() {
		if obj, ok := c.GetForOutput(packageName, relativeName); ok {
			return obj, true
		}
	}

	return nil, false
}

// GetUnitForOutput returns a writable handle from the first container
// that accepts writes.
func (g *Group) GetUnitForOutput(qualifiedName string, kind Kind) (*FileObject, bool) {
	for _, c := range g.snapshot() {
		if obj, ok := c.GetUnitForOutput(qualifiedName, kind); ok {
			return obj, true
		}
	}

	return nil, false
}

// FindFile returns the first container's match for the root-relative
// path.
func (g *Group) FindFile(relPath string) (*FileObject, bool) {
	for _, c := range g.snapshot() {
		if obj, ok := c.FindFile(relPath); ok {
			return obj, true
		}
	}

	return nil, false
}

// Contains reports whether any container of the group holds the file.
func (g *Group) Contains(obj *FileObject) bool {
	for _, c := range g.snapshot() {
		if c.Contains(obj) {
			return true
		}
	}

	return false
}

// InferQualifiedName derives the qualified name via the container owning
// the handle.
func (g *Group) InferQualifiedName(obj *FileObject) (string, bool) {
	for _, c := range g.snapshot() {
		if name, ok := c.InferQualifiedName(obj); ok {
			return name, ok
		}
	}

	return "", false
}

// Loader returns the unit loader for the group's current container
// list. The loader is memoized; any container mutation invalidates it
// and the next call rebuilds it from the then-current list.
func (g *Group) Loader() *Loader {
	g.mu.RLock()
	if g.loader != nil && g.loaderGen == g.gen {
		loader := g.loader
		g.mu.RUnlock()

		return loader
	}
	g.mu.RUnlock()

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.loader == nil || g.loaderGen != g.gen {
		g.loader = newLoader(g.location, slices.Clone(g.containers))
		g.loaderGen = g.gen

		slog.Debug("built unit loader",
			"location", g.location.Name(),
			"containers", len(g.containers),
		)
	}

	return g.loader
}

// Close closes every container in insertion order, then every module
// group. All closes are attempted; if any fail, all failures are joined
// into one error.
func (g *Group) Close() error {
	g.mu.Lock()
	containers := g.containers
	modules := g.modules
	g.containers = nil
	g.modules = nil
	g.loader = nil
	g.gen++
	g.mu.Unlock()

	var errs []error

	for _, c := range containers {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close container %s: %w", c.Name(), err))
		}
	}

	for _, name := range slices.Sorted(maps.Keys(modules)) {
		if err := modules[name].Close(); err != nil {
			errs = append(errs, fmt.Errorf("close module %s: %w", name, err))
		}
	}

	if len(errs) != 0 {
		return fmt.Errorf("close location %s: %w", g.location.Name(), errors.Join(errs...))
	}

	return nil
}
