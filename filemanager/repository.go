// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package filemanager

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
)

// Repository maps locations to their container groups. Module locations
// resolve through the nested per-module groups of their parent.
//
// A location can be present but empty: absence means
// [Repository.HasLocation] is false, while a group registered via
// [Repository.EnsureEmptyLocationExists] reports true and lists
// nothing. Some compiler front-ends refuse annotation processing unless
// specific locations are registered even with nothing in them.
type Repository struct {
	mu     sync.RWMutex
	groups map[Location]*Group
	closed bool
}

// NewRepository creates an empty repository.
func NewRepository() *Repository {
	return &Repository{groups: make(map[Location]*Group)}
}

// group returns the group for the location without creating one.
func (r *Repository) group(loc Location) (*Group, bool) {
	if moduleLoc, ok := loc.(ModuleLocation); ok {
		parent, ok := r.group(moduleLoc.Parent())
		if !ok {
			return nil, false
		}

		return parent.module(moduleLoc.Module())
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	group, ok := r.groups[loc]

	return group, ok
}

// Group returns the registered group for the location, if present. It
// never creates a group and is the entry point for read-only traversal
// of produced outputs after a run.
func (r *Repository) Group(loc Location) (*Group, bool) {
	return r.group(loc)
}

// GetOrCreate returns the group for a package-oriented or output
// location, creating an empty group on first access. Module-oriented
// locations have no loose container list; passing one is a
// configuration error. Module locations resolve to their nested group.
func (r *Repository) GetOrCreate(loc Location) (*Group, error) {
	if moduleLoc, ok := loc.(ModuleLocation); ok {
		return r.GetOrCreateModule(moduleLoc.Parent(), moduleLoc.Module())
	}

	if loc.IsModuleOriented() {
		return nil, fmt.Errorf(
			"group for %s: %w: location is module-oriented",
			loc.Name(), ErrWrongLocationKind,
		)
	}

	return r.getOrCreate(loc), nil
}

func (r *Repository) getOrCreate(loc Location) *Group {
	r.mu.Lock()
	defer r.mu.Unlock()

	group, ok := r.groups[loc]
	if !ok {
		group = newGroup(loc)
		r.groups[loc] = group
	}

	return group
}

// GetOrCreateModule returns the nested group for the named module below
// a module-oriented or output location, creating it on first access.
func (r *Repository) GetOrCreateModule(parent Location, module string) (*Group, error) {
	moduleLoc, err := NewModuleLocation(parent, module)
	if err != nil {
		return nil, err
	}

	return r.getOrCreate(parent).getOrCreateModule(moduleLoc), nil
}

// EnsureEmptyLocationExists registers a present-but-empty group for the
// location if none exists. The call is idempotent; a second call leaves
// existing containers untouched.
func (r *Repository) EnsureEmptyLocationExists(loc Location) error {
	if moduleLoc, ok := loc.(ModuleLocation); ok {
		_, err := r.GetOrCreateModule(moduleLoc.Parent(), moduleLoc.Module())
		return err
	}

	r.getOrCreate(loc)

	return nil
}

// HasLocation reports whether a group is registered for the location.
func (r *Repository) HasLocation(loc Location) bool {
	_, ok := r.group(loc)
	return ok
}

// Locations returns all registered plain locations, sorted by name.
func (r *Repository) Locations() []Location {
	r.mu.RLock()
	defer r.mu.RUnlock()

	locs := make([]Location, 0, len(r.groups))
	for loc := range r.groups {
		locs = append(locs, loc)
	}

	slices.SortFunc(locs, func(a, b Location) int {
		return strings.Compare(a.Name(), b.Name())
	})

	return locs
}

// ListLocationsForModules returns the module locations registered below
// a module-oriented or output location, sorted by module name. Exactly
// the modules that received a write or an explicit ensure-empty call
// are reported.
func (r *Repository) ListLocationsForModules(parent Location) ([]ModuleLocation, error) {
	if !parent.IsModuleOriented() && !parent.IsOutput() {
		return nil, fmt.Errorf(
			"list modules below %s: %w", parent.Name(), ErrWrongLocationKind,
		)
	}

	group, ok := r.group(parent)
	if !ok {
		return nil, nil
	}

	names := group.ModuleNames()

	locs := make([]ModuleLocation, 0, len(names))
	for _, name := range names {
		moduleLoc, err := NewModuleLocation(parent, name)
		if err != nil {
			return nil, err
		}

		locs = append(locs, moduleLoc)
	}

	return locs, nil
}

// CopyContainers appends every container below from, including the
// containers of nested per-module groups, to the corresponding groups
// below to. Insertion order is kept and the source is left untouched.
// Both locations must agree on their kind.
func (r *Repository) CopyContainers(from, to Location) error {
	if from.IsOutput() != to.IsOutput() || from.IsModuleOriented() != to.IsModuleOriented() {
		return fmt.Errorf(
			"copy containers from %s to %s: %w",
			from.Name(), to.Name(), ErrWrongLocationKind,
		)
	}

	src, ok := r.group(from)
	if !ok {
		return nil
	}

	dst := r.getOrCreate(to)

	for _, c := range src.snapshot() {
		dst.AddContainer(c)
	}

	for _, name := range src.ModuleNames() {
		srcModule, ok := src.module(name)
		if !ok {
			continue
		}

		moduleLoc, err := NewModuleLocation(to, name)
		if err != nil {
			return err
		}

		dstModule := dst.getOrCreateModule(moduleLoc)
		for _, c := range srcModule.snapshot() {
			dstModule.AddContainer(c)
		}
	}

	return nil
}

// Close closes every group. All groups are attempted even if some fail;
// failures are joined into one error. A second call is a no-op.
//
// Containers shared between groups via [Repository.CopyContainers] are
// released exactly once; their later closes are no-ops.
func (r *Repository) Close() error {
	r.mu.Lock()

	if r.closed {
		r.mu.Unlock()
		return nil
	}

	r.closed = true
	groups := r.groups
	r.groups = make(map[Location]*Group)
	r.mu.Unlock()

	names := make([]Location, 0, len(groups))
	for loc := range groups {
		names = append(names, loc)
	}

	slices.SortFunc(names, func(a, b Location) int {
		return strings.Compare(a.Name(), b.Name())
	})

	var errs []error

	for _, loc := range names {
		if err := groups[loc].Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) != 0 {
		return fmt.Errorf("close repository: %w", errors.Join(errs...))
	}

	return nil
}
