// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package filemanager

import "fmt"

// Location identifies a compilation role that containers are mounted
// for, like a source path or a class output.
//
// A location is package-oriented if it is neither an output nor
// module-oriented. Values returned by the constructors are comparable
// and can be used as map keys.
type Location interface {
	// Name returns the unique name of the location.
	Name() string
	// IsOutput reports whether files can be written below the location.
	IsOutput() bool
	// IsModuleOriented reports whether the location hosts per-module
	// container groups instead of a single package namespace.
	IsModuleOriented() bool
}

type location struct {
	name           string
	output         bool
	moduleOriented bool
}

func (l location) Name() string           { return l.name }
func (l location) IsOutput() bool         { return l.output }
func (l location) IsModuleOriented() bool { return l.moduleOriented }
func (l location) String() string         { return l.name }

// NewLocation creates a package-oriented location.
func NewLocation(name string) Location {
	return location{name: name}
}

// NewOutputLocation creates an output location. Output locations may
// additionally host nested per-module groups.
func NewOutputLocation(name string) Location {
	return location{name: name, output: true}
}

// NewModuleOrientedLocation creates a module-oriented location.
func NewModuleOrientedLocation(name string) Location {
	return location{name: name, moduleOriented: true}
}

// The standard locations of the compiler file-manager contract.
var (
	SourcePath              = NewLocation("SOURCE_PATH")
	ClassPath               = NewLocation("CLASS_PATH")
	PlatformClassPath       = NewLocation("PLATFORM_CLASS_PATH")
	AnnotationProcessorPath = NewLocation("ANNOTATION_PROCESSOR_PATH")

	ClassOutput        = NewOutputLocation("CLASS_OUTPUT")
	SourceOutput       = NewOutputLocation("SOURCE_OUTPUT")
	NativeHeaderOutput = NewOutputLocation("NATIVE_HEADER_OUTPUT")

	ModuleSourcePath  = NewModuleOrientedLocation("MODULE_SOURCE_PATH")
	ModulePath        = NewModuleOrientedLocation("MODULE_PATH")
	UpgradeModulePath = NewModuleOrientedLocation("UPGRADE_MODULE_PATH")
	PatchModulePath   = NewModuleOrientedLocation("PATCH_MODULE_PATH")
)

// ModuleLocation scopes a module-oriented or output location to one
// named module. It is a distinct repository key and is itself neither
// package- nor module-oriented; IsOutput delegates to the parent so
// writes route into module output groups.
//
// ModuleLocation values are immutable and compare structurally on
// (parent, module).
type ModuleLocation struct {
	parent Location
	module string
}

// NewModuleLocation creates the location for the named module below
// parent. The parent must be module-oriented or an output location.
func NewModuleLocation(parent Location, module string) (ModuleLocation, error) {
	if !parent.IsModuleOriented() && !parent.IsOutput() {
		return ModuleLocation{}, fmt.Errorf(
			"module location below %s: %w", parent.Name(), ErrWrongLocationKind,
		)
	}

	if module == "" {
		return ModuleLocation{}, fmt.Errorf(
			"module location below %s: %w: empty module name",
			parent.Name(), ErrInvalidArgument,
		)
	}

	return ModuleLocation{parent: parent, module: module}, nil
}

// Parent returns the location the module is nested below.
func (m ModuleLocation) Parent() Location { return m.parent }

// Module returns the module name.
func (m ModuleLocation) Module() string { return m.module }

func (m ModuleLocation) Name() string {
	return m.parent.Name() + "[" + m.module + "]"
}

func (m ModuleLocation) IsOutput() bool         { return m.parent.IsOutput() }
func (m ModuleLocation) IsModuleOriented() bool { return false }
func (m ModuleLocation) String() string         { return m.Name() }
