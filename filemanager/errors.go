// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package filemanager

import "errors"

var (
	// ErrWrongLocationKind is returned if a location of the wrong kind
	// is passed to a kind-specific operation.
	ErrWrongLocationKind = errors.New("wrong location kind")

	// ErrInvalidArgument is returned if an invalid argument is given.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotDirectory is returned if a directory container is created
	// from a path that is not a directory.
	ErrNotDirectory = errors.New("not a directory")

	// ErrUnitNotFound is returned if no container of a group holds the
	// requested compiled unit.
	ErrUnitNotFound = errors.New("compiled unit not found")

	// ErrLoadAborted is returned if a compiled unit was found but its
	// bytes could not be read.
	ErrLoadAborted = errors.New("compiled unit load aborted")

	// ErrClosed is returned for operations on a closed manager.
	ErrClosed = errors.New("file manager is closed")
)
