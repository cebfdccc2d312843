// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package filemanager

import (
	"fmt"
	"sync/atomic"

	"github.com/spf13/afero"
)

var memContainerID atomic.Uint64

// NewMemoryContainer creates an ephemeral, always writable in-memory
// root. The root stays alive until the container is closed by its
// owning group; nothing is ever written to the host filesystem.
func NewMemoryContainer(loc Location, name string) *Container {
	id := memContainerID.Add(1)

	return &Container{
		kind:     ContainerInMemory,
		location: loc,
		name:     name,
		rootURI:  fmt.Sprintf("mem://%s-%d", name, id),
		fsys:     afero.NewMemMapFs(),
		writable: true,
	}
}
