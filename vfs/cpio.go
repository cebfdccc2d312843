// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package vfs

import (
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/cavaliergopher/cpio"
	"github.com/spf13/afero"
)

const (
	dirMode  = 0o755
	fileMode = 0o644
)

// readCpio reads all entries of the cpio image into an in-memory
// filesystem. Directories and regular files are supported; other entry
// types are skipped.
func readCpio(r io.Reader) (afero.Fs, error) {
	fsys := afero.NewMemMapFs()
	reader := cpio.NewReader(r)

	for {
		hdr, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("read entry: %w", err)
		}

		name := path.Clean(strings.TrimPrefix(hdr.Name, "/"))
		if name == "." || name == ".." {
			continue
		}

		info := hdr.FileInfo()

		switch {
		case info.IsDir():
			if err := fsys.MkdirAll("/"+name, dirMode); err != nil {
				return nil, fmt.Errorf("create dir %s: %w", name, err)
			}
		case info.Mode().IsRegular():
			data, err := io.ReadAll(reader)
			if err != nil {
				return nil, fmt.Errorf("read entry %s: %w", name, err)
			}

			if err := afero.WriteFile(fsys, "/"+name, data, fileMode); err != nil {
				return nil, fmt.Errorf("write entry %s: %w", name, err)
			}
		}
	}

	return afero.NewReadOnlyFs(fsys), nil
}
