// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package filemanager

import (
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/spf13/afero"
)

const (
	dirMode  = 0o755
	fileMode = 0o644
)

// FileObject is a handle to one file below a container root.
//
// Handles compare by their canonical [FileObject.URI], not by path
// string; see [SameFile].
type FileObject struct {
	fsys     afero.Fs
	rootURI  string
	relPath  string
	location Location
}

func newFileObject(fsys afero.Fs, rootURI, relPath string, loc Location) *FileObject {
	return &FileObject{
		fsys:     fsys,
		rootURI:  rootURI,
		relPath:  strings.TrimPrefix(path.Clean(relPath), "/"),
		location: loc,
	}
}

// Name returns the path relative to the container root.
func (o *FileObject) Name() string { return o.relPath }

// URI returns the canonical identity of the file.
func (o *FileObject) URI() string { return o.rootURI + "/" + o.relPath }

// Kind returns the kind derived from the file name extension.
func (o *FileObject) Kind() Kind { return KindOf(o.relPath) }

// Location returns the location the owning container is mounted for.
func (o *FileObject) Location() Location { return o.location }

func (o *FileObject) String() string { return o.URI() }

// backendPath returns the path used on the backing filesystem. All
// backends accept rooted slash-separated paths.
func (o *FileObject) backendPath() string { return "/" + o.relPath }

// Open opens the file for reading.
func (o *FileObject) Open() (io.ReadCloser, error) {
	file, err := o.fsys.Open(o.backendPath())
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", o.URI(), err)
	}

	return file, nil
}

// ReadAll reads the complete file content.
func (o *FileObject) ReadAll() ([]byte, error) {
	data, err := afero.ReadFile(o.fsys, o.backendPath())
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", o.URI(), err)
	}

	return data, nil
}

// Create opens the file for writing, creating missing parent
// directories. Existing content is truncated.
func (o *FileObject) Create() (io.WriteCloser, error) {
	if dir := path.Dir(o.backendPath()); dir != "/" {
		if err := o.fsys.MkdirAll(dir, dirMode); err != nil {
			return nil, fmt.Errorf("create %s: %w", o.URI(), err)
		}
	}

	file, err := o.fsys.Create(o.backendPath())
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", o.URI(), err)
	}

	return file, nil
}

// WriteAll replaces the file content with data.
func (o *FileObject) WriteAll(data []byte) error {
	file, err := o.Create()
	if err != nil {
		return err
	}

	if _, err := file.Write(data); err != nil {
		_ = file.Close()
		return fmt.Errorf("write %s: %w", o.URI(), err)
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("write %s: %w", o.URI(), err)
	}

	return nil
}

// Exists reports whether the file currently exists.
func (o *FileObject) Exists() bool {
	info, err := o.fsys.Stat(o.backendPath())
	return err == nil && !info.IsDir()
}

// LastModified returns the modification time, or the zero time if it
// cannot be determined.
func (o *FileObject) LastModified() time.Time {
	info, err := o.fsys.Stat(o.backendPath())
	if err != nil {
		return time.Time{}
	}

	return info.ModTime()
}

// SameFile reports whether both handles refer to the same file. Identity
// is the canonical URI, so handles obtained through different lookups
// compare equal if they resolve to the same root and path.
func SameFile(a, b *FileObject) bool {
	return a != nil && b != nil && a.URI() == b.URI()
}
