// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package vfs

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/afero/tarfs"
	"github.com/spf13/afero/zipfs"
)

// ErrUnknownFormat is returned if a file is not a supported archive.
var ErrUnknownFormat = errors.New("unknown archive format")

// Magic bytes identifying the supported formats. Tar has its magic at
// offset 257, all others at the start of the file.
var (
	magicZip      = []byte("PK\x03\x04")
	magicCpioNewc = []byte("070701")
	magicCpioCrc  = []byte("070702")
	magicCpioOdc  = []byte("070707")
	magicTar      = []byte("ustar")
)

const tarMagicOffset = 257

// Format identifies the archive codec of a mounted file.
type Format int

const (
	FormatUnknown Format = iota
	FormatZip
	FormatTar
	FormatCpio
)

// String returns a human readable name of the format.
func (f Format) String() string {
	switch f {
	case FormatZip:
		return "zip"
	case FormatTar:
		return "tar"
	case FormatCpio:
		return "cpio"
	default:
		return "unknown"
	}
}

// DetectFormat determines the archive format for the given file name and
// leading bytes. The extension takes precedence over the magic bytes.
func DetectFormat(path string, header []byte) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".zip", ".jar":
		return FormatZip, nil
	case ".tar":
		return FormatTar, nil
	case ".cpio":
		return FormatCpio, nil
	}

	switch {
	case bytes.HasPrefix(header, magicZip):
		return FormatZip, nil
	case bytes.HasPrefix(header, magicCpioNewc),
		bytes.HasPrefix(header, magicCpioCrc),
		bytes.HasPrefix(header, magicCpioOdc):
		return FormatCpio, nil
	case len(header) > tarMagicOffset+len(magicTar) &&
		bytes.Equal(header[tarMagicOffset:tarMagicOffset+len(magicTar)], magicTar):
		return FormatTar, nil
	}

	return FormatUnknown, fmt.Errorf("%s: %w", path, ErrUnknownFormat)
}

// Open opens the archive file at path and returns a read-only filesystem
// view of its entries along with a closer releasing the underlying file
// handle.
//
// Most callers should use [Mount] instead, which shares views between
// users of the same archive.
func Open(path string) (afero.Fs, io.Closer, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open archive: %w", err)
	}

	header := make([]byte, 512)

	n, err := io.ReadFull(file, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		_ = file.Close()
		return nil, nil, fmt.Errorf("read archive header: %w", err)
	}

	format, err := DetectFormat(path, header[:n])
	if err != nil {
		_ = file.Close()
		return nil, nil, err
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		_ = file.Close()
		return nil, nil, fmt.Errorf("rewind archive: %w", err)
	}

	switch format {
	case FormatZip:
		info, err := file.Stat()
		if err != nil {
			_ = file.Close()
			return nil, nil, fmt.Errorf("stat archive: %w", err)
		}

		reader, err := zip.NewReader(file, info.Size())
		if err != nil {
			_ = file.Close()
			return nil, nil, fmt.Errorf("read zip archive %s: %w", path, err)
		}

		// The zip view reads entries on demand, so the file handle must
		// stay open until the view is released.
		return afero.NewReadOnlyFs(zipfs.New(reader)), file, nil
	case FormatTar:
		// Tar views buffer all entries, so the file can be closed right
		// away.
		fsys := tarfs.New(tar.NewReader(file))
		_ = file.Close()

		return afero.NewReadOnlyFs(fsys), nopCloser{}, nil
	case FormatCpio:
		fsys, err := readCpio(file)
		_ = file.Close()

		if err != nil {
			return nil, nil, fmt.Errorf("read cpio archive %s: %w", path, err)
		}

		return fsys, nopCloser{}, nil
	default:
		_ = file.Close()
		return nil, nil, fmt.Errorf("%s: %w", path, ErrUnknownFormat)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
