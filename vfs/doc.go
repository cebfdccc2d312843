// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package vfs provides read-only filesystem views of archive files and a
// process-wide mount table that shares a single view between all users
// of the same archive.
//
// Supported archive formats are zip (including jar files), tar and cpio.
// The format is detected from the file name extension, falling back to
// the magic bytes at the start of the file.
package vfs
