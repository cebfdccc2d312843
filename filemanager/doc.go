// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package filemanager implements a virtual file manager for compiler
// test harnesses.
//
// Test code stages compilation inputs into containers, one per mounted
// root: a live directory subtree, a read-only archive view, or an
// ephemeral in-memory tree. Containers are aggregated into ordered
// groups per [Location], with first-match-wins lookup and union listing.
// The [Manager] exposes the pluggable file-manager contract the compiler
// driver queries during a run; afterwards, tests traverse the
// [Repository] read-only to inspect produced outputs.
package filemanager
