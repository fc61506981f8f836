// go-camera485
// Copyright (c) 2026 The OpenHydromet Project Contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later
//
// This file is part of go-camera485.
//
// go-camera485 is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 3 of the License, or (at your option) any later version.
//
// go-camera485 is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with go-camera485; if not, write to the Free Software Foundation,
// Inc., 51 Franklin Street, Fifth Floor, Boston, MA  02110-1301, USA.

//go:build unix

package sdcard

import (
	"fmt"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// IsMounted reports whether the mount point has a filesystem on it,
// using the classic device/inode comparison with its parent directory.
func (s *Store) IsMounted() bool {
	var st, parent unix.Stat_t
	if err := unix.Stat(s.mount, &st); err != nil {
		return false
	}
	if err := unix.Stat(filepath.Dir(s.mount), &parent); err != nil {
		return false
	}
	// A different device means a mount boundary; the same inode means
	// the mount point is its own parent (the root).
	return st.Dev != parent.Dev || st.Ino == parent.Ino
}

// FreeSpaceMB returns the free space on the volume in megabytes,
// counting only blocks available to unprivileged writers.
func (s *Store) FreeSpaceMB() (float64, error) {
	var fs unix.Statfs_t
	if err := unix.Statfs(s.mount, &fs); err != nil {
		return 0, fmt.Errorf("statfs %s: %w", s.mount, err)
	}
	return float64(fs.Bavail) * float64(fs.Bsize) / (1024 * 1024), nil
}
