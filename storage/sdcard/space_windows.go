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

//go:build windows

package sdcard

import (
	"fmt"
	"os"

	"golang.org/x/sys/windows"
)

// IsMounted reports whether the drive's root directory is reachable.
// Windows exposes removable cards as drive letters, so presence of the
// directory is the usable signal.
func (s *Store) IsMounted() bool {
	info, err := os.Stat(s.mount)
	return err == nil && info.IsDir()
}

// FreeSpaceMB returns the free space on the volume in megabytes
func (s *Store) FreeSpaceMB() (float64, error) {
	path, err := windows.UTF16PtrFromString(s.mount)
	if err != nil {
		return 0, fmt.Errorf("statfs %s: %w", s.mount, err)
	}
	var freeBytesAvailable, totalBytes, totalFreeBytes uint64
	if err := windows.GetDiskFreeSpaceEx(path, &freeBytesAvailable, &totalBytes, &totalFreeBytes); err != nil {
		return 0, fmt.Errorf("statfs %s: %w", s.mount, err)
	}
	return float64(freeBytesAvailable) / (1024 * 1024), nil
}
