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

package camera485

import "io"

// Storage is the persistent store captured images land on, typically a
// removable card. The capture session only requests operations; the
// store owns the files. The filesystem-backed implementation lives in
// storage/sdcard.
type Storage interface {
	// IsMounted reports whether the storage volume is present
	IsMounted() bool

	// FreeSpaceMB returns the free space on the volume in megabytes
	FreeSpaceMB() (float64, error)

	// MkdirAll creates a directory, including missing parents
	MkdirAll(path string) error

	// Create creates or truncates a file for writing
	Create(path string) (io.WriteCloser, error)

	// Open opens a file for reading
	Open(path string) (io.ReadCloser, error)

	// Rename moves a file within the volume
	Rename(oldPath, newPath string) error

	// Copy duplicates a file within the volume
	Copy(src, dst string) error

	// Remove deletes a file
	Remove(path string) error
}
