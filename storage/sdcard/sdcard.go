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

// Package sdcard provides the filesystem-backed storage for captured
// images, rooted at a removable card's mount point.
package sdcard

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Store implements camera485.Storage on a local filesystem subtree.
// All paths handed to Store are volume-relative; they are resolved
// against the mount point.
type Store struct {
	mount string
}

// New creates a store rooted at the given mount point
func New(mount string) *Store {
	return &Store{mount: mount}
}

// Mount returns the store's mount point
func (s *Store) Mount() string {
	return s.mount
}

// resolve maps a volume-relative path onto the host filesystem
func (s *Store) resolve(path string) string {
	return filepath.Join(s.mount, filepath.FromSlash(path))
}

// MkdirAll creates a directory, including missing parents
func (s *Store) MkdirAll(path string) error {
	if err := os.MkdirAll(s.resolve(path), 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", path, err)
	}
	return nil
}

// Create creates or truncates a file for writing
func (s *Store) Create(path string) (io.WriteCloser, error) {
	f, err := os.Create(s.resolve(path))
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	return f, nil
}

// Open opens a file for reading
func (s *Store) Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(s.resolve(path))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, nil
}

// Rename moves a file within the volume
func (s *Store) Rename(oldPath, newPath string) error {
	if err := os.Rename(s.resolve(oldPath), s.resolve(newPath)); err != nil {
		return fmt.Errorf("rename %s: %w", oldPath, err)
	}
	return nil
}

// Copy duplicates a file within the volume
func (s *Store) Copy(src, dst string) error {
	in, err := os.Open(s.resolve(src))
	if err != nil {
		return fmt.Errorf("copy %s: %w", src, err)
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(s.resolve(dst))
	if err != nil {
		return fmt.Errorf("copy to %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("copy %s to %s: %w", src, dst, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("copy to %s: %w", dst, err)
	}
	return nil
}

// Remove deletes a file
func (s *Store) Remove(path string) error {
	if err := os.Remove(s.resolve(path)); err != nil {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	return nil
}
