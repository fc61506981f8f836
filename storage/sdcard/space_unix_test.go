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
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsMounted(t *testing.T) {
	t.Parallel()

	// The filesystem root is always a mount point
	assert.True(t, New("/").IsMounted())

	// A plain subdirectory is not
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	store := New(sub)
	assert.False(t, store.IsMounted(), "missing directory is not a mount")

	require.NoError(t, New(dir).MkdirAll("sub"))
	assert.False(t, store.IsMounted(), "ordinary directory is not a mount")
}

func TestFreeSpaceMB(t *testing.T) {
	t.Parallel()

	free, err := New(t.TempDir()).FreeSpaceMB()
	require.NoError(t, err)
	assert.Positive(t, free)
}
