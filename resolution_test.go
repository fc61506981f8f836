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

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileValid(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		profile Profile
		wantErr error
	}{
		{
			name:    "common resolution",
			profile: Profile{Resolution: "1280x720", Compression: 3},
		},
		{
			name:    "best quality",
			profile: Profile{Resolution: "640x480", Compression: 0},
		},
		{
			name:    "strongest compression",
			profile: Profile{Resolution: "1600x900", Compression: MaxCompression},
		},
		{
			name:    "unknown resolution",
			profile: Profile{Resolution: "320x240", Compression: 3},
			wantErr: ErrUnknownResolution,
		},
		{
			name:    "compression out of range",
			profile: Profile{Resolution: "1280x720", Compression: MaxCompression + 1},
			wantErr: ErrInvalidParameter,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.profile.Valid()
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestProfileString(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "1920x1080/q2", Profile{Resolution: "1920x1080", Compression: 2}.String())
}

func TestResolutions(t *testing.T) {
	t.Parallel()

	names := Resolutions()
	assert.Len(t, names, 18)
	assert.True(t, sort.StringsAreSorted(names))
	assert.Contains(t, names, "640x480")
	assert.Contains(t, names, "1920x1080")
}
