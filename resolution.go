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
	"fmt"
	"sort"
)

// resolutionCodes maps resolution names to the numeric codes the
// snapshot command carries on the wire. The table is closed: these are
// the only resolutions the camera firmware accepts.
var resolutionCodes = map[string]byte{
	"640x480":      5,
	"1280x960":     6,
	"800x600":      7,
	"1024x768":     8,
	"1600x1024":    10,
	"1600x1200":    11,
	"1280x720":     15,
	"1920x1080":    16,
	"1280x1024":    17,
	"480x270":      30,
	"640x360":      31,
	"800x450":      32,
	"960x540":      33,
	"1024x576":     34,
	"1280x720_NEW": 35,
	"1366x768":     36,
	"1440x810":     37,
	"1600x900":     38,
}

// MaxCompression is the strongest compression level the camera accepts.
// 0 is the highest quality, larger values are more compressed.
const MaxCompression = 5

// Profile pairs a named resolution with a compression level. A capture
// is configured with a primary profile plus an ordered fallback ladder
// of alternates to try when the camera cannot buffer the image.
type Profile struct {
	Resolution  string
	Compression byte
}

// Valid reports whether the profile names a known resolution and a
// compression level the camera accepts
func (p Profile) Valid() error {
	if _, ok := resolutionCodes[p.Resolution]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownResolution, p.Resolution)
	}
	if p.Compression > MaxCompression {
		return fmt.Errorf("%w: compression %d out of range 0..%d",
			ErrInvalidParameter, p.Compression, MaxCompression)
	}
	return nil
}

// code returns the wire code for the profile's resolution
func (p Profile) code() (byte, error) {
	code, ok := resolutionCodes[p.Resolution]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownResolution, p.Resolution)
	}
	return code, nil
}

// String renders the profile as "resolution/q<level>"
func (p Profile) String() string {
	return fmt.Sprintf("%s/q%d", p.Resolution, p.Compression)
}

// Resolutions returns the names of all resolutions the camera accepts,
// sorted for stable display.
func Resolutions() []string {
	names := make([]string, 0, len(resolutionCodes))
	for name := range resolutionCodes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
