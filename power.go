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

// PowerControl switches and samples the camera's switched power line.
// The GPIO-backed implementation lives in power/gpio.
type PowerControl interface {
	// Set turns the power line on or off
	Set(on bool) error

	// Get returns the current state of the power line
	Get() (bool, error)
}

// AlwaysOn is the PowerControl for cameras on permanent power: Set is a
// no-op and Get always reports on.
type AlwaysOn struct{}

// Set implements PowerControl
func (AlwaysOn) Set(bool) error { return nil }

// Get implements PowerControl
func (AlwaysOn) Get() (bool, error) { return true, nil }
