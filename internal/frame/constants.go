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

// Package frame provides frame construction, validation and protocol
// constants for Camera485 communication
package frame

// Frame start marker bytes - every message in either direction begins with these
const (
	Marker0 = 0x90
	Marker1 = 0xEB
)

// Bus addresses
const (
	BroadcastLow   = 0x00 // Reserved broadcast address
	BroadcastHigh  = 0xFF // Reserved broadcast address
	DefaultAddress = 0x01 // Factory default camera address
)

// Frame size limits
const (
	HeaderLength   = 6      // marker(2) + address + opcode + payload length(2)
	TrailerLength  = 2      // big-endian CRC-16
	MinFrameLength = 8      // header + trailer, empty payload
	MaxDataLength  = 0xFFFF // payload length field is 16 bits
)
