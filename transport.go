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

import "time"

// Transport defines the interface for communication with a Camera485 on
// the shared half-duplex bus. The standard implementation is the RS-485
// serial backend in transport/uart; tests use a scripted camera.
type Transport interface {
	// Exchange discards any pending input, writes a complete request
	// frame and reads the reply. When expectedLen is positive exactly
	// that many bytes are read. When it is zero or negative the reply
	// length is unknown: a 6-byte header is read first and, if it
	// carries the start marker and echoes the request opcode, the
	// declared payload plus CRC is read after it. A short read or
	// timeout returns an error.
	Exchange(req []byte, expectedLen int) ([]byte, error)

	// Purge drains and discards bytes currently arriving by shortening
	// the read timeout to quiet and reading until a read yields
	// nothing. The configured timeout is restored on all exit paths.
	Purge(quiet time.Duration) error

	// SetTimeout sets the read timeout for the transport
	SetTimeout(timeout time.Duration) error

	// Close closes the transport connection
	Close() error

	// IsConnected returns true if the transport is connected
	IsConnected() bool

	// Type returns the transport type
	Type() TransportType
}

// TransportType represents the type of transport
type TransportType string

const (
	// TransportUART represents the RS-485/serial transport.
	TransportUART TransportType = "uart"
	// TransportMock represents a mock transport for testing
	TransportMock TransportType = "mock"
)
