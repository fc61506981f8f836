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
	"time"

	"github.com/openhydromet/go-camera485/internal/frame"
)

// Option is a functional option for configuring a Device
type Option func(*Device) error

// WithAddress sets the camera's address on the shared bus
func WithAddress(addr byte) Option {
	return func(d *Device) error {
		if !validAddress(addr) {
			return fmt.Errorf("%w: %v", ErrInvalidParameter, errBroadcastAddress)
		}
		d.address = addr
		return nil
	}
}

// WithTries sets how many attempts each command makes before failing
func WithTries(tries int) Option {
	return func(d *Device) error {
		if tries < 1 {
			return fmt.Errorf("%w: tries must be at least 1", ErrInvalidParameter)
		}
		d.tries = tries
		return nil
	}
}

// WithChunkSize sets how much image data is requested from the camera at
// a time
func WithChunkSize(size int) Option {
	return func(d *Device) error {
		if size < 1 || size > frame.MaxDataLength {
			return fmt.Errorf("%w: chunk size %d out of range 1..%d",
				ErrInvalidParameter, size, frame.MaxDataLength)
		}
		d.chunkSize = size
		return nil
	}
}

// WithTimeout sets the default reply timeout for commands
func WithTimeout(timeout time.Duration) Option {
	return func(d *Device) error {
		if timeout <= 0 {
			return fmt.Errorf("%w: non-positive timeout", ErrInvalidParameter)
		}
		d.timeout = timeout
		return nil
	}
}

// WithStatistics shares an existing set of counters with the device, so
// several devices or successive processes report into one place.
func WithStatistics(stats *Statistics) Option {
	return func(d *Device) error {
		if stats == nil {
			return fmt.Errorf("%w: nil statistics", ErrInvalidParameter)
		}
		d.stats = stats
		return nil
	}
}

// WithClock replaces the wall clock, used by tests to drive waits
func WithClock(clock Clock) Option {
	return func(d *Device) error {
		if clock == nil {
			return fmt.Errorf("%w: nil clock", ErrInvalidParameter)
		}
		d.clock = clock
		return nil
	}
}
