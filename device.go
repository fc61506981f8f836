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
	"errors"
	"fmt"
	"time"

	"github.com/openhydromet/go-camera485/internal/frame"
)

// Default protocol tuning. These match the values the camera family was
// qualified with; all are adjustable through options.
const (
	// DefaultAddress is the factory address of the camera on the bus
	DefaultAddress byte = frame.DefaultAddress
	// DefaultChunkSize is how much image data to request per chunk
	DefaultChunkSize = 8192
	// DefaultTries is how many times to attempt a command before failing.
	// If one retry doesn't work, the camera probably needs a power cycle.
	DefaultTries = 2
	// DefaultTimeout is how long to wait for a reply to a command
	DefaultTimeout = 8 * time.Second
)

// readyProbeTimeout bounds each individual readiness probe while the
// camera is booting.
const readyProbeTimeout = 250 * time.Millisecond

// purgeQuiet is the quiet period used to drain stale bus input before a
// command attempt.
const purgeQuiet = 10 * time.Millisecond

// Device represents one Camera485 on the shared bus.
//
// Thread Safety: Device is NOT thread-safe. The bus is half-duplex with
// no per-session addressing beyond the camera's fixed address, so at
// most one exchange may be in flight at a time. Run at most one capture
// session against a given bus.
type Device struct {
	transport Transport
	stats     *Statistics
	clock     Clock
	timeout   time.Duration
	chunkSize int
	tries     int
	address   byte
}

// New creates a device for the camera at the default bus address behind
// the given transport
func New(transport Transport, opts ...Option) (*Device, error) {
	if transport == nil {
		return nil, fmt.Errorf("%w: nil transport", ErrInvalidParameter)
	}
	device := &Device{
		transport: transport,
		stats:     &Statistics{},
		clock:     realClock{},
		timeout:   DefaultTimeout,
		chunkSize: DefaultChunkSize,
		tries:     DefaultTries,
		address:   DefaultAddress,
	}

	for _, opt := range opts {
		if err := opt(device); err != nil {
			return nil, err
		}
	}

	if err := device.transport.SetTimeout(device.timeout); err != nil {
		return nil, fmt.Errorf("failed to set timeout on transport: %w", err)
	}
	return device, nil
}

// Transport returns the underlying transport
func (d *Device) Transport() Transport {
	return d.transport
}

// Address returns the camera's bus address
func (d *Device) Address() byte {
	return d.address
}

// ChunkSize returns the negotiated maximum chunk size for image downloads
func (d *Device) ChunkSize() int {
	return d.chunkSize
}

// Statistics returns the counters this device reports into
func (d *Device) Statistics() *Statistics {
	return d.stats
}

// SetTimeout sets the default reply timeout for commands
func (d *Device) SetTimeout(timeout time.Duration) error {
	if timeout <= 0 {
		return fmt.Errorf("%w: non-positive timeout", ErrInvalidParameter)
	}
	d.timeout = timeout
	if err := d.transport.SetTimeout(timeout); err != nil {
		return fmt.Errorf("failed to set timeout on transport: %w", err)
	}
	return nil
}

// Close closes the device's transport
func (d *Device) Close() error {
	if d.transport == nil {
		return nil
	}
	if err := d.transport.Close(); err != nil {
		return fmt.Errorf("failed to close transport: %w", err)
	}
	return nil
}

// validAddress reports whether addr is a usable unicast camera address
func validAddress(addr byte) bool {
	return addr != frame.BroadcastLow && addr != frame.BroadcastHigh
}

var errBroadcastAddress = errors.New("addresses 0 and 255 are reserved for broadcast")
