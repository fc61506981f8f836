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
	"encoding/binary"
	"sync"
	"time"

	"github.com/openhydromet/go-camera485/internal/frame"
)

// VirtualCamera is a scripted Camera485 behind the Transport interface.
// It answers the full command set from an in-memory image and can be
// told to stay silent, report out-of-memory for chosen profiles, fail
// mid-download or corrupt replies, which is how the retry, fallback and
// power-cycle paths are tested.
type VirtualCamera struct {
	// Image is the JPEG the camera pretends to have snapped
	Image []byte
	// OOM lists profiles the camera answers with the out-of-memory sentinel
	OOM map[Profile]bool
	// DeclareLength overrides the declared image length when non-nil
	DeclareLength *int
	// Address is the camera's bus address
	Address byte
	// NotReadyPings is how many pings to ignore before answering, as a
	// booting camera would
	NotReadyPings int
	// Silent drops every request when true
	Silent bool
	// FailChunkAt makes chunk requests at or past this offset time out;
	// negative disables
	FailChunkAt int
	// CorruptNext corrupts the CRC of the next N replies
	CorruptNext int
	// DropPrepare makes the LED, overlay and delay-tune commands time out
	DropPrepare bool

	mu        sync.Mutex
	calls     map[byte]int
	chunkReqs [][2]int
	overlays  []string
	maxChunk  int
	purges    int
	timeout   time.Duration
	closed    bool
}

// NewVirtualCamera creates a virtual camera holding the given image
func NewVirtualCamera(image []byte) *VirtualCamera {
	return &VirtualCamera{
		Image:       image,
		OOM:         make(map[Profile]bool),
		Address:     DefaultAddress,
		FailChunkAt: -1,
		calls:       make(map[byte]int),
	}
}

// Exchange implements Transport by interpreting the request frame
func (c *VirtualCamera) Exchange(req []byte, _ int) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, NewTransportError("exchange", "virtual", ErrTransportRead, ErrorTypePermanent)
	}
	f, err := frame.Decode(req)
	if err != nil {
		// A real camera ignores garbage; the host sees a timeout.
		return nil, NewTimeoutError("exchange", "virtual")
	}
	c.calls[f.Opcode]++

	var payload []byte
	switch f.Opcode {
	case cmdPing:
		if c.Silent || c.NotReadyPings > 0 {
			if c.NotReadyPings > 0 {
				c.NotReadyPings--
			}
			return nil, NewTimeoutError("exchange", "virtual")
		}
		payload = []byte{0x01, 0x00, 0x00}

	case cmdSnapshot:
		if c.Silent {
			return nil, NewTimeoutError("exchange", "virtual")
		}
		c.maxChunk = int(binary.BigEndian.Uint16(f.Payload[0:2]))
		if c.OOM[profileFromWire(f.Payload[2], f.Payload[3])] {
			return append([]byte(nil), oomSentinel...), nil
		}
		length := len(c.Image)
		if c.DeclareLength != nil {
			length = *c.DeclareLength
		}
		payload = make([]byte, 11)
		binary.BigEndian.PutUint32(payload[1:5], uint32(length))

	case cmdReadChunk:
		off := int(binary.BigEndian.Uint32(f.Payload[0:4]))
		n := int(binary.BigEndian.Uint16(f.Payload[4:6]))
		c.chunkReqs = append(c.chunkReqs, [2]int{off, n})
		if c.Silent || (c.FailChunkAt >= 0 && off >= c.FailChunkAt) {
			return nil, NewTimeoutError("exchange", "virtual")
		}
		if off+n > len(c.Image) {
			return nil, NewTimeoutError("exchange", "virtual")
		}
		payload = c.Image[off : off+n]

	case cmdLEDMode, cmdSetOverlay:
		if c.Silent || c.DropPrepare {
			return nil, NewTimeoutError("exchange", "virtual")
		}
		if f.Opcode == cmdSetOverlay {
			c.overlays = append(c.overlays, string(f.Payload[5:]))
		}

	case cmdTuneLEDDelay:
		if c.Silent || c.DropPrepare {
			return nil, NewTimeoutError("exchange", "virtual")
		}
		payload = []byte{0x00, 0x00}

	default:
		return nil, NewTimeoutError("exchange", "virtual")
	}

	raw := frame.Encode(c.Address, f.Opcode, payload)
	if c.CorruptNext > 0 {
		c.CorruptNext--
		raw[len(raw)-1] ^= 0xFF
	}
	return raw, nil
}

// Purge implements Transport
func (c *VirtualCamera) Purge(time.Duration) error {
	c.mu.Lock()
	c.purges++
	c.mu.Unlock()
	return nil
}

// SetTimeout implements Transport
func (c *VirtualCamera) SetTimeout(timeout time.Duration) error {
	c.mu.Lock()
	c.timeout = timeout
	c.mu.Unlock()
	return nil
}

// Close implements Transport
func (c *VirtualCamera) Close() error {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	return nil
}

// IsConnected implements Transport
func (c *VirtualCamera) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.closed
}

// Type implements Transport
func (*VirtualCamera) Type() TransportType {
	return TransportMock
}

// Calls returns how many requests arrived for the given opcode
func (c *VirtualCamera) Calls(opcode byte) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[opcode]
}

// ChunkRequests returns the (offset, length) of every chunk request seen
func (c *VirtualCamera) ChunkRequests() [][2]int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([][2]int(nil), c.chunkReqs...)
}

// Overlays returns the overlay texts the camera was given
func (c *VirtualCamera) Overlays() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.overlays...)
}

// NegotiatedChunkSize returns the max chunk size from the last snapshot
// request
func (c *VirtualCamera) NegotiatedChunkSize() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.maxChunk
}

// profileFromWire maps a wire (resolution code, compression) pair back
// to a Profile
func profileFromWire(code, compression byte) Profile {
	for name, c := range resolutionCodes {
		if c == code {
			return Profile{Resolution: name, Compression: compression}
		}
	}
	return Profile{Compression: compression}
}
